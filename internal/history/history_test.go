package history

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Dicklesworthstone/procviewer/internal/model"
)

type fakeSource struct {
	cpu, mem float64
	err      error
}

func (f fakeSource) Percentages(context.Context) (float64, float64, error) {
	return f.cpu, f.mem, f.err
}

func TestAppendEvictsOldest(t *testing.T) {
	h := New(5, nil)
	for _, v := range []float64{10, 20, 30, 40, 50, 60} {
		h.Append(model.Sample{CPU: v})
	}
	got := h.CPU()
	want := []float64{20, 30, 40, 50, 60}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CPU()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLengthBoundedForAllCapacities(t *testing.T) {
	for capacity := 1; capacity <= 8; capacity++ {
		for total := 0; total <= 20; total++ {
			h := New(capacity, nil)
			for i := 0; i < total; i++ {
				h.Append(model.Sample{CPU: float64(i)})
			}
			snap := h.Snapshot()
			keep := total
			if keep > capacity {
				keep = capacity
			}
			if len(snap) != keep {
				t.Fatalf("cap=%d total=%d: len = %d, want %d", capacity, total, len(snap), keep)
			}
			for i, s := range snap {
				if want := float64(total - keep + i); s.CPU != want {
					t.Fatalf("cap=%d total=%d: snap[%d] = %v, want %v", capacity, total, i, s.CPU, want)
				}
			}
		}
	}
}

func TestNewRaisesCapacity(t *testing.T) {
	h := New(0, nil)
	if h.Cap() != 1 {
		t.Fatalf("Cap() = %d, want 1", h.Cap())
	}
	h.Append(model.Sample{CPU: 1})
	h.Append(model.Sample{CPU: 2})
	if got := h.CPU(); len(got) != 1 || got[0] != 2 {
		t.Errorf("CPU() = %v, want [2]", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	h := New(3, nil)
	h.Append(model.Sample{CPU: 1})
	snap := h.Snapshot()
	snap[0].CPU = 99
	if h.CPU()[0] != 1 {
		t.Error("mutating snapshot changed history")
	}
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name    string
		src     fakeSource
		ok      bool
		cpu     float64
		mem     float64
		samples int
	}{
		{"normal", fakeSource{cpu: 12.5, mem: 40}, true, 12.5, 40, 1},
		{"clamped", fakeSource{cpu: 130, mem: -3}, true, 100, 0, 1},
		{"error", fakeSource{err: errors.New("boom")}, false, 0, 0, 0},
		{"nan", fakeSource{cpu: math.NaN(), mem: 1}, false, 0, 0, 0},
		{"inf", fakeSource{cpu: 1, mem: math.Inf(1)}, false, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(4, nil)
			if got := h.Update(context.Background(), tt.src); got != tt.ok {
				t.Fatalf("Update() = %v, want %v", got, tt.ok)
			}
			snap := h.Snapshot()
			if len(snap) != tt.samples {
				t.Fatalf("len = %d, want %d", len(snap), tt.samples)
			}
			if tt.samples == 1 && (snap[0].CPU != tt.cpu || snap[0].Memory != tt.mem) {
				t.Errorf("sample = %+v, want cpu=%v mem=%v", snap[0], tt.cpu, tt.mem)
			}
		})
	}
}

// Package history keeps a bounded rolling window of system CPU/memory samples.
package history

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/procviewer/internal/model"
)

// DefaultCapacity is the number of samples kept when the caller does not
// choose one.
const DefaultCapacity = 60

// Source reports instantaneous system-wide CPU and memory percentages.
type Source interface {
	Percentages(ctx context.Context) (cpu, mem float64, err error)
}

// History is a fixed-capacity FIFO of samples backed by a ring.
type History struct {
	mu     sync.RWMutex
	buf    []model.Sample
	start  int
	length int
	logger *zap.Logger
	now    func() time.Time
}

// New returns an empty history holding at most capacity samples. Capacities
// below one are raised to one.
func New(capacity int, logger *zap.Logger) *History {
	if capacity < 1 {
		capacity = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &History{
		buf:    make([]model.Sample, capacity),
		logger: logger,
		now:    time.Now,
	}
}

// Cap returns the fixed capacity.
func (h *History) Cap() int { return len(h.buf) }

// Len returns the number of samples held.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.length
}

// Append records s, evicting the oldest sample when full.
func (h *History) Append(s model.Sample) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.length < len(h.buf) {
		h.buf[(h.start+h.length)%len(h.buf)] = s
		h.length++
		return
	}
	h.buf[h.start] = s
	h.start = (h.start + 1) % len(h.buf)
}

// Snapshot returns a copy of the samples, oldest first.
func (h *History) Snapshot() []model.Sample {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]model.Sample, h.length)
	for i := 0; i < h.length; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}

// CPU returns the CPU series, oldest first.
func (h *History) CPU() []float64 {
	return project(h.Snapshot(), func(s model.Sample) float64 { return s.CPU })
}

// Memory returns the memory series, oldest first.
func (h *History) Memory() []float64 {
	return project(h.Snapshot(), func(s model.Sample) float64 { return s.Memory })
}

// Update takes one reading from src and appends it. It reports false instead
// of failing so the caller can keep drawing stale graphs.
func (h *History) Update(ctx context.Context, src Source) bool {
	cpu, mem, err := src.Percentages(ctx)
	if err != nil {
		h.logger.Warn("metrics sample failed", zap.Error(err))
		return false
	}
	if !finite(cpu) || !finite(mem) {
		h.logger.Warn("metrics sample not finite",
			zap.Float64("cpu", cpu), zap.Float64("mem", mem))
		return false
	}
	h.Append(model.Sample{
		Timestamp: h.now(),
		CPU:       clamp(cpu),
		Memory:    clamp(mem),
	})
	return true
}

func project(samples []model.Sample, f func(model.Sample) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = f(s)
	}
	return out
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

package model

import (
	"encoding/json"
	"testing"
)

func TestSortKeyCycle(t *testing.T) {
	k := SortCPU
	want := []string{"mem", "pid", "name", "cpu"}
	for _, w := range want {
		k = k.Next()
		if k.String() != w {
			t.Fatalf("Next() = %s, want %s", k, w)
		}
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SortKey
		wantErr bool
	}{
		{"cpu", SortCPU, false},
		{" MEM ", SortMemory, false},
		{"memory", SortMemory, false},
		{"pid", SortPID, false},
		{"name", SortName, false},
		{"rss", SortCPU, true},
	}
	for _, tt := range tests {
		got, err := ParseSortKey(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseSortKey(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestStatusJSON(t *testing.T) {
	data, err := json.Marshal(Process{PID: 7, Status: StatusZombie})
	if err != nil {
		t.Fatal(err)
	}
	var p Process
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatal(err)
	}
	if p.Status != StatusZombie {
		t.Errorf("status = %v from %s", p.Status, data)
	}
	if err := json.Unmarshal([]byte(`{"status":"idle"}`), &p); err != nil || p.Status != StatusOther {
		t.Errorf("unknown status = %v, %v", p.Status, err)
	}
}

func TestClearFiltersKeepsSearch(t *testing.T) {
	st := StatusRunning
	floor := 5.0
	user := "root"
	f := FilterSet{Search: "ssh", Status: &st, MinCPU: &floor, MinMemory: &floor, User: &user}
	f.ClearFilters()
	if f.Search != "ssh" || f.Status != nil || f.MinCPU != nil || f.MinMemory != nil || f.User != nil {
		t.Errorf("ClearFilters() = %+v", f)
	}
	if !f.Active() {
		t.Error("search alone should keep the set active")
	}
	f.Search = ""
	if f.Active() {
		t.Error("empty set reported active")
	}
}

package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the normalized run state of a process.
type Status int

const (
	StatusOther Status = iota
	StatusRunning
	StatusSleeping
	StatusStopped
	StatusZombie
)

var statusNames = [...]string{"other", "running", "sleeping", "stopped", "zombie"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "other"
	}
	return statusNames[s]
}

// MarshalText lets JSON output carry the status name. Unknown names read
// back as StatusOther.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	*s, _ = ParseStatus(string(b))
	return nil
}

// ParseStatus maps a status name back to its value. Unknown names map to
// StatusOther with ok=false.
func ParseStatus(name string) (Status, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return StatusOther, false
}

// Process is one entry of a snapshot. Records are rebuilt every cycle; only
// the PID links them across cycles.
type Process struct {
	PID      int32   `json:"pid"`
	Name     string  `json:"name"`
	Status   Status  `json:"status"`
	CPU      float64 `json:"cpu_percent"`
	Memory   float64 `json:"memory_percent"`
	PPID     int32   `json:"ppid"`
	Depth    int     `json:"depth"`
	Children []int32 `json:"children,omitempty"`
}

// Details is the on-demand part of a process record.
type Details struct {
	Process
	Username   string
	Cmdline    string
	CreateTime time.Time
}

// SortKey selects the flat-mode ordering.
type SortKey int

const (
	SortCPU SortKey = iota
	SortMemory
	SortPID
	SortName
)

var sortNames = [...]string{"cpu", "mem", "pid", "name"}

func (k SortKey) String() string {
	if k < 0 || int(k) >= len(sortNames) {
		return "cpu"
	}
	return sortNames[k]
}

// Next cycles cpu -> mem -> pid -> name -> cpu.
func (k SortKey) Next() SortKey { return (k + 1) % SortKey(len(sortNames)) }

// ParseSortKey accepts cpu|mem|pid|name.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range sortNames {
		if n == s {
			return SortKey(i), nil
		}
	}
	if s == "memory" {
		return SortMemory, nil
	}
	return SortCPU, fmt.Errorf("unknown sort key %q", s)
}

// FilterSet is the conjunction of optional narrowing predicates. The zero
// value passes everything.
type FilterSet struct {
	Search    string
	Status    *Status
	MinCPU    *float64
	MinMemory *float64
	User      *string
}

// Active reports whether any field narrows the view.
func (f FilterSet) Active() bool {
	return f.Search != "" || f.Status != nil || f.MinCPU != nil || f.MinMemory != nil || f.User != nil
}

// ClearFilters resets every field except the search term.
func (f *FilterSet) ClearFilters() {
	f.Status = nil
	f.MinCPU = nil
	f.MinMemory = nil
	f.User = nil
}

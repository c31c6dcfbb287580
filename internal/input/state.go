// Package input is the modal keyboard controller of the dashboard.
package input

import "github.com/Dicklesworthstone/procviewer/internal/model"

// Mode is the active input mode. Every switch over Mode in this package is
// exhaustive; adding a mode means updating each of them.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearching
	ModeFilterMenu
	ModeFilterStatus
	ModeFilterCPU
	ModeFilterMemory
	ModeFilterUser
	ModeDetails
	ModeConfirmTerminate
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeSearching:
		return "searching"
	case ModeFilterMenu:
		return "filter_menu"
	case ModeFilterStatus:
		return "filter_status"
	case ModeFilterCPU:
		return "filter_cpu"
	case ModeFilterMemory:
		return "filter_memory"
	case ModeFilterUser:
		return "filter_user"
	case ModeDetails:
		return "details"
	case ModeConfirmTerminate:
		return "confirm_terminate"
	}
	return "unknown"
}

// Size is a terminal size in cells.
type Size struct {
	Rows, Cols int
}

// State is carried from one frame to the next.
type State struct {
	Selected int
	Mode     Mode
	Filters  model.FilterSet
	Sort     model.SortKey
	Tree     bool
	Message  string
	// Entry holds the text typed in filter_cpu/filter_memory, including
	// values that do not parse yet.
	Entry string
	// Target is the pid confirm_terminate acts on, fixed when the dialog
	// opens so a resort cannot change it.
	Target int32
	Size   Size
}

// NewState returns the initial state.
func NewState(sort model.SortKey, tree bool) *State {
	return &State{Sort: sort, Tree: tree}
}

// Clamp keeps Selected inside [0, count-1], or 0 for an empty view.
func (s *State) Clamp(count int) {
	if count <= 0 || s.Selected < 0 {
		s.Selected = 0
		return
	}
	if s.Selected > count-1 {
		s.Selected = count - 1
	}
}

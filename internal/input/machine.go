package input

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/procviewer/internal/model"
)

// KeyType classifies a key event.
type KeyType int

const (
	KeyNone KeyType = iota
	KeyRune
	KeyUp
	KeyDown
	KeyEnter
	KeyEscape
	KeyBackspace
)

// Key is one keyboard event. Rune is set for KeyRune only.
type Key struct {
	Type KeyType
	Rune rune
}

// Rune builds a KeyRune event.
func Rune(r rune) Key { return Key{Type: KeyRune, Rune: r} }

// Terminator delivers the terminate signal and reports a human-readable
// outcome.
type Terminator interface {
	Terminate(ctx context.Context, pid int32) (ok bool, message string)
}

// MsgTargetGone is reported when the confirmed process left the listing
// before the user answered.
const MsgTargetGone = "Process not found"

// Env is the read-only context of one transition.
type Env struct {
	Ctx        context.Context
	Count      int
	Selected   *model.Process
	Terminator Terminator
	// Listed reports whether pid is in the current listing. Nil means
	// every pid is.
	Listed func(pid int32) bool
}

// Outcome tells the loop whether to keep running.
type Outcome int

const (
	Continue Outcome = iota
	Stop
)

var statusKeys = map[rune]model.Status{
	'r': model.StatusRunning,
	's': model.StatusSleeping,
	't': model.StatusStopped,
	'z': model.StatusZombie,
}

// Apply reacts to one key. Stop is only returned from normal mode.
func Apply(s *State, k Key, env Env) Outcome {
	if k.Type == KeyNone {
		return Continue
	}
	switch s.Mode {
	case ModeNormal:
		return normal(s, k, env)
	case ModeSearching:
		searching(s, k)
	case ModeFilterMenu:
		filterMenu(s, k)
	case ModeFilterStatus:
		filterStatus(s, k)
	case ModeFilterCPU:
		s.Filters.MinCPU = numericEntry(s, k, s.Filters.MinCPU)
	case ModeFilterMemory:
		s.Filters.MinMemory = numericEntry(s, k, s.Filters.MinMemory)
	case ModeFilterUser:
		filterUser(s, k)
	case ModeDetails:
		if k.Type == KeyEscape || k.Type == KeyRune && k.Rune == 'q' {
			s.Mode = ModeNormal
		}
	case ModeConfirmTerminate:
		confirmTerminate(s, k, env)
	}
	return Continue
}

func normal(s *State, k Key, env Env) Outcome {
	switch k.Type {
	case KeyUp:
		if s.Selected > 0 {
			s.Selected--
		}
	case KeyDown:
		if s.Selected < env.Count-1 {
			s.Selected++
		}
	case KeyEnter:
		if env.Selected != nil {
			s.Mode = ModeDetails
		}
	case KeyRune:
		switch k.Rune {
		case 'q', 'Q':
			return Stop
		case '/':
			s.Mode = ModeSearching
			s.Filters.Search = ""
		case 's', 'S':
			s.Sort = s.Sort.Next()
		case 'f':
			s.Mode = ModeFilterMenu
		case 'c':
			s.Filters.ClearFilters()
		case 't':
			s.Tree = !s.Tree
			s.Selected = 0
		case 'x':
			if env.Selected != nil {
				s.Target = env.Selected.PID
				s.Mode = ModeConfirmTerminate
			}
		}
	}
	return Continue
}

func searching(s *State, k Key) {
	switch {
	case k.Type == KeyEscape || k.Type == KeyEnter:
		s.Mode = ModeNormal
	case k.Type == KeyBackspace:
		s.Filters.Search = dropLast(s.Filters.Search)
	case printable(k):
		s.Filters.Search += string(k.Rune)
	}
}

func filterMenu(s *State, k Key) {
	if k.Type == KeyEscape {
		s.Mode = ModeNormal
		return
	}
	if k.Type != KeyRune {
		return
	}
	switch k.Rune {
	case '1':
		s.Mode = ModeFilterStatus
	case '2':
		s.Mode = ModeFilterCPU
		s.Entry = ""
	case '3':
		s.Mode = ModeFilterMemory
		s.Entry = ""
	case '4':
		s.Mode = ModeFilterUser
	case 'c':
		s.Filters.ClearFilters()
		s.Mode = ModeNormal
	}
}

func filterStatus(s *State, k Key) {
	if k.Type == KeyEscape {
		s.Mode = ModeNormal
		return
	}
	if k.Type != KeyRune {
		return
	}
	if st, ok := statusKeys[k.Rune]; ok {
		s.Filters.Status = &st
		s.Mode = ModeNormal
	}
}

// numericEntry edits s.Entry and returns the committed threshold. The
// buffer only accepts digits and one decimal point; it is committed when it
// parses as a finite non-negative number and clears the field when emptied.
func numericEntry(s *State, k Key, current *float64) *float64 {
	switch k.Type {
	case KeyEnter, KeyEscape:
		s.Mode = ModeNormal
		s.Entry = ""
		return current
	case KeyBackspace:
		s.Entry = dropLast(s.Entry)
	case KeyRune:
		switch {
		case k.Rune >= '0' && k.Rune <= '9':
			s.Entry += string(k.Rune)
		case k.Rune == '.' && !strings.Contains(s.Entry, "."):
			s.Entry += "."
		default:
			return current
		}
	default:
		return current
	}
	if s.Entry == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s.Entry, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return current
	}
	return &v
}

func filterUser(s *State, k Key) {
	switch {
	case k.Type == KeyEnter || k.Type == KeyEscape:
		s.Mode = ModeNormal
	case k.Type == KeyBackspace:
		if s.Filters.User == nil {
			return
		}
		if name := dropLast(*s.Filters.User); name != "" {
			s.Filters.User = &name
		} else {
			s.Filters.User = nil
		}
	case printable(k):
		name := string(k.Rune)
		if s.Filters.User != nil {
			name = *s.Filters.User + name
		}
		s.Filters.User = &name
	}
}

func confirmTerminate(s *State, k Key, env Env) {
	switch {
	case k.Type == KeyEscape:
	case k.Type == KeyRune && k.Rune == 'n':
	case k.Type == KeyRune && k.Rune == 'y':
		switch {
		case env.Listed != nil && !env.Listed(s.Target):
			s.Message = MsgTargetGone
		case env.Terminator != nil:
			ctx := env.Ctx
			if ctx == nil {
				ctx = context.Background()
			}
			_, s.Message = env.Terminator.Terminate(ctx, s.Target)
		}
	default:
		return
	}
	s.Target = 0
	s.Mode = ModeNormal
}

func printable(k Key) bool {
	return k.Type == KeyRune && k.Rune >= 32 && k.Rune <= 126
}

func dropLast(s string) string {
	if s == "" {
		return s
	}
	return s[:len(s)-1]
}

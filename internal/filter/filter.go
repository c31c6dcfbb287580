// Package filter narrows a process view with a chain of independent
// predicates.
package filter

import (
	"context"
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/procviewer/internal/model"
)

// UserResolver looks up the owner of a process. An error means the owner
// cannot be determined (the process exited or access was denied).
type UserResolver interface {
	Username(ctx context.Context, pid int32) (string, error)
}

// Predicate reports whether a record stays in the view.
type Predicate func(p model.Process) bool

// Predicates returns one predicate per active field of fs. Their order does
// not affect the result of Chain.
func Predicates(ctx context.Context, fs model.FilterSet, users UserResolver) []Predicate {
	var preds []Predicate
	if fs.Search != "" {
		preds = append(preds, Search(fs.Search))
	}
	if fs.Status != nil {
		preds = append(preds, StatusIs(*fs.Status))
	}
	if fs.MinCPU != nil {
		floor := *fs.MinCPU
		preds = append(preds, func(p model.Process) bool { return p.CPU >= floor })
	}
	if fs.MinMemory != nil {
		floor := *fs.MinMemory
		preds = append(preds, func(p model.Process) bool { return p.Memory >= floor })
	}
	if fs.User != nil && users != nil {
		preds = append(preds, OwnedBy(ctx, *fs.User, users))
	}
	return preds
}

// Search matches a case-insensitive substring of the name or the exact pid.
func Search(term string) Predicate {
	lower := strings.ToLower(term)
	return func(p model.Process) bool {
		return strings.Contains(strings.ToLower(p.Name), lower) ||
			strconv.FormatInt(int64(p.PID), 10) == term
	}
}

// StatusIs matches one status exactly.
func StatusIs(s model.Status) Predicate {
	return func(p model.Process) bool { return p.Status == s }
}

// OwnedBy keeps processes whose resolved owner equals user. Records whose
// owner cannot be resolved are dropped.
func OwnedBy(ctx context.Context, user string, users UserResolver) Predicate {
	return func(p model.Process) bool {
		name, err := users.Username(ctx, p.PID)
		if err != nil {
			return false
		}
		return name == user
	}
}

// Chain keeps the records every predicate accepts, preserving order.
func Chain(view []model.Process, preds ...Predicate) []model.Process {
	if len(preds) == 0 {
		return view
	}
	out := make([]model.Process, 0, len(view))
next:
	for _, p := range view {
		for _, pred := range preds {
			if !pred(p) {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}

// Apply filters view by every active field of fs.
func Apply(ctx context.Context, view []model.Process, fs model.FilterSet, users UserResolver) []model.Process {
	return Chain(view, Predicates(ctx, fs, users)...)
}

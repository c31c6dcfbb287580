// Package snapshot turns one enumeration of live processes into an ordered,
// optionally hierarchical view.
package snapshot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/procviewer/internal/model"
)

// initPID is always treated as a tree root.
const initPID = 1

// Lister enumerates live processes. Implementations skip processes that
// vanish or deny access mid-scan and only fail when nothing can be listed.
type Lister interface {
	Processes(ctx context.Context) ([]model.Process, error)
}

// Builder samples a Lister and orders the result. It keeps the last
// listing so the view can be reordered between samples.
type Builder struct {
	src    Lister
	logger *zap.Logger
	last   []model.Process
}

func New(src Lister, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{src: src, logger: logger}
}

// Sample enumerates processes and builds the view. On a total enumeration
// failure it returns an empty view and the error for display.
func (b *Builder) Sample(ctx context.Context, key model.SortKey, tree bool) ([]model.Process, error) {
	procs, err := b.src.Processes(ctx)
	if err != nil {
		b.logger.Error("process enumeration failed", zap.Error(err))
		b.last = nil
		return nil, fmt.Errorf("listing processes: %w", err)
	}
	b.last = procs
	return Build(procs, key, tree), nil
}

// Lookup finds pid in the last listing.
func (b *Builder) Lookup(pid int32) (model.Process, bool) {
	for _, p := range b.last {
		if p.PID == pid {
			return p, true
		}
	}
	return model.Process{}, false
}

// Rebuild orders the last listing again without sampling.
func (b *Builder) Rebuild(key model.SortKey, tree bool) []model.Process {
	return Build(b.last, key, tree)
}

// Build orders procs without touching the input slice. Flat mode sorts by
// key with ascending pid as the tie-break and leaves Depth at 0. Tree mode
// ignores key and emits a pre-order walk with roots and siblings in
// ascending pid order.
func Build(procs []model.Process, key model.SortKey, tree bool) []model.Process {
	uniq := dedupe(procs)
	if tree {
		return flattenTree(uniq)
	}
	for i := range uniq {
		uniq[i].Depth = 0
		uniq[i].Children = nil
	}
	Sort(uniq, key)
	return uniq
}

// Sort orders a flat view in place.
func Sort(procs []model.Process, key model.SortKey) {
	sort.SliceStable(procs, func(i, j int) bool {
		a, b := &procs[i], &procs[j]
		switch key {
		case model.SortCPU:
			if a.CPU != b.CPU {
				return a.CPU > b.CPU
			}
		case model.SortMemory:
			if a.Memory != b.Memory {
				return a.Memory > b.Memory
			}
		case model.SortName:
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if an != bn {
				return an < bn
			}
		}
		return a.PID < b.PID
	})
}

func dedupe(procs []model.Process) []model.Process {
	seen := make(map[int32]struct{}, len(procs))
	out := make([]model.Process, 0, len(procs))
	for _, p := range procs {
		if _, ok := seen[p.PID]; ok {
			continue
		}
		seen[p.PID] = struct{}{}
		out = append(out, p)
	}
	return out
}

func flattenTree(procs []model.Process) []model.Process {
	index := make(map[int32]int, len(procs))
	for i := range procs {
		index[procs[i].PID] = i
		procs[i].Children = nil
		procs[i].Depth = 0
	}

	var roots []int32
	for i := range procs {
		p := &procs[i]
		parent, ok := index[p.PPID]
		if !ok || p.PID == initPID || p.PPID == p.PID {
			roots = append(roots, p.PID)
			continue
		}
		procs[parent].Children = append(procs[parent].Children, p.PID)
	}
	for i := range procs {
		c := procs[i].Children
		sort.Slice(c, func(a, b int) bool { return c[a] < c[b] })
	}
	sortPIDs(roots)

	visited := make([]bool, len(procs))
	out := make([]model.Process, 0, len(procs))

	type frame struct {
		pid   int32
		depth int
	}
	walk := func(root int32) {
		stack := []frame{{root, 0}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			i := index[f.pid]
			if visited[i] {
				continue
			}
			visited[i] = true
			p := procs[i]
			p.Depth = f.depth
			out = append(out, p)
			// push in reverse so the smallest child pops first
			for c := len(p.Children) - 1; c >= 0; c-- {
				if !visited[index[p.Children[c]]] {
					stack = append(stack, frame{p.Children[c], f.depth + 1})
				}
			}
		}
	}
	for _, r := range roots {
		walk(r)
	}

	// Processes whose parent chain loops back on itself have no root.
	if len(out) < len(procs) {
		var orphans []int32
		for i := range procs {
			if !visited[i] {
				orphans = append(orphans, procs[i].PID)
			}
		}
		sortPIDs(orphans)
		for _, pid := range orphans {
			walk(pid)
		}
	}
	return out
}

func sortPIDs(pids []int32) {
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
}

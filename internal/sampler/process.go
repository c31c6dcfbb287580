package sampler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/procviewer/internal/model"
)

// Messages returned by Terminate.
const (
	MsgTerminated       = "Process terminated successfully"
	MsgNotFound         = "Process not found"
	MsgPermissionDenied = "Permission denied: Cannot terminate process"
)

// normalizedStatuses maps gopsutil status strings to the dashboard enum.
// Anything else is StatusOther.
var normalizedStatuses = map[string]model.Status{
	process.Running: model.StatusRunning,
	process.Sleep:   model.StatusSleeping,
	"sleeping":      model.StatusSleeping,
	process.Stop:    model.StatusStopped,
	"stopped":       model.StatusStopped,
	process.Zombie:  model.StatusZombie,
}

func normalizeStatus(raw []string) model.Status {
	if len(raw) == 0 {
		return model.StatusOther
	}
	if st, ok := normalizedStatuses[strings.ToLower(strings.TrimSpace(raw[0]))]; ok {
		return st
	}
	return model.StatusOther
}

// cpuBaseline is the CPU time a process had used at one scan. It only
// applies to the same process: a pid reused by a new process has a
// different create time.
type cpuBaseline struct {
	created int64
	total   float64
	at      time.Time
}

// percentSince returns the CPU percent used since b, or 0 when b belongs to
// another process or no time has passed.
func (b cpuBaseline) percentSince(cur cpuBaseline) float64 {
	if b.at.IsZero() || b.created != cur.created {
		return 0
	}
	elapsed := cur.at.Sub(b.at).Seconds()
	if elapsed <= 0 || cur.total < b.total {
		return 0
	}
	return (cur.total - b.total) / elapsed * 100
}

// Processes enumerates live processes. Processes that exit or refuse access
// while being read are skipped; only a failure to list pids is an error.
func (s *Sampler) Processes(ctx context.Context) ([]model.Process, error) {
	pids, err := process.PidsWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pids: %w", err)
	}
	return s.scan(ctx, pids), nil
}

// scan reads every pid through a fresh handle so names and parents always
// reflect the current process image. Only the CPU baseline survives between
// scans.
func (s *Sampler) scan(ctx context.Context, pids []int32) []model.Process {
	now := time.Now()
	baselines := make(map[int32]cpuBaseline, len(pids))
	out := make([]model.Process, 0, len(pids))
	skipped := 0
	for _, pid := range pids {
		p, err := process.NewProcessWithContext(ctx, pid)
		if err != nil {
			skipped++
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			skipped++
			continue
		}
		ppid, err := p.PpidWithContext(ctx)
		if err != nil {
			skipped++
			continue
		}
		memPct, _ := p.MemoryPercentWithContext(ctx)
		status, _ := p.StatusWithContext(ctx)

		var cpuPct float64
		if cur, ok := readBaseline(ctx, p, now); ok {
			cpuPct = s.cpuPrev[pid].percentSince(cur)
			baselines[pid] = cur
		}
		out = append(out, model.Process{
			PID:    pid,
			Name:   name,
			Status: normalizeStatus(status),
			CPU:    cpuPct,
			Memory: float64(memPct),
			PPID:   ppid,
		})
	}
	s.cpuPrev = baselines
	if skipped > 0 {
		s.logger.Debug("skipped processes during scan", zap.Int("count", skipped))
	}
	return out
}

func readBaseline(ctx context.Context, p *process.Process, now time.Time) (cpuBaseline, bool) {
	created, err := p.CreateTimeWithContext(ctx)
	if err != nil {
		return cpuBaseline{}, false
	}
	times, err := p.TimesWithContext(ctx)
	if err != nil {
		return cpuBaseline{}, false
	}
	return cpuBaseline{created: created, total: times.Total(), at: now}, true
}

// Username resolves the owner of pid.
func (s *Sampler) Username(ctx context.Context, pid int32) (string, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return "", err
	}
	return p.UsernameWithContext(ctx)
}

// usernameOr returns name, or "?" when the owner could not be resolved.
func usernameOr(name string, err error) string {
	if err != nil || name == "" {
		return "?"
	}
	return name
}

// Details reads the on-demand fields of one process. CPU is measured
// against the last scan without moving its baseline.
func (s *Sampler) Details(ctx context.Context, pid int32) (model.Details, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return model.Details{}, fmt.Errorf("opening process %d: %w", pid, err)
	}
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return model.Details{}, fmt.Errorf("reading process %d: %w", pid, err)
	}
	d := model.Details{Process: model.Process{PID: pid, Name: name}}
	d.PPID, _ = p.PpidWithContext(ctx)
	status, _ := p.StatusWithContext(ctx)
	d.Status = normalizeStatus(status)
	if cur, ok := readBaseline(ctx, p, time.Now()); ok {
		d.CPU = s.cpuPrev[pid].percentSince(cur)
		d.CreateTime = time.UnixMilli(cur.created)
	}
	if memPct, err := p.MemoryPercentWithContext(ctx); err == nil {
		d.Memory = float64(memPct)
	}
	d.Username = usernameOr(p.UsernameWithContext(ctx))
	d.Cmdline, _ = p.CmdlineWithContext(ctx)
	return d, nil
}

// Terminate sends SIGTERM (or the platform equivalent) to pid.
func (s *Sampler) Terminate(ctx context.Context, pid int32) (bool, string) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		s.logger.Info("terminate: process not found", zap.Int32("pid", pid), zap.Error(err))
		return false, MsgNotFound
	}
	if err := p.TerminateWithContext(ctx); err != nil {
		s.logger.Warn("terminate failed", zap.Int32("pid", pid), zap.Error(err))
		return false, terminateMessage(err)
	}
	s.logger.Info("terminated process", zap.Int32("pid", pid))
	return true, MsgTerminated
}

func terminateMessage(err error) string {
	switch {
	case errors.Is(err, process.ErrorProcessNotRunning) || isNotFound(err):
		return MsgNotFound
	case isPermission(err):
		return MsgPermissionDenied
	default:
		return fmt.Sprintf("Error terminating process: %v", err)
	}
}

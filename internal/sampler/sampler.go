package sampler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/procviewer/internal/model"
)

// Sampler reads procfs through gopsutil. It is the process source, metrics
// source and header summary source of the dashboard. It is not safe for
// concurrent use; the event loop calls it from one goroutine.
type Sampler struct {
	Interval time.Duration

	logger *zap.Logger

	prevTotal float64
	prevIdle  float64
	prevDisk  map[string]disk.IOCountersStat
	prevNet   []net.IOCountersStat
	prevIOAt  time.Time

	// cpuPrev holds each process's CPU time at the previous scan so CPU
	// percent is a delta rather than a lifetime average.
	cpuPrev map[int32]cpuBaseline
}

func New(interval time.Duration, logger *zap.Logger) *Sampler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{
		Interval: interval,
		logger:   logger,
		prevDisk: make(map[string]disk.IOCountersStat),
		cpuPrev:  make(map[int32]cpuBaseline),
	}
}

// Percentages returns system CPU busy percent since the previous call and
// memory used percent. The first call reports 0 CPU.
func (s *Sampler) Percentages(ctx context.Context) (float64, float64, error) {
	cpuPct, err := s.cpuPercent(ctx)
	if err != nil {
		return 0, 0, err
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("reading memory: %w", err)
	}
	return cpuPct, vm.UsedPercent, nil
}

// CPU percentage from times delta.
func (s *Sampler) cpuPercent(ctx context.Context) (total float64, err error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("reading cpu times: %w", err)
	}
	if len(times) == 0 {
		return 0, fmt.Errorf("reading cpu times: no data")
	}
	cur := times[0]
	curTotal := cur.Total()
	curIdle := cur.Idle + cur.Iowait
	if s.prevTotal > 0 {
		dt := curTotal - s.prevTotal
		di := curIdle - s.prevIdle
		if dt > 0 {
			total = 100 * (1 - di/dt)
		}
	}
	s.prevTotal, s.prevIdle = curTotal, curIdle
	return total, nil
}

// Summary gathers the header line. Every part is best effort.
func (s *Sampler) Summary(ctx context.Context) model.Summary {
	now := time.Now()
	sum := model.Summary{Timestamp: now}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		sum.CPU = model.CPU{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}
	}
	if up, err := host.UptimeWithContext(ctx); err == nil {
		sum.Uptime = time.Duration(up) * time.Second
	}
	if sw, err := mem.SwapMemoryWithContext(ctx); err == nil {
		sum.Swap = sw.UsedPercent
	}
	sum.IO = s.ioNet(ctx, now)
	return sum
}

func (s *Sampler) ioNet(ctx context.Context, now time.Time) model.IO {
	dur := s.Interval.Seconds()
	if !s.prevIOAt.IsZero() {
		dur = now.Sub(s.prevIOAt).Seconds()
	}
	if dur <= 0 {
		dur = 1
	}
	s.prevIOAt = now

	// Disk
	diskCounters, _ := disk.IOCountersWithContext(ctx)
	var rdBytesDelta, wrBytesDelta uint64
	for name, st := range diskCounters {
		if strings.HasPrefix(name, "loop") {
			continue
		}
		if prev, ok := s.prevDisk[name]; ok {
			if st.ReadBytes > prev.ReadBytes {
				rdBytesDelta += st.ReadBytes - prev.ReadBytes
			}
			if st.WriteBytes > prev.WriteBytes {
				wrBytesDelta += st.WriteBytes - prev.WriteBytes
			}
		}
		s.prevDisk[name] = st
	}
	ioStat := model.IO{
		DiskReadMBs:  float64(rdBytesDelta) / (1024 * 1024) / dur,
		DiskWriteMBs: float64(wrBytesDelta) / (1024 * 1024) / dur,
	}

	// Net
	netCounters, _ := net.IOCountersWithContext(ctx, false)
	if len(netCounters) > 0 && len(s.prevNet) > 0 {
		cur, prev := netCounters[0], s.prevNet[0]
		if cur.BytesRecv >= prev.BytesRecv {
			ioStat.NetRxMbps = float64((cur.BytesRecv-prev.BytesRecv)*8) / 1e6 / dur
		}
		if cur.BytesSent >= prev.BytesSent {
			ioStat.NetTxMbps = float64((cur.BytesSent-prev.BytesSent)*8) / 1e6 / dur
		}
	}
	if len(netCounters) > 0 {
		s.prevNet = netCounters
	}
	return ioStat
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Dicklesworthstone/procviewer/internal/config"
	"github.com/Dicklesworthstone/procviewer/internal/filter"
	"github.com/Dicklesworthstone/procviewer/internal/history"
	"github.com/Dicklesworthstone/procviewer/internal/model"
	"github.com/Dicklesworthstone/procviewer/internal/snapshot"
)

type report struct {
	Timestamp time.Time       `json:"timestamp"`
	CPU       float64         `json:"cpu_percent"`
	Memory    float64         `json:"memory_percent"`
	Processes []model.Process `json:"processes"`
}

type reportSource interface {
	snapshot.Lister
	filter.UserResolver
	history.Source
}

func collect(ctx context.Context, cfg config.Config, b *snapshot.Builder, src reportSource) (report, error) {
	view, err := b.Sample(ctx, cfg.SortKey(), cfg.Tree)
	if err != nil {
		return report{}, err
	}
	cpu, mem, err := src.Percentages(ctx)
	if err != nil {
		return report{}, fmt.Errorf("reading metrics: %w", err)
	}
	procs := filter.Apply(ctx, view, model.FilterSet{Search: cfg.Filter}, src)
	if procs == nil {
		procs = []model.Process{}
	}
	return report{Timestamp: time.Now(), CPU: cpu, Memory: mem, Processes: procs}, nil
}

// printSnapshot writes one indented report. CPU figures are deltas, so it
// primes them and waits one interval first.
func printSnapshot(ctx context.Context, w io.Writer, cfg config.Config, src reportSource) error {
	b := snapshot.New(src, nil)
	if _, err := collect(ctx, cfg, b, src); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(cfg.Interval.Duration):
	}
	r, err := collect(ctx, cfg, b, src)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// streamSnapshots writes one report per line every interval until ctx is
// cancelled.
func streamSnapshots(ctx context.Context, w io.Writer, cfg config.Config, src reportSource) error {
	b := snapshot.New(src, nil)
	if _, err := collect(ctx, cfg, b, src); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	ticker := time.NewTicker(cfg.Interval.Duration)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r, err := collect(ctx, cfg, b, src)
			if err != nil {
				return err
			}
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
		}
	}
}

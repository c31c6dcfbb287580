package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/procviewer/internal/config"
	"github.com/Dicklesworthstone/procviewer/internal/sampler"
	"github.com/Dicklesworthstone/procviewer/internal/ui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "procviewer:", err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	cfg, err := config.FromFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting procviewer",
		zap.Duration("interval", cfg.Interval.Duration),
		zap.String("sort", cfg.Sort),
		zap.Bool("tree", cfg.Tree),
		zap.String("config", cfg.Path))

	src := sampler.New(cfg.Interval.Duration, logger)
	switch {
	case cfg.JSON:
		return printSnapshot(ctx, os.Stdout, cfg, src)
	case cfg.JSONStream:
		return streamSnapshots(ctx, os.Stdout, cfg, src)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal; use -json or -json-stream")
	}
	return ui.RunTUI(ctx, cfg, src, logger)
}

// initLogger writes JSON logs to the configured file. The terminal belongs
// to the dashboard, so without a file logging is disabled.
func initLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Logging.File == "" {
		return zap.NewNop(), nil
	}

	var level zapcore.Level
	switch cfg.Logging.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	file, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(file),
		level,
	)
	return zap.New(core), nil
}

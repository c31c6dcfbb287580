package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/procviewer/internal/model"
)

// Duration accepts "1s", "500ms" and similar strings in YAML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		// bare numbers are seconds
		if secs, err2 := time.ParseDuration(value.Value + "s"); err2 == nil {
			parsed = secs
		} else {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config carries runtime options for procviewer.
type Config struct {
	Interval   Duration      `yaml:"interval"`
	Sort       string        `yaml:"sort"`
	Tree       bool          `yaml:"tree"`
	Filter     string        `yaml:"filter"`
	History    HistoryConfig `yaml:"history"`
	Graphs     GraphConfig   `yaml:"graphs"`
	Logging    LoggingConfig `yaml:"logging"`
	JSON       bool          `yaml:"-"`
	JSONStream bool          `yaml:"-"`
	Path       string        `yaml:"-"`
}

// HistoryConfig sizes the metrics history.
type HistoryConfig struct {
	Size int `yaml:"size"`
}

// GraphConfig controls the CPU/memory graphs.
type GraphConfig struct {
	Enabled bool `yaml:"enabled"`
	Height  int  `yaml:"height"`
}

// LoggingConfig holds logging settings. An empty File disables logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func Default() Config {
	return Config{
		Interval: Duration{time.Second},
		Sort:     "cpu",
		Tree:     true,
		History:  HistoryConfig{Size: 60},
		Graphs:   GraphConfig{Enabled: true, Height: 8},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// FromFlags builds the configuration with precedence
// flags > environment > YAML file > defaults.
func FromFlags(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("procviewer", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	path := fs.String("config", os.Getenv("PROCVIEWER_CONFIG"), "path to a YAML config file")
	interval := fs.Duration("interval", 0, "refresh interval")
	sortKey := fs.String("sort", "", "sort column: cpu|mem|pid|name")
	tree := fs.Bool("tree", cfg.Tree, "start in tree mode")
	search := fs.String("filter", "", "initial search term (name substring or pid)")
	historySize := fs.Int("history", 0, "number of samples kept for the graphs")
	graphHeight := fs.Int("graph-height", 0, "preferred graph height in rows")
	graphs := fs.Bool("graphs", cfg.Graphs.Enabled, "show CPU/memory graphs")
	logFile := fs.String("log-file", "", "write JSON logs to this file")
	logLevel := fs.String("log-level", "", "debug|info|warn|error")
	fs.BoolVar(&cfg.JSON, "json", false, "print one snapshot as JSON and exit")
	fs.BoolVar(&cfg.JSONStream, "json-stream", false, "print one JSON snapshot per interval until interrupted")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(os.Stderr)
			fs.PrintDefaults()
		}
		return cfg, fmt.Errorf("parsing flags: %w", err)
	}

	cfg.Path = *path
	if cfg.Path != "" {
		if err := cfg.loadFile(cfg.Path); err != nil {
			return cfg, err
		}
	}

	applyEnvOverrides(&cfg)

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["interval"] {
		cfg.Interval.Duration = *interval
	}
	if set["sort"] {
		cfg.Sort = *sortKey
	}
	if set["tree"] {
		cfg.Tree = *tree
	}
	if set["filter"] {
		cfg.Filter = *search
	}
	if set["history"] {
		cfg.History.Size = *historySize
	}
	if set["graph-height"] {
		cfg.Graphs.Height = *graphHeight
	}
	if set["graphs"] {
		cfg.Graphs.Enabled = *graphs
	}
	if set["log-file"] {
		cfg.Logging.File = *logFile
	}
	if set["log-level"] {
		cfg.Logging.Level = *logLevel
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PROCVIEWER_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Interval.Duration = parsed
		} else if parsed, err2 := time.ParseDuration(v + "s"); err2 == nil {
			cfg.Interval.Duration = parsed
		}
	}
	if v := os.Getenv("PROCVIEWER_SORT"); v != "" {
		cfg.Sort = v
	}
	if v := os.Getenv("PROCVIEWER_FILTER"); v != "" {
		cfg.Filter = v
	}
	if v := os.Getenv("PROCVIEWER_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("PROCVIEWER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// SortKey returns the parsed sort option.
func (c Config) SortKey() model.SortKey {
	k, _ := model.ParseSortKey(c.Sort)
	return k
}

// GraphHeight is the preferred graph height, or 0 when graphs are off.
func (c Config) GraphHeight() int {
	if !c.Graphs.Enabled {
		return 0
	}
	return c.Graphs.Height
}

// Validate rejects options the dashboard cannot run with.
func (c Config) Validate() error {
	if c.Interval.Duration <= 0 {
		return fmt.Errorf("interval must be positive (got %s)", c.Interval.Duration)
	}
	if _, err := model.ParseSortKey(c.Sort); err != nil {
		return err
	}
	if c.JSON && c.JSONStream {
		return errors.New("-json and -json-stream are mutually exclusive")
	}
	if c.History.Size < 1 {
		return fmt.Errorf("history size must be at least 1 (got %d)", c.History.Size)
	}
	if c.Graphs.Height < 0 {
		return fmt.Errorf("graph height must not be negative (got %d)", c.Graphs.Height)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}

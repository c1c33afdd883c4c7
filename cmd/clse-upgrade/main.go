package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/japaniel/clse/pkg/config"
	"github.com/japaniel/clse/pkg/metrics"
	"github.com/japaniel/clse/pkg/pipeline"
)

// Version is the release of the upgrade tool.
const Version = "1.1.0"

const appName = "clse-upgrade"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		slog.Error("Upgrade failed", "error", err)
		os.Exit(1)
	}
}

// cliFlags holds command-line overrides; empty values keep the configured setting.
type cliFlags struct {
	configPath  string
	input       string
	output      string
	format      string
	metricsPath string
	logLevel    string
	logFormat   string
	showVersion bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	f := &cliFlags{}
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVarP(&f.configPath, "config", "c", "", "Path to a YAML configuration file")
	fs.StringVarP(&f.input, "input", "i", "", "v1.0 corpus to read (default "+config.DefaultInputPath+")")
	fs.StringVarP(&f.output, "output", "o", "", "v1.1 corpus to write (default "+config.DefaultOutputPath+")")
	fs.StringVarP(&f.format, "format", "f", "", "Output format: auto, csv, tsv, xlsx, sqlite")
	fs.StringVar(&f.metricsPath, "metrics-out", "", "Write Prometheus textfile metrics to this path")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "Log format: text, json")
	fs.BoolVarP(&f.showVersion, "version", "v", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return f, nil
}

func loadConfig(f *cliFlags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	overrides := []struct {
		val string
		dst *string
	}{
		{f.input, &cfg.InputPath},
		{f.output, &cfg.OutputPath},
		{f.format, &cfg.Format},
		{f.metricsPath, &cfg.MetricsPath},
		{f.logLevel, &cfg.LogLevel},
		{f.logFormat, &cfg.LogFormat},
	}
	for _, o := range overrides {
		if o.val != "" {
			*o.dst = o.val
		}
	}
	return cfg, cfg.Validate()
}

func run(args []string, stdout, stderr io.Writer) error {
	flags, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if flags.showVersion {
		fmt.Fprintf(stdout, "%s version %s\n", appName, Version)
		return nil
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	logger := setupLogger(stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	logger.Debug("Starting corpus upgrade",
		"input", cfg.InputPath,
		"output", cfg.OutputPath,
		"format", cfg.Format)

	runner := pipeline.New(cfg, logger)
	if cfg.MetricsPath != "" {
		runner.Metrics = metrics.New()
	}

	res, err := runner.Run()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Finished writing data to %s!\n", res.OutputPath)
	return nil
}

func setupLogger(w io.Writer, level, format string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("service", appName, "version", Version)
}

// Package pipeline runs the two-pass corpus upgrade: attribute discovery over
// the whole input, then the row rewrite into the output table.
package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/japaniel/clse/pkg/config"
	"github.com/japaniel/clse/pkg/corpus"
	"github.com/japaniel/clse/pkg/metrics"
	"github.com/japaniel/clse/pkg/rewrite"
	"github.com/japaniel/clse/pkg/sink"
	"github.com/japaniel/clse/pkg/vocabulary"
)

// Result summarises a completed run.
type Result struct {
	OutputPath  string
	RowsRead    int
	RowsWritten int
	Vocabulary  vocabulary.Vocabulary
	Duration    time.Duration
}

// Runner executes runs for a configuration.
type Runner struct {
	Config *config.Config
	// Logger receives stage progress. nil means slog.Default().
	Logger *slog.Logger
	// Metrics is optional.
	Metrics *metrics.Metrics
}

// New returns a runner for cfg.
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{Config: cfg, Logger: logger}
}

// Run discovers the vocabulary, then writes the rewritten table.
// A failure during the second pass can leave a truncated output; rerunning rewrites it from scratch.
func (r *Runner) Run() (Result, error) {
	if err := r.Config.Validate(); err != nil {
		return Result{}, err
	}
	start := time.Now()

	vocab, header, read, err := r.discover()
	if err != nil {
		return Result{}, fmt.Errorf("discover attributes: %w", err)
	}

	written, err := r.rewrite(header, vocab)
	if err != nil {
		return Result{}, fmt.Errorf("rewrite corpus: %w", err)
	}

	res := Result{
		OutputPath:  r.Config.OutputPath,
		RowsRead:    read,
		RowsWritten: written,
		Vocabulary:  vocab,
		Duration:    time.Since(start),
	}
	if r.Metrics != nil {
		r.Metrics.ObserveStage("total", start)
		r.Metrics.MarkSuccess()
		if r.Config.MetricsPath != "" {
			if err := r.Metrics.WriteTextfile(r.Config.MetricsPath); err != nil {
				return res, fmt.Errorf("write metrics: %w", err)
			}
		}
	}
	r.logger().Info("corpus upgraded",
		"output", res.OutputPath,
		"rows", res.RowsWritten,
		"attributes", vocab.Len(),
		"duration", res.Duration)
	return res, nil
}

func (r *Runner) discover() (vocabulary.Vocabulary, []string, int, error) {
	start := time.Now()
	rd, err := corpus.Open(r.Config.InputPath, r.Config.ReaderOptions())
	if err != nil {
		return vocabulary.Vocabulary{}, nil, 0, err
	}
	defer rd.Close()

	vocab, stats, err := vocabulary.Discover(rd, r.Config.Parser())
	if err != nil {
		return vocabulary.Vocabulary{}, nil, 0, err
	}

	if r.Metrics != nil {
		r.Metrics.RowsRead.WithLabelValues("discover").Add(float64(stats.Rows))
		r.Metrics.AttributesParsed.Add(float64(stats.Attributes))
		r.Metrics.AttributesDiscovered.Set(float64(vocab.Len()))
		r.Metrics.ObserveStage("discover", start)
	}
	r.logger().Debug("attribute discovery finished",
		"input", r.Config.InputPath,
		"rows", stats.Rows,
		"attributes", vocab.Len())
	return vocab, rd.Header(), stats.Rows, nil
}

func (r *Runner) rewrite(header []string, vocab vocabulary.Vocabulary) (int, error) {
	start := time.Now()
	rw, err := rewrite.New(header, vocab, r.Config.Parser())
	if err != nil {
		return 0, err
	}

	rd, err := corpus.Open(r.Config.InputPath, r.Config.ReaderOptions())
	if err != nil {
		return 0, err
	}
	defer rd.Close()

	dst, err := sink.Create(r.Config.OutputPath, r.Config.OutputFormat(), r.Config.SinkOptions())
	if err != nil {
		return 0, err
	}

	written, err := rw.WriteTable(rd, dst)
	if cerr := dst.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	if r.Metrics != nil {
		r.Metrics.RowsRead.WithLabelValues("rewrite").Add(float64(written))
		r.Metrics.RowsWritten.Add(float64(written))
		r.Metrics.ObserveStage("rewrite", start)
	}
	if err != nil {
		return written, err
	}

	r.logger().Debug("row rewrite finished",
		"output", r.Config.OutputPath,
		"rows", written)
	return written, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

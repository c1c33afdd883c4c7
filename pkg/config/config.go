// Package config holds the settings of a corpus upgrade run.
package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/japaniel/clse/pkg/corpus"
	"github.com/japaniel/clse/pkg/signature"
	"github.com/japaniel/clse/pkg/sink"
)

const (
	DefaultInputPath  = "data/clse_v1.0.csv"
	DefaultOutputPath = "data/clse_v1.1.csv"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config describes one run.
type Config struct {
	InputPath      string `yaml:"input"`
	OutputPath     string `yaml:"output"`
	// Format is one of auto, csv, tsv, xlsx, sqlite.
	Format         string `yaml:"format"`
	// InputDelimiter is the single-character field delimiter of the input table.
	InputDelimiter string `yaml:"input_delimiter"`

	SignatureColumn   string   `yaml:"signature_column"`
	FieldSeparator    string   `yaml:"field_separator"`
	KeyValueSeparator string   `yaml:"key_value_separator"`
	Prefixes          []string `yaml:"prefixes"`

	Sheet     string `yaml:"sheet"`
	Table     string `yaml:"table"`
	BatchSize int    `yaml:"batch_size"`

	MetricsPath string `yaml:"metrics_path"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

// Default returns the settings of the v1.0 -> v1.1 upgrade.
func Default() *Config {
	prefixes := make([]string, len(signature.DefaultPrefixes))
	copy(prefixes, signature.DefaultPrefixes)
	return &Config{
		InputPath:         DefaultInputPath,
		OutputPath:        DefaultOutputPath,
		Format:            string(sink.FormatAuto),
		InputDelimiter:    ",",
		SignatureColumn:   corpus.SignatureColumn,
		FieldSeparator:    signature.DefaultFieldSeparator,
		KeyValueSeparator: signature.DefaultKeyValueSeparator,
		Prefixes:          prefixes,
		BatchSize:         500,
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep their default.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: input path is required", ErrInvalidConfig)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("%w: output path is required", ErrInvalidConfig)
	}
	if c.InputPath == c.OutputPath {
		return fmt.Errorf("%w: output would overwrite input %s", ErrInvalidConfig, c.InputPath)
	}
	if _, err := sink.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if utf8.RuneCountInString(c.InputDelimiter) != 1 {
		return fmt.Errorf("%w: input delimiter must be a single character, got %q", ErrInvalidConfig, c.InputDelimiter)
	}
	if c.SignatureColumn == "" {
		return fmt.Errorf("%w: signature column is required", ErrInvalidConfig)
	}
	if utf8.RuneCountInString(c.FieldSeparator) != 1 || utf8.RuneCountInString(c.KeyValueSeparator) != 1 {
		return fmt.Errorf("%w: signature separators must be single characters, got %q and %q",
			ErrInvalidConfig, c.FieldSeparator, c.KeyValueSeparator)
	}
	if c.FieldSeparator == c.KeyValueSeparator {
		return fmt.Errorf("%w: field and key/value separators must differ", ErrInvalidConfig)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("%w: batch size must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Parser builds the signature parser described by c.
func (c *Config) Parser() *signature.Parser {
	prefixes := make([]string, len(c.Prefixes))
	copy(prefixes, c.Prefixes)
	return &signature.Parser{
		FieldSeparator:    c.FieldSeparator,
		KeyValueSeparator: c.KeyValueSeparator,
		Prefixes:          prefixes,
	}
}

// ReaderOptions returns the corpus reader settings described by c.
func (c *Config) ReaderOptions() corpus.Options {
	comma, _ := utf8.DecodeRuneInString(c.InputDelimiter)
	return corpus.Options{Comma: comma, SignatureColumn: c.SignatureColumn}
}

// SinkOptions returns the output settings described by c.
func (c *Config) SinkOptions() sink.Options {
	return sink.Options{BatchSize: c.BatchSize, Sheet: c.Sheet, Table: c.Table}
}

// OutputFormat returns the validated output format.
func (c *Config) OutputFormat() sink.Format {
	f, err := sink.ParseFormat(c.Format)
	if err != nil {
		return sink.FormatAuto
	}
	return f
}

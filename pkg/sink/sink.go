// Package sink writes rewritten corpus tables to disk.
//
// Every sink receives one header followed by rows of the same width. CSV and
// TSV sinks write each row as it arrives; the XLSX sink streams rows into a
// workbook saved on Close; the SQLite sink commits rows in batched
// transactions.
package sink

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies an output encoding.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatCSV    Format = "csv"
	FormatTSV    Format = "tsv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

var (
	// ErrUnsupportedFormat is returned for unknown formats or output extensions.
	ErrUnsupportedFormat = errors.New("unsupported output format")
	// ErrDuplicateColumn is returned when the output format cannot tell two header names apart.
	ErrDuplicateColumn = errors.New("duplicate output column")
)

// Sink receives the rewritten table.
type Sink interface {
	WriteHeader(columns []string) error
	WriteRow(cells []string) error
	Close() error
}

// Options tunes sink behaviour.
type Options struct {
	// BatchSize is the number of rows per SQLite transaction.
	BatchSize int
	// Sheet names the XLSX worksheet.
	Sheet string
	// Table names the SQLite table.
	Table string
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatCSV, FormatTSV, FormatXLSX, FormatSQLite:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the format from the file extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: cannot infer from %q", ErrUnsupportedFormat, path)
	}
}

// Create opens a sink writing to path. FormatAuto picks the format from the extension.
func Create(path string, format Format, opts Options) (Sink, error) {
	if format == "" || format == FormatAuto {
		f, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	switch format {
	case FormatCSV:
		return NewCSVFile(path, ',')
	case FormatTSV:
		return NewCSVFile(path, '\t')
	case FormatXLSX:
		return NewXLSX(path, opts.Sheet)
	case FormatSQLite:
		return NewSQLite(path, opts.Table, opts.BatchSize)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

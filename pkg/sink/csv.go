package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSV writes delimited text.
type CSV struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSV writes to w using comma as the field delimiter. Records end in \r\n.
func NewCSV(w io.Writer, comma rune) *CSV {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	cw.UseCRLF = true
	return &CSV{w: cw}
}

// NewCSVFile creates (or truncates) path and writes delimited text to it.
func NewCSVFile(path string, comma rune) (*CSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	s := NewCSV(f, comma)
	s.closer = f
	return s, nil
}

func (s *CSV) WriteHeader(columns []string) error {
	return s.WriteRow(columns)
}

// WriteRow writes and flushes a single record.
func (s *CSV) WriteRow(cells []string) error {
	if err := s.w.Write(cells); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *CSV) Close() error {
	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

package sink

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "clse"

// XLSX streams rows into a single worksheet. The workbook is written on Close.
type XLSX struct {
	path string
	file *excelize.File
	sw   *excelize.StreamWriter
	row  int
}

// NewXLSX prepares a workbook that will be saved to path.
func NewXLSX(path, sheet string) (*XLSX, error) {
	if sheet == "" {
		sheet = defaultSheet
	}
	f := excelize.NewFile()
	// NewFile always starts with "Sheet1".
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create stream writer: %w", err)
	}
	return &XLSX{path: path, file: f, sw: sw}, nil
}

func (s *XLSX) WriteHeader(columns []string) error {
	return s.WriteRow(columns)
}

func (s *XLSX) WriteRow(cells []string) error {
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := s.sw.SetRow(cell, values); err != nil {
		return fmt.Errorf("write xlsx row %d: %w", s.row, err)
	}
	return nil
}

func (s *XLSX) Close() error {
	defer s.file.Close()
	if err := s.sw.Flush(); err != nil {
		return fmt.Errorf("flush xlsx: %w", err)
	}
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

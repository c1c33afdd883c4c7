// Package corpus reads CLSE corpus tables.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// SignatureColumn is the header of the column holding the linguistic signature.
const SignatureColumn = "linguistic_signature"

// Columns lists the v1.0 corpus columns in file order.
var Columns = []string{"language", "id", "name", SignatureColumn, "semantic_type"}

var (
	// ErrMissingColumn is returned when the header lacks the signature column.
	ErrMissingColumn = errors.New("missing column")
	// ErrExtraFields is returned for a row with more cells than the header has columns.
	ErrExtraFields = errors.New("row has more fields than the header")
)

// RowError locates a failure at a 1-based data row.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Row is one corpus entry. Fields are aligned with the reader's header; short rows are padded with blanks.
type Row struct {
	// Line is the 1-based data row number (the header is not counted).
	Line      int
	Fields    []string
	Signature string
}

// Reader iterates over the rows of a delimited corpus file.
type Reader struct {
	r      *csv.Reader
	closer io.Closer
	header []string
	sigIdx int
	line   int
}

// Options configures a Reader.
type Options struct {
	// Comma is the field delimiter; zero means ','.
	Comma rune
	// SignatureColumn overrides SignatureColumn.
	SignatureColumn string
}

// Open opens the corpus at path and reads its header.
func Open(path string, opts Options) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	rd, err := NewReader(f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	rd.closer = f
	return rd, nil
}

// NewReader reads the header from r. A leading UTF-8 byte order mark is dropped.
func NewReader(r io.Reader, opts Options) (*Reader, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(decoded)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	// Extra or missing trailing cells are tolerated and padded later.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read header: empty corpus")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	sigCol := opts.SignatureColumn
	if sigCol == "" {
		sigCol = SignatureColumn
	}
	sigIdx := -1
	for i, col := range header {
		if col == sigCol {
			sigIdx = i
			break
		}
	}
	if sigIdx == -1 {
		return nil, fmt.Errorf("%w %q in header %v", ErrMissingColumn, sigCol, header)
	}

	return &Reader{
		r:      cr,
		header: header,
		sigIdx: sigIdx,
	}, nil
}

// Header returns the column names of the corpus.
func (rd *Reader) Header() []string {
	out := make([]string, len(rd.header))
	copy(out, rd.header)
	return out
}

// Next returns the next row, or io.EOF once the corpus is exhausted.
func (rd *Reader) Next() (Row, error) {
	record, err := rd.r.Read()
	if err == io.EOF {
		return Row{}, io.EOF
	}
	rd.line++
	if err != nil {
		return Row{}, fmt.Errorf("read row %d: %w", rd.line, err)
	}

	if len(record) > len(rd.header) {
		return Row{}, &RowError{
			Line: rd.line,
			Err:  fmt.Errorf("%w: %d > %d", ErrExtraFields, len(record), len(rd.header)),
		}
	}
	fields := make([]string, len(rd.header))
	copy(fields, record)

	return Row{
		Line:      rd.line,
		Fields:    fields,
		Signature: fields[rd.sigIdx],
	}, nil
}

// Each calls fn for every remaining row, stopping at the first error.
func (rd *Reader) Each(fn func(Row) error) error {
	for {
		row, err := rd.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

// Close releases the underlying file, if any.
func (rd *Reader) Close() error {
	if rd.closer == nil {
		return nil
	}
	return rd.closer.Close()
}

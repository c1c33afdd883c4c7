// Package rewrite turns v1.0 corpus rows into v1.1 rows carrying one column per attribute.
package rewrite

import (
	"errors"
	"fmt"

	"github.com/japaniel/clse/pkg/corpus"
	"github.com/japaniel/clse/pkg/signature"
	"github.com/japaniel/clse/pkg/sink"
	"github.com/japaniel/clse/pkg/vocabulary"
)

var (
	// ErrColumnCollision is returned when an attribute name equals an input column name.
	ErrColumnCollision = errors.New("attribute name collides with input column")
	// ErrUnknownAttribute is returned when a row carries an attribute missing from the vocabulary.
	ErrUnknownAttribute = errors.New("attribute not in vocabulary")
)

// Rewriter expands signatures into attribute columns.
type Rewriter struct {
	header []string
	vocab  vocabulary.Vocabulary
	parser *signature.Parser
}

// New returns a rewriter for rows laid out as header.
func New(header []string, vocab vocabulary.Vocabulary, parser *signature.Parser) (*Rewriter, error) {
	cols := make(map[string]struct{}, len(header))
	for _, c := range header {
		cols[c] = struct{}{}
	}
	for _, name := range vocab.Names() {
		if _, ok := cols[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnCollision, name)
		}
	}

	h := make([]string, len(header))
	copy(h, header)
	return &Rewriter{header: h, vocab: vocab, parser: parser}, nil
}

// Header returns the input columns followed by the vocabulary.
func (rw *Rewriter) Header() []string {
	out := make([]string, 0, len(rw.header)+rw.vocab.Len())
	out = append(out, rw.header...)
	return append(out, rw.vocab.Names()...)
}

// Row returns the output cells for row: its original fields, then one cell per
// vocabulary entry, blank where the row lacks the attribute.
func (rw *Rewriter) Row(row corpus.Row) ([]string, error) {
	attrs, err := rw.parser.Parse(row.Signature)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(rw.header)+rw.vocab.Len())
	copy(out[:len(rw.header)], row.Fields)
	for name, value := range attrs {
		i := rw.vocab.Index(name)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
		}
		out[len(rw.header)+i] = value
	}
	return out, nil
}

// RowSource yields corpus rows; *corpus.Reader satisfies it.
type RowSource interface {
	Each(fn func(corpus.Row) error) error
}

// WriteTable writes the header and every row of src to dst and returns the number of rows written.
// dst is not closed.
func (rw *Rewriter) WriteTable(src RowSource, dst sink.Sink) (int, error) {
	if err := dst.WriteHeader(rw.Header()); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	written := 0
	err := src.Each(func(row corpus.Row) error {
		cells, err := rw.Row(row)
		if err != nil {
			return &corpus.RowError{Line: row.Line, Err: err}
		}
		if err := dst.WriteRow(cells); err != nil {
			return &corpus.RowError{Line: row.Line, Err: err}
		}
		written++
		return nil
	})
	return written, err
}

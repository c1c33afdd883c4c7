// Package vocabulary collects the attribute names used across a corpus.
package vocabulary

import (
	"sort"

	"github.com/japaniel/clse/pkg/corpus"
	"github.com/japaniel/clse/pkg/signature"
)

// Vocabulary is the sorted set of canonical attribute names of a corpus.
type Vocabulary struct {
	names []string
	index map[string]int
}

// New builds a vocabulary from names, dropping duplicates.
func New(names ...string) Vocabulary {
	b := NewBuilder()
	for _, n := range names {
		b.seen[n] = struct{}{}
	}
	return b.Build()
}

// Names returns the attribute names in lexicographic order.
func (v Vocabulary) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// Len reports the number of attributes.
func (v Vocabulary) Len() int { return len(v.names) }

// Index returns the position of name, or -1 when it is not part of the vocabulary.
func (v Vocabulary) Index(name string) int {
	if i, ok := v.index[name]; ok {
		return i
	}
	return -1
}

// Builder accumulates attribute names.
type Builder struct {
	seen map[string]struct{}
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// Add unions the keys of attrs into the builder.
func (b *Builder) Add(attrs signature.Attributes) {
	for name := range attrs {
		b.seen[name] = struct{}{}
	}
}

// Build returns the sorted vocabulary collected so far.
func (b *Builder) Build() Vocabulary {
	names := make([]string, 0, len(b.seen))
	for name := range b.seen {
		names = append(names, name)
	}
	sort.Strings(names)

	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}
	return Vocabulary{names: names, index: index}
}

// RowSource yields corpus rows; *corpus.Reader satisfies it.
type RowSource interface {
	Each(fn func(corpus.Row) error) error
}

// Stats summarises a discovery pass.
type Stats struct {
	Rows       int
	Attributes int
}

// Discover parses the signature of every row in src and returns the resulting vocabulary.
func Discover(src RowSource, parser *signature.Parser) (Vocabulary, Stats, error) {
	b := NewBuilder()
	var stats Stats
	err := src.Each(func(row corpus.Row) error {
		attrs, err := parser.Parse(row.Signature)
		if err != nil {
			return &corpus.RowError{Line: row.Line, Err: err}
		}
		b.Add(attrs)
		stats.Rows++
		stats.Attributes += len(attrs)
		return nil
	})
	if err != nil {
		return Vocabulary{}, stats, err
	}
	return b.Build(), stats, nil
}

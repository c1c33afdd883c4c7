package signature

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultFieldSeparator separates name:value tokens in a signature.
	DefaultFieldSeparator = ","
	// DefaultKeyValueSeparator separates a token's name from its value.
	DefaultKeyValueSeparator = ":"
)

// DefaultPrefixes lists the verbose namespace prefixes stripped from attribute names.
// Order matters: entries are applied one after another.
var DefaultPrefixes = []string{
	"InflectedNounForm.",
	"NominalInflectedForm.",
	"NameTags.",
	"Variant.",
	"WordStemAnnotation.",
	"Common",
	"SurfaceForm.",
	"Determiner.",
	"Proper",
	"InflectedForm.",
}

// ErrMalformedToken is returned for a token without a key/value separator.
var ErrMalformedToken = errors.New("malformed signature token")

// TokenError describes a token that could not be parsed.
type TokenError struct {
	Token string
	Err   error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token %q: %v", e.Token, e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

// Attributes maps canonical attribute names to their values.
type Attributes map[string]string

// Parser splits linguistic signatures into attributes.
type Parser struct {
	FieldSeparator    string
	KeyValueSeparator string
	Prefixes          []string
}

// NewParser returns a parser using the default separators and prefix list.
func NewParser() *Parser {
	prefixes := make([]string, len(DefaultPrefixes))
	copy(prefixes, DefaultPrefixes)
	return &Parser{
		FieldSeparator:    DefaultFieldSeparator,
		KeyValueSeparator: DefaultKeyValueSeparator,
		Prefixes:          prefixes,
	}
}

// Parse returns the attributes encoded in sig. An empty signature yields an empty map.
// Duplicate canonical names keep the last value. A name that canonicalises to ""
// is kept under the empty key.
func (p *Parser) Parse(sig string) (Attributes, error) {
	attrs := make(Attributes)
	if sig == "" {
		return attrs, nil
	}

	for _, token := range strings.Split(sig, p.fieldSeparator()) {
		if token == "" {
			continue
		}
		rawName, value, ok := strings.Cut(token, p.keyValueSeparator())
		if !ok {
			return nil, &TokenError{Token: token, Err: ErrMalformedToken}
		}
		attrs[p.Canonical(rawName)] = value
	}
	return attrs, nil
}

// Canonical strips the configured verbose prefixes from name, in order.
func (p *Parser) Canonical(name string) string {
	for _, prefix := range p.Prefixes {
		if prefix == "" {
			continue
		}
		name = strings.TrimPrefix(name, prefix)
	}
	return name
}

func (p *Parser) fieldSeparator() string {
	if p.FieldSeparator == "" {
		return DefaultFieldSeparator
	}
	return p.FieldSeparator
}

func (p *Parser) keyValueSeparator() string {
	if p.KeyValueSeparator == "" {
		return DefaultKeyValueSeparator
	}
	return p.KeyValueSeparator
}

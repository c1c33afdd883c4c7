package signature

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Attributes
	}{
		{
			name:     "Empty signature",
			input:    "",
			expected: Attributes{},
		},
		{
			name:     "Two attributes",
			input:    "A:1,B:2",
			expected: Attributes{"A": "1", "B": "2"},
		},
		{
			name:     "Verbose prefix stripped",
			input:    "Determiner.Number:sg",
			expected: Attributes{"Number": "sg"},
		},
		{
			name:     "Empty tokens skipped",
			input:    ",A:1,,B:2,",
			expected: Attributes{"A": "1", "B": "2"},
		},
		{
			name:     "Value keeps later separators",
			input:    "Time:12:30",
			expected: Attributes{"Time": "12:30"},
		},
		{
			name:     "Empty value",
			input:    "Case:",
			expected: Attributes{"Case": ""},
		},
		{
			name:     "Last duplicate wins",
			input:    "Number:sg,Determiner.Number:pl",
			expected: Attributes{"Number": "pl"},
		},
		{
			name:     "Common and Proper prefixes",
			input:    "CommonGender:m,ProperNoun:yes",
			expected: Attributes{"Gender": "m", "Noun": "yes"},
		},
		{
			name:     "Prefixes applied in sequence",
			input:    "NameTags.CommonGender:n",
			expected: Attributes{"Gender": "n"},
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseMalformedToken(t *testing.T) {
	p := NewParser()
	_, err := p.Parse("A:1,Broken,B:2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedToken))

	var tokErr *TokenError
	require.True(t, errors.As(err, &tokErr))
	assert.Equal(t, "Broken", tokErr.Token)
}

func TestParseEmptyName(t *testing.T) {
	p := NewParser()
	attrs, err := p.Parse("Determiner.:x,Number:sg")
	require.NoError(t, err)
	assert.Equal(t, Attributes{"": "x", "Number": "sg"}, attrs)

	attrs, err = p.Parse(":y")
	require.NoError(t, err)
	assert.Equal(t, Attributes{"": "y"}, attrs)
}

func TestCanonical(t *testing.T) {
	p := NewParser()
	tests := []struct {
		in, out string
	}{
		{"InflectedNounForm.Case", "Case"},
		{"NominalInflectedForm.Case", "Case"},
		{"SurfaceForm.Number", "Number"},
		{"InflectedForm.Tense", "Tense"},
		{"Variant.Script", "Script"},
		{"WordStemAnnotation.Stem", "Stem"},
		{"Number", "Number"},
		{"Noun.Determiner.Case", "Noun.Determiner.Case"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, p.Canonical(tt.in), "Canonical(%q)", tt.in)
	}
}

func TestCustomSeparators(t *testing.T) {
	p := &Parser{FieldSeparator: ";", KeyValueSeparator: "="}
	got, err := p.Parse("A=1;B=x,y")
	require.NoError(t, err)
	assert.Equal(t, Attributes{"A": "1", "B": "x,y"}, got)
}

func TestDefaultPrefixesNotShared(t *testing.T) {
	p := NewParser()
	p.Prefixes[0] = "Mutated."
	assert.Equal(t, "InflectedNounForm.", DefaultPrefixes[0])
}

// Package signature parses CLSE linguistic signatures.
//
// A signature is a comma separated list of name:value tokens such as
//
//	Determiner.Number:sg,Gender:f
//
// Names are reduced to a canonical short form by stripping known verbose
// namespace prefixes, so the example above yields {Number: sg, Gender: f}.
package signature

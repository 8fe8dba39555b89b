package analyzer

import (
	"strings"
	"unicode"
)

// Tokenizer extracts lowercase word tokens from free text.
type Tokenizer struct{}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize lowercases text and returns its maximal runs of word characters
// (letters, digits, underscore). Everything else is a separator.
func (t *Tokenizer) Tokenize(text string) []string {
	return splitWords(strings.ToLower(text))
}

// Normalize joins the tokens of text with single spaces. Two values with the
// same normal form differ only in case and separators.
func (t *Tokenizer) Normalize(text string) string {
	return strings.Join(t.Tokenize(text), " ")
}

// splitWords splits text into words using unicode word boundaries.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if isWordRune(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

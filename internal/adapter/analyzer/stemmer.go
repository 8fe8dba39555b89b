package analyzer

import (
	"github.com/kljensen/snowball"
)

// Stemmer reduces English tokens to their snowball stem.
type Stemmer struct{}

func NewStemmer() *Stemmer {
	return &Stemmer{}
}

// Stem returns the stem of token. Tokens the stemmer rejects are returned unchanged.
func (s *Stemmer) Stem(token string) string {
	stemmed, err := snowball.Stem(token, "english", false)
	if err != nil || stemmed == "" {
		return token
	}
	return stemmed
}

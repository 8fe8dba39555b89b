package port

// Tokenizer splits free text into lowercase word tokens.
type Tokenizer interface {
	Tokenize(text string) []string
	// Normalize returns the tokens of text joined by single spaces.
	Normalize(text string) string
}

// TermFilter decides whether a token is excluded from counting.
type TermFilter interface {
	IsExcluded(token string) bool
}

// Stemmer maps a token to its stem.
type Stemmer interface {
	Stem(token string) string
}

package usecase

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"redscrape/internal/adapter/analyzer"
	"redscrape/internal/adapter/similarity"
	"redscrape/internal/domain"
	"redscrape/internal/port"
)

// DefaultSimilarityThreshold is the cosine similarity at which two titles are reported.
const DefaultSimilarityThreshold = 0.8

var ErrTooManyRows = errors.New("too many rows for pairwise similarity")

// SimilarityUseCase finds near-duplicate text values in a table column.
type SimilarityUseCase struct {
	tokenizer port.Tokenizer
	maxRows   int
	log       logrus.FieldLogger
}

// NewSimilarityUseCase creates a new similarity use case. maxRows caps the
// cleaned input size; 0 disables the cap.
func NewSimilarityUseCase(tokenizer port.Tokenizer, maxRows int, log logrus.FieldLogger) *SimilarityUseCase {
	return &SimilarityUseCase{
		tokenizer: tokenizer,
		maxRows:   maxRows,
		log:       log,
	}
}

// FindSimilar drops rows missing the column, vectorizes the remaining values
// with TF-IDF and returns the text values of every row pair i < j whose
// cosine similarity is at least threshold. Pairs whose values are equal
// ignoring case and punctuation are skipped. Pairs come in row order.
func (u *SimilarityUseCase) FindSimilar(table *domain.Table, column string, threshold float64) ([]domain.SimilarPair, error) {
	cleaned, dropped, err := Clean(table, column)
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"column":  column,
		"dropped": dropped,
		"kept":    cleaned.Len(),
	}).Info("removed rows with missing values")

	if u.maxRows > 0 && cleaned.Len() > u.maxRows {
		return nil, fmt.Errorf("%w: %d rows, limit %d", ErrTooManyRows, cleaned.Len(), u.maxRows)
	}

	texts := make([]string, cleaned.Len())
	normal := make([]string, cleaned.Len())
	docs := make([][]string, cleaned.Len())
	for i, post := range cleaned.Posts {
		value, _, err := post.Field(column)
		if err != nil {
			return nil, err
		}
		texts[i] = value
		normal[i] = u.tokenizer.Normalize(value)
		docs[i] = vocabularyTerms(u.tokenizer.Tokenize(value))
	}

	model := similarity.Fit(docs)
	u.log.WithFields(logrus.Fields{
		"documents":  model.Len(),
		"vocabulary": model.VocabularySize(),
	}).Debug("built tf-idf vectors")

	var pairs []domain.SimilarPair
	model.Pairs(threshold, func(i, j int, sim float64) {
		if normal[i] == normal[j] || strings.EqualFold(texts[i], texts[j]) {
			return
		}
		pairs = append(pairs, domain.SimilarPair{
			First:      texts[i],
			Second:     texts[j],
			Similarity: sim,
		})
	})

	return pairs, nil
}

// vocabularyTerms keeps the tokens long enough to enter the TF-IDF vocabulary.
func vocabularyTerms(tokens []string) []string {
	terms := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if utf8.RuneCountInString(t) >= analyzer.MinTokenLength {
			terms = append(terms, t)
		}
	}
	return terms
}

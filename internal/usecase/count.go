package usecase

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"redscrape/internal/domain"
	"redscrape/internal/port"
)

// DefaultMinCount is the word-count truncation threshold.
const DefaultMinCount = 10

// CountUseCase builds Frequency Tables from a table column.
type CountUseCase struct {
	tokenizer       port.Tokenizer
	filter          port.TermFilter
	stemmer         port.Stemmer // nil disables stemming
	splitIdentities bool
	log             logrus.FieldLogger
}

// NewCountUseCase creates a new count use case. With splitIdentities the
// identity counter tokenizes values like free text instead of counting
// whole values.
func NewCountUseCase(
	tokenizer port.Tokenizer,
	filter port.TermFilter,
	stemmer port.Stemmer,
	splitIdentities bool,
	log logrus.FieldLogger,
) *CountUseCase {
	return &CountUseCase{
		tokenizer:       tokenizer,
		filter:          filter,
		stemmer:         stemmer,
		splitIdentities: splitIdentities,
		log:             log,
	}
}

// CountWords tokenizes the column of every row, skips excluded tokens and
// returns token counts in descending order, truncated at the first count
// below minCount. Equal counts keep first-occurrence order.
// Missing values contribute no tokens; callers clean the table first.
func (u *CountUseCase) CountWords(table *domain.Table, column string, minCount int) ([]domain.FrequencyEntry, error) {
	if _, err := domain.CanonicalColumn(column); err != nil {
		return nil, err
	}

	counts := newCounter()
	if table == nil {
		return counts.ranked(minCount), nil
	}
	for _, post := range table.Posts {
		value, _, err := post.Field(column)
		if err != nil {
			return nil, err
		}
		for _, token := range u.tokenizer.Tokenize(value) {
			if u.filter.IsExcluded(token) {
				continue
			}
			if u.stemmer != nil {
				token = u.stemmer.Stem(token)
			}
			counts.add(token)
		}
	}

	return counts.ranked(minCount), nil
}

// CountIdentities drops rows missing the column and counts each distinct
// value, in descending order with no truncation.
func (u *CountUseCase) CountIdentities(table *domain.Table, column string) ([]domain.FrequencyEntry, error) {
	cleaned, dropped, err := Clean(table, column)
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"column":  column,
		"dropped": dropped,
		"kept":    cleaned.Len(),
	}).Info("removed rows with missing values")

	if u.splitIdentities {
		return u.CountWords(cleaned, column, 1)
	}

	counts := newCounter()
	for _, post := range cleaned.Posts {
		value, _, err := post.Field(column)
		if err != nil {
			return nil, err
		}
		counts.add(strings.TrimSpace(value))
	}

	return counts.ranked(1), nil
}

// counter counts values and remembers first-occurrence order.
type counter struct {
	index   map[string]int
	entries []domain.FrequencyEntry
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(value string) {
	if i, ok := c.index[value]; ok {
		c.entries[i].Count++
		return
	}
	c.index[value] = len(c.entries)
	c.entries = append(c.entries, domain.FrequencyEntry{Value: value, Count: 1})
}

func (c *counter) ranked(minCount int) []domain.FrequencyEntry {
	sorted := make([]domain.FrequencyEntry, len(c.entries))
	copy(sorted, c.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})

	for i, e := range sorted {
		if e.Count < minCount {
			return sorted[:i]
		}
	}
	return sorted
}

package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Column names of the Document Table, as written in the export header.
const (
	ColumnTitle   = "title"
	ColumnScore   = "score"
	ColumnCreated = "created_utc"
	ColumnFlair   = "flair"
	ColumnBody    = "Selftext"
	ColumnAuthor  = "Author"
)

// TimeLayout is the rendering of created_utc in exported tables.
const TimeLayout = "2006-01-02 15:04:05"

// Columns lists the schema fields in export order.
var Columns = []string{ColumnTitle, ColumnScore, ColumnCreated, ColumnFlair, ColumnBody, ColumnAuthor}

var ErrUnknownColumn = errors.New("unknown column")

// Post is one row of the Document Table.
type Post struct {
	ID      string
	Title   string
	Score   int
	Created time.Time
	Flair   *string
	Body    string
	Author  *string
}

// Table is an ordered sequence of posts. Row order is ingestion order.
type Table struct {
	Posts []Post
}

// NewTable wraps posts in a table without copying them.
func NewTable(posts []Post) *Table {
	return &Table{Posts: posts}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Posts)
}

// FrequencyEntry is a (token or identity, count) pair of a Frequency Table.
type FrequencyEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// SimilarPair holds the text values of two rows whose similarity crossed the threshold.
type SimilarPair struct {
	First      string  `json:"first"`
	Second     string  `json:"second"`
	Similarity float64 `json:"similarity"`
}

// CanonicalColumn resolves a user-supplied column name to its schema name.
// Matching is case-insensitive and accepts a few descriptive aliases.
func CanonicalColumn(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "title":
		return ColumnTitle, nil
	case "score":
		return ColumnScore, nil
	case "created_utc", "created", "timestamp":
		return ColumnCreated, nil
	case "flair":
		return ColumnFlair, nil
	case "selftext", "body":
		return ColumnBody, nil
	case "author":
		return ColumnAuthor, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// Field returns the text value of the named column and whether it is present.
// Empty title and body cells count as missing, like empty cells of a loaded
// export. A blank author is missing too.
func (p Post) Field(column string) (string, bool, error) {
	name, err := CanonicalColumn(column)
	if err != nil {
		return "", false, err
	}
	switch name {
	case ColumnTitle:
		return p.Title, p.Title != "", nil
	case ColumnScore:
		return strconv.Itoa(p.Score), true, nil
	case ColumnCreated:
		return p.Created.UTC().Format(TimeLayout), !p.Created.IsZero(), nil
	case ColumnFlair:
		return deref(p.Flair), p.Flair != nil, nil
	case ColumnBody:
		return p.Body, p.Body != "", nil
	default:
		author := deref(p.Author)
		return author, strings.TrimSpace(author) != "", nil
	}
}

// StringPtr returns nil for an empty string, otherwise a pointer to s.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

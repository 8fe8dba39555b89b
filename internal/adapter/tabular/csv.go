package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"redscrape/internal/domain"
)

var ErrInputNotFound = errors.New("input file not found")

var timeLayouts = []string{
	domain.TimeLayout,
	"2006-01-02 15:04:05.999999999",
	time.RFC3339,
	time.RFC3339Nano,
}

// CSVTable reads and writes the Document Table as comma-separated text with a
// header row naming the schema fields.
type CSVTable struct {
	log logrus.FieldLogger
}

// NewCSVTable creates a CSV table codec. Malformed non-text cells are logged to log.
func NewCSVTable(log logrus.FieldLogger) *CSVTable {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &CSVTable{log: log}
}

// Load reads one exported table.
func (c *CSVTable) Load(path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	posts, err := c.read(f, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return domain.NewTable(posts), nil
}

// LoadAll reads several exports of the same feed and concatenates their rows
// in the given path order.
func (c *CSVTable) LoadAll(paths []string) (*domain.Table, error) {
	var posts []domain.Post
	for _, path := range paths {
		table, err := c.Load(path)
		if err != nil {
			return nil, err
		}
		posts = append(posts, table.Posts...)
	}
	return domain.NewTable(posts), nil
}

func (c *CSVTable) read(r io.Reader, path string) ([]domain.Post, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		column, err := domain.CanonicalColumn(name)
		if err != nil {
			c.log.WithField("file", path).Debugf("ignoring column %q", name)
			continue
		}
		index[column] = i
	}

	var posts []domain.Post
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		cell := func(column string) string {
			i, ok := index[column]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		post := domain.Post{
			Title:  cell(domain.ColumnTitle),
			Flair:  domain.StringPtr(cell(domain.ColumnFlair)),
			Body:   cell(domain.ColumnBody),
			Author: domain.StringPtr(cell(domain.ColumnAuthor)),
		}
		if raw := cell(domain.ColumnScore); raw != "" {
			score, err := parseScore(raw)
			if err != nil {
				c.log.WithFields(logrus.Fields{"file": path, "line": line}).Warnf("malformed score %q", raw)
			}
			post.Score = score
		}
		if raw := cell(domain.ColumnCreated); raw != "" {
			created, err := parseTime(raw)
			if err != nil {
				c.log.WithFields(logrus.Fields{"file": path, "line": line}).Warnf("malformed timestamp %q", raw)
			}
			post.Created = created
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// Save writes the table with a header row. Missing values become empty cells.
func (c *CSVTable) Save(table *domain.Table, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := c.write(f, table); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func (c *CSVTable) write(w io.Writer, table *domain.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(domain.Columns); err != nil {
		return err
	}

	record := make([]string, len(domain.Columns))
	for _, post := range table.Posts {
		for i, column := range domain.Columns {
			value, present, err := post.Field(column)
			if err != nil {
				return err
			}
			if !present {
				value = ""
			}
			record[i] = value
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func parseScore(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
	}
	return time.Unix(int64(secs), 0).UTC(), nil
}

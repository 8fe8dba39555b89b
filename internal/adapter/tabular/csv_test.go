package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"redscrape/internal/domain"
)

func samplePosts() []domain.Post {
	created := time.Date(2024, 3, 9, 18, 4, 5, 0, time.UTC)
	return []domain.Post{
		{
			Title:   "Olimar finds a Pikmin",
			Score:   120,
			Created: created,
			Flair:   domain.StringPtr("Discussion"),
			Body:    "Line one,\nline \"two\"",
			Author:  domain.StringPtr("captain_olimar"),
		},
		{
			Title:   "Louie cooks dinner",
			Score:   -3,
			Created: created.Add(time.Hour),
			Flair:   nil,
			Body:    "",
			Author:  nil,
		},
	}
}

func TestCSVTable_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exported_data")
	c := NewCSVTable(nil)

	if err := c.Save(domain.NewTable(samplePosts()), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	table, err := c.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(table.Posts, samplePosts()) {
		t.Errorf("round trip mismatch:\nexpected %+v\ngot      %+v", samplePosts(), table.Posts)
	}
}

func TestCSVTable_Header(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	c := NewCSVTable(nil)

	if err := c.Save(domain.NewTable(nil), path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	expected := "title,score,created_utc,flair,Selftext,Author\n"
	if string(data) != expected {
		t.Errorf("expected %q, got %q", expected, string(data))
	}
}

func TestCSVTable_LoadLegacyExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.csv")
	content := "title,score,created_utc,flair,Selftext,Author,extra\n" +
		"First,10,2024-03-09 18:04:05,,body,alice,x\n" +
		"Second,oops,not a date,Art,,,\n" +
		"Third,5.0,1710007445\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := NewCSVTable(nil).Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.Len())
	}

	first := table.Posts[0]
	if first.Flair != nil {
		t.Errorf("expected missing flair, got %q", *first.Flair)
	}
	if first.Author == nil || *first.Author != "alice" {
		t.Errorf("expected author alice, got %v", first.Author)
	}

	second := table.Posts[1]
	if second.Score != 0 || !second.Created.IsZero() {
		t.Errorf("expected malformed cells to load as zero values, got %+v", second)
	}
	if second.Author != nil {
		t.Error("expected missing author")
	}

	third := table.Posts[2]
	if third.Score != 5 {
		t.Errorf("expected score 5, got %d", third.Score)
	}
	if third.Created.Unix() != 1710007445 {
		t.Errorf("expected unix timestamp to parse, got %v", third.Created)
	}
}

func TestCSVTable_LoadMissing(t *testing.T) {
	_, err := NewCSVTable(nil).Load(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, ErrInputNotFound) {
		t.Errorf("expected ErrInputNotFound, got %v", err)
	}
}

func TestCSVTable_LoadAll(t *testing.T) {
	dir := t.TempDir()
	c := NewCSVTable(nil)
	posts := samplePosts()

	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	if err := c.Save(domain.NewTable(posts[:1]), a); err != nil {
		t.Fatal(err)
	}
	if err := c.Save(domain.NewTable(posts[1:]), b); err != nil {
		t.Fatal(err)
	}

	table, err := c.LoadAll([]string{b, a})
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
	if table.Posts[0].Title != "Louie cooks dinner" {
		t.Errorf("expected rows in path order, got %q first", table.Posts[0].Title)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"output", "output.csv"},
		{"output.csv", "output.csv"},
		{"out/words.txt", "out/words.txt"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.input); got != tt.expected {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestWriteFrequencies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	entries := []domain.FrequencyEntry{{Value: "pikmin", Count: 12}, {Value: "olimar, captain", Count: 10}}

	if err := WriteFrequencies(path, entries); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	expected := "pikmin,12\n\"olimar, captain\",10\n"
	if string(data) != expected {
		t.Errorf("expected %q, got %q", expected, string(data))
	}
}

func TestWritePairs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairs.csv")
	pairs := []domain.SimilarPair{{First: "Red pikmin", Second: "red pikmin rock", Similarity: 0.91234}}

	if err := WritePairs(path, pairs); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	expected := "Red pikmin,red pikmin rock,0.9123\n"
	if string(data) != expected {
		t.Errorf("expected %q, got %q", expected, string(data))
	}
}

func TestWriteResults_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "march")

	if err := WriteFrequencies(filepath.Join(dir, "words.csv"), []domain.FrequencyEntry{{Value: "pikmin", Count: 3}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := WritePairs(filepath.Join(dir, "pairs.csv"), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"words.csv", "pairs.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

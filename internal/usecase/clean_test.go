package usecase

import (
	"errors"
	"testing"

	"redscrape/internal/domain"
)

func TestClean_DropsMissing(t *testing.T) {
	a, b := domain.StringPtr("A"), domain.StringPtr("B")
	table := authors(a, nil, b, a)

	cleaned, dropped, err := Clean(table, "Author")
	if err != nil {
		t.Fatal(err)
	}
	if dropped != 1 {
		t.Errorf("expected 1 dropped row, got %d", dropped)
	}

	var got []string
	for _, p := range cleaned.Posts {
		got = append(got, *p.Author)
	}
	if len(got) != 3 || got[0] != "A" || got[1] != "B" || got[2] != "A" {
		t.Errorf("expected [A B A], got %v", got)
	}

	if table.Len() != 4 || table.Posts[1].Author != nil {
		t.Error("expected the input table to be left untouched")
	}
}

func TestClean_ConsecutiveMissing(t *testing.T) {
	table := authors(nil, nil, domain.StringPtr("x"), nil, nil)

	cleaned, dropped, err := Clean(table, "author")
	if err != nil {
		t.Fatal(err)
	}
	if cleaned.Len() != 1 || dropped != 4 {
		t.Errorf("expected 1 kept and 4 dropped, got %d and %d", cleaned.Len(), dropped)
	}
	for _, p := range cleaned.Posts {
		if _, present, _ := p.Field("author"); !present {
			t.Error("cleaned table still has a missing value")
		}
	}
}

func TestClean_UnknownColumn(t *testing.T) {
	_, _, err := Clean(titles("x"), "upvotes")
	if !errors.Is(err, domain.ErrUnknownColumn) {
		t.Errorf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestClean_NilTable(t *testing.T) {
	cleaned, dropped, err := Clean(nil, "title")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cleaned.Len() != 0 || dropped != 0 {
		t.Errorf("expected empty table and 0 dropped, got %d rows and %d dropped", cleaned.Len(), dropped)
	}
}

func TestClean_BlankAuthor(t *testing.T) {
	table := authors(domain.StringPtr("A"), domain.StringPtr("  "), domain.StringPtr(""))

	cleaned, dropped, err := Clean(table, "Author")
	if err != nil {
		t.Fatal(err)
	}
	if cleaned.Len() != 1 || dropped != 2 {
		t.Errorf("expected 1 kept and 2 dropped, got %d kept and %d dropped", cleaned.Len(), dropped)
	}
}

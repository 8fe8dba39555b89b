package usecase

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"redscrape/internal/adapter/analyzer"
	"redscrape/internal/domain"
)

func newSimilarity(maxRows int) *SimilarityUseCase {
	return NewSimilarityUseCase(analyzer.NewTokenizer(), maxRows, discardLogger())
}

func TestFindSimilar_CaseInsensitiveDuplicates(t *testing.T) {
	uc := newSimilarity(0)

	pairs, err := uc.FindSimilar(titles("Olimar finds a Pikmin", "olimar finds a pikmin!", "Louie cooks dinner"), "title", DefaultSimilarityThreshold)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 0 {
		t.Errorf("expected no pairs, got %v", pairs)
	}
}

func TestFindSimilar_NearDuplicates(t *testing.T) {
	uc := newSimilarity(0)
	table := titles(
		"Red Pikmin carry the golden treasure home",
		"Louie cooks dinner for the whole crew",
		"red pikmin carry the golden treasure home today",
		"Yellow Pikmin conduct electricity",
		"Red Pikmin carry the golden treasure home",
	)

	pairs, err := uc.FindSimilar(table, "title", DefaultSimilarityThreshold)
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{
		"Red Pikmin carry the golden treasure home | red pikmin carry the golden treasure home today",
		"red pikmin carry the golden treasure home today | Red Pikmin carry the golden treasure home",
	}
	if len(pairs) != len(expected) {
		t.Fatalf("expected %d pairs, got %v", len(expected), pairs)
	}
	for i, p := range pairs {
		if got := p.First + " | " + p.Second; got != expected[i] {
			t.Errorf("pair %d: expected %q, got %q", i, expected[i], got)
		}
		if p.Similarity < DefaultSimilarityThreshold || p.Similarity > 1 {
			t.Errorf("pair %d: similarity %f out of range", i, p.Similarity)
		}
	}
}

func TestFindSimilar_Invariants(t *testing.T) {
	uc := newSimilarity(0)
	var rows []string
	for i := 0; i < 40; i++ {
		rows = append(rows, fmt.Sprintf("Pikmin %d carry treasure number %d", i%5, i%3))
		rows = append(rows, fmt.Sprintf("PIKMIN %d CARRY TREASURE NUMBER %d", i%5, i%3))
	}

	pairs, err := uc.FindSimilar(titles(rows...), "title", 0.5)
	if err != nil {
		t.Fatal(err)
	}

	if len(pairs) == 0 {
		t.Fatal("expected some similar pairs")
	}
	for _, p := range pairs {
		if strings.EqualFold(p.First, p.Second) {
			t.Errorf("case-insensitive duplicate emitted: %q / %q", p.First, p.Second)
		}
		if p.Similarity < 0.5 {
			t.Errorf("pair below threshold: %+v", p)
		}
	}
}

func TestFindSimilar_SkipsMissing(t *testing.T) {
	uc := newSimilarity(0)
	table := titles("Red Pikmin carry fruit", "", "Red Pikmin carry fruit home")

	pairs, err := uc.FindSimilar(table, "title", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %v", pairs)
	}
	if pairs[0].First != "Red Pikmin carry fruit" || pairs[0].Second != "Red Pikmin carry fruit home" {
		t.Errorf("unexpected pair %+v", pairs[0])
	}
}

func TestFindSimilar_RowCap(t *testing.T) {
	uc := newSimilarity(2)

	_, err := uc.FindSimilar(titles("a b", "c d", "e f"), "title", DefaultSimilarityThreshold)
	if !errors.Is(err, ErrTooManyRows) {
		t.Errorf("expected ErrTooManyRows, got %v", err)
	}

	_, err = uc.FindSimilar(titles("a b", "", "e f"), "title", DefaultSimilarityThreshold)
	if err != nil {
		t.Errorf("expected cap to apply after cleaning, got %v", err)
	}
}

func TestFindSimilar_OtherColumn(t *testing.T) {
	uc := newSimilarity(0)
	table := domain.NewTable([]domain.Post{
		{Title: "one", Body: "How do I beat the final boss of Pikmin 4 without losing any pikmin"},
		{Title: "two", Body: "How do I beat the final boss in Pikmin 4 without losing any pikmin"},
	})

	pairs, err := uc.FindSimilar(table, "body", DefaultSimilarityThreshold)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 1 {
		t.Errorf("expected 1 pair, got %v", pairs)
	}
}

func BenchmarkFindSimilar(b *testing.B) {
	uc := newSimilarity(0)
	words := []string{"pikmin", "olimar", "louie", "treasure", "carry", "red", "blue", "yellow", "cave", "onion", "bulborb", "dandori"}
	rows := make([]string, 1000)
	for i := range rows {
		rows[i] = fmt.Sprintf("%s %s %s %s post %d", words[i%12], words[(i/3)%12], words[(i/7)%12], words[(i/11)%12], i)
	}
	table := titles(rows...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := uc.FindSimilar(table, "title", DefaultSimilarityThreshold); err != nil {
			b.Fatal(err)
		}
	}
}

// sameFormTokenizer maps every value to one normal form.
type sameFormTokenizer struct {
	*analyzer.Tokenizer
}

func (sameFormTokenizer) Normalize(string) string { return "" }

func TestFindSimilar_DuplicatesUseTokenizerNormalForm(t *testing.T) {
	uc := NewSimilarityUseCase(sameFormTokenizer{analyzer.NewTokenizer()}, 0, discardLogger())
	table := titles(
		"Red Pikmin carry the golden treasure home",
		"red pikmin carry the golden treasure home today",
	)

	pairs, err := uc.FindSimilar(table, "title", DefaultSimilarityThreshold)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 0 {
		t.Errorf("expected pairs with equal normal forms to be skipped, got %v", pairs)
	}
}

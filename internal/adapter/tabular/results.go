package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"redscrape/internal/domain"
)

// OutputPath appends ".csv" to name unless it already has an extension.
func OutputPath(name string) string {
	if filepath.Ext(name) == "" {
		return name + ".csv"
	}
	return name
}

// WriteFrequencies writes one "value,count" line per entry, without a header.
func WriteFrequencies(path string, entries []domain.FrequencyEntry) error {
	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, []string{e.Value, strconv.Itoa(e.Count)})
	}
	return writeRecords(path, records)
}

// WritePairs writes one "first,second,similarity" line per pair, without a header.
func WritePairs(path string, pairs []domain.SimilarPair) error {
	records := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		records = append(records, []string{p.First, p.Second, strconv.FormatFloat(p.Similarity, 'f', 4, 64)})
	}
	return writeRecords(path, records)
}

func writeRecords(path string, records [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"redscrape/internal/adapter/analyzer"
	"redscrape/internal/adapter/fs"
	"redscrape/internal/adapter/store"
	"redscrape/internal/adapter/tabular"
	"redscrape/internal/domain"
	"redscrape/internal/port"
	"redscrape/internal/usecase"
)

// Analysis types accepted by -t.
const (
	analysisUserFreq       = "user_freq"
	analysisWordCounts     = "word_counts"
	analysisSimilarPhrases = "similar_phrases"
)

var (
	analyzeInput     string
	analyzeOutput    string
	analyzeType      string
	analyzeColumn    string
	analyzeMinCount  int
	analyzeThreshold float64
	analyzePrint     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a previously exported table",
	Long: `Analyze a previously exported table.

Analysis types:
  word_counts      frequent title words (alias word-counts)
  user_freq        posts per author (alias author-frequency)
  similar_phrases  near-duplicate titles (alias similar-phrases)

The input may be a CSV export, a pattern such as 'exports/**/*.csv'
matching several exports, or the .db archive written by scrape.

Examples:
  redscrape analyze -i exported_data -o words
  redscrape analyze -i exported_data -t user_freq --print
  redscrape analyze -i 'exports/*.csv' -t similar_phrases --threshold 0.7`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "input", "previously exported table, pattern or archive")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "output", "output file name (.csv is added when missing)")
	analyzeCmd.Flags().StringVarP(&analyzeType, "type", "t", analysisWordCounts, "analysis type: user_freq, word_counts, similar_phrases")
	analyzeCmd.Flags().StringVar(&analyzeColumn, "column", "", "column to analyze (default depends on type)")
	analyzeCmd.Flags().IntVar(&analyzeMinCount, "min-count", 0, "minimum word count (default from config)")
	analyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", 0, "similarity threshold (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzePrint, "print", false, "print results as a table")
	rootCmd.AddCommand(analyzeCmd)
}

// analysisType resolves -t values and their aliases.
func analysisType(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case analysisUserFreq, "author-frequency":
		return analysisUserFreq, nil
	case analysisWordCounts, "word-counts":
		return analysisWordCounts, nil
	case analysisSimilarPhrases, "similar-phrases":
		return analysisSimilarPhrases, nil
	}
	return "", fmt.Errorf("invalid analysis type %q (choose from %s, %s, %s)",
		name, analysisUserFreq, analysisWordCounts, analysisSimilarPhrases)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	kind, err := analysisType(analyzeType)
	if err != nil {
		return err
	}

	inputs, err := fs.Inputs(analyzeInput)
	if err != nil {
		if errors.Is(err, fs.ErrNoMatch) {
			return fmt.Errorf("%w: %s", tabular.ErrInputNotFound, analyzeInput)
		}
		return err
	}
	fmt.Printf("Using %s\n", strings.Join(inputs, ", "))

	table, err := loadTable(inputs)
	if err != nil {
		return err
	}
	logger.WithField("rows", table.Len()).Debug("loaded table")

	column := analyzeColumn
	if column == "" {
		column = cfg.Analyze.TitleColumn
		if kind == analysisUserFreq {
			column = cfg.Analyze.AuthorColumn
		}
	}
	if _, err := domain.CanonicalColumn(column); err != nil {
		return err
	}

	outputPath := tabular.OutputPath(analyzeOutput)
	tokenizer := analyzer.NewTokenizer()

	switch kind {
	case analysisSimilarPhrases:
		threshold := cfg.Analyze.SimilarityThreshold
		if cmd.Flags().Changed("threshold") {
			threshold = analyzeThreshold
		}

		similarUC := usecase.NewSimilarityUseCase(tokenizer, cfg.Analyze.MaxRows, logger)
		pairs, err := similarUC.FindSimilar(table, column, threshold)
		if err != nil {
			return fmt.Errorf("similarity analysis failed: %w", err)
		}

		if analyzePrint {
			fmt.Println(pairTable(pairs))
		} else {
			for _, p := range pairs {
				fmt.Printf("Similar phrases: %s | %s\n", p.First, p.Second)
			}
		}
		if err := tabular.WritePairs(outputPath, pairs); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
		fmt.Printf("\n%d similar pairs written to %s\n", len(pairs), outputPath)
		return nil

	default:
		// Only assign when enabled so a disabled stemmer stays a nil interface.
		var stemmer port.Stemmer
		if cfg.Analyze.Stemming {
			stemmer = analyzer.NewStemmer()
		}
		countUC := usecase.NewCountUseCase(tokenizer, analyzer.NewStopwordFilter(), stemmer, cfg.Analyze.TokenizeIdentities, logger)

		var entries []domain.FrequencyEntry
		header := "Word"
		if kind == analysisUserFreq {
			header = "Author"
			entries, err = countUC.CountIdentities(table, column)
		} else {
			minCount := cfg.Analyze.MinCount
			if cmd.Flags().Changed("min-count") {
				minCount = analyzeMinCount
			}
			entries, err = countUC.CountWords(table, column, minCount)
		}
		if err != nil {
			return fmt.Errorf("count failed: %w", err)
		}

		if analyzePrint {
			fmt.Println(frequencyTable(header, entries))
		}
		if err := tabular.WriteFrequencies(outputPath, entries); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
		fmt.Printf("%d entries written to %s\n", len(entries), outputPath)
		return nil
	}
}

// loadTable reads a post archive or one or more CSV exports.
func loadTable(inputs []string) (*domain.Table, error) {
	if len(inputs) == 1 && strings.EqualFold(filepath.Ext(inputs[0]), ".db") {
		st, err := store.NewBoltStore(inputs[0])
		if err != nil {
			return nil, fmt.Errorf("failed to open archive: %w", err)
		}
		defer st.Close()
		return st.Load()
	}

	table, err := tabular.NewCSVTable(logger).LoadAll(inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to load input: %w", err)
	}
	return table, nil
}

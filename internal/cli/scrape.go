package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"redscrape/config"
	"redscrape/internal/adapter/memstore"
	"redscrape/internal/adapter/reddit"
	"redscrape/internal/adapter/store"
	"redscrape/internal/adapter/tabular"
	"redscrape/internal/domain"
	"redscrape/internal/port"
	"redscrape/internal/usecase"
)

var (
	scrapeConf       string
	scrapeExport     string
	scrapeSubreddit  string
	scrapeTimeFilter string
	scrapeLimit      int
	scrapeNoArchive  bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Download top posts of a subreddit into a CSV export",
	Long: `Download the top posts of the configured subreddit and write them to a
CSV export. Posts are also added to the archive (.redscrape/posts.db by
default) unless the archive is disabled.

Examples:
  redscrape scrape -c conn.json -e exported_data
  redscrape scrape -c conn.json -e week --time week --limit 200`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeConf, "conf", "c", "", "connection config file (required)")
	scrapeCmd.Flags().StringVarP(&scrapeExport, "export", "e", "exported_data", "export file path")
	scrapeCmd.Flags().StringVar(&scrapeSubreddit, "subreddit", "", "subreddit (default from config)")
	scrapeCmd.Flags().StringVar(&scrapeTimeFilter, "time", "", "time filter: hour, day, week, month, year, all (default from config)")
	scrapeCmd.Flags().IntVar(&scrapeLimit, "limit", 0, "maximum number of posts (default from config)")
	scrapeCmd.Flags().BoolVar(&scrapeNoArchive, "no-archive", false, "do not add posts to the archive")
	rootCmd.AddCommand(scrapeCmd)
}

var errConfNotFound = errors.New("conf file not found or provided")

func runScrape(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	conn, err := config.LoadConnection(scrapeConf)
	if err != nil {
		if errors.Is(err, config.ErrConnectionConfig) && scrapeConf == "" {
			return errConfNotFound
		}
		return fmt.Errorf("%w: %v", errConfNotFound, err)
	}
	fmt.Printf("Using %s\n", scrapeConf)

	source := cfg.Source
	if scrapeSubreddit != "" {
		source.Subreddit = scrapeSubreddit
	}
	if scrapeTimeFilter != "" {
		source.TimeFilter = scrapeTimeFilter
	}
	if scrapeLimit > 0 {
		source.Limit = scrapeLimit
	}

	client := reddit.NewClient(reddit.Credentials{
		ClientID:     conn.ClientID,
		ClientSecret: conn.ClientSecret,
		UserAgent:    conn.UserAgent,
		Username:     conn.Username,
		Password:     conn.Password,
	}, reddit.Options{
		Subreddit: source.Subreddit,
		AuthURL:   source.AuthURL,
		APIURL:    source.APIURL,
		Timeout:   time.Duration(source.TimeoutSeconds) * time.Second,
	})

	archive, st, err := openArchive(cfg, GetRootDir(), scrapeNoArchive)
	if err != nil {
		return err
	}
	defer archive.Close()

	var previous time.Time
	if st != nil {
		if previous, err = st.LastScrape(); err != nil {
			logger.WithError(err).Warn("failed to read previous scrape time")
		}
	}

	writer := tabular.NewCSVTable(logger)
	scrapeUC := usecase.NewScrapeUseCase(client, writer, archive, logger)
	exportPath := scrapeExport

	fmt.Printf("Fetching top posts of r/%s (%s, limit %d)...\n", source.Subreddit, source.TimeFilter, source.Limit)

	bar := progressbar.NewOptions(source.Limit,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Fetching[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
	startTime := time.Now()

	progress := func(fetched int) {
		bar.Set(fetched)
		if fetched > 0 {
			rate := float64(fetched) / time.Since(startTime).Seconds()
			if rate > 0 {
				eta := time.Duration(float64(source.Limit-fetched)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Fetching[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}

	result, err := scrapeUC.Scrape(cmd.Context(), source.TimeFilter, source.Limit, exportPath, progress)
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}
	bar.Finish()

	if st != nil {
		if err := st.SetLastScrape(time.Now()); err != nil {
			logger.WithError(err).Warn("failed to record scrape time")
		}
	}

	fmt.Printf("\nScrape complete:\n")
	fmt.Printf("  Posts fetched:  %d\n", result.Fetched)
	if st != nil {
		fmt.Printf("  Posts archived: %d new (%d total)\n", result.Archived, result.ArchiveTotal)
		if !previous.IsZero() {
			fmt.Printf("  Last scrape:    %s\n", previous.Local().Format(domain.TimeLayout))
		}
	} else {
		fmt.Printf("  Unique posts:   %d\n", result.ArchiveTotal)
	}
	fmt.Printf("\nExport written to: %s\n", result.ExportPath)
	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}

// openArchive opens the bbolt archive, or an in-memory store when archiving
// is disabled. The returned *BoltStore is nil in the latter case.
func openArchive(cfg *config.Config, root string, disabled bool) (port.PostStore, *store.BoltStore, error) {
	if !cfg.Store.Enabled || disabled {
		return memstore.NewMemoryStore(), nil, nil
	}
	st, err := store.NewBoltStore(cfg.ArchivePath(root))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return st, st, nil
}

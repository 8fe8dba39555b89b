package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"redscrape/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
	logger  *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "redscrape",
	Short: "Scrape subreddit top posts and analyze their text",
	Long: `redscrape downloads the top posts of a subreddit into a CSV export
and analyzes exported tables: word frequencies, author frequencies and
near-duplicate titles.

Example usage:
  redscrape scrape -c conn.json -e exported_data     # Download top posts
  redscrape analyze -i exported_data.csv -t word_counts
  redscrape analyze -i 'exports/*.csv' -t similar_phrases -o dupes`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = newLogger(cfg.Logging)
		if err != nil {
			return err
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./redscrape.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

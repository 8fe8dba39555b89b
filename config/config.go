package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var ErrConnectionConfig = errors.New("connection config error")

// Config holds all configuration for the tool.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Analyze AnalyzeConfig `yaml:"analyze"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig selects the feed to ingest.
type SourceConfig struct {
	Subreddit      string `yaml:"subreddit"`
	TimeFilter     string `yaml:"time_filter"` // hour, day, week, month, year, all
	Limit          int    `yaml:"limit"`
	AuthURL        string `yaml:"auth_url"`
	APIURL         string `yaml:"api_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AnalyzeConfig holds analysis defaults.
type AnalyzeConfig struct {
	TitleColumn         string  `yaml:"title_column"`
	AuthorColumn        string  `yaml:"author_column"`
	MinCount            int     `yaml:"min_count"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MaxRows             int     `yaml:"max_rows"` // 0 = unlimited
	Stemming            bool    `yaml:"stemming"`
	TokenizeIdentities  bool    `yaml:"tokenize_identities"`
}

// StoreConfig holds the post archive settings.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Connection holds the credentials of the script application.
type Connection struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	UserAgent    string `yaml:"user_agent"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Subreddit:      "pikmin",
			TimeFilter:     "month",
			Limit:          1000,
			AuthURL:        "https://www.reddit.com/api/v1/access_token",
			APIURL:         "https://oauth.reddit.com",
			TimeoutSeconds: 30,
		},
		Analyze: AnalyzeConfig{
			TitleColumn:         "title",
			AuthorColumn:        "Author",
			MinCount:            10,
			SimilarityThreshold: 0.8,
			MaxRows:             1000,
			Stemming:            false,
			TokenizeIdentities:  false,
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    filepath.Join(".redscrape", "posts.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for redscrape.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "redscrape.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".redscrape", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadConnection reads the credentials file. JSON files are accepted as they are valid YAML.
func LoadConnection(path string) (*Connection, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: conf file not provided", ErrConnectionConfig)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: conf file not found: %s", ErrConnectionConfig, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrConnectionConfig, err)
	}

	var conn Connection
	if err := yaml.Unmarshal(data, &conn); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnectionConfig, path, err)
	}
	if err := conn.Validate(); err != nil {
		return nil, err
	}
	return &conn, nil
}

// Validate checks that every credential is set.
func (c *Connection) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"client_id", c.ClientID},
		{"client_secret", c.ClientSecret},
		{"user_agent", c.UserAgent},
		{"username", c.Username},
		{"password", c.Password},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: missing %s", ErrConnectionConfig, f.name)
		}
	}
	return nil
}

// ArchivePath resolves the post archive location against root.
func (c *Config) ArchivePath(root string) string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(root, c.Store.Path)
}

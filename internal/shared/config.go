package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Supabase SupabaseConfig `toml:"supabase"`
	Artwork  ArtworkConfig  `toml:"artwork"`
	Export   ExportConfig   `toml:"export"`
}

// SupabaseConfig contains hosted store connection settings.
type SupabaseConfig struct {
	URL     string `toml:"url"`
	AnonKey string `toml:"anon_key"`
}

// ArtworkConfig contains iTunes artwork lookup settings.
type ArtworkConfig struct {
	Enabled bool `toml:"enabled"`
}

// ExportConfig contains file export settings.
type ExportConfig struct {
	Directory string `toml:"directory"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
// FRETLOG_SUPABASE_URL and FRETLOG_SUPABASE_ANON_KEY override the file values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
// Environment overrides still apply, so a credential-only setup needs no config file at all.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FRETLOG_SUPABASE_URL"); v != "" {
		c.Supabase.URL = v
	}
	if v := os.Getenv("FRETLOG_SUPABASE_ANON_KEY"); v != "" {
		c.Supabase.AnonKey = v
	}
}

// SupabaseConfigured reports whether the hosted store credentials are usable:
// both values present, a secure scheme, and a supabase.co host.
func (c *Config) SupabaseConfigured() bool {
	url := strings.TrimSpace(c.Supabase.URL)
	key := strings.TrimSpace(c.Supabase.AnonKey)
	if url == "" || key == "" {
		return false
	}
	return strings.HasPrefix(url, "https://") && strings.Contains(url, "supabase.co")
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

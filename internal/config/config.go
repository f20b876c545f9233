package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Identity is the local user as shown on outgoing messages.
type Identity struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Config represents the global ~/.chatkit/config.toml.
type Config struct {
	DefaultSession     string   `toml:"default_session"`
	LogLevel           string   `toml:"log_level"`
	SeedDemo           bool     `toml:"seed_demo"`
	CheckpointInterval Duration `toml:"checkpoint_interval"`
	YesterdayLabel     string   `toml:"yesterday_label"`
	Locale             string   `toml:"locale"`
	Identity           Identity `toml:"identity"`
}

// Duration is a time.Duration encoded as a TOML string such as "2s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DefaultSession:     "main",
		LogLevel:           "info",
		SeedDemo:           true,
		CheckpointInterval: Duration{2 * time.Second},
		YesterdayLabel:     "yesterday",
		Locale:             "und",
		Identity:           Identity{ID: "me", Name: "Me"},
	}
}

// Load reads config from the given path on top of Default. Returns error if
// the file is missing or malformed.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

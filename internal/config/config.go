// Package config reads and writes budget.yaml, the per-directory
// project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file name inside a budget directory.
const FileName = "budget.yaml"

// Config represents the top-level budget.yaml configuration.
type Config struct {
	Profile     ProfileConfig     `yaml:"profile"`
	Categorizer CategorizerConfig `yaml:"categorizer"`
	Snapshot    SnapshotConfig    `yaml:"snapshot"`
	Git         GitConfig         `yaml:"git"`
}

// ProfileConfig identifies the budget owner.
type ProfileConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

// CategorizerConfig controls the rule engine.
type CategorizerConfig struct {
	RulesFile string `yaml:"rules_file"` // relative to the budget directory
	Fallback  string `yaml:"fallback"`   // category when no rule matches
}

// SnapshotConfig controls dataset persistence.
type SnapshotConfig struct {
	File string `yaml:"file"` // relative to the budget directory
}

// GitConfig controls git integration for snapshot history.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a budget.yaml file from disk. A .env file next to it is
// loaded first, and BUDGETDASH_* environment variables override the
// file values, so machine-local settings stay out of version control.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Missing .env is the normal case.
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))
	applyEnv(&cfg)

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BUDGETDASH_AUTHOR_NAME"); v != "" {
		cfg.Git.AuthorName = v
	}
	if v := os.Getenv("BUDGETDASH_AUTHOR_EMAIL"); v != "" {
		cfg.Git.AuthorEmail = v
	}
	if v := os.Getenv("BUDGETDASH_AUTO_COMMIT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Git.AutoCommit = b
		}
	}
	if v := os.Getenv("BUDGETDASH_FALLBACK_CATEGORY"); v != "" {
		cfg.Categorizer.Fallback = v
	}
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new budget.
func Default(profileName string) *Config {
	return &Config{
		Profile: ProfileConfig{
			Name:     profileName,
			Currency: "EUR",
		},
		Categorizer: CategorizerConfig{
			RulesFile: filepath.Join("rules", "categories.yaml"),
			Fallback:  "Other",
		},
		Snapshot: SnapshotConfig{
			File: filepath.Join("data", "transactions.csv"),
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Budgetdash",
			AuthorEmail: "budgetdash@localhost",
		},
	}
}

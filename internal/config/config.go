package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for a claimstats run.
type Config struct {
	PharmacyDirs []string `yaml:"pharmacy_dirs"`
	ClaimDirs    []string `yaml:"claim_dirs"`
	RevertDirs   []string `yaml:"revert_dirs"`
	OutputDir    string   `yaml:"output_dir"`
	ExportClaims string   `yaml:"export_claims"` // optional Parquet path for enriched claims
	InputDir     string   // publish: directory holding generated report artifacts
	DSN          string
	LogFormat    string // "text" or "json"
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	PharmacyDirs []string `yaml:"pharmacy_dirs"`
	ClaimDirs    []string `yaml:"claim_dirs"`
	RevertDirs   []string `yaml:"revert_dirs"`
	OutputDir    string   `yaml:"output_dir"`
	ExportClaims string   `yaml:"export_claims"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Flag values already set take precedence over file values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if len(c.PharmacyDirs) == 0 {
		c.PharmacyDirs = yc.PharmacyDirs
	}
	if len(c.ClaimDirs) == 0 {
		c.ClaimDirs = yc.ClaimDirs
	}
	if len(c.RevertDirs) == 0 {
		c.RevertDirs = yc.RevertDirs
	}
	if c.OutputDir == "" {
		c.OutputDir = yc.OutputDir
	}
	if c.ExportClaims == "" {
		c.ExportClaims = yc.ExportClaims
	}
	return nil
}

// Validate checks required fields for a pipeline run.
func (c *Config) Validate() error {
	if len(c.PharmacyDirs) == 0 {
		return fmt.Errorf("at least one --pharmacy directory is required")
	}
	if len(c.ClaimDirs) == 0 {
		return fmt.Errorf("at least one --claims directory is required")
	}
	if len(c.RevertDirs) == 0 {
		return fmt.Errorf("at least one --reverts directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("--output-dir is required")
	}
	return nil
}

// ValidateForPublish checks fields required by the publish command.
func (c *Config) ValidateForPublish() error {
	if c.InputDir == "" {
		return fmt.Errorf("--input-dir is required")
	}
	if _, err := os.Stat(c.InputDir); err != nil {
		return fmt.Errorf("input dir not accessible: %w", err)
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or CLAIMSTATS_DB_URL is required")
	}
	return nil
}

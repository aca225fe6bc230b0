package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSampleText is the text run through both ciphers by `shiftctl demo`.
const DefaultSampleText = "Here's some text that I am writing, look at these characters go." +
	"'spect to the Romans."

// Config captures the shiftctl configuration resolved from defaults, optional
// files, and environment overrides.
type Config struct {
	CaesarShift  int         `yaml:"caesar_shift"`
	UnicodeShift int         `yaml:"unicode_shift"`
	SampleText   string      `yaml:"sample_text"`
	Normalize    string      `yaml:"normalize"`
	RecipesDir   string      `yaml:"recipes_dir"`
	Audit        AuditConfig `yaml:"audit"`
}

// AuditConfig controls where audit events go.
type AuditConfig struct {
	// Path is a JSON-lines file. Empty disables auditing and "-" means stderr.
	Path      string `yaml:"path"`
	Plaintext bool   `yaml:"plaintext"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CaesarShift:  20,
		UnicodeShift: 6000,
		SampleText:   DefaultSampleText,
		Normalize:    "none",
		RecipesDir:   defaultRecipesDir(),
		Audit: AuditConfig{
			Path:      "",
			Plaintext: false,
		},
	}
}

func defaultRecipesDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".shiftcipher", "recipes")
	}
	return filepath.Join(home, ".shiftcipher", "recipes")
}

// Load resolves the configuration using defaults, configuration files, and
// environment overrides. Files are read in this order, later ones winning:
//  1. ~/.shiftcipher/config.yml
//  2. ./shiftcipher.yml
//
// Environment variables prefixed with SHIFTCIPHER_ have the highest precedence.
// Shift values are not range-checked here; the cipher constructors do that.
func Load() (Config, error) {
	cfg := Default()

	if err := loadHomeConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLocalConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadHomeConfig(cfg *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		// No home directory means no home config.
		return nil
	}
	return loadFile(cfg, filepath.Join(home, ".shiftcipher", "config.yml"))
}

func loadLocalConfig(cfg *Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	return loadFile(cfg, filepath.Join(wd, "shiftcipher.yml"))
}

// loadFile applies path to cfg. A missing file is not an error.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// fileConfig mirrors Config with pointers so that only keys present in a file
// override earlier layers.
type fileConfig struct {
	CaesarShift  *int             `yaml:"caesar_shift"`
	UnicodeShift *int             `yaml:"unicode_shift"`
	SampleText   *string          `yaml:"sample_text"`
	Normalize    *string          `yaml:"normalize"`
	RecipesDir   *string          `yaml:"recipes_dir"`
	Audit        *fileAuditConfig `yaml:"audit"`
}

type fileAuditConfig struct {
	Path      *string `yaml:"path"`
	Plaintext *bool   `yaml:"plaintext"`
}

func applyFileConfig(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.CaesarShift != nil {
		cfg.CaesarShift = *fc.CaesarShift
	}
	if fc.UnicodeShift != nil {
		cfg.UnicodeShift = *fc.UnicodeShift
	}
	if fc.SampleText != nil {
		cfg.SampleText = *fc.SampleText
	}
	if fc.Normalize != nil {
		cfg.Normalize = strings.TrimSpace(*fc.Normalize)
	}
	if fc.RecipesDir != nil {
		cfg.RecipesDir = expandHome(strings.TrimSpace(*fc.RecipesDir))
	}
	if fc.Audit != nil {
		if fc.Audit.Path != nil {
			cfg.Audit.Path = expandHome(strings.TrimSpace(*fc.Audit.Path))
		}
		if fc.Audit.Plaintext != nil {
			cfg.Audit.Plaintext = *fc.Audit.Plaintext
		}
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if val := strings.TrimSpace(os.Getenv("SHIFTCIPHER_CAESAR_SHIFT")); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("SHIFTCIPHER_CAESAR_SHIFT: %w", err)
		}
		cfg.CaesarShift = n
	}
	if val := strings.TrimSpace(os.Getenv("SHIFTCIPHER_UNICODE_SHIFT")); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("SHIFTCIPHER_UNICODE_SHIFT: %w", err)
		}
		cfg.UnicodeShift = n
	}
	if val, ok := os.LookupEnv("SHIFTCIPHER_SAMPLE_TEXT"); ok && val != "" {
		cfg.SampleText = val
	}
	if val := strings.TrimSpace(os.Getenv("SHIFTCIPHER_NORMALIZE")); val != "" {
		cfg.Normalize = val
	}
	if val := strings.TrimSpace(os.Getenv("SHIFTCIPHER_RECIPES_DIR")); val != "" {
		cfg.RecipesDir = expandHome(val)
	}
	if val := strings.TrimSpace(os.Getenv("SHIFTCIPHER_AUDIT_LOG")); val != "" {
		cfg.Audit.Path = expandHome(val)
	}
	if val := strings.TrimSpace(os.Getenv("SHIFTCIPHER_AUDIT_PLAINTEXT")); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Plaintext = parsed
		}
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

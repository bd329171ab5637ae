// Package config loads FoxVault settings.
//
// Sources are layered, later ones overriding earlier ones:
//
//  1. Defaults
//  2. YAML file (strict: unknown keys are rejected)
//  3. .env file, when present, exported into the process environment
//  4. FOXVAULT_* environment variables
//
// The merged result is validated against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Config holds all runtime settings.
type Config struct {
	AccountsPath    string `yaml:"accounts_path" json:"accounts_path"`
	LogPath         string `yaml:"log_path" json:"log_path"`
	MaxAttempts     int    `yaml:"max_attempts" json:"max_attempts"`
	NewAccountMaxID int    `yaml:"new_account_max_id" json:"new_account_max_id"`
	Currency        string `yaml:"currency" json:"currency"`
	LogLevel        string `yaml:"log_level" json:"log_level"`
}

// Environment variable names.
const (
	EnvAccountsPath    = "FOXVAULT_ACCOUNTS"
	EnvLogPath         = "FOXVAULT_LOG"
	EnvMaxAttempts     = "FOXVAULT_MAX_ATTEMPTS"
	EnvNewAccountMaxID = "FOXVAULT_NEW_ACCOUNT_MAX_ID"
	EnvCurrency        = "FOXVAULT_CURRENCY"
	EnvLogLevel        = "FOXVAULT_LOG_LEVEL"
)

// Default returns the built-in settings.
func Default() Config {
	return Config{
		AccountsPath:    "accounts.dat",
		LogPath:         "transactions.log",
		MaxAttempts:     3,
		NewAccountMaxID: 9997,
		Currency:        "CZK",
		LogLevel:        "info",
	}
}

// LoadOptions selects the optional file sources.
type LoadOptions struct {
	// File is a YAML config file. Empty means none.
	File string
	// EnvFile is a dotenv file loaded if it exists. Empty means ".env".
	EnvFile string
}

// Load merges all sources and validates the result.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	if opts.File != "" {
		if err := cfg.mergeFile(opts.File); err != nil {
			return Config{}, err
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := loadDotenv(envFile); err != nil {
		return Config{}, err
	}

	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// loadDotenv exports variables from path without overriding ones already set.
func loadDotenv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	if v, ok := os.LookupEnv(EnvAccountsPath); ok {
		c.AccountsPath = v
	}
	if v, ok := os.LookupEnv(EnvLogPath); ok {
		c.LogPath = v
	}
	if v, ok := os.LookupEnv(EnvCurrency); ok {
		c.Currency = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if err := envInt(EnvMaxAttempts, &c.MaxAttempts); err != nil {
		return err
	}
	return envInt(EnvNewAccountMaxID, &c.NewAccountMaxID)
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// Validate checks c against the embedded schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	v := def.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

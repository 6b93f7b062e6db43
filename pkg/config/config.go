// Package config builds the run configuration from a YAML file, EXTRATOS_*
// environment variables, a .env file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"github.com/yurifrl/extratos/pkg/models"
)

const EnvPrefix = "EXTRATOS"

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type Config struct {
	// BaseDir holds one "EXTRATO <period>" directory per period.
	BaseDir string `mapstructure:"base_dir"`
	Period  string `mapstructure:"period"`
	// Banks maps a bank id to a directory, replacing the default layout.
	Banks        map[string]string `mapstructure:"banks"`
	Workers      int               `mapstructure:"workers"`
	FileTimeout  time.Duration     `mapstructure:"file_timeout"`
	Retries      int               `mapstructure:"retries"`
	RetryBackoff time.Duration     `mapstructure:"retry_backoff"`
	IncludeText  bool              `mapstructure:"include_text"`
	LogLevel     string            `mapstructure:"log_level"`
	Server       ServerConfig      `mapstructure:"server"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		BaseDir:      ".",
		Banks:        map[string]string{},
		Workers:      4,
		FileTimeout:  30 * time.Second,
		RetryBackoff: 500 * time.Millisecond,
		LogLevel:     "info",
		Server:       ServerConfig{Addr: "0.0.0.0:3000"},
	}
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"base-dir":     "base_dir",
	"period":       "period",
	"workers":      "workers",
	"file-timeout": "file_timeout",
	"retries":      "retries",
	"include-text": "include_text",
	"log-level":    "log_level",
	"addr":         "server.addr",
}

// RegisterFlags adds the flags understood by Build to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.String("base-dir", d.BaseDir, "Directory holding the EXTRATO <period> folders")
	flags.String("period", d.Period, "Statement period, e.g. \"NOVEMBRO 2025\"")
	flags.Int("workers", d.Workers, "Files processed in parallel")
	flags.Duration("file-timeout", d.FileTimeout, "Text extraction timeout per file")
	flags.Int("retries", d.Retries, "Extra extraction attempts per file")
	flags.Bool("include-text", d.IncludeText, "Attach extracted text to results")
	flags.String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")
}

// Build loads configuration. Precedence, highest first: flags that were set,
// environment, config file, defaults. An empty cfgFile looks for
// ./config.yaml and does not fail when it is missing.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("base_dir", d.BaseDir)
	v.SetDefault("period", d.Period)
	v.SetDefault("banks", d.Banks)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("file_timeout", d.FileTimeout)
	v.SetDefault("retries", d.Retries)
	v.SetDefault("retry_backoff", d.RetryBackoff)
	v.SetDefault("include_text", d.IncludeText)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("server.addr", d.Server.Addr)
}

// Validate checks ranges and that every bank override names a known bank.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.FileTimeout <= 0 {
		return fmt.Errorf("file_timeout must be positive, got %s", c.FileTimeout)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}
	if c.RetryBackoff <= 0 {
		return fmt.Errorf("retry_backoff must be positive, got %s", c.RetryBackoff)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	for id := range c.Banks {
		if _, err := models.ParseBank(id); err != nil {
			return fmt.Errorf("invalid banks entry: %w", err)
		}
	}
	return nil
}

// Level returns the parsed log level, info when unset.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// BankDir resolves the statement directory of a bank: the banks override
// when present, else <base_dir>/EXTRATO <period>/<BANK>, or
// <base_dir>/<BANK> without a period.
func (c *Config) BankDir(bank models.Bank) string {
	for id, dir := range c.Banks {
		if strings.EqualFold(id, string(bank)) && dir != "" {
			return dir
		}
	}
	if c.Period == "" {
		return filepath.Join(c.BaseDir, bank.Upper())
	}
	return filepath.Join(c.BaseDir, "EXTRATO "+c.Period, bank.Upper())
}

// WithBankDir returns a copy of c where bank reads from dir.
func (c *Config) WithBankDir(bank models.Bank, dir string) *Config {
	cp := *c
	cp.Banks = make(map[string]string, len(c.Banks)+1)
	for k, v := range c.Banks {
		cp.Banks[k] = v
	}
	cp.Banks[string(bank)] = dir
	return &cp
}

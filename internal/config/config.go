package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gordoncheme/ctx-theatre-browser/internal/logger"
	"github.com/gordoncheme/ctx-theatre-browser/internal/production"
	"github.com/gordoncheme/ctx-theatre-browser/internal/scraper"
	"github.com/gordoncheme/ctx-theatre-browser/internal/storage"
)

const (
	// DefaultPath is read when no config file is named explicitly
	DefaultPath = "~/.config/ctx-theatre/config.yaml"

	// DefaultEnvFile is read from the working directory when present
	DefaultEnvFile = ".env"

	// EnvPrefix prefixes every environment variable the loader reads
	EnvPrefix = "CTX_"

	DefaultRetries = 2
)

// Config holds all runtime settings
type Config struct {
	FeedURL   string        `yaml:"feed_url"`
	Category  string        `yaml:"category"`
	StorePath string        `yaml:"store_path"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	Retries   int           `yaml:"retries"`
	LogLevel  string        `yaml:"log_level"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		FeedURL:   scraper.DefaultFeedURL,
		Category:  production.CategoryProductions,
		StorePath: storage.DefaultPath,
		UserAgent: scraper.UserAgent,
		Timeout:   scraper.Timeout,
		Retries:   DefaultRetries,
		LogLevel:  string(logger.LevelInfo),
	}
}

// Options tells Load where to look
type Options struct {
	// ConfigPath names a YAML file that must exist. Empty means DefaultPath,
	// which may be absent.
	ConfigPath string

	// EnvFile names a dotenv file that may be absent. Empty means DefaultEnvFile.
	EnvFile string

	// LookupEnv reads the process environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load builds the configuration from defaults, the YAML file and the
// environment. The result is validated.
func Load(opts Options) (Config, error) {
	cfg := Default()

	fileLayer, err := readFile(opts.ConfigPath)
	if err != nil {
		return Config{}, err
	}
	envLayer, err := readEnv(opts.EnvFile, opts.LookupEnv)
	if err != nil {
		return Config{}, err
	}

	for _, l := range []struct {
		name string
		layer
	}{{"config file", fileLayer}, {"environment", envLayer}} {
		if err := l.applyTo(&cfg); err != nil {
			return Config{}, fmt.Errorf("merging %s: %w", l.name, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// layer is one source of settings. Only non-zero fields override; retries
// is tracked separately so an explicit 0 still applies.
type layer struct {
	Config
	retriesSet bool
}

func (l layer) applyTo(cfg *Config) error {
	if err := mergo.Merge(cfg, l.Config, mergo.WithOverride); err != nil {
		return err
	}
	if l.retriesSet {
		cfg.Retries = l.Retries
	}
	return nil
}

func readFile(path string) (layer, error) {
	required := path != ""
	if path == "" {
		path = DefaultPath
	}
	path, err := storage.ExpandHome(path)
	if err != nil {
		return layer{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return layer{}, nil
		}
		return layer{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return layer{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	var present struct {
		Retries *int `yaml:"retries"`
	}
	if err := yaml.Unmarshal(data, &present); err != nil {
		return layer{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return layer{Config: cfg, retriesSet: present.Retries != nil}, nil
}

// readEnv collects CTX_* settings from the dotenv file and the environment
func readEnv(envFile string, lookup func(string) (string, bool)) (layer, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}

	dotenv, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return layer{}, fmt.Errorf("reading %s: %w", envFile, err)
		}
		dotenv = map[string]string{}
	}

	get := func(name string) (string, bool) {
		key := EnvPrefix + name
		if v, ok := lookup(key); ok {
			return strings.TrimSpace(v), true
		}
		v, ok := dotenv[key]
		return strings.TrimSpace(v), ok
	}

	var out layer
	if v, ok := get("FEED_URL"); ok {
		out.FeedURL = v
	}
	if v, ok := get("CATEGORY"); ok {
		out.Category = v
	}
	if v, ok := get("STORE_PATH"); ok {
		out.StorePath = v
	}
	if v, ok := get("USER_AGENT"); ok {
		out.UserAgent = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		out.LogLevel = v
	}
	if v, ok := get("TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return layer{}, fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err)
		}
		out.Timeout = d
	}
	if v, ok := get("RETRIES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return layer{}, fmt.Errorf("%sRETRIES: %w", EnvPrefix, err)
		}
		out.Retries = n
		out.retriesSet = true
	}
	return out, nil
}

// Validate checks that the settings are usable
func (c Config) Validate() error {
	u, err := url.Parse(c.FeedURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("feed_url %q must be an http(s) URL", c.FeedURL)
	}
	if strings.TrimSpace(c.Category) == "" {
		return fmt.Errorf("category is required")
	}
	if strings.TrimSpace(c.StorePath) == "" {
		return fmt.Errorf("store_path is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be non-negative, got %d", c.Retries)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// ScraperOptions returns the HTTP client settings
func (c Config) ScraperOptions() scraper.Options {
	return scraper.Options{
		UserAgent: c.UserAgent,
		Timeout:   c.Timeout,
		Retries:   c.Retries,
	}
}

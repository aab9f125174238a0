package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Options{
		ConfigPath: writeFile(t, "config.yaml", ""),
		EnvFile:    missingEnvFile(t),
		LookupEnv:  noEnv,
	})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
feed_url: https://example.com/rss/
category: Shows
timeout: 5s
retries: 4
log_level: debug
`)
	cfg, err := Load(Options{ConfigPath: path, EnvFile: missingEnvFile(t), LookupEnv: noEnv})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/rss/", cfg.FeedURL)
	assert.Equal(t, "Shows", cfg.Category)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 4, cfg.Retries)
	assert.Equal(t, "debug", cfg.LogLevel)
	// untouched keys keep their defaults
	assert.Equal(t, Default().StorePath, cfg.StorePath)
	assert.Equal(t, Default().UserAgent, cfg.UserAgent)
}

func TestLoad_YAMLZeroRetries(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want int
	}{
		{name: "explicit zero", yaml: "retries: 0\n", want: 0},
		{name: "absent", yaml: "category: Shows\n", want: DefaultRetries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "config.yaml", tt.yaml)
			cfg, err := Load(Options{ConfigPath: path, EnvFile: missingEnvFile(t), LookupEnv: noEnv})
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Retries)
		})
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "category: Shows\nretries: 4\n")
	envFile := writeFile(t, ".env", "CTX_CATEGORY=FromDotenv\nCTX_STORE_PATH=/tmp/dotenv.json\n")

	cfg, err := Load(Options{
		ConfigPath: path,
		EnvFile:    envFile,
		LookupEnv: envMap(map[string]string{
			"CTX_CATEGORY": "FromEnv",
			"CTX_TIMEOUT":  "10s",
			"CTX_RETRIES":  "0",
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, "FromEnv", cfg.Category, "process env beats .env")
	assert.Equal(t, "/tmp/dotenv.json", cfg.StorePath, ".env beats YAML and defaults")
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.Retries, "explicit zero retries from the environment")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts func(t *testing.T) Options
	}{
		{
			name: "named config file missing",
			opts: func(t *testing.T) Options {
				return Options{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")}
			},
		},
		{
			name: "malformed yaml",
			opts: func(t *testing.T) Options {
				return Options{ConfigPath: writeFile(t, "config.yaml", "feed_url: [unclosed")}
			},
		},
		{
			name: "bad timeout in env",
			opts: func(t *testing.T) Options {
				return Options{
					ConfigPath: writeFile(t, "config.yaml", ""),
					LookupEnv:  envMap(map[string]string{"CTX_TIMEOUT": "soon"}),
				}
			},
		},
		{
			name: "bad retries in env",
			opts: func(t *testing.T) Options {
				return Options{
					ConfigPath: writeFile(t, "config.yaml", ""),
					LookupEnv:  envMap(map[string]string{"CTX_RETRIES": "many"}),
				}
			},
		},
		{
			name: "invalid merged value",
			opts: func(t *testing.T) Options {
				return Options{ConfigPath: writeFile(t, "config.yaml", "feed_url: ftp://example.com/feed\n")}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts(t)
			if opts.LookupEnv == nil {
				opts.LookupEnv = noEnv
			}
			if opts.EnvFile == "" {
				opts.EnvFile = missingEnvFile(t)
			}
			_, err := Load(opts)
			assert.Error(t, err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "relative feed url", mutate: func(c *Config) { c.FeedURL = "/rss/all/" }, wantErr: true},
		{name: "empty category", mutate: func(c *Config) { c.Category = " " }, wantErr: true},
		{name: "empty store path", mutate: func(c *Config) { c.StorePath = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: true},
		{name: "negative retries", mutate: func(c *Config) { c.Retries = -1 }, wantErr: true},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "chatty" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ScraperOptions(t *testing.T) {
	cfg := Default()
	cfg.Retries = 5
	opts := cfg.ScraperOptions()
	assert.Equal(t, cfg.UserAgent, opts.UserAgent)
	assert.Equal(t, cfg.Timeout, opts.Timeout)
	assert.Equal(t, 5, opts.Retries)
}

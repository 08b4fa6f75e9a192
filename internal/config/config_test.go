package config_test

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/linkpuzzle/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		PuzzleURL:      "http://localhost:8080",
		StoreBackend:   config.BackendFile,
		StorePath:      ".linkpuzzle",
		HTTPTimeout:    15 * time.Second,
		FetchAttempts:  3,
		Addr:           ":8080",
		StartDate:      "2026-01-16",
		MaxGuesses:     6,
		RateLimitRPS:   5,
		RateLimitBurst: 10,
		LogLevel:       "INFO",
		LogFormat:      "console",
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PUZZLE_URL", "")
	cfg := config.Load(nil)

	assert.Equal(t, "http://localhost:8080", cfg.PuzzleURL)
	assert.Equal(t, config.BackendFile, cfg.StoreBackend)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.FetchAttempts)
	assert.Equal(t, 6, cfg.MaxGuesses)
	assert.Equal(t, "2026-01-16", cfg.StartDate)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PUZZLE_URL", "https://puzzles.example.com")
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("HTTP_TIMEOUT", "2s")
	t.Setenv("MAX_GUESSES", "8")

	cfg := config.Load(nil)

	assert.Equal(t, "https://puzzles.example.com", cfg.PuzzleURL)
	assert.Equal(t, config.BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, 2*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 8, cfg.MaxGuesses)
}

func TestLoad_FlagsWinOverEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("store-backend", "file", "")
	fs.String("unrelated", "", "")
	require.NoError(t, fs.Parse([]string{"--store-backend=memory"}))

	cfg := config.Load(fs)
	assert.Equal(t, config.BackendMemory, cfg.StoreBackend)
}

func TestLoad_UnsetFlagDoesNotMaskEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("store-backend", "file", "")
	require.NoError(t, fs.Parse(nil))

	cfg := config.Load(fs)
	assert.Equal(t, config.BackendRedis, cfg.StoreBackend)
}

func TestLoad_RedisOptions(t *testing.T) {
	t.Setenv("REDIS_NAMESPACE", "")
	t.Setenv("REDIS_TTL", "")
	cfg := config.Load(nil)
	assert.Equal(t, "linkpuzzle", cfg.RedisNamespace)
	assert.Zero(t, cfg.RedisTTL)

	t.Setenv("REDIS_NAMESPACE", "dev")
	t.Setenv("REDIS_TTL", "48h")
	cfg = config.Load(nil)
	assert.Equal(t, "dev", cfg.RedisNamespace)
	assert.Equal(t, 48*time.Hour, cfg.RedisTTL)
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.ValidateClient())
	assert.NoError(t, cfg.ValidateServer())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		check   func(config.Config) error
		message string
	}{
		{
			name:    "unknown backend",
			mutate:  func(c *config.Config) { c.StoreBackend = "etcd" },
			check:   config.Config.Validate,
			message: "STORE_BACKEND must be one of",
		},
		{
			name:    "file backend without path",
			mutate:  func(c *config.Config) { c.StorePath = "" },
			check:   config.Config.Validate,
			message: "STORE_PATH cannot be empty",
		},
		{
			name:    "bad log format",
			mutate:  func(c *config.Config) { c.LogFormat = "xml" },
			check:   config.Config.Validate,
			message: "LOG_FORMAT must be console or json",
		},
		{
			name:    "negative redis ttl",
			mutate:  func(c *config.Config) { c.RedisTTL = -time.Second },
			check:   config.Config.Validate,
			message: "REDIS_TTL cannot be negative",
		},
		{
			name:    "empty puzzle url",
			mutate:  func(c *config.Config) { c.PuzzleURL = "" },
			check:   config.Config.ValidateClient,
			message: "PUZZLE_URL cannot be empty",
		},
		{
			name:    "zero attempts",
			mutate:  func(c *config.Config) { c.FetchAttempts = 0 },
			check:   config.Config.ValidateClient,
			message: "FETCH_ATTEMPTS must be between 1 and 10",
		},
		{
			name:    "empty addr",
			mutate:  func(c *config.Config) { c.Addr = "" },
			check:   config.Config.ValidateServer,
			message: "ADDR cannot be empty",
		},
		{
			name:    "bad start date",
			mutate:  func(c *config.Config) { c.StartDate = "16/01/2026" },
			check:   config.Config.ValidateServer,
			message: "START_DATE must be YYYY-MM-DD",
		},
		{
			name:    "zero max guesses",
			mutate:  func(c *config.Config) { c.MaxGuesses = 0 },
			check:   config.Config.ValidateServer,
			message: "MAX_GUESSES must be between 1 and 20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := tt.check(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestStart(t *testing.T) {
	cfg := validConfig()
	start, err := cfg.Start()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC), start)
}

func TestLoadWithDefaults_OverrideLosesToEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	cfg := config.LoadWithDefaults(nil, map[string]any{"log-level": "WARN"})
	assert.Equal(t, "WARN", cfg.LogLevel)

	t.Setenv("LOG_LEVEL", "DEBUG")
	cfg = config.LoadWithDefaults(nil, map[string]any{"log-level": "WARN"})
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestRegisterFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs, "puzzle-url", "fetch-attempts", "http-timeout", "rate-limit-rps")

	require.NoError(t, fs.Parse([]string{"--fetch-attempts=5", "--http-timeout=3s"}))
	cfg := config.Load(fs)

	assert.Equal(t, 5, cfg.FetchAttempts)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Contains(t, fs.Lookup("puzzle-url").Usage, "env: PUZZLE_URL")
	assert.Panics(t, func() { config.RegisterFlags(fs, "nope") })
}

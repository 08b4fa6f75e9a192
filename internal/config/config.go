package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vytor/linkpuzzle/internal/logger"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	// Client
	PuzzleURL      string
	StoreBackend   string
	StorePath      string
	DBPath         string
	RedisURL       string
	RedisNamespace string
	RedisTTL       time.Duration
	HTTPTimeout    time.Duration
	FetchAttempts  int
	ShareURL       string

	// Reference server
	Addr           string
	PuzzlesPath    string
	StartDate      string
	MaxGuesses     int
	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel  string
	LogFormat string
}

var defaults = map[string]any{
	"puzzle-url":       "http://localhost:8080",
	"store-backend":    BackendFile,
	"store-path":       ".linkpuzzle",
	"db-path":          "file:linkpuzzle.db",
	"redis-url":        "redis://localhost:6379/0",
	"redis-namespace":  "linkpuzzle",
	"redis-ttl":        time.Duration(0),
	"http-timeout":     15 * time.Second,
	"fetch-attempts":   3,
	"share-url":        "https://www.dailylinkpuzzle.com",
	"addr":             ":8080",
	"puzzles-path":     "",
	"start-date":       "2026-01-16",
	"max-guesses":      6,
	"rate-limit-rps":   5.0,
	"rate-limit-burst": 10,
	"log-level":        "INFO",
	"log-format":       "console",
}

var usage = map[string]string{
	"puzzle-url":       "base URL of the puzzle service",
	"store-backend":    "where progress is kept: memory, file, sqlite or redis",
	"store-path":       "directory for the file backend",
	"db-path":          "database path for the sqlite backend",
	"redis-url":        "connection URL for the redis backend",
	"redis-namespace":  "prefix for every redis key",
	"redis-ttl":        "expiry for redis keys (0 keeps them)",
	"http-timeout":     "timeout for each request to the puzzle service",
	"fetch-attempts":   "attempts made to fetch the puzzle before giving up",
	"share-url":        "link printed at the bottom of shared results",
	"addr":             "address to listen on",
	"puzzles-path":     "puzzle catalog JSON file (empty uses the built-in catalog)",
	"start-date":       "calendar day of puzzle #1 (YYYY-MM-DD, UTC)",
	"max-guesses":      "guesses allowed per puzzle",
	"rate-limit-rps":   "requests per second allowed per client IP",
	"rate-limit-burst": "burst size allowed per client IP",
	"log-level":        "DEBUG, INFO, WARN or ERROR",
	"log-format":       "console or json",
}

// RegisterFlags adds the named keys to fs with their defaults. Unknown keys
// panic, since they are programming errors.
func RegisterFlags(fs *pflag.FlagSet, keys ...string) {
	for _, k := range keys {
		env := strings.ToUpper(strings.ReplaceAll(k, "-", "_"))
		help := fmt.Sprintf("%s (env: %s)", usage[k], env)
		switch d := defaults[k].(type) {
		case string:
			fs.String(k, d, help)
		case int:
			fs.Int(k, d, help)
		case float64:
			fs.Float64(k, d, help)
		case time.Duration:
			fs.Duration(k, d, help)
		default:
			panic(fmt.Sprintf("config: unknown key %q", k))
		}
	}
}

// Load reads configuration from a .env file (if present), environment
// variables and, when fs is non-nil, command-line flags. Flags win over the
// environment, which wins over defaults. Keys map to environment variables by
// upper-casing and replacing '-' with '_' (puzzle-url -> PUZZLE_URL).
func Load(fs *pflag.FlagSet) Config {
	return LoadWithDefaults(fs, nil)
}

// LoadWithDefaults is Load with some defaults replaced, so that each binary
// can pick its own.
func LoadWithDefaults(fs *pflag.FlagSet, overrides map[string]any) Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	for k, d := range overrides {
		v.SetDefault(k, d)
	}

	if fs != nil {
		fs.VisitAll(func(f *pflag.Flag) {
			if _, known := defaults[f.Name]; !known {
				return
			}
			if err := v.BindPFlag(f.Name, f); err != nil {
				logger.Default().WithPrefix("config").Warn("failed to bind flag %s: %v", f.Name, err)
			}
		})
	}

	return Config{
		PuzzleURL:      v.GetString("puzzle-url"),
		StoreBackend:   strings.ToLower(v.GetString("store-backend")),
		StorePath:      v.GetString("store-path"),
		DBPath:         v.GetString("db-path"),
		RedisURL:       v.GetString("redis-url"),
		RedisNamespace: v.GetString("redis-namespace"),
		RedisTTL:       v.GetDuration("redis-ttl"),
		HTTPTimeout:    v.GetDuration("http-timeout"),
		FetchAttempts:  v.GetInt("fetch-attempts"),
		ShareURL:       v.GetString("share-url"),
		Addr:           v.GetString("addr"),
		PuzzlesPath:    v.GetString("puzzles-path"),
		StartDate:      v.GetString("start-date"),
		MaxGuesses:     v.GetInt("max-guesses"),
		RateLimitRPS:   v.GetFloat64("rate-limit-rps"),
		RateLimitBurst: v.GetInt("rate-limit-burst"),
		LogLevel:       v.GetString("log-level"),
		LogFormat:      strings.ToLower(v.GetString("log-format")),
	}
}

// Validate checks the settings shared by both binaries.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendFile, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of memory, file, sqlite, redis (got %q)", c.StoreBackend)
	}
	if c.StoreBackend == BackendFile && c.StorePath == "" {
		return fmt.Errorf("STORE_PATH cannot be empty for the file backend")
	}
	if c.StoreBackend == BackendSQLite && c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty for the sqlite backend")
	}
	if c.StoreBackend == BackendRedis && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL cannot be empty for the redis backend")
	}
	if c.RedisTTL < 0 {
		return fmt.Errorf("REDIS_TTL cannot be negative (got %s)", c.RedisTTL)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be console or json (got %q)", c.LogFormat)
	}
	return nil
}

// ValidateClient checks the settings the puzzle client needs.
func (c Config) ValidateClient() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.PuzzleURL == "" {
		return fmt.Errorf("PUZZLE_URL cannot be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive (got %s)", c.HTTPTimeout)
	}
	if c.FetchAttempts < 1 || c.FetchAttempts > 10 {
		return fmt.Errorf("FETCH_ATTEMPTS must be between 1 and 10 (got %d)", c.FetchAttempts)
	}
	return nil
}

// ValidateServer checks the settings the reference server needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if _, err := c.Start(); err != nil {
		return fmt.Errorf("START_DATE must be YYYY-MM-DD: %w", err)
	}
	if c.MaxGuesses < 1 || c.MaxGuesses > 20 {
		return fmt.Errorf("MAX_GUESSES must be between 1 and 20 (got %d)", c.MaxGuesses)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive (got %v)", c.RateLimitRPS)
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 (got %d)", c.RateLimitBurst)
	}
	return nil
}

// Start parses StartDate as a UTC calendar day.
func (c Config) Start() (time.Time, error) {
	return time.ParseInLocation("2006-01-02", c.StartDate, time.UTC)
}

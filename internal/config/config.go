package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Source names accepted by the source setting.
const (
	SourceAPI  = "api"
	SourceMock = "mock"
)

// Bulk policy names accepted by the bulk_policy setting.
const (
	BulkPerItem      = "per-item"
	BulkAllOrNothing = "all-or-nothing"
)

// ErrNoAPIURL is returned when the API source is selected without a URL.
var ErrNoAPIURL = errors.New("api_url is required when source = \"api\" (set it in the config file or DOCKET_API_URL)")

// Config holds docket's runtime settings.
type Config struct {
	APIURL          string
	Source          string
	RequestTimeout  time.Duration
	ExportDir       string
	LogDir          string
	LogLevel        slog.Level
	DateLayout      string
	BulkPolicy      string
	BulkConcurrency int
	ToastDuration   time.Duration
	PrintCommand    string
	OpenCommand     string
}

// LoadOptions selects where configuration comes from.
type LoadOptions struct {
	Path    string // empty uses ~/.config/docket/config.toml
	EnvFile string // empty loads ./.env when present
	Source  string // overrides the configured source when set
}

const (
	defaultConfigPath      = "~/.config/docket/config.toml"
	defaultLogDir          = "~/.local/share/docket/logs"
	defaultExportDir       = "~/.local/share/docket/exports"
	defaultDateLayout      = "2 Jan 2006"
	defaultRequestTimeout  = 10 * time.Second
	defaultToastDuration   = 2 * time.Second
	defaultBulkConcurrency = 8
)

// Environment variables that override the file.
const (
	EnvAPIURL     = "DOCKET_API_URL"
	EnvSource     = "DOCKET_SOURCE"
	EnvExportDir  = "DOCKET_EXPORT_DIR"
	EnvLogLevel   = "DOCKET_LOG_LEVEL"
	EnvBulkPolicy = "DOCKET_BULK_POLICY"
)

type fileConfig struct {
	APIURL          string `toml:"api_url"`
	Source          string `toml:"source"`
	RequestTimeout  any    `toml:"request_timeout"`
	ExportDir       string `toml:"export_dir"`
	LogDir          string `toml:"log_dir"`
	LogLevel        string `toml:"log_level"`
	DateLayout      string `toml:"date_layout"`
	BulkPolicy      string `toml:"bulk_policy"`
	BulkConcurrency int    `toml:"bulk_concurrency"`
	ToastDuration   any    `toml:"toast_duration"`
	PrintCommand    string `toml:"print_command"`
	OpenCommand     string `toml:"open_command"`
}

// Load reads .env, the TOML file and environment overrides, in that order,
// and validates the result. A missing config file means defaults.
func Load(opts LoadOptions) (Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return Config{}, err
	}

	resolved, err := resolvePath(opts.Path)
	if err != nil {
		return Config{}, err
	}

	var raw fileConfig
	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	applyEnv(&raw)
	if s := strings.TrimSpace(opts.Source); s != "" {
		raw.Source = s
	}
	return build(raw)
}

// LogPath returns the path of docket's own log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/docket.log")
	}
	return filepath.Join(c.LogDir, "docket.log")
}

func loadEnvFile(path string) error {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return err
		}
		if err := godotenv.Load(expanded); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func applyEnv(raw *fileConfig) {
	overrides := []struct {
		key string
		dst *string
	}{
		{EnvAPIURL, &raw.APIURL},
		{EnvSource, &raw.Source},
		{EnvExportDir, &raw.ExportDir},
		{EnvLogLevel, &raw.LogLevel},
		{EnvBulkPolicy, &raw.BulkPolicy},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && strings.TrimSpace(v) != "" {
			*o.dst = v
		}
	}
}

func build(raw fileConfig) (Config, error) {
	cfg := Config{
		APIURL:          strings.TrimSpace(raw.APIURL),
		Source:          strings.ToLower(strings.TrimSpace(raw.Source)),
		DateLayout:      strings.TrimSpace(raw.DateLayout),
		BulkPolicy:      strings.ToLower(strings.TrimSpace(raw.BulkPolicy)),
		BulkConcurrency: raw.BulkConcurrency,
		PrintCommand:    strings.TrimSpace(raw.PrintCommand),
		OpenCommand:     strings.TrimSpace(raw.OpenCommand),
	}
	if cfg.Source == "" {
		cfg.Source = SourceAPI
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = defaultDateLayout
	}
	if cfg.BulkPolicy == "" {
		cfg.BulkPolicy = BulkPerItem
	}
	if cfg.BulkConcurrency == 0 {
		cfg.BulkConcurrency = defaultBulkConcurrency
	}

	var err error
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, defaultRequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ToastDuration, err = parseDuration("toast_duration", raw.ToastDuration, defaultToastDuration); err != nil {
		return Config{}, err
	}
	if cfg.LogLevel, err = parseLogLevel(raw.LogLevel); err != nil {
		return Config{}, err
	}
	if cfg.LogDir, err = dirOrDefault(raw.LogDir, defaultLogDir); err != nil {
		return Config{}, err
	}
	if cfg.ExportDir, err = dirOrDefault(raw.ExportDir, defaultExportDir); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that have no safe fallback.
func (c Config) Validate() error {
	switch c.Source {
	case SourceAPI:
		if c.APIURL == "" {
			return ErrNoAPIURL
		}
	case SourceMock:
	default:
		return fmt.Errorf("unknown source %q (want %q or %q)", c.Source, SourceAPI, SourceMock)
	}
	switch c.BulkPolicy {
	case BulkPerItem, BulkAllOrNothing:
	default:
		return fmt.Errorf("unknown bulk_policy %q (want %q or %q)", c.BulkPolicy, BulkPerItem, BulkAllOrNothing)
	}
	if c.BulkConcurrency < 1 {
		return fmt.Errorf("bulk_concurrency must be positive, got %d", c.BulkConcurrency)
	}
	if c.RequestTimeout <= 0 || c.ToastDuration <= 0 {
		return fmt.Errorf("request_timeout and toast_duration must be positive")
	}
	return nil
}

// durationText turns a decoded TOML value into text for parseDuration. TOML
// integers and floats are bare seconds.
func durationText(name string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("parse %s: unsupported value %v (%T)", name, value, value)
}

func parseDuration(name string, value any, fallback time.Duration) (time.Duration, error) {
	text, err := durationText(name, value)
	if err != nil {
		return 0, err
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fallback, nil
	}
	// Bare numbers are seconds.
	if secs, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return d, nil
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", level)
}

func dirOrDefault(value, fallback string) (string, error) {
	if strings.TrimSpace(value) == "" {
		value = fallback
	}
	return expandPath(value)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

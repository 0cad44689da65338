package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	TRANSLATOR_NONE   = "none"
	TRANSLATOR_GOOGLE = "google"
	TRANSLATOR_OPENAI = "openai"
)

type AppConfig struct {
	Env      string
	Addr     string
	LogLevel slog.Level

	MaxUploadBytes int64
	RequestTimeout time.Duration
	ScoringWorkers int
	StripMarkdown  bool

	Translator TranslatorConfig
	Valkey     ValkeyConfig
}

type TranslatorConfig struct {
	Backend             string
	DefaultOn           bool
	Timeout             time.Duration
	HealthCheckInterval time.Duration
	CacheTTL            time.Duration

	GoogleAPIKey   string
	GoogleEndpoint string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
}

type ValkeyConfig struct {
	InitAddress string
	Password    string
	UseTLS      bool
}

// Enabled reports whether a translation cache should be wired in.
func (v ValkeyConfig) Enabled() bool {
	return v.InitAddress != ""
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

// getEnvDuration rejects zero and negative durations.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return v, nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
	}
	return level, nil
}

// Load reads the application settings from the environment. LoadEnv should
// run first so values from the env file are visible.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		Env:  getEnv("APP_ENV", "dev"),
		Addr: getEnv("SERVER_ADDR", ":8080"),
		Translator: TranslatorConfig{
			Backend:        strings.ToLower(getEnv("TRANSLATOR_BACKEND", TRANSLATOR_NONE)),
			GoogleAPIKey:   getEnv("GOOGLE_TRANSLATE_API_KEY", ""),
			GoogleEndpoint: getEnv("GOOGLE_TRANSLATE_ENDPOINT", "https://translation.googleapis.com/language/translate/v2"),
			OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		},
		Valkey: ValkeyConfig{
			InitAddress: getEnv("VALKEY_INIT_ADDRESS", ""),
			Password:    getEnv("VALKEY_PASSWORD", ""),
			UseTLS:      getEnv("VALKEY_TLS", "") == "true",
		},
	}

	var err error
	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return cfg, err
	}

	uploadMB, err := getEnvInt("SENTILENS_MAX_UPLOAD_MB", 32)
	if err != nil {
		return cfg, err
	}
	if uploadMB <= 0 {
		return cfg, fmt.Errorf("SENTILENS_MAX_UPLOAD_MB must be positive, got %d", uploadMB)
	}
	cfg.MaxUploadBytes = int64(uploadMB) << 20

	if cfg.RequestTimeout, err = getEnvDuration("SENTILENS_REQUEST_TIMEOUT", 60*time.Second); err != nil {
		return cfg, err
	}
	if cfg.ScoringWorkers, err = getEnvInt("SENTILENS_SCORING_WORKERS", 8); err != nil {
		return cfg, err
	}
	if cfg.ScoringWorkers <= 0 {
		cfg.ScoringWorkers = 1
	}
	if cfg.StripMarkdown, err = getEnvBool("SENTILENS_STRIP_MARKDOWN", false); err != nil {
		return cfg, err
	}

	switch cfg.Translator.Backend {
	case TRANSLATOR_NONE, TRANSLATOR_GOOGLE, TRANSLATOR_OPENAI:
	default:
		return cfg, fmt.Errorf("unknown TRANSLATOR_BACKEND %q", cfg.Translator.Backend)
	}
	if cfg.Translator.DefaultOn, err = getEnvBool("TRANSLATOR_DEFAULT_ON", false); err != nil {
		return cfg, err
	}
	if cfg.Translator.Timeout, err = getEnvDuration("TRANSLATOR_TIMEOUT", 10*time.Second); err != nil {
		return cfg, err
	}
	if cfg.Translator.HealthCheckInterval, err = getEnvDuration("TRANSLATOR_HEALTHCHECK_INTERVAL", 30*time.Second); err != nil {
		return cfg, err
	}
	if cfg.Translator.CacheTTL, err = getEnvDuration("TRANSLATION_CACHE_TTL", 24*time.Hour); err != nil {
		return cfg, err
	}

	return cfg, nil
}

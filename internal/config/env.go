package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AxiomConfig holds Axiom log forwarding configuration.
type AxiomConfig struct {
	Send          bool
	Token         string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// ConvertConfig defines the LibreOffice conversion backend.
type ConvertConfig struct {
	SofficePath string
	Timeout     time.Duration
}

// RenderConfig defines rasterization defaults.
type RenderConfig struct {
	DPI    int
	Format string
}

// FetchConfig defines source resolution behavior.
type FetchConfig struct {
	TempDir    string
	Passphrase string

	S3Region    string
	S3AccessKey string
	S3SecretKey string
}

// WebConfig defines the serve-mode HTTP surface.
type WebConfig struct {
	ListenAddr      string
	ShutdownTimeout time.Duration
}

// Config is the top-level configuration.
type Config struct {
	Logging LoggingConfig
	Axiom   AxiomConfig
	Convert ConvertConfig
	Render  RenderConfig
	Fetch   FetchConfig
	Web     WebConfig
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
	cfg := Config{}

	cfg.Logging = LoggingConfig{
		Level:      getEnv("PDFDESK_LOG_LEVEL", "info"),
		Pretty:     parseBool(getEnv("PDFDESK_LOG_PRETTY", "true")),
		File:       getEnv("PDFDESK_LOG_FILE", ""),
		MaxSizeMB:  parseInt(getEnv("PDFDESK_LOG_MAX_SIZE_MB", "100"), 100),
		MaxBackups: parseInt(getEnv("PDFDESK_LOG_MAX_BACKUPS", "3"), 3),
		MaxAgeDays: parseInt(getEnv("PDFDESK_LOG_MAX_AGE_DAYS", "28"), 28),
		Compress:   parseBool(getEnv("PDFDESK_LOG_COMPRESS", "true")),
	}

	cfg.Axiom = AxiomConfig{
		Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
		Token:         getEnv("AXIOM_TOKEN", ""),
		OrgID:         getEnv("AXIOM_ORG_ID", ""),
		Dataset:       getEnv("AXIOM_DATASET", "pdfdesk"),
		FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
	}

	cfg.Convert = ConvertConfig{
		SofficePath: getEnv("PDFDESK_SOFFICE_PATH", "soffice"),
		Timeout:     parseDuration(getEnv("PDFDESK_SOFFICE_TIMEOUT", "5m"), 5*time.Minute),
	}

	cfg.Render = RenderConfig{
		DPI:    parseInt(getEnv("PDFDESK_DEFAULT_DPI", "300"), 300),
		Format: strings.ToLower(getEnv("PDFDESK_DEFAULT_FORMAT", "png")),
	}

	cfg.Fetch = FetchConfig{
		TempDir:     getEnv("PDFDESK_TEMP_DIR", os.TempDir()),
		Passphrase:  getEnv("PDFDESK_FETCH_PASSPHRASE", ""),
		S3Region:    getEnv("PDFDESK_S3_REGION", ""),
		S3AccessKey: getEnv("PDFDESK_S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("PDFDESK_S3_SECRET_KEY", ""),
	}

	cfg.Web = WebConfig{
		ListenAddr:      getEnv("PDFDESK_LISTEN_ADDR", ":8490"),
		ShutdownTimeout: parseDuration(getEnv("PDFDESK_SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
	}

	return cfg
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

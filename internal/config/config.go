package config

import (
	"os"
	"strconv"

	"loctool/internal/xliff"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	XliffVersion string
	SourceLocale string
	AllowDups    bool
	ToolID       string
	ToolName     string
	ToolVersion  string
	ToolCompany  string
	Copyright    string
	WorkerCount  int
	DatabaseURL  string
	LogLevel     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	return &Config{
		XliffVersion: getEnv("XLIFF_VERSION", "1.2"),
		SourceLocale: getEnv("SOURCE_LOCALE", "en-US"),
		AllowDups:    getEnvBool("ALLOW_DUPS", false),
		ToolID:       getEnv("TOOL_ID", ""),
		ToolName:     getEnv("TOOL_NAME", ""),
		ToolVersion:  getEnv("TOOL_VERSION", ""),
		ToolCompany:  getEnv("TOOL_COMPANY", ""),
		Copyright:    getEnv("COPYRIGHT", ""),
		WorkerCount:  getEnvInt("WORKER_COUNT", 8),
		DatabaseURL:  getEnv("DATABASE_URL", "postgres://localhost:5432/loctool?sslmode=disable"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

// XliffOptions returns engine options for the configured defaults.
func (c *Config) XliffOptions() xliff.Options {
	return xliff.Options{
		Version:      c.XliffVersion,
		AllowDups:    c.AllowDups,
		SourceLocale: c.SourceLocale,
		Tool: xliff.Tool{
			ID:        c.ToolID,
			Name:      c.ToolName,
			Version:   c.ToolVersion,
			Company:   c.ToolCompany,
			Copyright: c.Copyright,
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

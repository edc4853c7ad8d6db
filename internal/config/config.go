package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// PlaceholderAPIKey is shipped in sample .env files and treated as "no key".
const PlaceholderAPIKey = "sk-placeholder-key-for-development"

type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string
	TempDir     string

	// S3 archive; disabled when S3Endpoint is empty
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// OpenAI-compatible inference service
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAITemperature float64
	OpenAITimeout     time.Duration

	// Extraction
	ExtractPacing time.Duration
	MaxChunks     int
	MinChunkChars int

	// Rendering
	ChromeURL          string
	ChromeBin          string
	LabelTemplatePath  string
	RenderPhaseTimeout time.Duration

	// Reporting sink; disabled when ReportSinkURL is empty
	ReportSinkURL     string
	ReportSinkTimeout time.Duration

	// Upload limits
	MaxUploadBytes  int64
	MaxRequestBytes int64
	RequestTimeout  time.Duration
}

func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "3001"),
		DatabaseURL:        getEnv("DATABASE_URL", "data/labels.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		TempDir:            getEnv("TEMP_DIR", "uploads"),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:      getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey:  getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:       getEnv("S3_BUCKET_NAME", "labels"),
		S3UseSSL:           getEnv("S3_USE_SSL", "false") == "true",
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITemperature:  getEnvAsFloat("OPENAI_TEMPERATURE", 0.2),
		OpenAITimeout:      getEnvAsDuration("OPENAI_TIMEOUT", 60*time.Second),
		ExtractPacing:      getEnvAsDuration("EXTRACT_PACING", 500*time.Millisecond),
		MaxChunks:          int(getEnvAsInt64("MAX_CHUNKS", 10)),
		MinChunkChars:      int(getEnvAsInt64("MIN_CHUNK_CHARS", 50)),
		ChromeURL:          getEnv("CHROME_URL", ""),
		ChromeBin:          getEnv("CHROME_BIN", ""),
		LabelTemplatePath:  getEnv("LABEL_TEMPLATE_PATH", ""),
		RenderPhaseTimeout: getEnvAsDuration("RENDER_PHASE_TIMEOUT", 30*time.Second),
		ReportSinkURL:      getEnv("REPORT_SINK_URL", ""),
		ReportSinkTimeout:  getEnvAsDuration("REPORT_SINK_TIMEOUT", 30*time.Second),
		MaxUploadBytes:     getEnvAsInt64("MAX_UPLOAD_BYTES", 20<<20),
		MaxRequestBytes:    getEnvAsInt64("MAX_REQUEST_BYTES", 50<<20),
		RequestTimeout:     getEnvAsDuration("REQUEST_TIMEOUT", 5*time.Minute),
	}

	if cfg.OpenAIAPIKey == PlaceholderAPIKey {
		cfg.OpenAIAPIKey = ""
	}
	if cfg.MaxRequestBytes < cfg.MaxUploadBytes {
		cfg.MaxRequestBytes = cfg.MaxUploadBytes
	}

	return cfg, nil
}

// ArchiveEnabled reports whether finished labels are uploaded to S3.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Endpoint != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

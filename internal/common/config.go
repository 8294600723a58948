package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Vision   VisionConfig
	Ingest   IngestConfig
	Pipeline PipelineConfig
	// KeywordsPath optionally points at a YAML keyword catalog that
	// replaces the built-in vocabularies.
	KeywordsPath string
}

// DatabaseConfig holds storage-related configuration
type DatabaseConfig struct {
	Path string
}

// VisionConfig holds the external text-recognition service configuration
type VisionConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// IngestConfig holds directory-watcher configuration
type IngestConfig struct {
	WatchRoots        []string
	Debounce          time.Duration
	InitialScan       bool
	DefaultConfidence float64
}

// PipelineConfig holds thresholds and worker settings
type PipelineConfig struct {
	MinAcceptable  float64
	ReviewRequired float64
	AutoApprove    float64
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "notices.db"),
		},
		Vision: VisionConfig{
			BaseURL: getEnv("VISION_API_URL", ""),
			APIKey:  getEnv("VISION_API_KEY", ""),
			Timeout: getEnvAsDuration("VISION_TIMEOUT", 30*time.Second),
		},
		Ingest: IngestConfig{
			WatchRoots:        getEnvAsSlice("WATCH_ROOTS", nil),
			Debounce:          getEnvAsDuration("WATCH_DEBOUNCE", 500*time.Millisecond),
			InitialScan:       getEnvAsBool("WATCH_INITIAL_SCAN", true),
			DefaultConfidence: getEnvAsFloat64("OCR_DEFAULT_CONFIDENCE", 0.8),
		},
		Pipeline: PipelineConfig{
			MinAcceptable:  getEnvAsFloat64("CONFIDENCE_MIN_ACCEPTABLE", 0.3),
			ReviewRequired: getEnvAsFloat64("CONFIDENCE_REVIEW_REQUIRED", 0.6),
			AutoApprove:    getEnvAsFloat64("CONFIDENCE_AUTO_APPROVE", 0.85),
			Workers:        getEnvAsInt("PIPELINE_WORKERS", 4),
			QueueSize:      getEnvAsInt("PIPELINE_QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("PIPELINE_PROCESS_TIMEOUT", time.Minute),
		},
		KeywordsPath: getEnv("KEYWORDS_PATH", ""),
	}
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return NewValidationError("config.database.path", "DB_PATH is required")
	}
	t := c.Pipeline
	for field, v := range map[string]float64{
		"config.pipeline.minAcceptable":  t.MinAcceptable,
		"config.pipeline.reviewRequired": t.ReviewRequired,
		"config.pipeline.autoApprove":    t.AutoApprove,
	} {
		if v < 0 || v > 1 {
			return NewValidationError(field, "must be between 0 and 1")
		}
	}
	if !(t.MinAcceptable < t.ReviewRequired && t.ReviewRequired < t.AutoApprove) {
		return NewValidationError("config.pipeline", "thresholds must be strictly increasing")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

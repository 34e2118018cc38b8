package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	OCR     OCRConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration

	// AdminToken authorizes API key management. Issued keys authorize
	// everything else.
	AdminToken string
}

// StorageConfig holds filesystem and database configuration
type StorageConfig struct {
	DBPath      string
	UploadsDir  string
	KeepUploads bool
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	TessdataDir     string
	DefaultLanguage string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes:  getEnvAsInt64("MAX_FILE_SIZE", 10<<20),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			AdminToken:      getEnv("ADMIN_TOKEN", ""),
		},
		Storage: StorageConfig{
			DBPath:      getEnv("DB_PATH", "documind.db"),
			UploadsDir:  getEnv("UPLOADS_DIRECTORY", "uploads"),
			KeepUploads: getEnvAsBool("UPLOADS_KEEP", true),
		},
		OCR: OCRConfig{
			TessdataDir:     getEnv("TESSDATA_PREFIX", ""),
			DefaultLanguage: getEnv("OCR_DEFAULT_LANGUAGE", "eng"),
		},
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_FILE_SIZE must be positive", ErrInvalidInput)
	}
	if c.Server.AdminToken == "" {
		return NewAppError("CONFIG_ERROR", "ADMIN_TOKEN is required", ErrInvalidInput)
	}
	if c.Storage.UploadsDir == "" {
		return NewAppError("CONFIG_ERROR", "UPLOADS_DIRECTORY is required", ErrInvalidInput)
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
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

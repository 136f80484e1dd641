package config

import (
	"os"
	"strconv"
)

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// StorageConfig selects where uploaded binaries live.
// Backend is either "local" (files under Root) or "minio".
type StorageConfig struct {
	Backend string
	Root    string
	MinIO   MinIOConfig
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port        string
	DataDir     string
	MaxUploadMB int
	Timezone    string
	Storage     StorageConfig
	Log         LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:        getEnv("PORT", "3000"),
		DataDir:     getEnv("DATA_DIR", "data"),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 20),
		Timezone:    getEnv("TIMEZONE", "Local"),
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", "local"),
			Root:    getEnv("STORAGE_ROOT", "."),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", ""),
				Region:    getEnv("MINIO_REGION", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// BodyLimit returns the maximum accepted request body in bytes.
func (c *AppConfig) BodyLimit() int {
	if c.MaxUploadMB <= 0 {
		return 20 * 1024 * 1024
	}
	return c.MaxUploadMB * 1024 * 1024
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

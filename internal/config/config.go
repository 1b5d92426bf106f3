package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DotEnvFile is loaded by Load before reading the environment, when present.
const DotEnvFile = ".env"

type Config struct {
	DatabaseURL string // RISK_DATABASE_URL (required; postgres://, sqlite:// or file:)
	GRPCAddr    string // RISK_GRPC_ADDR (default ":9090")
	HTTPAddr    string // RISK_HTTP_ADDR (default ":8080")
	NATSURL     string // RISK_NATS_URL (optional, empty = no events)
	AuthToken   string // RISK_AUTH_TOKEN (optional, empty = auth disabled)

	// Rate limiting
	RedisAddr  string        // RISK_REDIS_ADDR (enables the limiter when set)
	RateLimit  int           // RISK_RATE_LIMIT (default 120)
	RateWindow time.Duration // RISK_RATE_WINDOW (default 1m)

	// Seeding
	Seed     bool   // RISK_SEED (default true)
	SeedFile string // RISK_SEED_FILE (optional YAML fixture)

	// Export settings
	ExportInterval   time.Duration // RISK_EXPORT_INTERVAL (default 3m; 0 = disabled)
	ExportS3Bucket   string        // RISK_EXPORT_S3_BUCKET (enables S3 when set)
	ExportS3Endpoint string        // RISK_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
	ExportS3Region   string        // RISK_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Key      string        // RISK_EXPORT_S3_KEY (default "riskboard/snapshots.jsonl")
	ExportGitRepo    string        // RISK_EXPORT_GIT_REPO (enables git when set; path to clone)
	ExportGitFile    string        // RISK_EXPORT_GIT_FILE (default "dashboard.jsonl")
	ExportGitBranch  string        // RISK_EXPORT_GIT_BRANCH (default "main")
}

// Load reads the configuration from the environment after applying the
// optional .env file in the working directory.
func Load() (*Config, error) {
	if err := LoadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	c := &Config{
		DatabaseURL:      os.Getenv("RISK_DATABASE_URL"),
		GRPCAddr:         envOrDefault("RISK_GRPC_ADDR", ":9090"),
		HTTPAddr:         envOrDefault("RISK_HTTP_ADDR", ":8080"),
		NATSURL:          os.Getenv("RISK_NATS_URL"),
		AuthToken:        os.Getenv("RISK_AUTH_TOKEN"),
		RedisAddr:        os.Getenv("RISK_REDIS_ADDR"),
		SeedFile:         os.Getenv("RISK_SEED_FILE"),
		ExportS3Bucket:   os.Getenv("RISK_EXPORT_S3_BUCKET"),
		ExportS3Endpoint: os.Getenv("RISK_EXPORT_S3_ENDPOINT"),
		ExportS3Region:   envOrDefault("RISK_EXPORT_S3_REGION", "us-east-1"),
		ExportS3Key:      envOrDefault("RISK_EXPORT_S3_KEY", "riskboard/snapshots.jsonl"),
		ExportGitRepo:    os.Getenv("RISK_EXPORT_GIT_REPO"),
		ExportGitFile:    envOrDefault("RISK_EXPORT_GIT_FILE", "dashboard.jsonl"),
		ExportGitBranch:  envOrDefault("RISK_EXPORT_GIT_BRANCH", "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("RISK_DATABASE_URL is required")
	}

	var err error
	if c.RateLimit, err = strconv.Atoi(envOrDefault("RISK_RATE_LIMIT", "120")); err != nil {
		return nil, fmt.Errorf("RISK_RATE_LIMIT: %w", err)
	}
	if c.RateLimit <= 0 {
		return nil, fmt.Errorf("RISK_RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if c.RateWindow, err = time.ParseDuration(envOrDefault("RISK_RATE_WINDOW", "1m")); err != nil {
		return nil, fmt.Errorf("RISK_RATE_WINDOW: %w", err)
	}
	if c.Seed, err = strconv.ParseBool(envOrDefault("RISK_SEED", "true")); err != nil {
		return nil, fmt.Errorf("RISK_SEED: %w", err)
	}
	if c.ExportInterval, err = time.ParseDuration(envOrDefault("RISK_EXPORT_INTERVAL", "3m")); err != nil {
		return nil, fmt.Errorf("RISK_EXPORT_INTERVAL: %w", err)
	}

	return c, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

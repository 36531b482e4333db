package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds all configuration for the application
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	Port        string `mapstructure:"PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Database configuration
	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	DatabaseHost     string `mapstructure:"DB_HOST"`
	DatabasePort     string `mapstructure:"DB_PORT"`
	DatabaseUser     string `mapstructure:"DB_USER"`
	DatabasePassword string `mapstructure:"DB_PASSWORD"`
	DatabaseName     string `mapstructure:"DB_NAME"`
	DatabaseSSLMode  string `mapstructure:"DB_SSL_MODE"`

	// Session configuration
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	SessionTTLMinutes int    `mapstructure:"SESSION_TTL_MINUTES"`

	// AdminEmail is the only account allowed to mutate the roster.
	// Empty means every signed-in user is an admin.
	AdminEmail string `mapstructure:"ADMIN_EMAIL"`

	// CORS configuration
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`

	// Blob storage configuration
	BlobDriver        string `mapstructure:"BLOB_DRIVER"`
	BlobS3Bucket      string `mapstructure:"BLOB_S3_BUCKET"`
	BlobS3Region      string `mapstructure:"BLOB_S3_REGION"`
	BlobS3Endpoint    string `mapstructure:"BLOB_S3_ENDPOINT"`
	BlobS3PathStyle   bool   `mapstructure:"BLOB_S3_PATH_STYLE"`
	BlobS3AccessKey   string `mapstructure:"BLOB_S3_ACCESS_KEY_ID"`
	BlobS3SecretKey   string `mapstructure:"BLOB_S3_SECRET_ACCESS_KEY"`
	BlobPublicBaseURL string `mapstructure:"BLOB_PUBLIC_BASE_URL"`
	MaxUploadMB       int    `mapstructure:"MAX_UPLOAD_MB"`
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Build database URL if not provided
	if config.DatabaseURL == "" {
		config.DatabaseURL = buildDatabaseURL(&config)
	}
	config.AdminEmail = strings.TrimSpace(config.AdminEmail)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "7010")
	v.SetDefault("LOG_LEVEL", "info")

	// Database defaults
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "talentbase")
	v.SetDefault("DB_SSL_MODE", "disable")

	// Session defaults
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("SESSION_TTL_MINUTES", 60)
	v.SetDefault("ADMIN_EMAIL", "")

	v.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:7010"})

	// Blob defaults
	v.SetDefault("BLOB_DRIVER", "memory")
	v.SetDefault("BLOB_S3_BUCKET", "")
	v.SetDefault("BLOB_S3_REGION", "us-east-1")
	v.SetDefault("BLOB_S3_ENDPOINT", "")
	v.SetDefault("BLOB_S3_PATH_STYLE", false)
	v.SetDefault("BLOB_S3_ACCESS_KEY_ID", "")
	v.SetDefault("BLOB_S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("BLOB_PUBLIC_BASE_URL", "")
	v.SetDefault("MAX_UPLOAD_MB", 5)
}

func buildDatabaseURL(config *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		config.DatabaseUser,
		config.DatabasePassword,
		config.DatabaseHost,
		config.DatabasePort,
		config.DatabaseName,
		config.DatabaseSSLMode,
	)
}

func validate(config *Config) error {
	if config.Environment == "production" {
		if config.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	if config.DatabaseName == "" && config.DatabaseURL == "" {
		return fmt.Errorf("database name is required")
	}

	switch config.BlobDriver {
	case "memory":
	case "s3":
		if config.BlobS3Bucket == "" {
			return fmt.Errorf("BLOB_S3_BUCKET is required for the s3 blob driver")
		}
	default:
		return fmt.Errorf("unknown blob driver %q", config.BlobDriver)
	}

	if config.SessionTTLMinutes <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}

	return nil
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MaxUploadBytes returns the upload size limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 5 << 20
	}
	return int64(c.MaxUploadMB) << 20
}

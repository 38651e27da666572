package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Upload    UploadConfig
	CORS      CORSConfig
	Extractor ExtractorConfig
	Registry  RegistryConfig
	Batch     BatchConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractorProviderConfig holds settings for a single text extraction provider.
type ExtractorProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	Endpoint    string `mapstructure:"endpoint"`
	APIKey      string `mapstructure:"api_key"`
	MaxRetries  int    `mapstructure:"max_retries"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds text extraction settings with primary/secondary failover.
type ExtractorConfig struct {
	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
}

// PrimaryConfig returns the primary provider config.
func (e *ExtractorConfig) PrimaryConfig() *ExtractorProviderConfig {
	return &e.Primary
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (e *ExtractorConfig) SecondaryConfig() *ExtractorProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// RegistryConfig holds company registry enrichment settings.
type RegistryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	BaseURL     string `mapstructure:"base_url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	MaxRetries  int    `mapstructure:"max_retries"`
	MaxLookups  int    `mapstructure:"max_lookups"`
}

// BatchConfig bounds parallel work.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	MaxTexts    int `mapstructure:"max_texts"`
}

// UploadConfig holds source document limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
	MaxPages      int   `mapstructure:"max_pages"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`

	// ConnMaxLifetime recycles pooled connections; zero keeps them forever.
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds archive bucket settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	ArchivePrefix string `mapstructure:"archive_prefix"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// Enabled reports whether source documents should be archived.
func (s *S3Config) Enabled() bool {
	return s.Bucket != ""
}

// Load reads configuration from environment variables with the CIGFIP_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CIGFIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "cigfip")
	v.SetDefault("db.password", "cigfip_secret")
	v.SetDefault("db.name", "cigfip_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")

	// S3 defaults (empty bucket disables archiving)
	v.SetDefault("s3.region", "sa-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.archive_prefix", "gfip")
	v.SetDefault("s3.presign_expiry", 3600)

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 20)
	v.SetDefault("upload.max_pages", 200)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Extractor defaults
	v.SetDefault("extractor.primary.provider", "http")
	v.SetDefault("extractor.primary.endpoint", "http://localhost:8000/extract/ci-gfip-modelo-1")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.max_retries", 2)
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.endpoint", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.max_retries", 2)
	v.SetDefault("extractor.secondary.timeout_secs", 120)

	// Registry defaults
	v.SetDefault("registry.enabled", false)
	v.SetDefault("registry.base_url", "https://brasilapi.com.br/api")
	v.SetDefault("registry.timeout_secs", 10)
	v.SetDefault("registry.max_retries", 2)
	v.SetDefault("registry.max_lookups", 20)

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.max_texts", 50)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "CIGFIP_SERVER_PORT",
		"server.read_timeout":              "CIGFIP_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "CIGFIP_SERVER_WRITE_TIMEOUT",
		"server.environment":               "CIGFIP_SERVER_ENVIRONMENT",
		"db.host":                          "CIGFIP_DB_HOST",
		"db.port":                          "CIGFIP_DB_PORT",
		"db.user":                          "CIGFIP_DB_USER",
		"db.password":                      "CIGFIP_DB_PASSWORD",
		"db.name":                          "CIGFIP_DB_NAME",
		"db.sslmode":                       "CIGFIP_DB_SSLMODE",
		"db.max_open":                      "CIGFIP_DB_MAX_OPEN",
		"db.max_idle":                      "CIGFIP_DB_MAX_IDLE",
		"db.conn_max_lifetime":             "CIGFIP_DB_CONN_MAX_LIFETIME",
		"s3.region":                        "CIGFIP_S3_REGION",
		"s3.bucket":                        "CIGFIP_S3_BUCKET",
		"s3.endpoint":                      "CIGFIP_S3_ENDPOINT",
		"s3.access_key":                    "CIGFIP_S3_ACCESS_KEY",
		"s3.secret_key":                    "CIGFIP_S3_SECRET_KEY",
		"s3.archive_prefix":                "CIGFIP_S3_ARCHIVE_PREFIX",
		"s3.presign_expiry":                "CIGFIP_S3_PRESIGN_EXPIRY",
		"upload.max_file_size_mb":          "CIGFIP_UPLOAD_MAX_FILE_SIZE_MB",
		"upload.max_pages":                 "CIGFIP_UPLOAD_MAX_PAGES",
		"cors.allowed_origins":             "CIGFIP_CORS_ALLOWED_ORIGINS",
		"extractor.primary.provider":       "CIGFIP_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.endpoint":       "CIGFIP_EXTRACTOR_PRIMARY_ENDPOINT",
		"extractor.primary.api_key":        "CIGFIP_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.max_retries":    "CIGFIP_EXTRACTOR_PRIMARY_MAX_RETRIES",
		"extractor.primary.timeout_secs":   "CIGFIP_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.provider":     "CIGFIP_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.endpoint":     "CIGFIP_EXTRACTOR_SECONDARY_ENDPOINT",
		"extractor.secondary.api_key":      "CIGFIP_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.max_retries":  "CIGFIP_EXTRACTOR_SECONDARY_MAX_RETRIES",
		"extractor.secondary.timeout_secs": "CIGFIP_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"registry.enabled":                 "CIGFIP_REGISTRY_ENABLED",
		"registry.base_url":                "CIGFIP_REGISTRY_BASE_URL",
		"registry.timeout_secs":            "CIGFIP_REGISTRY_TIMEOUT_SECS",
		"registry.max_retries":             "CIGFIP_REGISTRY_MAX_RETRIES",
		"registry.max_lookups":             "CIGFIP_REGISTRY_MAX_LOOKUPS",
		"batch.concurrency":                "CIGFIP_BATCH_CONCURRENCY",
		"batch.max_texts":                  "CIGFIP_BATCH_MAX_TEXTS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if CIGFIP_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CIGFIP_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		ArchivePrefix: strings.Trim(v.GetString("s3.archive_prefix"), "/"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
		MaxPages:      v.GetInt("upload.max_pages"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Extractor = ExtractorConfig{
		Primary:   providerConfig(v, "extractor.primary"),
		Secondary: providerConfig(v, "extractor.secondary"),
	}

	cfg.Registry = RegistryConfig{
		Enabled:     v.GetBool("registry.enabled"),
		BaseURL:     strings.TrimRight(v.GetString("registry.base_url"), "/"),
		TimeoutSecs: v.GetInt("registry.timeout_secs"),
		MaxRetries:  v.GetInt("registry.max_retries"),
		MaxLookups:  v.GetInt("registry.max_lookups"),
	}

	cfg.Batch = BatchConfig{
		Concurrency: v.GetInt("batch.concurrency"),
		MaxTexts:    v.GetInt("batch.max_texts"),
	}
	if cfg.Batch.Concurrency < 1 {
		cfg.Batch.Concurrency = 1
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) ExtractorProviderConfig {
	return ExtractorProviderConfig{
		Provider:    v.GetString(prefix + ".provider"),
		Endpoint:    v.GetString(prefix + ".endpoint"),
		APIKey:      v.GetString(prefix + ".api_key"),
		MaxRetries:  v.GetInt(prefix + ".max_retries"),
		TimeoutSecs: v.GetInt(prefix + ".timeout_secs"),
	}
}

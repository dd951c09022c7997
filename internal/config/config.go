package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"poaudit/internal/audit"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	S3        S3Config
	Log       LogConfig
	Extractor ExtractorConfig
	Audit     AuditConfig
	CORS      CORSConfig
	Queue     QueueConfig
	FreeTier  FreeTierConfig
	Email     EmailConfig
	Social    SocialAuthConfig
}

// SocialAuthConfig holds social sign-in settings.
type SocialAuthConfig struct {
	GoogleClientID string `mapstructure:"google_client_id"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// FreeTierConfig holds free tier settings.
type FreeTierConfig struct {
	TenantSlug   string `mapstructure:"tenant_slug"`
	MonthlyLimit int    `mapstructure:"monthly_limit"`
}

// QueueConfig holds extraction queue worker settings.
type QueueConfig struct {
	PollIntervalSecs    int `mapstructure:"poll_interval_secs"`
	MaxRetries          int `mapstructure:"max_retries"`
	Concurrency         int `mapstructure:"concurrency"`
	ThrottleMinMs       int `mapstructure:"throttle_min_ms"`
	ThrottleMaxMs       int `mapstructure:"throttle_max_ms"`
	CleanupIntervalSecs int `mapstructure:"cleanup_interval_secs"`
	StaleUploadHours    int `mapstructure:"stale_upload_hours"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuditConfig holds tolerances for price reconciliation and math auditing.
type AuditConfig struct {
	PriceErrorTolerance       float64 `mapstructure:"price_error_tolerance"`
	DisplayTolerance          float64 `mapstructure:"display_tolerance"`
	LowConfidenceThreshold    float64 `mapstructure:"low_confidence_threshold"`
	FallbackConfidencePenalty float64 `mapstructure:"fallback_confidence_penalty"`
	DiscountMax               float64 `mapstructure:"discount_max"`
}

// Core converts the section into the audit package's value config.
func (a *AuditConfig) Core() audit.Config {
	return audit.Config{
		PriceErrorTolerance:       a.PriceErrorTolerance,
		DisplayTolerance:          a.DisplayTolerance,
		LowConfidenceThreshold:    a.LowConfidenceThreshold,
		FallbackConfidencePenalty: a.FallbackConfidencePenalty,
		DiscountMax:               a.DiscountMax,
	}
}

// ExtractorProviderConfig holds settings for a single LLM extractor provider.
type ExtractorProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds LLM document extractor settings with multi-provider support.
type ExtractorConfig struct {
	// Legacy flat fields (backwards-compatible)
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	// Multi-provider fields
	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
	Tertiary  ExtractorProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary extractor provider config, falling back to legacy flat fields.
func (p *ExtractorConfig) PrimaryConfig() *ExtractorProviderConfig {
	if p.Primary.Provider != "" {
		return &p.Primary
	}
	return &ExtractorProviderConfig{
		Provider:     p.Provider,
		APIKey:       p.APIKey,
		DefaultModel: p.DefaultModel,
		MaxRetries:   p.MaxRetries,
		TimeoutSecs:  p.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary extractor provider config, or nil if not configured.
func (p *ExtractorConfig) SecondaryConfig() *ExtractorProviderConfig {
	if p.Secondary.Provider != "" {
		return &p.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary extractor provider config, or nil if not configured.
func (p *ExtractorConfig) TertiaryConfig() *ExtractorProviderConfig {
	if p.Tertiary.Provider != "" {
		return &p.Tertiary
	}
	return nil
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
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the POAUDIT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("POAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "poaudit")
	v.SetDefault("db.password", "poaudit_secret")
	v.SetDefault("db.name", "poaudit_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "poaudit")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "poaudit-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 10)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:3001,http://127.0.0.1:3001")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.throttle_min_ms", 500)
	v.SetDefault("queue.throttle_max_ms", 1500)
	v.SetDefault("queue.cleanup_interval_secs", 3600)
	v.SetDefault("queue.stale_upload_hours", 24)

	// Audit defaults
	v.SetDefault("audit.price_error_tolerance", 0.05)
	v.SetDefault("audit.display_tolerance", 5.0)
	v.SetDefault("audit.low_confidence_threshold", 0.7)
	v.SetDefault("audit.fallback_confidence_penalty", 0.2)
	v.SetDefault("audit.discount_max", 150)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-southeast-1")
	v.SetDefault("email.from_address", "noreply@poaudit.io")
	v.SetDefault("email.from_name", "POAudit")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Free tier defaults
	v.SetDefault("free_tier.tenant_slug", "poaudit")
	v.SetDefault("free_tier.monthly_limit", 5)

	// Social auth defaults
	v.SetDefault("social.google_client_id", "")

	// Extractor defaults (legacy flat)
	v.SetDefault("extractor.provider", "gemini")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.default_model", "gemini-2.0-flash")
	v.SetDefault("extractor.max_retries", 3)
	v.SetDefault("extractor.timeout_secs", 120)

	// Extractor primary/secondary/tertiary defaults
	v.SetDefault("extractor.primary.provider", "")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.default_model", "")
	v.SetDefault("extractor.primary.max_retries", 3)
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.default_model", "")
	v.SetDefault("extractor.secondary.max_retries", 3)
	v.SetDefault("extractor.secondary.timeout_secs", 120)
	v.SetDefault("extractor.tertiary.provider", "")
	v.SetDefault("extractor.tertiary.api_key", "")
	v.SetDefault("extractor.tertiary.default_model", "")
	v.SetDefault("extractor.tertiary.max_retries", 3)
	v.SetDefault("extractor.tertiary.timeout_secs", 120)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                       "POAUDIT_SERVER_PORT",
		"server.read_timeout":               "POAUDIT_SERVER_READ_TIMEOUT",
		"server.write_timeout":              "POAUDIT_SERVER_WRITE_TIMEOUT",
		"server.environment":                "POAUDIT_SERVER_ENVIRONMENT",
		"db.host":                           "POAUDIT_DB_HOST",
		"db.port":                           "POAUDIT_DB_PORT",
		"db.user":                           "POAUDIT_DB_USER",
		"db.password":                       "POAUDIT_DB_PASSWORD",
		"db.name":                           "POAUDIT_DB_NAME",
		"db.sslmode":                        "POAUDIT_DB_SSLMODE",
		"db.max_open":                       "POAUDIT_DB_MAX_OPEN",
		"db.max_idle":                       "POAUDIT_DB_MAX_IDLE",
		"jwt.secret":                        "POAUDIT_JWT_SECRET",
		"jwt.access_expiry":                 "POAUDIT_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":                "POAUDIT_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                        "POAUDIT_JWT_ISSUER",
		"s3.region":                         "POAUDIT_S3_REGION",
		"s3.bucket":                         "POAUDIT_S3_BUCKET",
		"s3.endpoint":                       "POAUDIT_S3_ENDPOINT",
		"s3.access_key":                     "POAUDIT_S3_ACCESS_KEY",
		"s3.secret_key":                     "POAUDIT_S3_SECRET_KEY",
		"s3.max_file_size_mb":               "POAUDIT_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":                 "POAUDIT_S3_PRESIGN_EXPIRY",
		"log.level":                         "POAUDIT_LOG_LEVEL",
		"log.format":                        "POAUDIT_LOG_FORMAT",
		"cors.allowed_origins":              "POAUDIT_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs":          "POAUDIT_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":                 "POAUDIT_QUEUE_MAX_RETRIES",
		"queue.concurrency":                 "POAUDIT_QUEUE_CONCURRENCY",
		"queue.throttle_min_ms":             "POAUDIT_QUEUE_THROTTLE_MIN_MS",
		"queue.throttle_max_ms":             "POAUDIT_QUEUE_THROTTLE_MAX_MS",
		"queue.cleanup_interval_secs":       "POAUDIT_QUEUE_CLEANUP_INTERVAL_SECS",
		"queue.stale_upload_hours":          "POAUDIT_QUEUE_STALE_UPLOAD_HOURS",
		"audit.price_error_tolerance":       "POAUDIT_AUDIT_PRICE_ERROR_TOLERANCE",
		"audit.display_tolerance":           "POAUDIT_AUDIT_DISPLAY_TOLERANCE",
		"audit.low_confidence_threshold":    "POAUDIT_AUDIT_LOW_CONFIDENCE_THRESHOLD",
		"audit.fallback_confidence_penalty": "POAUDIT_AUDIT_FALLBACK_CONFIDENCE_PENALTY",
		"audit.discount_max":                "POAUDIT_AUDIT_DISCOUNT_MAX",
		"extractor.provider":                "POAUDIT_EXTRACTOR_PROVIDER",
		"extractor.api_key":                 "POAUDIT_EXTRACTOR_API_KEY",
		"extractor.default_model":           "POAUDIT_EXTRACTOR_DEFAULT_MODEL",
		"extractor.max_retries":             "POAUDIT_EXTRACTOR_MAX_RETRIES",
		"extractor.timeout_secs":            "POAUDIT_EXTRACTOR_TIMEOUT_SECS",
		"extractor.primary.provider":        "POAUDIT_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.api_key":         "POAUDIT_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.default_model":   "POAUDIT_EXTRACTOR_PRIMARY_DEFAULT_MODEL",
		"extractor.primary.max_retries":     "POAUDIT_EXTRACTOR_PRIMARY_MAX_RETRIES",
		"extractor.primary.timeout_secs":    "POAUDIT_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.provider":      "POAUDIT_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.api_key":       "POAUDIT_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.default_model": "POAUDIT_EXTRACTOR_SECONDARY_DEFAULT_MODEL",
		"extractor.secondary.max_retries":   "POAUDIT_EXTRACTOR_SECONDARY_MAX_RETRIES",
		"extractor.secondary.timeout_secs":  "POAUDIT_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"extractor.tertiary.provider":       "POAUDIT_EXTRACTOR_TERTIARY_PROVIDER",
		"extractor.tertiary.api_key":        "POAUDIT_EXTRACTOR_TERTIARY_API_KEY",
		"extractor.tertiary.default_model":  "POAUDIT_EXTRACTOR_TERTIARY_DEFAULT_MODEL",
		"extractor.tertiary.max_retries":    "POAUDIT_EXTRACTOR_TERTIARY_MAX_RETRIES",
		"extractor.tertiary.timeout_secs":   "POAUDIT_EXTRACTOR_TERTIARY_TIMEOUT_SECS",
		"email.provider":                    "POAUDIT_EMAIL_PROVIDER",
		"email.region":                      "POAUDIT_EMAIL_REGION",
		"email.from_address":                "POAUDIT_EMAIL_FROM_ADDRESS",
		"email.from_name":                   "POAUDIT_EMAIL_FROM_NAME",
		"email.frontend_url":                "POAUDIT_EMAIL_FRONTEND_URL",
		"free_tier.tenant_slug":             "POAUDIT_FREE_TIER_TENANT_SLUG",
		"free_tier.monthly_limit":           "POAUDIT_FREE_TIER_MONTHLY_LIMIT",
		"social.google_client_id":           "POAUDIT_SOCIAL_GOOGLE_CLIENT_ID",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if POAUDIT_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("POAUDIT_SERVER_PORT") == "" {
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
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
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
		Provider:     v.GetString("extractor.provider"),
		APIKey:       v.GetString("extractor.api_key"),
		DefaultModel: v.GetString("extractor.default_model"),
		MaxRetries:   v.GetInt("extractor.max_retries"),
		TimeoutSecs:  v.GetInt("extractor.timeout_secs"),
		Primary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.primary.provider"),
			APIKey:       v.GetString("extractor.primary.api_key"),
			DefaultModel: v.GetString("extractor.primary.default_model"),
			MaxRetries:   v.GetInt("extractor.primary.max_retries"),
			TimeoutSecs:  v.GetInt("extractor.primary.timeout_secs"),
		},
		Secondary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.secondary.provider"),
			APIKey:       v.GetString("extractor.secondary.api_key"),
			DefaultModel: v.GetString("extractor.secondary.default_model"),
			MaxRetries:   v.GetInt("extractor.secondary.max_retries"),
			TimeoutSecs:  v.GetInt("extractor.secondary.timeout_secs"),
		},
		Tertiary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.tertiary.provider"),
			APIKey:       v.GetString("extractor.tertiary.api_key"),
			DefaultModel: v.GetString("extractor.tertiary.default_model"),
			MaxRetries:   v.GetInt("extractor.tertiary.max_retries"),
			TimeoutSecs:  v.GetInt("extractor.tertiary.timeout_secs"),
		},
	}

	cfg.Audit = AuditConfig{
		PriceErrorTolerance:       v.GetFloat64("audit.price_error_tolerance"),
		DisplayTolerance:          v.GetFloat64("audit.display_tolerance"),
		LowConfidenceThreshold:    v.GetFloat64("audit.low_confidence_threshold"),
		FallbackConfidencePenalty: v.GetFloat64("audit.fallback_confidence_penalty"),
		DiscountMax:               v.GetFloat64("audit.discount_max"),
	}

	cfg.Queue = QueueConfig{
		PollIntervalSecs:    v.GetInt("queue.poll_interval_secs"),
		MaxRetries:          v.GetInt("queue.max_retries"),
		Concurrency:         v.GetInt("queue.concurrency"),
		ThrottleMinMs:       v.GetInt("queue.throttle_min_ms"),
		ThrottleMaxMs:       v.GetInt("queue.throttle_max_ms"),
		CleanupIntervalSecs: v.GetInt("queue.cleanup_interval_secs"),
		StaleUploadHours:    v.GetInt("queue.stale_upload_hours"),
	}

	cfg.FreeTier = FreeTierConfig{
		TenantSlug:   v.GetString("free_tier.tenant_slug"),
		MonthlyLimit: v.GetInt("free_tier.monthly_limit"),
	}

	cfg.Social = SocialAuthConfig{
		GoogleClientID: v.GetString("social.google_client_id"),
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}

	return cfg, nil
}

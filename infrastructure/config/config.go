package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Deployment environments
const (
	Development = "development"
	Staging     = "staging"
	Production  = "production"
)

// Config holds all application configuration
type Config struct {
	Environment     string        `yaml:"environment"`
	ServerAddress   string        `yaml:"server_address"`
	LogLevel        string        `yaml:"log_level"`
	DebugErrors     bool          `yaml:"debug_errors"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	AWS       AWSConfig       `yaml:"aws"`
	Tables    TablesConfig    `yaml:"tables"`
	Storage   StorageConfig   `yaml:"storage"`
	Agent     AgentConfig     `yaml:"agent"`
	Textract  TextractConfig  `yaml:"textract"`
	Cognito   CognitoConfig   `yaml:"cognito"`
	CORS      CORSConfig      `yaml:"cors"`
	Events    EventsConfig    `yaml:"events"`
	Features  FeaturesConfig  `yaml:"features"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Analysis  AnalysisConfig  `yaml:"analysis"`

	// Set by the loader
	ConfigDir  string   `yaml:"-"`
	LoadedFrom []string `yaml:"-"`
}

// AWSConfig holds the SDK region and the optional LocalStack endpoint
type AWSConfig struct {
	Region      string `yaml:"region"`
	EndpointURL string `yaml:"endpoint_url"`
}

// TablesConfig holds the DynamoDB table names, one per entity
type TablesConfig struct {
	Clients     string `yaml:"clients"`
	Packages    string `yaml:"packages"`
	FileNumbers string `yaml:"file_numbers"`
	Workflows   string `yaml:"workflows"`
	Documents   string `yaml:"documents"`
}

type StorageConfig struct {
	DocumentsBucket     string        `yaml:"documents_bucket"`
	ExtractedTextBucket string        `yaml:"extracted_text_bucket"`
	UploadURLExpiry     time.Duration `yaml:"upload_url_expiry"`
	DownloadURLExpiry   time.Duration `yaml:"download_url_expiry"`
}

type AgentConfig struct {
	AgentID string `yaml:"agent_id"`
	AliasID string `yaml:"alias_id"`
	Region  string `yaml:"region"`
}

// Configured reports whether both agent identifiers are present
func (a AgentConfig) Configured() bool {
	return a.AgentID != "" && a.AliasID != ""
}

type TextractConfig struct {
	MaxPolls     int           `yaml:"max_polls"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type CognitoConfig struct {
	UserPoolID   string        `yaml:"user_pool_id"`
	Region       string        `yaml:"region"`
	JWKSCacheTTL time.Duration `yaml:"jwks_cache_ttl"`
}

// Issuer is the token issuer of the user pool
func (c CognitoConfig) Issuer() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowLocalhost bool     `yaml:"allow_localhost"`
}

type EventsConfig struct {
	BusName string `yaml:"bus_name"`
}

type FeaturesConfig struct {
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableTracing bool `yaml:"enable_tracing"`
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	Burst             int  `yaml:"burst"`
}

type AnalysisConfig struct {
	PreviewChars      int           `yaml:"preview_chars"`
	MaxAgentChars     int           `yaml:"max_agent_chars"`
	BackgroundTimeout time.Duration `yaml:"background_timeout"`
	// DeferToWorker leaves agent analysis to the document.analyzed consumer.
	DeferToWorker bool `yaml:"defer_to_worker"`
}

// MetricsNamespace is the CloudWatch namespace for this deployment
func (c *Config) MetricsNamespace() string {
	return "LegalDashboard/" + c.Environment
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.Environment {
	case Development, Staging, Production:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}

	if c.ServerAddress == "" {
		return fmt.Errorf("SERVER_ADDRESS is required")
	}
	if c.Storage.DocumentsBucket == "" {
		return fmt.Errorf("S3_BUCKET_DOCUMENTS is required")
	}
	if c.Textract.MaxPolls <= 0 || c.Textract.PollInterval <= 0 {
		return fmt.Errorf("textract polling must be positive")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive when rate limiting is enabled")
	}

	if c.IsProduction() {
		if c.Cognito.UserPoolID == "" {
			return fmt.Errorf("COGNITO_USER_POOL_ID is required in production")
		}
		if c.Storage.ExtractedTextBucket == "" {
			return fmt.Errorf("S3_BUCKET_EXTRACTED_TEXT is required in production")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(value string) bool {
	return value == "true" || value == "1" || value == "yes"
}

// splitList splits a comma separated variable, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setString(key string, target *string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func setBool(key string, target *bool) {
	if value := os.Getenv(key); value != "" {
		*target = parseBool(value)
	}
}

func setInt(key string, target *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = n
	return nil
}

func setDuration(key string, target *time.Duration) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = d
	return nil
}

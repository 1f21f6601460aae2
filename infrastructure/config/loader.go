package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigDir is where YAML overlays are looked up when CONFIG_DIR is unset
const DefaultConfigDir = "config"

// Loader builds a Config from layered sources, lowest priority first:
// defaults, base.yaml, <environment>.yaml, local.yaml (development only),
// then environment variables.
type Loader struct {
	basePath    string
	environment string
	sources     []string
}

// NewLoader creates a loader reading overlays from basePath
func NewLoader(basePath, environment string) *Loader {
	if basePath == "" {
		basePath = DefaultConfigDir
	}
	if environment == "" {
		environment = Development
	}
	return &Loader{basePath: basePath, environment: environment}
}

// LoadConfig loads configuration using ENVIRONMENT and CONFIG_DIR
func LoadConfig() (*Config, error) {
	return NewLoader(getEnv("CONFIG_DIR", DefaultConfigDir), getEnv("ENVIRONMENT", Development)).Load()
}

// Load resolves and validates the configuration
func (l *Loader) Load() (*Config, error) {
	l.sources = []string{"defaults"}
	cfg := defaultConfig(l.environment)

	for _, name := range []string{"base", l.environment} {
		if err := l.loadFile(name, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s config: %w", name, err)
		}
	}
	if l.environment == Development {
		if err := l.loadFile("local", cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load local config: %w", err)
		}
	}

	if err := loadEnvironmentVariables(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment variable: %w", err)
	}
	l.sources = append(l.sources, "environment")
	applyDerivedDefaults(cfg)

	cfg.ConfigDir = l.basePath
	cfg.LoadedFrom = l.sources

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile overlays <name>.yaml or <name>.yml onto cfg
func (l *Loader) loadFile(name string, cfg *Config) error {
	for _, ext := range []string{"yaml", "yml"} {
		path := filepath.Join(l.basePath, name+"."+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		l.sources = append(l.sources, path)
		return nil
	}
	return os.ErrNotExist
}

func defaultConfig(environment string) *Config {
	cfg := &Config{
		Environment:     environment,
		ServerAddress:   ":5000",
		LogLevel:        "info",
		ShutdownTimeout: 30 * time.Second,
		AWS: AWSConfig{
			Region: "us-east-1",
		},
		Tables: TablesConfig{
			Clients:     "clients",
			Packages:    "packages",
			FileNumbers: "file-numbers",
			Workflows:   "workflows",
			Documents:   "documents",
		},
		Storage: StorageConfig{
			DocumentsBucket:   "legal-documents",
			UploadURLExpiry:   5 * time.Minute,
			DownloadURLExpiry: 30 * time.Minute,
		},
		Textract: TextractConfig{
			MaxPolls:     120,
			PollInterval: time.Second,
		},
		Cognito: CognitoConfig{
			JWKSCacheTTL: time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:5174"},
			AllowLocalhost: true,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 600,
			Burst:             100,
		},
		Analysis: AnalysisConfig{
			PreviewChars:      500,
			MaxAgentChars:     100000,
			BackgroundTimeout: 5 * time.Minute,
		},
	}
	if environment == Development {
		cfg.LogLevel = "debug"
		cfg.DebugErrors = true
	}
	return cfg
}

func loadEnvironmentVariables(cfg *Config) error {
	if port := os.Getenv("PORT"); port != "" {
		cfg.ServerAddress = ":" + port
	}
	setString("SERVER_ADDRESS", &cfg.ServerAddress)
	setString("LOG_LEVEL", &cfg.LogLevel)
	setBool("DEBUG_ERRORS", &cfg.DebugErrors)

	setString("AWS_REGION", &cfg.AWS.Region)
	setString("AWS_ENDPOINT_URL", &cfg.AWS.EndpointURL)

	setString("DYNAMODB_TABLE_CLIENTS", &cfg.Tables.Clients)
	setString("DYNAMODB_TABLE_PACKAGES", &cfg.Tables.Packages)
	setString("DYNAMODB_TABLE_FILE_NUMBERS", &cfg.Tables.FileNumbers)
	setString("DYNAMODB_TABLE_WORKFLOWS", &cfg.Tables.Workflows)
	setString("DYNAMODB_TABLE_DOCUMENTS", &cfg.Tables.Documents)

	setString("S3_BUCKET_DOCUMENTS", &cfg.Storage.DocumentsBucket)
	setString("S3_BUCKET_EXTRACTED_TEXT", &cfg.Storage.ExtractedTextBucket)

	setString("BEDROCK_AGENT_ID", &cfg.Agent.AgentID)
	setString("BEDROCK_AGENT_ALIAS_ID", &cfg.Agent.AliasID)
	setString("BEDROCK_REGION", &cfg.Agent.Region)

	setString("COGNITO_USER_POOL_ID", &cfg.Cognito.UserPoolID)
	setString("COGNITO_REGION", &cfg.Cognito.Region)

	if origins := splitList(os.Getenv("CORS_ORIGIN")); len(origins) > 0 {
		cfg.CORS.AllowedOrigins = append(origins, cfg.CORS.AllowedOrigins...)
	}
	setString("EVENT_BUS_NAME", &cfg.Events.BusName)
	setBool("ENABLE_METRICS", &cfg.Features.EnableMetrics)
	setBool("ENABLE_TRACING", &cfg.Features.EnableTracing)
	setBool("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled)
	setBool("ANALYSIS_DEFER_TO_WORKER", &cfg.Analysis.DeferToWorker)

	for key, target := range map[string]*int{
		"TEXTRACT_MAX_POLLS":    &cfg.Textract.MaxPolls,
		"RATE_LIMIT_PER_MINUTE": &cfg.RateLimit.RequestsPerMinute,
		"RATE_LIMIT_BURST":      &cfg.RateLimit.Burst,
	} {
		if err := setInt(key, target); err != nil {
			return err
		}
	}
	for key, target := range map[string]*time.Duration{
		"TEXTRACT_POLL_INTERVAL": &cfg.Textract.PollInterval,
		"SHUTDOWN_TIMEOUT":       &cfg.ShutdownTimeout,
	} {
		if err := setDuration(key, target); err != nil {
			return err
		}
	}
	return nil
}

// applyDerivedDefaults fills settings that default to other settings
func applyDerivedDefaults(cfg *Config) {
	if cfg.Agent.Region == "" {
		cfg.Agent.Region = cfg.AWS.Region
	}
	if cfg.Cognito.Region == "" {
		cfg.Cognito.Region = cfg.AWS.Region
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = cfg.RateLimit.RequestsPerMinute
	}
}

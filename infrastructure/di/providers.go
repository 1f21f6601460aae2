package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"legal-dashboard/application/ports"
	"legal-dashboard/application/services"
	"legal-dashboard/infrastructure/agent/bedrock"
	"legal-dashboard/infrastructure/config"
	"legal-dashboard/infrastructure/extraction"
	"legal-dashboard/infrastructure/identity/cognito"
	"legal-dashboard/infrastructure/messaging/eventbridge"
	"legal-dashboard/infrastructure/persistence/dynamodb"
	"legal-dashboard/infrastructure/storage/s3"
	"legal-dashboard/interfaces/http/rest"
	"legal-dashboard/interfaces/http/rest/middleware"
	"legal-dashboard/pkg/auth"
	"legal-dashboard/pkg/errors"
	"legal-dashboard/pkg/observability"
)

const serviceName = "legal-dashboard"

// ProvideLogLevel creates the adjustable level shared by the logger and the
// config watcher
func ProvideLogLevel(cfg *config.Config) zap.AtomicLevel {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	return zap.NewAtomicLevelAt(level)
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", serviceName), zap.String("environment", cfg.Environment)), nil
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.Features.EnableTracing)
}

// ProvideAWSConfig creates AWS configuration. A configured endpoint URL points
// every client at LocalStack.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config, tracer *observability.Tracer) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWS.Region),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.AWS.EndpointURL != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.AWS.EndpointURL)
	}
	tracer.InstrumentAWS(&awsCfg)
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideS3Client creates an S3 client. LocalStack needs path-style addressing.
func ProvideS3Client(awsCfg aws.Config, cfg *config.Config) *awss3.Client {
	return awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.UsePathStyle = cfg.AWS.EndpointURL != ""
	})
}

func ProvideS3PresignClient(client *awss3.Client) *awss3.PresignClient {
	return awss3.NewPresignClient(client)
}

func ProvideTextractClient(awsCfg aws.Config) *textract.Client {
	return textract.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideCognitoClient creates a client for the user pool's region
func ProvideCognitoClient(awsCfg aws.Config, cfg *config.Config) *cognitoidentityprovider.Client {
	return cognitoidentityprovider.NewFromConfig(awsCfg, func(o *cognitoidentityprovider.Options) {
		o.Region = cfg.Cognito.Region
	})
}

// ProvideBedrockAgentClient creates a client for the agent's region
func ProvideBedrockAgentClient(awsCfg aws.Config, cfg *config.Config) *bedrockagentruntime.Client {
	return bedrockagentruntime.NewFromConfig(awsCfg, func(o *bedrockagentruntime.Options) {
		o.Region = cfg.Agent.Region
	})
}

func ProvideClientRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ClientRepository {
	return dynamodb.NewClientRepository(client, cfg.Tables.Clients, logger)
}

func ProvidePackageRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PackageRepository {
	return dynamodb.NewPackageRepository(client, cfg.Tables.Packages, logger)
}

func ProvideFileNumberRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.FileNumberRepository {
	return dynamodb.NewFileNumberRepository(client, cfg.Tables.FileNumbers, logger)
}

func ProvideWorkflowRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.WorkflowRepository {
	return dynamodb.NewWorkflowRepository(client, cfg.Tables.Workflows, logger)
}

func ProvideDocumentRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.DocumentRepository {
	return dynamodb.NewDocumentRepository(client, cfg.Tables.Documents, logger)
}

// ProvideObjectStore stores the uploaded documents
func ProvideObjectStore(client *awss3.Client, cfg *config.Config, logger *zap.Logger) ports.ObjectStore {
	return s3.NewObjectStore(client, cfg.Storage.DocumentsBucket, logger)
}

func ProvideURLPresigner(client *awss3.PresignClient, cfg *config.Config) ports.URLPresigner {
	return s3.NewPresigner(client, cfg.Storage.DocumentsBucket, cfg.Storage.UploadURLExpiry, cfg.Storage.DownloadURLExpiry)
}

// ProvideTextStore stores extracted text, analyses and chat histories
func ProvideTextStore(client *awss3.Client, cfg *config.Config, logger *zap.Logger) ports.TextStore {
	return s3.NewTextStore(client, cfg.Storage.ExtractedTextBucket, logger)
}

// ProvideTextExtractor sends PDFs through Textract and reads other formats directly
func ProvideTextExtractor(objects ports.ObjectStore, client *textract.Client, cfg *config.Config, logger *zap.Logger) ports.TextExtractor {
	pdf := extraction.NewTextractExtractor(client, cfg.Storage.DocumentsBucket, cfg.Textract.MaxPolls, cfg.Textract.PollInterval, logger)
	return extraction.NewExtractor(objects, pdf, logger)
}

// ProvideCollector creates the Prometheus collector served on /metrics
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("legal_dashboard")
}

// ProvideMetricsRecorder fans business metrics out to Prometheus and, when
// enabled, to CloudWatch
func ProvideMetricsRecorder(client *awscloudwatch.Client, collector *observability.Collector, cfg *config.Config, logger *zap.Logger) ports.MetricsRecorder {
	recorders := observability.Recorders{collector}
	if cfg.Features.EnableMetrics {
		recorders = append(recorders, observability.NewMetrics(cfg.MetricsNamespace(), client, logger))
	}
	return recorders
}

// ProvideAgentInvoker wraps the Bedrock agent in a circuit breaker
func ProvideAgentInvoker(client *bedrockagentruntime.Client, cfg *config.Config, metrics ports.MetricsRecorder, logger *zap.Logger) ports.AgentInvoker {
	if !cfg.Agent.Configured() {
		logger.Warn("Bedrock agent is not configured; AI features are disabled")
	}
	return bedrock.NewClient(client, bedrock.DefaultConfig(cfg.Agent.AgentID, cfg.Agent.AliasID), metrics, logger)
}

func ProvideUserDirectory(client *cognitoidentityprovider.Client, cfg *config.Config, logger *zap.Logger) ports.UserDirectory {
	return cognito.NewDirectory(client, cfg.Cognito.UserPoolID, logger)
}

// ProvideEventPublisher publishes domain events, or drops them when no bus is configured
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewEventPublisher(client, cfg.Events.BusName, logger)
}

func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *errors.ErrorHandler {
	return errors.NewErrorHandler(logger, cfg.DebugErrors)
}

// ProvideTokenVerifier verifies Cognito access tokens against the pool's JWKS
func ProvideTokenVerifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (middleware.TokenVerifier, error) {
	if cfg.Cognito.UserPoolID == "" {
		logger.Warn("COGNITO_USER_POOL_ID is not set; every authenticated request will be rejected")
		return auth.NewVerifier(auth.EmptyJWKS(), cfg.Cognito.Issuer()), nil
	}
	keys, err := auth.NewJWKS(
		ctx,
		auth.JWKSURL(cfg.Cognito.Region, cfg.Cognito.UserPoolID),
		auth.JWKSOptions{
			RefreshInterval: cfg.Cognito.JWKSCacheTTL,
			Client:          &http.Client{Timeout: 10 * time.Second},
		},
		logger,
	)
	if err != nil {
		return nil, err
	}
	return auth.NewVerifier(keys, cfg.Cognito.Issuer()), nil
}

// ProvideDocumentService creates the document pipeline with the configured limits
func ProvideDocumentService(
	documents ports.DocumentRepository,
	fileNumbers ports.FileNumberRepository,
	objects ports.ObjectStore,
	presigner ports.URLPresigner,
	texts ports.TextStore,
	extractor ports.TextExtractor,
	agent ports.AgentInvoker,
	publisher ports.EventPublisher,
	metrics ports.MetricsRecorder,
	cfg *config.Config,
	logger *zap.Logger,
) *services.DocumentService {
	return services.NewDocumentService(
		documents, fileNumbers, objects, presigner, texts, extractor, agent, publisher, metrics,
		services.DocumentServiceConfig{
			PreviewChars:      cfg.Analysis.PreviewChars,
			MaxAgentChars:     cfg.Analysis.MaxAgentChars,
			BackgroundTimeout: cfg.Analysis.BackgroundTimeout,
			DeferAnalysis:     cfg.Analysis.DeferToWorker,
		},
		logger,
	)
}

// ProvideRouterConfig derives the HTTP settings from cfg
func ProvideRouterConfig(cfg *config.Config) rest.RouterConfig {
	return rest.RouterConfig{
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		AllowLocalhost:    cfg.CORS.AllowLocalhost,
		RateLimitEnabled:  cfg.RateLimit.Enabled,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Burst:             cfg.RateLimit.Burst,
		AgentBreaker:      middleware.DefaultCircuitBreakerConfig("bedrock-agent"),
	}
}

// ProvideRouter creates the router and registers the readiness probes
func ProvideRouter(
	h rest.Handlers,
	verifier middleware.TokenVerifier,
	errorHandler *errors.ErrorHandler,
	collector *observability.Collector,
	tracer *observability.Tracer,
	routerCfg rest.RouterConfig,
	ddb *awsdynamodb.Client,
	s3Client *awss3.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	router := rest.NewRouter(h, verifier, errorHandler, collector, tracer, routerCfg, logger)
	router.AddReadinessCheck("dynamodb", func(ctx context.Context) error {
		_, err := ddb.DescribeTable(ctx, &awsdynamodb.DescribeTableInput{TableName: aws.String(cfg.Tables.Clients)})
		return err
	})
	router.AddReadinessCheck("s3", func(ctx context.Context) error {
		_, err := s3Client.HeadBucket(ctx, &awss3.HeadBucketInput{Bucket: aws.String(cfg.Storage.DocumentsBucket)})
		return err
	})
	return router
}

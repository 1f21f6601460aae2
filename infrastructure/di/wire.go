//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"legal-dashboard/application/services"
	"legal-dashboard/infrastructure/config"
	"legal-dashboard/interfaces/http/rest"
	"legal-dashboard/interfaces/http/rest/handlers"
)

// InfrastructureSet provides the AWS clients and adapters
var InfrastructureSet = wire.NewSet(
	ProvideLogLevel,
	ProvideLogger,
	ProvideTracer,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideS3Client,
	ProvideS3PresignClient,
	ProvideTextractClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideCognitoClient,
	ProvideBedrockAgentClient,
	ProvideClientRepository,
	ProvidePackageRepository,
	ProvideFileNumberRepository,
	ProvideWorkflowRepository,
	ProvideDocumentRepository,
	ProvideObjectStore,
	ProvideURLPresigner,
	ProvideTextStore,
	ProvideTextExtractor,
	ProvideCollector,
	ProvideMetricsRecorder,
	ProvideAgentInvoker,
	ProvideUserDirectory,
	ProvideEventPublisher,
)

// ApplicationSet provides the services
var ApplicationSet = wire.NewSet(
	services.NewClientService,
	services.NewPackageService,
	services.NewFileNumberService,
	services.NewWorkflowService,
	services.NewAgentService,
	services.NewUserAdminService,
	ProvideDocumentService,
)

// HTTPSet provides the handlers and router
var HTTPSet = wire.NewSet(
	ProvideErrorHandler,
	ProvideTokenVerifier,
	handlers.NewClientHandler,
	handlers.NewPackageHandler,
	handlers.NewFileNumberHandler,
	handlers.NewWorkflowHandler,
	handlers.NewDocumentHandler,
	handlers.NewAgentHandler,
	handlers.NewAdminHandler,
	handlers.NewSystemHandler,
	wire.Struct(new(rest.Handlers), "*"),
	ProvideRouterConfig,
	ProvideRouter,
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	InfrastructureSet,
	ApplicationSet,
	HTTPSet,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}

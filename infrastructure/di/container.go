package di

import (
	"context"

	"go.uber.org/zap"

	"legal-dashboard/application/services"
	"legal-dashboard/infrastructure/config"
	"legal-dashboard/interfaces/http/rest"
	"legal-dashboard/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	LogLevel  zap.AtomicLevel
	Router    *rest.Router
	Documents *services.DocumentService
	Tracer    *observability.Tracer
}

// Shutdown waits for background analysis jobs and flushes the logger
func (c *Container) Shutdown(ctx context.Context) error {
	err := c.Documents.Wait(ctx)
	if err != nil {
		c.Logger.Warn("Background jobs still running at shutdown", zap.Error(err))
	}
	_ = c.Logger.Sync()
	return err
}

package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"legal-dashboard/infrastructure/config"
	"legal-dashboard/infrastructure/di"
)

var (
	// chiLambda wraps the Chi router for API Gateway REST proxy events
	chiLambda *chiadapter.ChiLambda

	container *di.Container

	// coldStart is true until the first invocation
	coldStart = true
)

// bootstrap builds the container once per sandbox, during cold start
func bootstrap() {
	started := time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	applyLambdaDefaults(cfg)

	container, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	mux, ok := container.Router.Setup().(*chi.Mux)
	if !ok {
		log.Fatal("Failed to cast handler to chi.Mux")
	}
	chiLambda = chiadapter.New(mux)

	container.Logger.Info("Lambda cold start completed", zap.Duration("duration", time.Since(started)))
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if coldStart {
		container.Logger.Info("First invocation after cold start", zap.String("request_id", req.RequestContext.RequestID))
		coldStart = false
	}

	container.Logger.Debug("Lambda received request",
		zap.String("path", req.Path),
		zap.String("method", req.HTTPMethod),
		zap.String("request_id", req.RequestContext.RequestID),
	)

	resp, err := chiLambda.ProxyWithContext(ctx, req)
	if err != nil {
		container.Logger.Error("Proxy request failed", zap.Error(err), zap.String("path", req.Path))
	}
	return resp, err
}

// applyLambdaDefaults adjusts cfg for a runtime that freezes between
// invocations: agent analysis runs in the worker function, fed by the
// document.analyzed event, instead of a goroutine in this sandbox.
func applyLambdaDefaults(cfg *config.Config) {
	cfg.Analysis.DeferToWorker = true
}

func main() {
	bootstrap()
	lambda.Start(Handler)
}

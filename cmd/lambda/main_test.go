package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"legal-dashboard/infrastructure/config"
	"legal-dashboard/infrastructure/di"
)

func TestApplyLambdaDefaults(t *testing.T) {
	cfg := &config.Config{}

	applyLambdaDefaults(cfg)

	assert.True(t, cfg.Analysis.DeferToWorker)
}

func TestHandler_ReturnsWithoutWaitingForBackgroundWork(t *testing.T) {
	// Arrange
	release := make(chan struct{})
	defer close(release)

	mux := chi.NewRouter()
	mux.Post("/files/{fileId}/documents/{documentId}/analyze", func(w http.ResponseWriter, r *http.Request) {
		go func() { <-release }()
		w.WriteHeader(http.StatusOK)
	})
	chiLambda = chiadapter.New(mux)
	container = &di.Container{Logger: zap.NewNop()}
	coldStart = false

	req := events.APIGatewayProxyRequest{
		Path:       "/files/f1/documents/d1/analyze",
		HTTPMethod: http.MethodPost,
	}

	// Act
	start := time.Now()
	resp, err := Handler(context.Background(), req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Less(t, time.Since(start), time.Second)
}

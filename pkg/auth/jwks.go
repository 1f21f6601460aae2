package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var ErrMissingKid = errors.New("token header has no kid")

// KeySource resolves the verification key of a parsed token
type KeySource interface {
	KeyfuncCtx(ctx context.Context) jwt.Keyfunc
}

// JWKSURL returns the well-known key set location of a Cognito user pool
func JWKSURL(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s/.well-known/jwks.json", region, userPoolID)
}

// JWKSOptions tunes the remote key set
type JWKSOptions struct {
	// RefreshInterval is how often the set is refetched in the background
	RefreshInterval time.Duration
	// UnknownKIDInterval bounds refetches triggered by a kid missing from the set
	UnknownKIDInterval time.Duration
	Client             *http.Client
}

// NewJWKS loads the user pool's signing keys and keeps them fresh until ctx
// ends. A failed first fetch is logged, not returned; tokens are rejected
// until a later refresh succeeds.
func NewJWKS(ctx context.Context, url string, opts JWKSOptions, logger *zap.Logger) (KeySource, error) {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = time.Hour
	}
	if opts.UnknownKIDInterval <= 0 {
		opts.UnknownKIDInterval = time.Minute
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 10 * time.Second}
	}

	kf, err := keyfunc.NewDefaultOverrideCtx(ctx, []string{url}, keyfunc.Override{
		Client:           opts.Client,
		HTTPTimeout:      opts.Client.Timeout,
		RateLimitWaitMax: 5 * time.Second,
		RefreshErrorHandlerFunc: func(u string) func(context.Context, error) {
			return func(_ context.Context, err error) {
				logger.Warn("JWKS refresh failed", zap.String("url", u), zap.Error(err))
			}
		},
		RefreshInterval:   opts.RefreshInterval,
		RefreshUnknownKID: rate.NewLimiter(rate.Every(opts.UnknownKIDInterval), 1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}
	return kf, nil
}

// EmptyJWKS is a key set that resolves nothing, for deployments without a user pool
func EmptyJWKS() KeySource {
	kf, _ := keyfunc.New(keyfunc.Options{Storage: jwkset.NewMemoryStorage()})
	return kf
}

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const AdminGroup = "admin"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// CognitoClaims are the user-pool token claims the API reads
type CognitoClaims struct {
	Email             string   `json:"email"`
	Name              string   `json:"name"`
	PreferredUsername string   `json:"preferred_username"`
	Picture           string   `json:"picture"`
	Groups            []string `json:"cognito:groups"`
	jwt.RegisteredClaims
}

// Verifier validates Cognito-issued RS256 tokens
type Verifier struct {
	keys   KeySource
	issuer string
	parser *jwt.Parser
}

func NewVerifier(keys KeySource, issuer string, opts ...jwt.ParserOption) *Verifier {
	opts = append([]jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	}, opts...)
	return &Verifier{
		keys:   keys,
		issuer: issuer,
		parser: jwt.NewParser(opts...),
	}
}

// Verify checks signature, issuer and expiry and returns the caller
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*User, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &CognitoClaims{}
	keyFor := v.keys.KeyfuncCtx(ctx)
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Cognito always names the key; without a kid the whole set would be tried
		if kid, _ := token.Header["kid"].(string); kid == "" {
			return nil, ErrMissingKid
		}
		return keyFor(token)
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims.User(), nil
}

// User maps the claims onto the request user
func (c *CognitoClaims) User() *User {
	groups := c.Groups
	if groups == nil {
		groups = []string{}
	}
	name := c.Name
	if name == "" {
		name = c.PreferredUsername
	}

	user := &User{
		UserID:  c.Subject,
		Email:   c.Email,
		Name:    name,
		Picture: c.Picture,
		Groups:  groups,
	}
	for _, g := range groups {
		if g == AdminGroup {
			user.IsAdmin = true
			break
		}
	}
	return user
}

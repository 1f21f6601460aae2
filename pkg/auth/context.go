package auth

import (
	"context"
	"errors"
)

// User is the authenticated caller as derived from a verified token
type User struct {
	UserID  string   `json:"userId"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Picture string   `json:"picture,omitempty"`
	Groups  []string `json:"groups"`
	IsAdmin bool     `json:"isAdmin"`
}

type contextKey string

const userContextKey contextKey = "user"

var ErrNoUser = errors.New("user not found in context")

// WithUser adds user to ctx
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the authenticated user
func UserFromContext(ctx context.Context) (*User, error) {
	user, ok := ctx.Value(userContextKey).(*User)
	if !ok || user == nil {
		return nil, ErrNoUser
	}
	return user, nil
}

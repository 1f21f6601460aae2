// Package handlers maps the REST routes onto the application services.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"legal-dashboard/pkg/auth"
	"legal-dashboard/pkg/errors"
)

// maxJSONBody bounds request bodies other than multipart uploads
const maxJSONBody = 1 << 20

// responder holds what every handler needs to answer a request
type responder struct {
	errors *errors.ErrorHandler
	logger *zap.Logger
}

func newResponder(errorHandler *errors.ErrorHandler, logger *zap.Logger) responder {
	return responder{errors: errorHandler, logger: logger}
}

func (h responder) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// fail renders err. Infrastructure failures are reported with the
// operation-level fallback message instead of the raw cause.
func (h responder) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	appErr := errors.GetAppError(err)
	if appErr == nil || isInfrastructure(appErr.Type) {
		wrapped := errors.NewInternalError(fallback).WithCause(err)
		if appErr != nil && appErr.Reason != "" {
			wrapped = wrapped.WithReason(appErr.Reason)
		}
		err = wrapped
	}
	h.errors.Handle(w, r, err)
}

func isInfrastructure(t errors.ErrorType) bool {
	switch t {
	case errors.ErrorTypeDatabase, errors.ErrorTypeStorage, errors.ErrorTypeExternal:
		return true
	}
	return false
}

// decodeJSON reads a bounded JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	err := json.NewDecoder(body).Decode(v)
	if err != nil && !stderrors.Is(err, io.EOF) {
		return errors.NewValidationError("Invalid request body").WithDescription(err.Error())
	}
	return nil
}

// currentUser returns the authenticated caller
func currentUser(r *http.Request) (*auth.User, error) {
	user, err := auth.UserFromContext(r.Context())
	if err != nil {
		return nil, errors.NewUnauthorizedError("No token provided")
	}
	return user, nil
}

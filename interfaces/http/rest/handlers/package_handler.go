package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"legal-dashboard/application/services"
	"legal-dashboard/domain/entities"
	"legal-dashboard/pkg/errors"
)

// PackageHandler handles package-related HTTP requests
type PackageHandler struct {
	responder
	packages *services.PackageService
}

func NewPackageHandler(packages *services.PackageService, errorHandler *errors.ErrorHandler, logger *zap.Logger) *PackageHandler {
	return &PackageHandler{
		responder: newResponder(errorHandler, logger),
		packages:  packages,
	}
}

func (h *PackageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd services.CreatePackageCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		h.fail(w, r, err, "")
		return
	}

	pkg, err := h.packages.Create(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err, "Failed to create package")
		return
	}
	h.respondJSON(w, http.StatusCreated, pkg)
}

func (h *PackageHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.packages.ListByClient(r.Context(), chi.URLParam(r, "clientId"))
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve packages")
		return
	}
	h.respondJSON(w, http.StatusOK, pkgs)
}

func (h *PackageHandler) ListByFileNumber(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.packages.ListByFileNumber(r.Context(), chi.URLParam(r, "fileNumberId"))
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve packages")
		return
	}
	h.respondJSON(w, http.StatusOK, pkgs)
}

func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request) {
	pkg, err := h.packages.Get(r.Context(), chi.URLParam(r, "packageId"))
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve package")
		return
	}
	h.respondJSON(w, http.StatusOK, pkg)
}

func (h *PackageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var changes entities.PackageChanges
	if err := decodeJSON(w, r, &changes); err != nil {
		h.fail(w, r, err, "")
		return
	}

	pkg, err := h.packages.Update(r.Context(), chi.URLParam(r, "packageId"), changes)
	if err != nil {
		h.fail(w, r, err, "Failed to update package")
		return
	}
	h.respondJSON(w, http.StatusOK, pkg)
}

func (h *PackageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.packages.Delete(r.Context(), chi.URLParam(r, "packageId")); err != nil {
		h.fail(w, r, err, "Failed to delete package")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

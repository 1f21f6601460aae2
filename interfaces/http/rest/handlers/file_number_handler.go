package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"legal-dashboard/application/services"
	"legal-dashboard/domain/entities"
	"legal-dashboard/pkg/errors"
)

// FileNumberHandler handles file-number HTTP requests. Document routes nested
// under a file number live in DocumentHandler.
type FileNumberHandler struct {
	responder
	fileNumbers *services.FileNumberService
}

func NewFileNumberHandler(fileNumbers *services.FileNumberService, errorHandler *errors.ErrorHandler, logger *zap.Logger) *FileNumberHandler {
	return &FileNumberHandler{
		responder:   newResponder(errorHandler, logger),
		fileNumbers: fileNumbers,
	}
}

func (h *FileNumberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd services.CreateFileNumberCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		h.fail(w, r, err, "")
		return
	}

	fileNumber, err := h.fileNumbers.Create(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err, "Failed to create file number")
		return
	}
	h.respondJSON(w, http.StatusCreated, fileNumber)
}

func (h *FileNumberHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	fileNumbers, err := h.fileNumbers.ListByClient(r.Context(), chi.URLParam(r, "clientId"))
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve file numbers")
		return
	}
	h.respondJSON(w, http.StatusOK, fileNumbers)
}

func (h *FileNumberHandler) ListByPackage(w http.ResponseWriter, r *http.Request) {
	fileNumbers, err := h.fileNumbers.ListByPackage(r.Context(), chi.URLParam(r, "packageId"))
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve file numbers")
		return
	}
	h.respondJSON(w, http.StatusOK, fileNumbers)
}

func (h *FileNumberHandler) Get(w http.ResponseWriter, r *http.Request) {
	fileNumber, err := h.fileNumbers.Get(r.Context(), chi.URLParam(r, "fileId"))
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve file number")
		return
	}
	h.respondJSON(w, http.StatusOK, fileNumber)
}

func (h *FileNumberHandler) Update(w http.ResponseWriter, r *http.Request) {
	var changes entities.FileNumberChanges
	if err := decodeJSON(w, r, &changes); err != nil {
		h.fail(w, r, err, "")
		return
	}

	fileNumber, err := h.fileNumbers.Update(r.Context(), chi.URLParam(r, "fileId"), changes)
	if err != nil {
		h.fail(w, r, err, "Failed to update file number")
		return
	}
	h.respondJSON(w, http.StatusOK, fileNumber)
}

func (h *FileNumberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.fileNumbers.Delete(r.Context(), chi.URLParam(r, "fileId")); err != nil {
		h.fail(w, r, err, "Failed to delete file number")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"legal-dashboard/application/services"
	"legal-dashboard/pkg/errors"
)

// MaxUploadSize bounds a multipart document upload
const MaxUploadSize = 50 << 20

// DocumentHandler serves the documents nested under a file number
type DocumentHandler struct {
	responder
	documents *services.DocumentService
}

func NewDocumentHandler(documents *services.DocumentService, errorHandler *errors.ErrorHandler, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		responder: newResponder(errorHandler, logger),
		documents: documents,
	}
}

// List handles GET /api/file-numbers/{fileId}/documents
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.List(r.Context(), chi.URLParam(r, "fileId"))
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve documents")
		return
	}
	h.respondJSON(w, http.StatusOK, docs)
}

// Upload handles the multipart POST /api/file-numbers/{fileId}/documents.
// The file travels in the "file" field next to clientId and fileNumber.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			h.errors.HandleStatus(w, r, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		h.fail(w, r, errors.NewValidationError("File is required"), "")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, errors.NewValidationError("File is required"), "")
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, r, err, "Failed to upload document")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.documents.Upload(r.Context(), services.UploadDocumentCommand{
		FileID:      chi.URLParam(r, "fileId"),
		ClientID:    r.FormValue("clientId"),
		FileNumber:  r.FormValue("fileNumber"),
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        body,
		UploadedBy:  user.UserID,
	})
	if err != nil {
		h.fail(w, r, err, "Failed to upload document")
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	h.respondJSON(w, status, result.Document)
}

// PresignUpload handles POST /api/file-numbers/{fileId}/documents/presigned-url
func (h *DocumentHandler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	var cmd services.PresignUploadCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		h.fail(w, r, err, "")
		return
	}
	cmd.FileID = chi.URLParam(r, "fileId")

	upload, err := h.documents.PresignUpload(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err, "Failed to generate upload URL")
		return
	}
	h.respondJSON(w, http.StatusOK, upload)
}

// ConfirmUpload handles POST /api/file-numbers/{fileId}/documents/confirm
func (h *DocumentHandler) ConfirmUpload(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	var cmd services.ConfirmUploadCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		h.fail(w, r, err, "")
		return
	}
	cmd.FileID = chi.URLParam(r, "fileId")
	cmd.UploadedBy = user.UserID

	result, err := h.documents.ConfirmUpload(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err, "Failed to confirm upload")
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	h.respondJSON(w, status, result.Document)
}

// Versions handles GET .../documents/{documentId}/versions
func (h *DocumentHandler) Versions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.documents.Versions(r.Context(), chi.URLParam(r, "fileId"), chi.URLParam(r, "documentId"))
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve document versions")
		return
	}
	h.respondJSON(w, http.StatusOK, versions)
}

// Delete handles DELETE .../documents/{documentId}. Documents are soft
// deleted and the updated record is returned.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	doc, err := h.documents.Delete(r.Context(), chi.URLParam(r, "fileId"), chi.URLParam(r, "documentId"), user.UserID)
	if err != nil {
		h.fail(w, r, err, "Failed to delete document")
		return
	}
	h.respondJSON(w, http.StatusOK, doc)
}

// Download handles GET .../documents/{documentId}/download
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	url, err := h.documents.DownloadURL(r.Context(), chi.URLParam(r, "fileId"), chi.URLParam(r, "documentId"))
	if err != nil {
		h.fail(w, r, err, "Failed to generate document URL")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Analyze handles POST .../documents/{documentId}/analyze
func (h *DocumentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	result, err := h.documents.Analyze(r.Context(), chi.URLParam(r, "fileId"), chi.URLParam(r, "documentId"))
	if err != nil {
		h.fail(w, r, err, "Failed to analyze document")
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// Chat handles POST .../documents/{documentId}/chat
func (h *DocumentHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var cmd services.ChatCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		h.fail(w, r, err, "")
		return
	}
	cmd.FileID = chi.URLParam(r, "fileId")
	cmd.DocumentID = chi.URLParam(r, "documentId")

	result, err := h.documents.Chat(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err, "Failed to chat about document")
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// Conversation handles GET .../documents/{documentId}/conversation
func (h *DocumentHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	conversation, err := h.documents.Conversation(r.Context(), chi.URLParam(r, "fileId"), chi.URLParam(r, "documentId"))
	if err != nil {
		h.fail(w, r, err, "Failed to load conversation history")
		return
	}
	h.respondJSON(w, http.StatusOK, conversation)
}

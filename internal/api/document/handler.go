package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/medchat/docchat-backend/internal/config"
	"github.com/medchat/docchat-backend/internal/entity"
	"github.com/medchat/docchat-backend/internal/pkg/logger"
	"github.com/medchat/docchat-backend/internal/pkg/validator"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   IngestUsecase
	validator *validator.Validator
	uploadCfg config.FileUploadConfig
}

func NewHandler(usecase IngestUsecase, validator *validator.Validator, uploadCfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
		uploadCfg: uploadCfg,
	}
}

// Upload handles POST /sessions/{id}/documents - Upload and ingest files
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "UploadDocuments"),
	)

	if err := r.ParseMultipartForm(h.uploadCfg.MaxUploadSize); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "failed to parse form", err)
		return
	}

	files := r.MultipartForm.File["files"]
	if err := h.validator.ValidateUpload(files); err != nil {
		ctxzap.Error(ctx, "failed to validate upload", zap.Error(err))
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "uploading documents", zap.Int("file_count", len(files)))

	fileData, err := readUploadedFiles(files)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "failed to read uploaded files", err)
		return
	}

	result, err := h.usecase.IngestFiles(ctx, sessionID, fileData)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if len(result.Uploaded) == 0 {
		// Nothing was ingested, every file failed.
		status = http.StatusBadRequest
	}

	h.respondJSON(w, status, entity.UploadResponse{
		Uploaded:      result.Uploaded,
		TotalUploaded: len(result.Uploaded),
		Warnings:      result.Warnings,
	})
}

// List handles GET /sessions/{id}/documents - List session documents
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "ListDocuments"),
	)

	documents, err := h.usecase.ListDocuments(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toListResponse(documents))
}

// Remove handles DELETE /sessions/{id}/documents/{document_id} - Remove a document
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")
	documentID := chi.URLParam(r, "document_id")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("document_id", documentID),
		zap.String("action", "RemoveDocument"),
	)

	doc, err := h.usecase.RemoveDocument(ctx, sessionID, documentID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "document removed")
	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("document %s removed successfully", doc.OriginalFilename),
	})
}

// readUploadedFiles loads multipart file contents into memory for the
// ingest pipeline. Sizes are already bounded by the upload validator.
func readUploadedFiles(files []*multipart.FileHeader) ([]entity.FileData, error) {
	fileData := make([]entity.FileData, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}

		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}

		fileData = append(fileData, entity.FileData{
			Filename: fh.Filename,
			Content:  content,
		})
	}

	return fileData, nil
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	h.respondJSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrSessionNotFound) || errors.Is(err, entity.ErrDocumentNotFound) {
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	} else if errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidExtension) ||
		errors.Is(err, entity.ErrFileTooLarge) || errors.Is(err, entity.ErrTooManyFiles) ||
		errors.Is(err, entity.ErrTotalSizeTooLarge) || errors.Is(err, entity.ErrInvalidFile) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid upload", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}

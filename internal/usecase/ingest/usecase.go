package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/medchat/docchat-backend/internal/config"
	"github.com/medchat/docchat-backend/internal/entity"
	"github.com/medchat/docchat-backend/internal/pkg/chunker"
	"github.com/medchat/docchat-backend/internal/pkg/validator"
	"github.com/medchat/docchat-backend/internal/repository"
	"go.uber.org/zap"
)

const previewLength = 500

// IngestUsecase implements the document ingest pipeline: store the file,
// extract its text, chunk it, embed each chunk and persist everything.
type IngestUsecase struct {
	sessionRepo  repository.SessionRepository
	documentRepo repository.DocumentRepository
	chunkRepo    repository.ChunkRepository
	embedder     EmbeddingConnector
	extractor    TextExtractor
	retrievalCfg config.RetrievalConfig
	uploadDir    string
	logger       *zap.Logger
}

// NewUsecase creates a new ingest use case
func NewUsecase(
	sessionRepo repository.SessionRepository,
	documentRepo repository.DocumentRepository,
	chunkRepo repository.ChunkRepository,
	embedder EmbeddingConnector,
	extractor TextExtractor,
	retrievalCfg config.RetrievalConfig,
	uploadDir string,
	logger *zap.Logger,
) *IngestUsecase {
	return &IngestUsecase{
		sessionRepo:  sessionRepo,
		documentRepo: documentRepo,
		chunkRepo:    chunkRepo,
		embedder:     embedder,
		extractor:    extractor,
		retrievalCfg: retrievalCfg,
		uploadDir:    uploadDir,
		logger:       logger,
	}
}

// IngestFiles processes an upload batch. A file that fails at any stage
// produces a warning and does not abort the rest of the batch.
func (uc *IngestUsecase) IngestFiles(ctx context.Context, sessionID string, files []entity.FileData) (
	*entity.UploadResult, error,
) {
	if _, err := uc.sessionRepo.GetOrCreate(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("get or create session: %w", err)
	}

	if err := os.MkdirAll(uc.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	result := &entity.UploadResult{}
	for _, file := range files {
		uploaded, err := uc.ingestFile(ctx, sessionID, file)
		if err != nil {
			ctxzap.Warn(ctx, "file ingest failed",
				zap.String("filename", file.Filename), zap.Error(err))
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: %s", file.Filename, ingestWarning(err)))
			continue
		}
		result.Uploaded = append(result.Uploaded, uploaded)
	}

	ctxzap.Info(ctx, "ingest batch finished",
		zap.String("session_id", sessionID),
		zap.Int("uploaded", len(result.Uploaded)),
		zap.Int("failed", len(result.Warnings)),
	)

	return result, nil
}

func (uc *IngestUsecase) ingestFile(ctx context.Context, sessionID string, file entity.FileData) (
	*entity.UploadedDocument, error,
) {
	sanitized := validator.SanitizeFilename(file.Filename)
	storedName := fmt.Sprintf("%s_%d_%s", sessionID, time.Now().Unix(), sanitized)
	path := filepath.Join(uc.uploadDir, storedName)

	if err := os.WriteFile(path, file.Content, 0o644); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	text := strings.TrimSpace(uc.extractor.ExtractText(path))
	if text == "" {
		// An unreadable file never becomes a document.
		if err := os.Remove(path); err != nil {
			ctxzap.Warn(ctx, "failed to remove empty upload", zap.String("path", path), zap.Error(err))
		}
		return nil, entity.ErrNoExtractableText
	}

	doc, err := uc.documentRepo.Create(ctx, entity.Document{
		ID:               uuid.New().String(),
		SessionID:        sessionID,
		Filename:         storedName,
		OriginalFilename: file.Filename,
		FilePath:         path,
		FileSize:         int64(len(file.Content)),
	})
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	chunks := chunker.Chunk(text, uc.retrievalCfg.MaxChunkSize, uc.retrievalCfg.ChunkOverlap)
	ctxzap.Info(ctx, "document chunked",
		zap.String("document_id", doc.ID),
		zap.String("filename", file.Filename),
		zap.Int("chunk_count", len(chunks)),
	)

	stored := uc.storeChunks(ctx, doc.ID, chunks)
	if err := uc.documentRepo.UpdateTotalChunks(ctx, doc.ID, stored); err != nil {
		return nil, fmt.Errorf("update chunk count: %w", err)
	}

	return &entity.UploadedDocument{
		ID:            doc.ID,
		Filename:      doc.OriginalFilename,
		TextPreview:   preview(text),
		ChunksCreated: stored,
		FileSize:      doc.FileSize,
	}, nil
}

// storeChunks embeds and persists chunks one by one. A chunk that fails
// to embed or persist is skipped, the document keeps the rest.
func (uc *IngestUsecase) storeChunks(ctx context.Context, documentID string, chunks []string) int {
	stored := 0
	for i, text := range chunks {
		vectors, err := uc.embedder.Embed(ctx, []string{text})
		if err != nil || len(vectors) != 1 {
			ctxzap.Warn(ctx, "failed to embed chunk",
				zap.String("document_id", documentID), zap.Int("chunk_index", i), zap.Error(err))
			continue
		}

		_, err = uc.chunkRepo.Create(ctx, entity.Chunk{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			ChunkIndex: i,
			Text:       text,
			ChunkSize:  len(text),
			Embedding:  vectors[0],
		})
		if err != nil {
			ctxzap.Warn(ctx, "failed to store chunk",
				zap.String("document_id", documentID), zap.Int("chunk_index", i), zap.Error(err))
			continue
		}

		stored++
	}

	return stored
}

// ListDocuments returns the session's documents in upload order
func (uc *IngestUsecase) ListDocuments(ctx context.Context, sessionID string) ([]*entity.Document, error) {
	if _, err := uc.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	documents, err := uc.documentRepo.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return documents, nil
}

// RemoveDocument deletes a document, its chunks and its stored file
func (uc *IngestUsecase) RemoveDocument(ctx context.Context, sessionID, documentID string) (*entity.Document, error) {
	doc, err := uc.documentRepo.GetByID(ctx, sessionID, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	found, err := uc.documentRepo.Delete(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("delete document: %w", err)
	}
	if !found {
		return nil, entity.ErrDocumentNotFound
	}

	if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
		ctxzap.Warn(ctx, "failed to remove stored file",
			zap.String("path", doc.FilePath), zap.Error(err))
	}

	ctxzap.Info(ctx, "document removed",
		zap.String("session_id", sessionID),
		zap.String("document_id", documentID),
	)

	return doc, nil
}

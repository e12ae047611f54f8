package document

import (
	"context"

	"github.com/medchat/docchat-backend/internal/entity"
)

type IngestUsecase interface {
	IngestFiles(ctx context.Context, sessionID string, files []entity.FileData) (*entity.UploadResult, error)
	ListDocuments(ctx context.Context, sessionID string) ([]*entity.Document, error)
	RemoveDocument(ctx context.Context, sessionID, documentID string) (*entity.Document, error)
}

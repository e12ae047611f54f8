package session

import (
	"context"

	"github.com/medchat/docchat-backend/internal/entity"
)

type SessionUsecase interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	ClearData(ctx context.Context, sessionID string) error
	GetHistory(ctx context.Context, sessionID string, limit int) ([]*entity.Message, error)
	ExportTranscript(ctx context.Context, sessionID string, format entity.ExportFormat) (*entity.ExportedTranscript, error)
}

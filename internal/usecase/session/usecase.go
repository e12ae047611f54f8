package session

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/medchat/docchat-backend/internal/entity"
	"github.com/medchat/docchat-backend/internal/pkg/formatter"
	"github.com/medchat/docchat-backend/internal/repository"
	"go.uber.org/zap"
)

// SessionUsecase implements session lifecycle and history logic
type SessionUsecase struct {
	sessionRepo      repository.SessionRepository
	documentRepo     repository.DocumentRepository
	messageRepo      repository.MessageRepository
	formatterFactory *formatter.Factory
	logger           *zap.Logger
}

// NewUsecase creates a new session use case
func NewUsecase(
	sessionRepo repository.SessionRepository,
	documentRepo repository.DocumentRepository,
	messageRepo repository.MessageRepository,
	formatterFactory *formatter.Factory,
	logger *zap.Logger,
) *SessionUsecase {
	return &SessionUsecase{
		sessionRepo:      sessionRepo,
		documentRepo:     documentRepo,
		messageRepo:      messageRepo,
		formatterFactory: formatterFactory,
		logger:           logger,
	}
}

// StartSession creates an empty session with a fresh id
func (uc *SessionUsecase) StartSession(ctx context.Context) (*entity.Session, error) {
	session, err := uc.sessionRepo.GetOrCreate(ctx, uuid.New().String())
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return session, nil
}

// GetSession returns session info, creating the session when it does not
// exist yet. Any reference to a session id revives it, which lets clients
// keep a stable id across backend restarts.
func (uc *SessionUsecase) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	if _, err := uc.sessionRepo.GetOrCreate(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("get or create session: %w", err)
	}

	session, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	return session, nil
}

// ClearData removes the session's chat history, documents and stored files.
// The session row itself survives so the client keeps its id.
func (uc *SessionUsecase) ClearData(ctx context.Context, sessionID string) error {
	if _, err := uc.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return fmt.Errorf("get session: %w", err)
	}

	documents, err := uc.documentRepo.GetBySession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("list session documents: %w", err)
	}

	if err := uc.sessionRepo.ClearData(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session data: %w", err)
	}

	// Stored files are cleaned up after the database commit. A leftover
	// file on disk is harmless, a dangling database row is not.
	for _, doc := range documents {
		if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
			ctxzap.Warn(ctx, "failed to remove stored file",
				zap.String("path", doc.FilePath), zap.Error(err))
		}
	}

	ctxzap.Info(ctx, "session data cleared",
		zap.String("session_id", sessionID),
		zap.Int("documents_removed", len(documents)),
	)

	return nil
}

// GetHistory returns the most recent messages, newest first
func (uc *SessionUsecase) GetHistory(ctx context.Context, sessionID string, limit int) ([]*entity.Message, error) {
	if _, err := uc.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	messages, err := uc.messageRepo.GetHistory(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("get chat history: %w", err)
	}

	return messages, nil
}

// ExportTranscript renders the full chat history in the requested format
func (uc *SessionUsecase) ExportTranscript(ctx context.Context, sessionID string, format entity.ExportFormat) (
	*entity.ExportedTranscript, error,
) {
	session, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	messages, err := uc.messageRepo.GetHistory(ctx, sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("get chat history: %w", err)
	}

	f, err := uc.formatterFactory.Create(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidParameter, err)
	}

	content, err := f.Format(renderTranscript(session, messages))
	if err != nil {
		return nil, fmt.Errorf("format transcript: %w", err)
	}

	return &entity.ExportedTranscript{
		Filename:    fmt.Sprintf("chat_%s%s", sessionID, f.FileExtension()),
		ContentType: f.ContentType(),
		Content:     content,
	}, nil
}

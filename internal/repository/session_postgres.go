package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medchat/docchat-backend/internal/entity"
)

// SessionRepository defines the interface for session persistence
type SessionRepository interface {
	// GetOrCreate upserts the session with the given id. Idempotent: an
	// existing session just has its last_activity bumped.
	GetOrCreate(ctx context.Context, id string) (*entity.Session, error)
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	// ClearData removes all messages and documents (and transitively
	// chunks) of the session inside one transaction. The session row
	// itself survives.
	ClearData(ctx context.Context, id string) error
}

var _ SessionRepository = &SessionPostgres{}

// SessionPostgres implements SessionRepository using PostgreSQL
type SessionPostgres struct {
	db *pgxpool.Pool
}

func NewSessionPostgres(db *pgxpool.Pool) *SessionPostgres {
	return &SessionPostgres{db: db}
}

const getOrCreateSessionQuery = `
INSERT INTO chat_sessions (id)
VALUES ($1)
ON CONFLICT (id) DO UPDATE SET last_activity = now()
RETURNING id, created_at, last_activity`

func (r *SessionPostgres) GetOrCreate(ctx context.Context, id string) (*entity.Session, error) {
	sessionID, err := pgUUID(id)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID: %w", err)
	}

	var (
		dbID         pgtype.UUID
		createdAt    pgtype.Timestamptz
		lastActivity pgtype.Timestamptz
	)
	err = r.db.QueryRow(ctx, getOrCreateSessionQuery, sessionID).
		Scan(&dbID, &createdAt, &lastActivity)
	if err != nil {
		return nil, fmt.Errorf("get or create session: %w", err)
	}

	return &entity.Session{
		ID:           uuidString(dbID),
		CreatedAt:    createdAt.Time,
		LastActivity: lastActivity.Time,
	}, nil
}

const getSessionByIDQuery = `
SELECT s.id, s.created_at, s.last_activity,
       (SELECT count(*) FROM documents d WHERE d.session_id = s.id),
       (SELECT count(*) FROM chat_messages m WHERE m.session_id = s.id)
FROM chat_sessions s
WHERE s.id = $1`

func (r *SessionPostgres) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	sessionID, err := pgUUID(id)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID: %w", err)
	}

	var (
		dbID          pgtype.UUID
		createdAt     pgtype.Timestamptz
		lastActivity  pgtype.Timestamptz
		documentCount int
		messageCount  int
	)
	err = r.db.QueryRow(ctx, getSessionByIDQuery, sessionID).
		Scan(&dbID, &createdAt, &lastActivity, &documentCount, &messageCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	return &entity.Session{
		ID:            uuidString(dbID),
		CreatedAt:     createdAt.Time,
		LastActivity:  lastActivity.Time,
		DocumentCount: documentCount,
		MessageCount:  messageCount,
	}, nil
}

func (r *SessionPostgres) ClearData(ctx context.Context, id string) error {
	sessionID, err := pgUUID(id)
	if err != nil {
		return fmt.Errorf("invalid session ID: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM chat_messages WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete session messages: %w", err)
	}

	// Chunk rows go with their documents via ON DELETE CASCADE.
	if _, err := tx.Exec(ctx, `DELETE FROM documents WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete session documents: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

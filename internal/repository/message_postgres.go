package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medchat/docchat-backend/internal/entity"
)

// MessageRepository defines the interface for chat history persistence
type MessageRepository interface {
	Create(ctx context.Context, msg entity.Message) (*entity.Message, error)
	// GetHistory returns the most recent messages first. A non-positive
	// limit returns the full history.
	GetHistory(ctx context.Context, sessionID string, limit int) ([]*entity.Message, error)
}

var _ MessageRepository = &MessagePostgres{}

// MessagePostgres implements MessageRepository using PostgreSQL
type MessagePostgres struct {
	db *pgxpool.Pool
}

func NewMessagePostgres(db *pgxpool.Pool) *MessagePostgres {
	return &MessagePostgres{db: db}
}

const createMessageQuery = `
INSERT INTO chat_messages (id, session_id, user_message, bot_response, context_used, relevant_documents, response_time_ms)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at`

func (r *MessagePostgres) Create(ctx context.Context, msg entity.Message) (*entity.Message, error) {
	messageID, err := pgUUID(msg.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid message ID: %w", err)
	}

	sessionID, err := pgUUID(msg.SessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID: %w", err)
	}

	var relevantDocs *string
	if len(msg.RelevantDocuments) > 0 {
		joined := strings.Join(msg.RelevantDocuments, ",")
		relevantDocs = &joined
	}

	var createdAt pgtype.Timestamptz
	err = r.db.QueryRow(ctx, createMessageQuery,
		messageID, sessionID, msg.UserMessage, msg.BotResponse,
		msg.ContextUsed, relevantDocs, msg.ResponseTimeMS).
		Scan(&createdAt)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	msg.CreatedAt = createdAt.Time

	return &msg, nil
}

const getHistoryQuery = `
SELECT id, session_id, user_message, bot_response, context_used, relevant_documents, response_time_ms, created_at
FROM chat_messages
WHERE session_id = $1
ORDER BY created_at DESC`

func (r *MessagePostgres) GetHistory(ctx context.Context, sessionID string, limit int) ([]*entity.Message, error) {
	sessID, err := pgUUID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID: %w", err)
	}

	query := getHistoryQuery
	args := []any{sessID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get chat history: %w", err)
	}
	defer rows.Close()

	messages := make([]*entity.Message, 0)
	for rows.Next() {
		var (
			id             pgtype.UUID
			sessionUUID    pgtype.UUID
			contextUsed    pgtype.Text
			relevantDocs   pgtype.Text
			responseTimeMS pgtype.Int4
			createdAt      pgtype.Timestamptz
			msg            entity.Message
		)

		err := rows.Scan(&id, &sessionUUID, &msg.UserMessage, &msg.BotResponse,
			&contextUsed, &relevantDocs, &responseTimeMS, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}

		msg.ID = uuidString(id)
		msg.SessionID = uuidString(sessionUUID)
		msg.ContextUsed = textOrNil(contextUsed)
		msg.ResponseTimeMS = int4OrNil(responseTimeMS)
		msg.CreatedAt = createdAt.Time

		if docs := textOrNil(relevantDocs); docs != nil && *docs != "" {
			msg.RelevantDocuments = strings.Split(*docs, ",")
		}

		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

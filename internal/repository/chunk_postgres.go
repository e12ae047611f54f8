package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medchat/docchat-backend/internal/entity"
	"github.com/medchat/docchat-backend/internal/pkg/vector"
	"go.uber.org/zap"
)

// ChunkRepository defines the interface for chunk and embedding persistence
type ChunkRepository interface {
	Create(ctx context.Context, chunk entity.Chunk) (*entity.Chunk, error)
	// GetSessionChunks returns every chunk of every document in the
	// session, ordered by document upload time and chunk index.
	GetSessionChunks(ctx context.Context, sessionID string) ([]*entity.SessionChunk, error)
}

var _ ChunkRepository = &ChunkPostgres{}

// ChunkPostgres implements ChunkRepository using PostgreSQL. Embeddings
// are stored in a BYTEA column in the binary codec of the vector package.
type ChunkPostgres struct {
	db *pgxpool.Pool
}

func NewChunkPostgres(db *pgxpool.Pool) *ChunkPostgres {
	return &ChunkPostgres{db: db}
}

const createChunkQuery = `
INSERT INTO document_chunks (id, document_id, chunk_index, chunk_text, chunk_size, embedding)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at`

func (r *ChunkPostgres) Create(ctx context.Context, chunk entity.Chunk) (*entity.Chunk, error) {
	chunkID, err := pgUUID(chunk.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid chunk ID: %w", err)
	}

	documentID, err := pgUUID(chunk.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("invalid document ID: %w", err)
	}

	encoded := vector.Encode(chunk.Embedding)

	var createdAt pgtype.Timestamptz
	err = r.db.QueryRow(ctx, createChunkQuery,
		chunkID, documentID, chunk.ChunkIndex, chunk.Text, chunk.ChunkSize, encoded).
		Scan(&createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
			return nil, entity.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("create chunk: %w", err)
	}

	chunk.CreatedAt = createdAt.Time

	return &chunk, nil
}

const getSessionChunksQuery = `
SELECT c.id, c.document_id, c.chunk_index, c.chunk_text, c.chunk_size, c.embedding, c.created_at, d.filename
FROM document_chunks c
JOIN documents d ON d.id = c.document_id
WHERE d.session_id = $1
ORDER BY d.upload_time, c.chunk_index`

func (r *ChunkPostgres) GetSessionChunks(ctx context.Context, sessionID string) ([]*entity.SessionChunk, error) {
	sessID, err := pgUUID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID: %w", err)
	}

	rows, err := r.db.Query(ctx, getSessionChunksQuery, sessID)
	if err != nil {
		return nil, fmt.Errorf("get session chunks: %w", err)
	}
	defer rows.Close()

	chunks := make([]*entity.SessionChunk, 0)
	for rows.Next() {
		var (
			id         pgtype.UUID
			documentID pgtype.UUID
			createdAt  pgtype.Timestamptz
			encoded    []byte
			chunk      entity.SessionChunk
		)

		err := rows.Scan(&id, &documentID, &chunk.ChunkIndex, &chunk.Text,
			&chunk.ChunkSize, &encoded, &createdAt, &chunk.DocumentFilename)
		if err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}

		chunk.ID = uuidString(id)
		chunk.DocumentID = uuidString(documentID)
		chunk.CreatedAt = createdAt.Time

		chunk.Embedding, err = vector.Decode(encoded)
		if err != nil {
			// A chunk with an unreadable embedding cannot participate
			// in retrieval, the rest of the session stays usable.
			ctxzap.Warn(ctx, "skipping chunk with undecodable embedding",
				zap.String("chunk_id", chunk.ID),
				zap.String("document_id", chunk.DocumentID),
				zap.Error(err))
			continue
		}

		chunks = append(chunks, &chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	return chunks, nil
}

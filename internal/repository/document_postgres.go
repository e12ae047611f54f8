package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medchat/docchat-backend/internal/entity"
)

// pgErrForeignKeyViolation is the PostgreSQL error code for a failed
// foreign key constraint.
const pgErrForeignKeyViolation = "23503"

// DocumentRepository defines the interface for document metadata persistence
type DocumentRepository interface {
	Create(ctx context.Context, doc entity.Document) (*entity.Document, error)
	GetBySession(ctx context.Context, sessionID string) ([]*entity.Document, error)
	// GetByID is session-scoped: a document belonging to another session
	// is reported as not found.
	GetByID(ctx context.Context, sessionID, documentID string) (*entity.Document, error)
	UpdateTotalChunks(ctx context.Context, documentID string, totalChunks int) error
	// Delete removes the document and cascades to its chunks. The bool
	// reports whether a document row was found.
	Delete(ctx context.Context, documentID string) (bool, error)
}

var _ DocumentRepository = &DocumentPostgres{}

// DocumentPostgres implements DocumentRepository using PostgreSQL
type DocumentPostgres struct {
	db *pgxpool.Pool
}

func NewDocumentPostgres(db *pgxpool.Pool) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

const createDocumentQuery = `
INSERT INTO documents (id, session_id, filename, original_filename, file_path, file_size)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, session_id, filename, original_filename, file_path, file_size, upload_time, total_chunks`

func (r *DocumentPostgres) Create(ctx context.Context, doc entity.Document) (*entity.Document, error) {
	documentID, err := pgUUID(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid document ID: %w", err)
	}

	sessionID, err := pgUUID(doc.SessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID: %w", err)
	}

	row := r.db.QueryRow(ctx, createDocumentQuery,
		documentID, sessionID, doc.Filename, doc.OriginalFilename, doc.FilePath, doc.FileSize)

	created, err := scanDocument(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
			return nil, entity.ErrSessionNotFound
		}
		return nil, fmt.Errorf("create document: %w", err)
	}

	return created, nil
}

const getSessionDocumentsQuery = `
SELECT id, session_id, filename, original_filename, file_path, file_size, upload_time, total_chunks
FROM documents
WHERE session_id = $1
ORDER BY upload_time`

func (r *DocumentPostgres) GetBySession(ctx context.Context, sessionID string) ([]*entity.Document, error) {
	sessID, err := pgUUID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID: %w", err)
	}

	rows, err := r.db.Query(ctx, getSessionDocumentsQuery, sessID)
	if err != nil {
		return nil, fmt.Errorf("get session documents: %w", err)
	}
	defer rows.Close()

	documents := make([]*entity.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return documents, nil
}

const getDocumentByIDQuery = `
SELECT id, session_id, filename, original_filename, file_path, file_size, upload_time, total_chunks
FROM documents
WHERE id = $1 AND session_id = $2`

func (r *DocumentPostgres) GetByID(ctx context.Context, sessionID, documentID string) (*entity.Document, error) {
	docID, err := pgUUID(documentID)
	if err != nil {
		return nil, fmt.Errorf("invalid document ID: %w", err)
	}

	sessID, err := pgUUID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID: %w", err)
	}

	doc, err := scanDocument(r.db.QueryRow(ctx, getDocumentByIDQuery, docID, sessID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

func (r *DocumentPostgres) UpdateTotalChunks(ctx context.Context, documentID string, totalChunks int) error {
	docID, err := pgUUID(documentID)
	if err != nil {
		return fmt.Errorf("invalid document ID: %w", err)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE documents SET total_chunks = $2 WHERE id = $1`, docID, totalChunks)
	if err != nil {
		return fmt.Errorf("update total chunks: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrDocumentNotFound
	}

	return nil
}

func (r *DocumentPostgres) Delete(ctx context.Context, documentID string) (bool, error) {
	docID, err := pgUUID(documentID)
	if err != nil {
		return false, fmt.Errorf("invalid document ID: %w", err)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, docID)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var (
		id          pgtype.UUID
		sessionID   pgtype.UUID
		uploadTime  pgtype.Timestamptz
		doc         entity.Document
		totalChunks int
	)

	err := row.Scan(&id, &sessionID, &doc.Filename, &doc.OriginalFilename,
		&doc.FilePath, &doc.FileSize, &uploadTime, &totalChunks)
	if err != nil {
		return nil, err
	}

	doc.ID = uuidString(id)
	doc.SessionID = uuidString(sessionID)
	doc.UploadTime = uploadTime.Time
	doc.TotalChunks = totalChunks

	return &doc, nil
}

package entity

import (
	"time"
)

// Session is the isolation boundary for uploaded documents and chat history.
// It is created lazily on first reference (explicit get-or-create upsert).
type Session struct {
	ID            string    `json:"session_id"`
	CreatedAt     time.Time `json:"created_at"`
	LastActivity  time.Time `json:"last_activity"`
	DocumentCount int       `json:"document_count"`
	MessageCount  int       `json:"message_count"`
}

// Document is one uploaded file that produced extractable text.
// A document with zero extractable text is never persisted.
type Document struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"session_id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FilePath         string    `json:"-"`
	FileSize         int64     `json:"file_size"`
	UploadTime       time.Time `json:"upload_time"`
	TotalChunks      int       `json:"total_chunks"`
}

// Chunk is a bounded span of a document's extracted text together with its
// embedding vector. Immutable once created.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	ChunkIndex int       `json:"chunk_index"`
	Text       string    `json:"chunk_text"`
	ChunkSize  int       `json:"chunk_size"`
	Embedding  []float32 `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// SessionChunk is a chunk joined with its document provenance, as returned
// by the session-scoped candidate query.
type SessionChunk struct {
	Chunk
	DocumentFilename string `json:"document_filename"`
}

// Message is one turn of conversation. The context chunks that contributed
// to the response are denormalized into a single delimited blob for audit.
type Message struct {
	ID                string    `json:"id"`
	SessionID         string    `json:"session_id"`
	UserMessage       string    `json:"user_message"`
	BotResponse       string    `json:"bot_response"`
	ContextUsed       *string   `json:"-"`
	RelevantDocuments []string  `json:"relevant_documents"`
	CreatedAt         time.Time `json:"timestamp"`
	ResponseTimeMS    *int      `json:"response_time_ms,omitempty"`
}

// ContextSeparator delimits chunk texts inside a message's context blob.
const ContextSeparator = "\n---\n"

// FileData carries an uploaded file through the ingest pipeline.
type FileData struct {
	Filename string
	Content  []byte
}

// RetrievedContext is the output of the session-scoped retrieval path:
// a ready-to-prompt context string plus provenance.
type RetrievedContext struct {
	Context     string
	ChunkTexts  []string
	DocumentIDs []string
}

// ChatResult is the outcome of one chat turn.
type ChatResult struct {
	Reply          string
	ContextUsed    bool
	SourcesCount   int
	ResponseTimeMS int
}

// UploadedDocument summarizes one successfully ingested file.
type UploadedDocument struct {
	ID            string `json:"id"`
	Filename      string `json:"filename"`
	TextPreview   string `json:"text_preview"`
	ChunksCreated int    `json:"chunks_created"`
	FileSize      int64  `json:"file_size"`
}

// UploadResult aggregates per-file outcomes of one ingest batch. Warnings
// carry per-file failures that did not abort the batch.
type UploadResult struct {
	Uploaded []*UploadedDocument
	Warnings []string
}

// ExportedTranscript is a rendered chat history ready to be served as a
// file download.
type ExportedTranscript struct {
	Filename    string
	ContentType string
	Content     []byte
}

type ExportFormat string

const (
	FormatMarkdown ExportFormat = "md"
	FormatDOCX     ExportFormat = "docx"
	FormatPDF      ExportFormat = "pdf"
)

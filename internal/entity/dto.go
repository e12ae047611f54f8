package entity

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type SessionInfoResponse struct {
	Session *Session `json:"session"`
}

type UploadResponse struct {
	Uploaded      []*UploadedDocument `json:"uploaded_documents"`
	TotalUploaded int                 `json:"total_uploaded"`
	Warnings      []string            `json:"warnings,omitempty"`
}

type DocumentDTO struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	UploadTime       time.Time `json:"upload_time"`
	TotalChunks      int       `json:"total_chunks"`
}

type ListDocumentsResponse struct {
	Documents []*DocumentDTO `json:"documents"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply          string `json:"reply"`
	ContextUsed    bool   `json:"context_used"`
	SourcesCount   int    `json:"sources_count"`
	ResponseTimeMS int    `json:"response_time_ms"`
}

type MessageDTO struct {
	ID                string    `json:"id"`
	UserMessage       string    `json:"user_message"`
	BotResponse       string    `json:"bot_response"`
	RelevantDocuments []string  `json:"relevant_documents"`
	Timestamp         time.Time `json:"timestamp"`
	ResponseTimeMS    *int      `json:"response_time_ms,omitempty"`
}

type HistoryResponse struct {
	Messages      []*MessageDTO `json:"messages"`
	TotalMessages int           `json:"total_messages"`
}

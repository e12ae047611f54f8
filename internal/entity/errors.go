package entity

import "errors"

// Domain errors
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Document errors
	ErrDocumentNotFound   = errors.New("document not found")
	ErrNoExtractableText  = errors.New("no extractable text")
	ErrEmbeddingDimension = errors.New("embedding dimension mismatch")

	// File errors
	ErrInvalidFile       = errors.New("invalid file")
	ErrFileTooLarge      = errors.New("file too large")
	ErrTooManyFiles      = errors.New("too many files")
	ErrInvalidExtension  = errors.New("invalid file extension")
	ErrTotalSizeTooLarge = errors.New("total file size too large")

	// Validation errors
	ErrEmptyMessage     = errors.New("message cannot be empty")
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)

package ingest

import (
	"errors"

	"github.com/medchat/docchat-backend/internal/entity"
)

// preview returns the first part of the extracted text for the upload
// response, so clients can show what was read from the file.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}

// ingestWarning maps an ingest failure to a user-facing warning message.
func ingestWarning(err error) string {
	if errors.Is(err, entity.ErrNoExtractableText) {
		return "could not extract text from file"
	}
	return "error processing file"
}

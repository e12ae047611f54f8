// Package extractor pulls plain text out of uploaded documents. Extraction
// is best-effort: any failure yields an empty string, never an error, and
// the ingest pipeline treats empty text as a per-file warning.
package extractor

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/unidoc/unioffice/document"
	"go.uber.org/zap"
)

type Extractor struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// ExtractText returns the trimmed plain text of the file at path, or the
// empty string when the format is unsupported or the file is unreadable.
func (e *Extractor) ExtractText(path string) string {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		text, err = extractPlain(path)
	case ".docx":
		text, err = extractDOCX(path)
	case ".pdf":
		text, err = extractPDF(path)
	default:
		e.logger.Warn("unsupported document format", zap.String("path", path))
		return ""
	}

	if err != nil {
		e.logger.Warn("text extraction failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return ""
	}

	return strings.TrimSpace(text)
}

func extractPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func extractDOCX(path string) (string, error) {
	doc, err := document.Open(path)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			sb.WriteString(run.Text())
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

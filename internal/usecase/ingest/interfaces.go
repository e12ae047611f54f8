package ingest

import (
	"context"
)

type EmbeddingConnector interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type TextExtractor interface {
	ExtractText(path string) string
}

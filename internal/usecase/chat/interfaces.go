package chat

import (
	"context"

	"github.com/medchat/docchat-backend/internal/entity"
)

type EmbeddingConnector interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type LLMConnector interface {
	Complete(ctx context.Context, messages []entity.ChatCompletionMessage) (string, error)
}

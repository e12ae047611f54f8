package embedding

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/medchat/docchat-backend/internal/config"
	"github.com/medchat/docchat-backend/internal/entity"
	"github.com/medchat/docchat-backend/internal/integration/common"
	pkghttp "github.com/medchat/docchat-backend/pkg/http"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Embed converts texts to vectors via the embeddings endpoint.
// The result preserves input order and every vector has the same dimension.
func (c *Connector) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctxzap.Debug(ctx, "requesting embeddings", zap.Int("text_count", len(texts)))

	req := &entity.EmbeddingRequest{
		Model: c.config.Model,
		Input: texts,
	}

	var resp entity.EmbeddingResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.EmbeddingsEndpoint, req, &resp)
	}, c.config.Retry.ToRetryOptions()...)
	if err != nil {
		ctxzap.Error(ctx, "failed to get embeddings", zap.Error(err))
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response mismatch: sent %d texts, got %d vectors", len(texts), len(resp.Data))
	}

	// The endpoint may return items out of order, the index field is authoritative.
	sort.Slice(resp.Data, func(i, j int) bool {
		return resp.Data[i].Index < resp.Data[j].Index
	})

	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		if len(item.Embedding) == 0 {
			return nil, fmt.Errorf("embeddings response contains an empty vector at index %d", item.Index)
		}
		if len(item.Embedding) != len(resp.Data[0].Embedding) {
			return nil, fmt.Errorf("%w: got both %d and %d dimensional vectors in one response",
				entity.ErrEmbeddingDimension, len(resp.Data[0].Embedding), len(item.Embedding))
		}
		vectors[i] = item.Embedding
	}

	ctxzap.Debug(ctx, "embeddings received",
		zap.Int("vector_count", len(vectors)),
		zap.Int("dimension", len(vectors[0])),
	)

	return vectors, nil
}

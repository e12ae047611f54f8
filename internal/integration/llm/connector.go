package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/medchat/docchat-backend/internal/config"
	"github.com/medchat/docchat-backend/internal/entity"
	"github.com/medchat/docchat-backend/internal/integration/common"
	pkghttp "github.com/medchat/docchat-backend/pkg/http"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Complete sends the message list to the chat completions endpoint and
// returns the assistant reply.
func (c *Connector) Complete(ctx context.Context, messages []entity.ChatCompletionMessage) (string, error) {
	ctxzap.Info(ctx, "requesting chat completion", zap.Int("message_count", len(messages)))

	req := &entity.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	var resp entity.ChatCompletionResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.ChatCompletionsEndpoint, req, &resp)
	}, c.config.Retry.ToRetryOptions()...)
	if err != nil {
		ctxzap.Error(ctx, "chat completion failed", zap.Error(err))
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("invalid chat completion response: no choices")
	}

	reply := resp.Choices[0].Message.Content
	ctxzap.Info(ctx, "chat completion received", zap.Int("reply_length", len(reply)))

	return reply, nil
}

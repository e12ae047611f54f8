package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/medchat/docchat-backend/internal/entity"
	"go.uber.org/zap"
)

// MockConnector answers without a real LLM service.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Complete(ctx context.Context, messages []entity.ChatCompletionMessage) (string, error) {
	ctxzap.Info(ctx, "[MOCK] chat completion", zap.Int("message_count", len(messages)))

	var lastUser string
	hasContext := false
	for _, msg := range messages {
		if msg.Role == "user" {
			lastUser = msg.Content
		}
		if msg.Role == "system" && strings.Contains(msg.Content, "Relevant information") {
			hasContext = true
		}
	}

	if hasContext {
		return fmt.Sprintf("[MOCK] Based on the uploaded documents, here is the answer to: %q", lastUser), nil
	}

	return fmt.Sprintf("[MOCK] No document context was found, answering from general knowledge: %q", lastUser), nil
}

package chat

import (
	"context"

	"github.com/medchat/docchat-backend/internal/entity"
)

type ChatUsecase interface {
	Chat(ctx context.Context, sessionID, userMessage string) (*entity.ChatResult, error)
}

package session

import "github.com/medchat/docchat-backend/internal/entity"

// toHistoryResponse converts messages from newest-first storage order to
// the chronological order clients render.
func toHistoryResponse(messages []*entity.Message) entity.HistoryResponse {
	dtos := make([]*entity.MessageDTO, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		dtos = append(dtos, &entity.MessageDTO{
			ID:                msg.ID,
			UserMessage:       msg.UserMessage,
			BotResponse:       msg.BotResponse,
			RelevantDocuments: msg.RelevantDocuments,
			Timestamp:         msg.CreatedAt,
			ResponseTimeMS:    msg.ResponseTimeMS,
		})
	}

	return entity.HistoryResponse{
		Messages:      dtos,
		TotalMessages: len(dtos),
	}
}

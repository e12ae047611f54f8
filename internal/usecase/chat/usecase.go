package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/medchat/docchat-backend/internal/config"
	"github.com/medchat/docchat-backend/internal/entity"
	"github.com/medchat/docchat-backend/internal/pkg/retriever"
	"github.com/medchat/docchat-backend/internal/repository"
	"go.uber.org/zap"
)

// ChatUsecase implements the retrieval-augmented chat turn
type ChatUsecase struct {
	sessionRepo  repository.SessionRepository
	chunkRepo    repository.ChunkRepository
	messageRepo  repository.MessageRepository
	embedder     EmbeddingConnector
	llm          LLMConnector
	retrievalCfg config.RetrievalConfig
	logger       *zap.Logger
}

// NewUsecase creates a new chat use case
func NewUsecase(
	sessionRepo repository.SessionRepository,
	chunkRepo repository.ChunkRepository,
	messageRepo repository.MessageRepository,
	embedder EmbeddingConnector,
	llm LLMConnector,
	retrievalCfg config.RetrievalConfig,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		sessionRepo:  sessionRepo,
		chunkRepo:    chunkRepo,
		messageRepo:  messageRepo,
		embedder:     embedder,
		llm:          llm,
		retrievalCfg: retrievalCfg,
		logger:       logger,
	}
}

// RetrieveContext runs similarity search over the session's chunks and
// builds the prompt context. The query is embedded exactly once per call,
// also when the session has no chunks, so callers can rely on the cache
// being warm for the follow-up turn.
func (uc *ChatUsecase) RetrieveContext(ctx context.Context, sessionID, query string) (
	*entity.RetrievedContext, error,
) {
	chunks, err := uc.chunkRepo.GetSessionChunks(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session chunks: %w", err)
	}

	vectors, err := uc.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: expected one vector, got %d", len(vectors))
	}

	if len(chunks) == 0 {
		return &entity.RetrievedContext{}, nil
	}

	candidates := make([]retriever.Candidate, len(chunks))
	for i, chunk := range chunks {
		candidates[i] = retriever.Candidate{
			Vector:     chunk.Embedding,
			Text:       chunk.Text,
			DocumentID: chunk.DocumentID,
			Filename:   chunk.DocumentFilename,
			ChunkIndex: chunk.ChunkIndex,
		}
	}

	result := retriever.TopK(vectors[0], candidates, uc.retrievalCfg.TopK, uc.retrievalCfg.MinSimilarity)

	ctxzap.Debug(ctx, "context retrieved",
		zap.Int("candidate_count", len(candidates)),
		zap.Int("chunk_count", len(result.Chunks)),
		zap.Int("document_count", len(result.DocumentIDs)),
	)

	texts := make([]string, len(result.Chunks))
	for i, c := range result.Chunks {
		texts[i] = c.Text
	}

	return &entity.RetrievedContext{
		Context:     buildContext(texts),
		ChunkTexts:  texts,
		DocumentIDs: result.DocumentIDs,
	}, nil
}

// Chat runs one full conversation turn: retrieve context, call the LLM
// and persist the exchange.
func (uc *ChatUsecase) Chat(ctx context.Context, sessionID, userMessage string) (*entity.ChatResult, error) {
	userMessage = strings.TrimSpace(userMessage)
	if userMessage == "" {
		return nil, entity.ErrEmptyMessage
	}

	start := time.Now()

	if _, err := uc.sessionRepo.GetOrCreate(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("get or create session: %w", err)
	}

	history, err := uc.messageRepo.GetHistory(ctx, sessionID, uc.retrievalCfg.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("get chat history: %w", err)
	}

	retrieved, err := uc.RetrieveContext(ctx, sessionID, userMessage)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	reply, err := uc.llm.Complete(ctx, buildPrompt(userMessage, retrieved, history))
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	responseTime := int(time.Since(start).Milliseconds())

	var contextUsed *string
	if len(retrieved.ChunkTexts) > 0 {
		blob := strings.Join(retrieved.ChunkTexts, entity.ContextSeparator)
		contextUsed = &blob
	}

	_, err = uc.messageRepo.Create(ctx, entity.Message{
		ID:                uuid.New().String(),
		SessionID:         sessionID,
		UserMessage:       userMessage,
		BotResponse:       reply,
		ContextUsed:       contextUsed,
		RelevantDocuments: retrieved.DocumentIDs,
		ResponseTimeMS:    &responseTime,
	})
	if err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}

	ctxzap.Info(ctx, "chat turn completed",
		zap.String("session_id", sessionID),
		zap.Int("sources_count", len(retrieved.DocumentIDs)),
		zap.Int("response_time_ms", responseTime),
	)

	return &entity.ChatResult{
		Reply:          reply,
		ContextUsed:    len(retrieved.ChunkTexts) > 0,
		SourcesCount:   len(retrieved.DocumentIDs),
		ResponseTimeMS: responseTime,
	}, nil
}

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/medchat/docchat-backend/internal/config"
	"github.com/medchat/docchat-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessionRepo struct {
	sessions map[string]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*entity.Session)}
}

func (r *fakeSessionRepo) GetOrCreate(_ context.Context, id string) (*entity.Session, error) {
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	s := &entity.Session{ID: id}
	r.sessions[id] = s
	return s, nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*entity.Session, error) {
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	return nil, entity.ErrSessionNotFound
}

func (r *fakeSessionRepo) ClearData(_ context.Context, _ string) error {
	return nil
}

type fakeChunkRepo struct {
	chunks []*entity.SessionChunk
}

func (r *fakeChunkRepo) Create(_ context.Context, chunk entity.Chunk) (*entity.Chunk, error) {
	return &chunk, nil
}

func (r *fakeChunkRepo) GetSessionChunks(_ context.Context, _ string) ([]*entity.SessionChunk, error) {
	return r.chunks, nil
}

type fakeMessageRepo struct {
	saved   []entity.Message
	history []*entity.Message
}

func (r *fakeMessageRepo) Create(_ context.Context, msg entity.Message) (*entity.Message, error) {
	r.saved = append(r.saved, msg)
	return &msg, nil
}

func (r *fakeMessageRepo) GetHistory(_ context.Context, _ string, _ int) ([]*entity.Message, error) {
	return r.history, nil
}

type fakeEmbedder struct {
	vector []float32
	calls  int
	err    error
}

func (e *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = e.vector
	}
	return vectors, nil
}

type fakeLLM struct {
	reply    string
	received []entity.ChatCompletionMessage
}

func (l *fakeLLM) Complete(_ context.Context, messages []entity.ChatCompletionMessage) (string, error) {
	l.received = messages
	return l.reply, nil
}

func testRetrievalConfig() config.RetrievalConfig {
	return config.RetrievalConfig{
		MaxChunkSize:  400,
		ChunkOverlap:  50,
		TopK:          5,
		MinSimilarity: 0.1,
		HistoryLimit:  5,
	}
}

func sessionChunk(docID, filename, text string, index int, vec []float32) *entity.SessionChunk {
	return &entity.SessionChunk{
		Chunk: entity.Chunk{
			ID:         "chunk-" + docID,
			DocumentID: docID,
			ChunkIndex: index,
			Text:       text,
			ChunkSize:  len(text),
			Embedding:  vec,
		},
		DocumentFilename: filename,
	}
}

func TestChat_SingleDocumentSession(t *testing.T) {
	chunkText := "Fever is common. Headache may occur. Consult a doctor."
	chunks := &fakeChunkRepo{chunks: []*entity.SessionChunk{
		sessionChunk("doc-1", "symptoms.txt", chunkText, 0, []float32{1, 0, 0}),
	}}
	messages := &fakeMessageRepo{}
	embedder := &fakeEmbedder{vector: []float32{0.9, 0.1, 0}}
	llm := &fakeLLM{reply: "Fever usually resolves on its own."}

	uc := NewUsecase(newFakeSessionRepo(), chunks, messages, embedder, llm, testRetrievalConfig(), zap.NewNop())

	result, err := uc.Chat(context.Background(), "session-1", "What about fever?")
	require.NoError(t, err)

	assert.Equal(t, llm.reply, result.Reply)
	assert.True(t, result.ContextUsed)
	assert.Equal(t, 1, result.SourcesCount)

	require.Len(t, messages.saved, 1)
	saved := messages.saved[0]
	assert.Equal(t, "What about fever?", saved.UserMessage)
	assert.Equal(t, []string{"doc-1"}, saved.RelevantDocuments)
	require.NotNil(t, saved.ContextUsed)
	assert.Equal(t, chunkText, *saved.ContextUsed)
	require.NotNil(t, saved.ResponseTimeMS)

	// The chunk text must reach the model inside the prompt.
	require.Len(t, llm.received, 2)
	assert.Contains(t, llm.received[1].Content, "Source: "+chunkText)
}

func TestChat_NoDocuments(t *testing.T) {
	messages := &fakeMessageRepo{}
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	llm := &fakeLLM{reply: "General advice."}

	uc := NewUsecase(newFakeSessionRepo(), &fakeChunkRepo{}, messages, embedder, llm, testRetrievalConfig(), zap.NewNop())

	result, err := uc.Chat(context.Background(), "session-1", "hello")
	require.NoError(t, err)

	assert.False(t, result.ContextUsed)
	assert.Equal(t, 0, result.SourcesCount)

	require.Len(t, messages.saved, 1)
	assert.Nil(t, messages.saved[0].ContextUsed)
	assert.Empty(t, messages.saved[0].RelevantDocuments)

	assert.Contains(t, llm.received[1].Content, "No specific document context available")
}

func TestChat_EmptyMessage(t *testing.T) {
	uc := NewUsecase(newFakeSessionRepo(), &fakeChunkRepo{}, &fakeMessageRepo{},
		&fakeEmbedder{vector: []float32{1}}, &fakeLLM{}, testRetrievalConfig(), zap.NewNop())

	_, err := uc.Chat(context.Background(), "session-1", "   ")
	assert.ErrorIs(t, err, entity.ErrEmptyMessage)
}

func TestChat_HistoryInPrompt(t *testing.T) {
	messages := &fakeMessageRepo{history: []*entity.Message{
		{UserMessage: "second question", BotResponse: "second answer"},
		{UserMessage: "first question", BotResponse: "first answer"},
	}}
	llm := &fakeLLM{reply: "ok"}

	uc := NewUsecase(newFakeSessionRepo(), &fakeChunkRepo{}, messages,
		&fakeEmbedder{vector: []float32{1}}, llm, testRetrievalConfig(), zap.NewNop())

	_, err := uc.Chat(context.Background(), "session-1", "third question")
	require.NoError(t, err)

	prompt := llm.received[1].Content
	first := "User: first question"
	second := "User: second question"
	assert.Contains(t, prompt, first)
	assert.Contains(t, prompt, second)
	assert.Less(t, strings.Index(prompt, first), strings.Index(prompt, second), "history must read chronologically")
}

func TestRetrieveContext_EmbedsQueryWithoutCandidates(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1, 0}}

	uc := NewUsecase(newFakeSessionRepo(), &fakeChunkRepo{}, &fakeMessageRepo{},
		embedder, &fakeLLM{}, testRetrievalConfig(), zap.NewNop())

	retrieved, err := uc.RetrieveContext(context.Background(), "session-1", "anything")
	require.NoError(t, err)

	assert.Empty(t, retrieved.Context)
	assert.Empty(t, retrieved.DocumentIDs)
	assert.Equal(t, 1, embedder.calls)
}

func TestRetrieveContext_ThresholdFiltersUnrelated(t *testing.T) {
	chunks := &fakeChunkRepo{chunks: []*entity.SessionChunk{
		sessionChunk("doc-1", "a.txt", "related text", 0, []float32{1, 0}),
		sessionChunk("doc-2", "b.txt", "orthogonal text", 0, []float32{0, 1}),
	}}
	embedder := &fakeEmbedder{vector: []float32{1, 0}}

	uc := NewUsecase(newFakeSessionRepo(), chunks, &fakeMessageRepo{},
		embedder, &fakeLLM{}, testRetrievalConfig(), zap.NewNop())

	retrieved, err := uc.RetrieveContext(context.Background(), "session-1", "query")
	require.NoError(t, err)

	assert.Equal(t, []string{"related text"}, retrieved.ChunkTexts)
	assert.Equal(t, []string{"doc-1"}, retrieved.DocumentIDs)
}

func TestRetrieveContext_EmbedderFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("service down")}

	uc := NewUsecase(newFakeSessionRepo(), &fakeChunkRepo{}, &fakeMessageRepo{},
		embedder, &fakeLLM{}, testRetrievalConfig(), zap.NewNop())

	_, err := uc.RetrieveContext(context.Background(), "session-1", "query")
	assert.Error(t, err)
}

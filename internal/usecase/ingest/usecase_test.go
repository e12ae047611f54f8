package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/medchat/docchat-backend/internal/config"
	"github.com/medchat/docchat-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessionRepo struct{}

func (r *fakeSessionRepo) GetOrCreate(_ context.Context, id string) (*entity.Session, error) {
	return &entity.Session{ID: id}, nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*entity.Session, error) {
	return &entity.Session{ID: id}, nil
}

func (r *fakeSessionRepo) ClearData(_ context.Context, _ string) error {
	return nil
}

type fakeDocumentRepo struct {
	created     []entity.Document
	chunkCounts map[string]int
	deleted     []string
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{chunkCounts: make(map[string]int)}
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc entity.Document) (*entity.Document, error) {
	r.created = append(r.created, doc)
	return &doc, nil
}

func (r *fakeDocumentRepo) GetBySession(_ context.Context, _ string) ([]*entity.Document, error) {
	docs := make([]*entity.Document, len(r.created))
	for i := range r.created {
		docs[i] = &r.created[i]
	}
	return docs, nil
}

func (r *fakeDocumentRepo) GetByID(_ context.Context, _, documentID string) (*entity.Document, error) {
	for i := range r.created {
		if r.created[i].ID == documentID {
			return &r.created[i], nil
		}
	}
	return nil, entity.ErrDocumentNotFound
}

func (r *fakeDocumentRepo) UpdateTotalChunks(_ context.Context, documentID string, totalChunks int) error {
	r.chunkCounts[documentID] = totalChunks
	return nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, documentID string) (bool, error) {
	r.deleted = append(r.deleted, documentID)
	return true, nil
}

type fakeChunkRepo struct {
	created []entity.Chunk
	failAt  int // 1-based call index that fails, 0 disables
	calls   int
}

func (r *fakeChunkRepo) Create(_ context.Context, chunk entity.Chunk) (*entity.Chunk, error) {
	r.calls++
	if r.failAt != 0 && r.calls == r.failAt {
		return nil, errors.New("storage failure")
	}
	r.created = append(r.created, chunk)
	return &chunk, nil
}

func (r *fakeChunkRepo) GetSessionChunks(_ context.Context, _ string) ([]*entity.SessionChunk, error) {
	return nil, nil
}

type fakeEmbedder struct {
	err error
}

func (e *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}

// fakeExtractor returns canned text per original filename suffix and
// ignores the stored path prefix.
type fakeExtractor struct {
	text string
}

func (e *fakeExtractor) ExtractText(_ string) string {
	return e.text
}

func newTestUsecase(t *testing.T, docs *fakeDocumentRepo, chunks *fakeChunkRepo,
	embedder EmbeddingConnector, extractor TextExtractor,
) *IngestUsecase {
	t.Helper()
	return NewUsecase(&fakeSessionRepo{}, docs, chunks, embedder, extractor,
		config.RetrievalConfig{MaxChunkSize: 400, ChunkOverlap: 50, TopK: 5, MinSimilarity: 0.1},
		t.TempDir(), zap.NewNop())
}

func TestIngestFiles_SingleDocument(t *testing.T) {
	docs := newFakeDocumentRepo()
	chunks := &fakeChunkRepo{}
	text := "Fever is common. Headache may occur. Consult a doctor."

	uc := newTestUsecase(t, docs, chunks, &fakeEmbedder{}, &fakeExtractor{text: text})

	result, err := uc.IngestFiles(context.Background(), "session-1",
		[]entity.FileData{{Filename: "symptoms.txt", Content: []byte(text)}})
	require.NoError(t, err)

	require.Len(t, result.Uploaded, 1)
	assert.Empty(t, result.Warnings)

	uploaded := result.Uploaded[0]
	assert.Equal(t, "symptoms.txt", uploaded.Filename)
	assert.Equal(t, 1, uploaded.ChunksCreated)
	assert.Equal(t, text, uploaded.TextPreview)

	require.Len(t, chunks.created, 1)
	assert.Equal(t, text, chunks.created[0].Text)
	assert.Equal(t, 0, chunks.created[0].ChunkIndex)
	assert.NotEmpty(t, chunks.created[0].Embedding)

	require.Len(t, docs.created, 1)
	assert.Equal(t, 1, docs.chunkCounts[docs.created[0].ID])
}

func TestIngestFiles_NoExtractableText(t *testing.T) {
	docs := newFakeDocumentRepo()

	uc := newTestUsecase(t, docs, &fakeChunkRepo{}, &fakeEmbedder{}, &fakeExtractor{text: "   "})

	result, err := uc.IngestFiles(context.Background(), "session-1",
		[]entity.FileData{{Filename: "scan.pdf", Content: []byte("binary")}})
	require.NoError(t, err)

	assert.Empty(t, result.Uploaded)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "scan.pdf")
	assert.Contains(t, result.Warnings[0], "could not extract text")
	assert.Empty(t, docs.created)
}

func TestIngestFiles_EmptyFileIsRemovedFromDisk(t *testing.T) {
	dir := t.TempDir()
	uc := NewUsecase(&fakeSessionRepo{}, newFakeDocumentRepo(), &fakeChunkRepo{},
		&fakeEmbedder{}, &fakeExtractor{text: ""},
		config.RetrievalConfig{MaxChunkSize: 400, ChunkOverlap: 50}, dir, zap.NewNop())

	_, err := uc.IngestFiles(context.Background(), "session-1",
		[]entity.FileData{{Filename: "empty.txt", Content: []byte("x")}})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIngestFiles_EmbeddingFailureSkipsAllChunks(t *testing.T) {
	docs := newFakeDocumentRepo()
	chunks := &fakeChunkRepo{}

	uc := newTestUsecase(t, docs, chunks, &fakeEmbedder{err: errors.New("service down")},
		&fakeExtractor{text: "Some extractable content here."})

	result, err := uc.IngestFiles(context.Background(), "session-1",
		[]entity.FileData{{Filename: "doc.txt", Content: []byte("data")}})
	require.NoError(t, err)

	// The document survives with zero chunks, matching the stored count.
	require.Len(t, result.Uploaded, 1)
	assert.Equal(t, 0, result.Uploaded[0].ChunksCreated)
	assert.Empty(t, chunks.created)
	assert.Equal(t, 0, docs.chunkCounts[docs.created[0].ID])
}

func TestIngestFiles_ChunkStorageFailureSkipsOnlyThatChunk(t *testing.T) {
	docs := newFakeDocumentRepo()
	chunks := &fakeChunkRepo{failAt: 1}

	// Two sentences large enough to form two chunks.
	long := make([]byte, 0, 800)
	for i := 0; i < 20; i++ {
		long = append(long, []byte("This sentence pads the first chunk with text. ")...)
	}

	uc := newTestUsecase(t, docs, chunks, &fakeEmbedder{}, &fakeExtractor{text: string(long)})

	result, err := uc.IngestFiles(context.Background(), "session-1",
		[]entity.FileData{{Filename: "doc.txt", Content: long}})
	require.NoError(t, err)

	require.Len(t, result.Uploaded, 1)
	assert.Equal(t, len(chunks.created), result.Uploaded[0].ChunksCreated)
	assert.Equal(t, chunks.calls-1, len(chunks.created))
}

func TestIngestFiles_BatchContinuesAfterFailure(t *testing.T) {
	docs := newFakeDocumentRepo()
	chunks := &fakeChunkRepo{}

	uc := NewUsecase(&fakeSessionRepo{}, docs, chunks, &fakeEmbedder{},
		&alternatingExtractor{texts: []string{"", "Readable content from the second file."}},
		config.RetrievalConfig{MaxChunkSize: 400, ChunkOverlap: 50},
		t.TempDir(), zap.NewNop())

	result, err := uc.IngestFiles(context.Background(), "session-1", []entity.FileData{
		{Filename: "broken.pdf", Content: []byte("junk")},
		{Filename: "good.txt", Content: []byte("data")},
	})
	require.NoError(t, err)

	require.Len(t, result.Uploaded, 1)
	assert.Equal(t, "good.txt", result.Uploaded[0].Filename)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "broken.pdf")
}

type alternatingExtractor struct {
	texts []string
	call  int
}

func (e *alternatingExtractor) ExtractText(_ string) string {
	text := e.texts[e.call%len(e.texts)]
	e.call++
	return text
}

func TestRemoveDocument(t *testing.T) {
	docs := newFakeDocumentRepo()
	dir := t.TempDir()
	path := filepath.Join(dir, "stored.txt")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	docs.created = append(docs.created, entity.Document{
		ID: "doc-1", SessionID: "session-1", OriginalFilename: "stored.txt", FilePath: path,
	})

	uc := NewUsecase(&fakeSessionRepo{}, docs, &fakeChunkRepo{}, &fakeEmbedder{},
		&fakeExtractor{}, config.RetrievalConfig{}, dir, zap.NewNop())

	removed, err := uc.RemoveDocument(context.Background(), "session-1", "doc-1")
	require.NoError(t, err)

	assert.Equal(t, "doc-1", removed.ID)
	assert.Equal(t, []string{"doc-1"}, docs.deleted)
	assert.NoFileExists(t, path)
}

func TestRemoveDocument_NotFound(t *testing.T) {
	uc := newTestUsecase(t, newFakeDocumentRepo(), &fakeChunkRepo{}, &fakeEmbedder{}, &fakeExtractor{})

	_, err := uc.RemoveDocument(context.Background(), "session-1", "missing")
	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
}

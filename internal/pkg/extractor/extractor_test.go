package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtractTextPlain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Fever is common. Consult a doctor.\n"), 0o644))

	e := New(zap.NewNop())
	assert.Equal(t, "Fever is common. Consult a doctor.", e.ExtractText(path))
}

func TestExtractTextMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readme.md")
	require.NoError(t, os.WriteFile(path, []byte("# Heading\n\nBody text."), 0o644))

	e := New(zap.NewNop())
	assert.Equal(t, "# Heading\n\nBody text.", e.ExtractText(path))
}

func TestExtractTextMissingFile(t *testing.T) {
	e := New(zap.NewNop())
	assert.Empty(t, e.ExtractText(filepath.Join(t.TempDir(), "missing.txt")))
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 0x50, 0x4e, 0x47}, 0o644))

	e := New(zap.NewNop())
	assert.Empty(t, e.ExtractText(path))
}

func TestExtractTextCorruptPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a real pdf"), 0o644))

	e := New(zap.NewNop())
	assert.Empty(t, e.ExtractText(path))
}

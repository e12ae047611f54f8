package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkEmptyInput(t *testing.T) {
	assert.Empty(t, Chunk("", DefaultMaxChunkSize, DefaultOverlap))
	assert.Empty(t, Chunk("   ", DefaultMaxChunkSize, DefaultOverlap))
	assert.Empty(t, Chunk("\n\t  \n", DefaultMaxChunkSize, DefaultOverlap))
}

func TestChunkShortFragmentsDiscarded(t *testing.T) {
	// Trimmed length must exceed 20 characters.
	assert.Empty(t, Chunk("Too short", DefaultMaxChunkSize, DefaultOverlap))

	chunks := Chunk("This sentence is clearly longer than twenty characters.", DefaultMaxChunkSize, DefaultOverlap)
	require.Len(t, chunks, 1)
	for _, c := range chunks {
		assert.Greater(t, len(strings.TrimSpace(c)), 20)
	}
}

func TestChunkSingleChunkFixture(t *testing.T) {
	text := "Fever is common. Headache may occur. Consult a doctor."
	chunks := Chunk(text, 400, 50)

	require.Len(t, chunks, 1)
	assert.Equal(t, "Fever is common. Headache may occur. Consult a doctor.", chunks[0])
}

func TestChunkLengthBounds(t *testing.T) {
	text := buildFixture(40)
	chunks := Chunk(text, DefaultMaxChunkSize, DefaultOverlap)
	require.NotEmpty(t, chunks)

	for _, c := range chunks {
		assert.Greater(t, len(strings.TrimSpace(c)), 20)
		// No chunk ends mid-boundary: every chunk is a sequence of full
		// sentences terminated by a period.
		assert.True(t, strings.HasSuffix(c, "."), "chunk must end on a sentence boundary: %q", c)
	}
}

func TestChunkCoverage(t *testing.T) {
	// Every sentence of the input must appear in the chunk sequence, in order.
	text := buildFixture(30)
	chunks := Chunk(text, DefaultMaxChunkSize, DefaultOverlap)
	require.NotEmpty(t, chunks)

	joined := strings.Join(chunks, " ")
	pos := 0
	for _, sentence := range strings.Split(text, ". ") {
		sentence = strings.TrimSpace(strings.TrimSuffix(sentence, "."))
		if sentence == "" {
			continue
		}
		idx := strings.Index(joined[pos:], sentence)
		require.GreaterOrEqual(t, idx, 0, "sentence %q missing or out of order", sentence)
		pos += idx + len(sentence)
	}
}

func TestChunkOverlapSeeding(t *testing.T) {
	text := buildFixture(40)
	chunks := Chunk(text, DefaultMaxChunkSize, 50)
	require.Greater(t, len(chunks), 1, "fixture must produce multiple chunks")

	// With overlap=50, each chunk after the first starts with the last
	// 50/10 = 5 words of the previous chunk.
	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1])
		require.GreaterOrEqual(t, len(prevWords), 5)
		seed := strings.Join(prevWords[len(prevWords)-5:], " ")
		assert.True(t, strings.HasPrefix(chunks[i], seed),
			"chunk %d must start with the last 5 words of chunk %d: want prefix %q, got %q",
			i, i-1, seed, chunks[i][:min(len(chunks[i]), 80)])
	}
}

func TestChunkZeroOverlapDisablesSeeding(t *testing.T) {
	text := buildFixture(40)
	withSeed := Chunk(text, DefaultMaxChunkSize, 50)
	noSeed := Chunk(text, DefaultMaxChunkSize, 0)
	require.Greater(t, len(noSeed), 1)

	// Without seeding each chunk starts directly with the next sentence.
	for i := 1; i < len(noSeed); i++ {
		prevWords := strings.Fields(noSeed[i-1])
		seed := strings.Join(prevWords[len(prevWords)-5:], " ")
		assert.False(t, strings.HasPrefix(noSeed[i], seed+" "))
	}
	assert.NotEqual(t, withSeed, noSeed)
}

func TestChunkOversizedSentence(t *testing.T) {
	long := strings.Repeat("verylongword ", 60) // ~780 bytes, no ". " inside
	text := "A leading sentence that is long enough to persist. " + long + "trailing."
	chunks := Chunk(text, 400, 50)

	require.NotEmpty(t, chunks)
	found := false
	for _, c := range chunks {
		if strings.Contains(c, "verylongword verylongword") && len(c) > 400 {
			found = true
		}
	}
	assert.True(t, found, "a sentence longer than maxChunkSize must become its own oversized chunk")
}

func TestChunkDeterministic(t *testing.T) {
	text := buildFixture(25)
	first := Chunk(text, DefaultMaxChunkSize, DefaultOverlap)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Chunk(text, DefaultMaxChunkSize, DefaultOverlap))
	}
}

// buildFixture produces n distinct sentences of moderate length.
func buildFixture(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString("Sentence number ")
		sb.WriteString(strings.Repeat("x", i%7+1))
		sb.WriteString(" carries some filler words to give it realistic length. ")
	}
	return strings.TrimSpace(sb.String())
}

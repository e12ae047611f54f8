// Package chunker splits extracted document text into overlapping,
// size-bounded segments. Pure functions: same input, same output.
package chunker

import (
	"strings"
)

const (
	// DefaultMaxChunkSize is the soft upper bound on chunk length in bytes.
	// Soft: a chunk may exceed it by up to one sentence, because sentences
	// are never split in the middle.
	DefaultMaxChunkSize = 400

	// DefaultOverlap controls chunk seeding: overlap/10 words from the tail
	// of the previous chunk are prepended to the next one.
	DefaultOverlap = 50

	// minChunkLength filters out fragments too short to carry meaning.
	minChunkLength = 20
)

// Chunk splits text on sentence boundaries (". ") and accumulates sentences
// into chunks of at most maxChunkSize bytes. Every chunk after the first is
// seeded with the last overlap/10 words of the previous chunk so adjacent
// chunks share context. Chunks whose trimmed length is <= 20 are discarded.
// Empty or whitespace-only input yields nil.
func Chunk(text string, maxChunkSize, overlap int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	sentences := strings.Split(text, ". ")

	var chunks []string
	current := ""

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		// +2 accounts for the ". " separator.
		if len(current)+len(sentence)+2 < maxChunkSize {
			current += terminated(sentence)
			continue
		}

		if strings.TrimSpace(current) != "" {
			chunks = append(chunks, strings.TrimSpace(current))
		}

		if len(chunks) > 0 && overlap > 0 {
			current = overlapTail(current, overlap/10) + terminated(sentence)
		} else {
			current = terminated(sentence)
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	filtered := chunks[:0]
	for _, c := range chunks {
		if len(strings.TrimSpace(c)) > minChunkLength {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

// terminated restores the sentence terminator consumed by the split. The
// final segment of the input keeps its own period, so it is not doubled.
func terminated(sentence string) string {
	if strings.HasSuffix(sentence, ".") {
		return sentence + " "
	}
	return sentence + ". "
}

// overlapTail returns the last n whitespace-delimited words of prev followed
// by a single space, or the empty string when n is zero or prev has no words.
func overlapTail(prev string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(prev)
	if len(words) == 0 {
		return ""
	}
	if n > len(words) {
		n = len(words)
	}
	return strings.Join(words[len(words)-n:], " ") + " "
}

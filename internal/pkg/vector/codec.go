// Package vector provides the binary encoding used to persist embedding
// vectors and the similarity math used to compare them.
package vector

import (
	"encoding/binary"
	"fmt"
	"math"
)

// codecVersion tags the on-disk layout so it can evolve without guessing.
// Version 1: [version:1][dimension:uint32 LE][dimension * float32 LE].
const codecVersion = 1

const headerSize = 5

// Encode serializes v into the versioned little-endian float32 layout.
// The round trip Decode(Encode(v)) is exact at float32 precision.
func Encode(v []float32) []byte {
	buf := make([]byte, headerSize+len(v)*4)
	buf[0] = codecVersion
	binary.LittleEndian.PutUint32(buf[1:headerSize], uint32(len(v)))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[headerSize+i*4:], math.Float32bits(f))
	}
	return buf
}

// Decode reconstructs a vector produced by Encode. It rejects truncated or
// unknown-version payloads instead of returning a silently wrong vector.
func Decode(data []byte) ([]float32, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("embedding payload too short: %d bytes", len(data))
	}
	if data[0] != codecVersion {
		return nil, fmt.Errorf("unsupported embedding codec version %d", data[0])
	}

	dim := int(binary.LittleEndian.Uint32(data[1:headerSize]))
	if len(data) != headerSize+dim*4 {
		return nil, fmt.Errorf("embedding payload length mismatch: header says %d values, got %d bytes", dim, len(data)-headerSize)
	}

	v := make([]float32, dim)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[headerSize+i*4:]))
	}
	return v, nil
}

// Cosine computes the cosine similarity of a and b. A zero vector (or a
// dimension mismatch) yields 0 rather than an error.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls int
	err   error
}

func (p *countingProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i])), 1}
	}
	return vectors, nil
}

func TestCachedProvider_SingleTextIsMemoized(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, time.Minute, nil)

	first, err := cached.Embed(context.Background(), []string{"what causes fever"})
	require.NoError(t, err)

	second, err := cached.Embed(context.Background(), []string{"what causes fever"})
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
}

func TestCachedProvider_DifferentTextsMiss(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, time.Minute, nil)

	_, err := cached.Embed(context.Background(), []string{"first question"})
	require.NoError(t, err)

	_, err = cached.Embed(context.Background(), []string{"second question"})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedProvider_BatchBypassesCache(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, time.Minute, nil)

	batch := []string{"chunk one", "chunk two"}

	_, err := cached.Embed(context.Background(), batch)
	require.NoError(t, err)

	_, err = cached.Embed(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedProvider_ErrorsAreNotCached(t *testing.T) {
	inner := &countingProvider{err: errors.New("service unavailable")}
	cached := NewCachedProvider(inner, time.Minute, nil)

	_, err := cached.Embed(context.Background(), []string{"question"})
	require.Error(t, err)

	inner.err = nil
	_, err = cached.Embed(context.Background(), []string{"question"})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

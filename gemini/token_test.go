package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/doclink"
	"github.com/fwojciec/doclink/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCounter_CountTokens(t *testing.T) {
	t.Parallel()

	// Use a model name that the local tokenizer supports.
	tc, err := gemini.NewTokenCounter("gemini-2.0-flash")
	require.NoError(t, err)

	var _ doclink.TokenCounter = tc

	t.Run("counts tokens in text", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "Hello, world!")

		require.NoError(t, err)
		assert.Positive(t, count)
	})

	t.Run("empty string returns zero", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "")

		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("longer text returns more tokens", func(t *testing.T) {
		t.Parallel()

		shortCount, err := tc.CountTokens(context.Background(), "Hello")
		require.NoError(t, err)

		longCount, err := tc.CountTokens(context.Background(), "Hello, this is a much longer piece of text that should have more tokens than just a single word.")
		require.NoError(t, err)

		assert.Greater(t, longCount, shortCount)
	})
}

package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/doclink/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	f.Add("a1b2c3d4e5f60718")

	assert.True(t, f.Test("a1b2c3d4e5f60718"))
	assert.False(t, f.Test("0000000000000000"))
}

func TestFilter_NoFalseNegatives(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(10000, 0.01)

	keys := make([]string, 1000)
	for i := range keys {
		keys[i] = fmt.Sprintf("%016x", i)
		f.Add(keys[i])
	}

	for _, key := range keys {
		assert.True(t, f.Test(key), "key %s must test positive", key)
	}
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	for i := 0; i < 100; i++ {
		f.Add(fmt.Sprintf("%016x", i))
	}

	count := f.EstimatedCount()
	assert.InDelta(t, 100, int(count), 10)
}

package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, Key("what models use ImageNet?"), Key("what models use ImageNet?"))
	assert.NotEqual(t, Key("a"), Key("b"))
	assert.Len(t, Key("anything"), 32)
}

func TestVectorKeyIncludesIndexAndTopK(t *testing.T) {
	base := VectorKey("transformers", "paper_vector_index", 5)

	assert.NotEqual(t, base, VectorKey("transformers", "model_vector_index", 5))
	assert.NotEqual(t, base, VectorKey("transformers", "paper_vector_index", 10))
	assert.Equal(t, base, VectorKey("transformers", "paper_vector_index", 5))
}

func TestGetOrComputeCachesWithinTTL(t *testing.T) {
	c := New(time.Minute, true, nil)
	calls := 0
	compute := func() (any, error) {
		calls++
		return "result", nil
	}

	v, hit, err := c.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "result", v)

	v, hit, err = c.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "result", v)
	assert.Equal(t, 1, calls)
}

func TestGetOrComputeRecomputesAfterExpiry(t *testing.T) {
	c := New(10*time.Millisecond, true, nil)
	calls := 0
	compute := func() (any, error) {
		calls++
		return calls, nil
	}

	_, _, err := c.GetOrCompute("k", compute)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	v, hit, err := c.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, v)
}

func TestGetOrComputeFailureCachesNothing(t *testing.T) {
	c := New(time.Minute, true, nil)
	calls := 0
	failing := func() (any, error) {
		calls++
		return nil, errors.New("neo4j unavailable")
	}

	_, _, err := c.GetOrCompute("k", failing)
	require.Error(t, err)

	_, _, err = c.GetOrCompute("k", failing)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, c.Len())
}

func TestDisabledCacheAlwaysComputes(t *testing.T) {
	c := New(time.Minute, false, nil)
	calls := 0
	compute := func() (any, error) {
		calls++
		return "v", nil
	}

	for i := 0; i < 3; i++ {
		_, hit, err := c.GetOrCompute("k", compute)
		require.NoError(t, err)
		assert.False(t, hit)
	}
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, c.Len())
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	c := New(30*time.Millisecond, true, nil)
	c.Put("old", 1)
	time.Sleep(40 * time.Millisecond)
	c.Put("fresh", 2)

	removed := c.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestClear(t *testing.T) {
	c := New(time.Minute, true, nil)
	c.Put("a", 1)
	c.Put("b", 2)

	c.Clear()
	assert.Equal(t, 0, c.Len())

	_, ok := c.Get("a")
	assert.False(t, ok)
}

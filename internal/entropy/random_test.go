package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededIsReproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.IntN(1000), b.IntN(1000))
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestSeededSnapshotRestoresPosition(t *testing.T) {
	src := NewSeeded(7)
	src.IntN(10)
	saved, err := src.MarshalBinary()
	require.NoError(t, err)

	want := []int{src.IntN(100), src.IntN(100), src.IntN(100)}

	restored := NewSeeded(7)
	require.NoError(t, restored.UnmarshalBinary(saved))
	got := []int{restored.IntN(100), restored.IntN(100), restored.IntN(100)}
	assert.Equal(t, want, got)
}

func TestRollBounds(t *testing.T) {
	src := NewSeeded(1)
	for i := 0; i < 1000; i++ {
		p := Percent(src)
		assert.True(t, p >= 1 && p <= 100, "percent out of range: %d", p)

		r := Range(src, 3, 8)
		assert.True(t, r >= 3 && r <= 8, "range out of bounds: %d", r)

		v := Symmetric(src, 0.3)
		assert.True(t, v >= -0.3 && v < 0.3, "symmetric out of bounds: %f", v)
	}
}

func TestRangeDegenerate(t *testing.T) {
	s := NewScripted()
	assert.Equal(t, 5, Range(s, 5, 5))
	assert.Equal(t, 0, s.IntDraws)
}

func TestScriptedReplaysThenNeutral(t *testing.T) {
	s := NewScripted().PushPercent(17, 100).PushFloat(0.0)

	assert.Equal(t, 17, Percent(s))
	assert.Equal(t, 100, Percent(s))
	assert.Equal(t, 1, Percent(s))
	assert.InDelta(t, -0.3, Symmetric(s, 0.3), 1e-9)
	assert.InDelta(t, 0.0, Symmetric(s, 0.3), 1e-9)
	assert.Equal(t, 0, s.Remaining())
}

func TestNewSeedPositive(t *testing.T) {
	seed, err := NewSeed()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, seed, int64(0))
}

package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shot struct {
	id  int
	hit bool
}

func TestArena_AcquireUntilExhausted(t *testing.T) {
	a := NewArena[shot](3)
	for want := 0; want < 3; want++ {
		idx, s, ok := a.Acquire()
		require.True(t, ok)
		assert.Equal(t, want, idx)
		s.id = want + 100
	}
	_, s, ok := a.Acquire()
	assert.False(t, ok)
	assert.Nil(t, s)
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 3, a.Cap())
}

func TestArena_ReleaseReusesZeroedSlot(t *testing.T) {
	a := NewArena[shot](2)
	idx, s, _ := a.Acquire()
	s.id, s.hit = 7, true
	a.Release(idx)
	assert.Equal(t, 0, a.Len())

	idx2, s2, ok := a.Acquire()
	require.True(t, ok)
	assert.Equal(t, idx, idx2)
	assert.Equal(t, shot{}, *s2)
}

func TestArena_DoubleReleaseIsNoop(t *testing.T) {
	a := NewArena[shot](2)
	idx, _, _ := a.Acquire()
	a.Release(idx)
	a.Release(idx)
	a.Release(-1)
	a.Release(99)
	assert.Equal(t, 0, a.Len())
	_, _, ok1 := a.Acquire()
	_, _, ok2 := a.Acquire()
	_, _, ok3 := a.Acquire()
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.False(t, ok3)
}

func TestArena_EachAllowsRelease(t *testing.T) {
	a := NewArena[shot](4)
	for i := 0; i < 4; i++ {
		_, s, _ := a.Acquire()
		s.id = i
	}
	var seen []int
	a.Each(func(idx int, s *shot) {
		seen = append(seen, s.id)
		if s.id%2 == 0 {
			a.Release(idx)
		}
	})
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
	assert.Equal(t, 2, a.Len())

	_, ok := a.Get(0)
	assert.False(t, ok)
	s, ok := a.Get(1)
	require.True(t, ok)
	assert.Equal(t, 1, s.id)
}

func TestArena_Clear(t *testing.T) {
	a := NewArena[shot](3)
	a.Acquire()
	a.Acquire()
	a.Clear()
	assert.Equal(t, 0, a.Len())
	idx, _, ok := a.Acquire()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

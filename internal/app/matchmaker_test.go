package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dragon57t/GAME-ART/internal/domain"
)

func TestMatchmaker_FIFO(t *testing.T) {
	m := NewMatchmaker()

	require.True(t, m.Enqueue("a"))
	require.True(t, m.Enqueue("b"))
	require.True(t, m.Enqueue("c"))

	id, ok := m.Pop()
	require.True(t, ok)
	assert.Equal(t, domain.ConnID("a"), id)
	id, ok = m.Pop()
	require.True(t, ok)
	assert.Equal(t, domain.ConnID("b"), id)
	assert.Equal(t, 1, m.Len())
}

func TestMatchmaker_NoDuplicates(t *testing.T) {
	m := NewMatchmaker()

	require.True(t, m.Enqueue("a"))
	assert.False(t, m.Enqueue("a"), "re-enqueue of a waiting connection is a no-op")
	assert.Equal(t, 1, m.Len())
}

func TestMatchmaker_Remove(t *testing.T) {
	m := NewMatchmaker()
	m.Enqueue("a")
	m.Enqueue("b")

	assert.True(t, m.Remove("a"))
	assert.False(t, m.Remove("a"), "second remove is a no-op")
	assert.False(t, m.Waiting("a"))
	assert.True(t, m.Waiting("b"))

	id, ok := m.Pop()
	require.True(t, ok)
	assert.Equal(t, domain.ConnID("b"), id)
}

func TestMatchmaker_PopEmpty(t *testing.T) {
	m := NewMatchmaker()
	_, ok := m.Pop()
	assert.False(t, ok)
}

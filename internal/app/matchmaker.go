package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Dragon57t/GAME-ART/internal/domain"
)

// Matchmaker is the FIFO holding area for connections awaiting pairing.
// A connection appears at most once; pairing pops the earliest waiter.
type Matchmaker struct {
	mu    sync.Mutex
	queue []domain.ConnID
}

func NewMatchmaker() *Matchmaker {
	return &Matchmaker{}
}

// Enqueue appends the connection unless it is already waiting.
// Returns false on the duplicate, which callers treat as a no-op.
func (m *Matchmaker) Enqueue(id domain.ConnID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, waiting := range m.queue {
		if waiting == id {
			return false
		}
	}
	m.queue = append(m.queue, id)
	log.Info().Str("module", "app.matchmaker").Str("conn", string(id)).Int("waiting", len(m.queue)).Msg("enqueued")
	return true
}

// Pop removes and returns the earliest-enqueued connection.
func (m *Matchmaker) Pop() (domain.ConnID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return "", false
	}
	id := m.queue[0]
	m.queue = m.queue[1:]
	return id, true
}

// Remove takes the connection out of the queue if present.
func (m *Matchmaker) Remove(id domain.ConnID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, waiting := range m.queue {
		if waiting == id {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			log.Info().Str("module", "app.matchmaker").Str("conn", string(id)).Msg("removed from queue")
			return true
		}
	}
	return false
}

func (m *Matchmaker) Waiting(id domain.ConnID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, waiting := range m.queue {
		if waiting == id {
			return true
		}
	}
	return false
}

func (m *Matchmaker) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

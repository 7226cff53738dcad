package core

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dragon57t/GAME-ART/internal/domain"
)

// Session is the shared state of one two-party pairing: the slot pair,
// the frame store, the advisory playback checkpoint and the cached
// canvas snapshot. All mutations go through the session mutex, which is
// the per-session serialization point for concurrent edits from the two
// participants.
type Session struct {
	id        domain.SessionID
	createdAt time.Time

	mu       sync.Mutex
	slots    [2]domain.ConnID
	frames   *FrameStore
	playback domain.PlaybackState
	snapshot json.RawMessage
}

func NewSession(slot1, slot2 domain.ConnID) *Session {
	return &Session{
		id:        domain.SessionID(uuid.NewString()),
		createdAt: time.Now(),
		slots:     [2]domain.ConnID{slot1, slot2},
		frames:    NewFrameStore(),
		playback:  domain.PlaybackState{FPS: domain.DefaultFPS},
	}
}

func (s *Session) ID() domain.SessionID { return s.id }

// Slot returns the 1-based slot number of the given participant.
func (s *Session) Slot(id domain.ConnID) (int, bool) {
	for i, c := range s.slots {
		if c == id {
			return i + 1, true
		}
	}
	return 0, false
}

// Peer returns the other participant of the session.
func (s *Session) Peer(id domain.ConnID) (domain.ConnID, bool) {
	switch id {
	case s.slots[0]:
		return s.slots[1], true
	case s.slots[1]:
		return s.slots[0], true
	}
	return "", false
}

func (s *Session) Participants() [2]domain.ConnID { return s.slots }

func (s *Session) AddFrame(index *int, payload json.RawMessage) domain.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.frames.Add(index, payload)
}

func (s *Session) UpdateFrame(id domain.FrameID, payload json.RawMessage) (domain.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frames.Update(id, payload)
	if f == nil {
		return domain.Frame{}, false
	}
	return *f, true
}

// DeleteFrame removes a frame and clamps the playback cursor so it stays
// inside the shrunken store (0 when the store empties).
func (s *Session) DeleteFrame(id domain.FrameID) (current int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.frames.Delete(id) {
		return 0, false
	}
	if s.frames.Len() == 0 {
		s.playback.CurrentFrame = 0
	} else if s.playback.CurrentFrame >= s.frames.Len() {
		s.playback.CurrentFrame = s.frames.Len() - 1
	}
	return s.playback.CurrentFrame, true
}

func (s *Session) ReorderFrame(id domain.FrameID, newIndex int) (domain.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frames.Reorder(id, newIndex)
	if f == nil {
		return domain.Frame{}, false
	}
	return *f, true
}

func (s *Session) Frames() []domain.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames.Snapshot()
}

func (s *Session) FrameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames.Len()
}

func (s *Session) Play() domain.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playback.IsPlaying = true
	s.playback.LastUpdate = time.Now()
	return s.playback
}

func (s *Session) Pause() domain.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playback.IsPlaying = false
	s.playback.LastUpdate = time.Now()
	return s.playback
}

// SetFrame moves the playback cursor. Indices outside the store are
// ignored and reported via ok=false.
func (s *Session) SetFrame(index int) (domain.PlaybackState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= s.frames.Len() {
		return s.playback, false
	}
	s.playback.CurrentFrame = index
	s.playback.LastUpdate = time.Now()
	return s.playback, true
}

// SetFPS stores the advisory playback rate. No server-side bound.
func (s *Session) SetFPS(fps int) domain.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playback.FPS = fps
	s.playback.LastUpdate = time.Now()
	return s.playback
}

func (s *Session) Playback() domain.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playback
}

func (s *Session) SetSnapshot(raster json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = raster
}

func (s *Session) Snapshot() (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return nil, false
	}
	return s.snapshot, true
}

func (s *Session) ClearSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
}

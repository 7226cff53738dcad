package core

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Dragon57t/GAME-ART/internal/domain"
)

// FrameStore is the ordered collection of animation frames of one session.
// Indices always form the contiguous range 0..len-1 in playback order.
// Not threadsafe on its own; the owning Session serializes access.
type FrameStore struct {
	frames []*domain.Frame
}

func NewFrameStore() *FrameStore {
	return &FrameStore{}
}

func (fs *FrameStore) Len() int { return len(fs.frames) }

// Add inserts a new frame at index, or appends when index is nil or out
// of the insertable range [0, len].
func (fs *FrameStore) Add(index *int, payload json.RawMessage) *domain.Frame {
	at := len(fs.frames)
	if index != nil && *index >= 0 && *index <= len(fs.frames) {
		at = *index
	}
	f := &domain.Frame{
		ID:        domain.FrameID(uuid.NewString()),
		Payload:   payload,
		UpdatedAt: time.Now(),
	}
	fs.frames = append(fs.frames, nil)
	copy(fs.frames[at+1:], fs.frames[at:])
	fs.frames[at] = f
	fs.renumber()
	return f
}

// Update replaces the payload of the frame with the given id.
// Stale ids return nil; last write wins, no versioning.
func (fs *FrameStore) Update(id domain.FrameID, payload json.RawMessage) *domain.Frame {
	f := fs.byID(id)
	if f == nil {
		return nil
	}
	f.Payload = payload
	f.UpdatedAt = time.Now()
	return f
}

// Delete removes the frame with the given id and renumbers the rest.
func (fs *FrameStore) Delete(id domain.FrameID) bool {
	for i, f := range fs.frames {
		if f.ID == id {
			fs.frames = append(fs.frames[:i], fs.frames[i+1:]...)
			fs.renumber()
			return true
		}
	}
	return false
}

// Reorder moves the frame with the given id to newIndex. Stale ids and
// indices outside [0, len) are ignored.
func (fs *FrameStore) Reorder(id domain.FrameID, newIndex int) *domain.Frame {
	if newIndex < 0 || newIndex >= len(fs.frames) {
		return nil
	}
	f := fs.byID(id)
	if f == nil {
		return nil
	}
	fs.frames = append(fs.frames[:f.Index], fs.frames[f.Index+1:]...)
	fs.frames = append(fs.frames, nil)
	copy(fs.frames[newIndex+1:], fs.frames[newIndex:])
	fs.frames[newIndex] = f
	fs.renumber()
	return f
}

// Snapshot returns a copy of the frames in playback order.
func (fs *FrameStore) Snapshot() []domain.Frame {
	out := make([]domain.Frame, 0, len(fs.frames))
	for _, f := range fs.frames {
		out = append(out, *f)
	}
	return out
}

func (fs *FrameStore) byID(id domain.FrameID) *domain.Frame {
	for _, f := range fs.frames {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func (fs *FrameStore) renumber() {
	for i, f := range fs.frames {
		f.Index = i
	}
}

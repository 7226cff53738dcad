package domain

import (
	"encoding/json"
	"time"
)

type (
	ConnID    string
	SessionID string
	FrameID   string
)

// DefaultFPS is the playback rate a fresh session starts with.
const DefaultFPS = 12

// Frame is one ordered unit of animation content. Payload is an opaque
// raster blob; the server never looks inside it.
type Frame struct {
	ID        FrameID         `json:"id"`
	Index     int             `json:"index"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// PlaybackState is the shared play/pause checkpoint. Advisory only: the
// server stores and rebroadcasts it, clients run their own clock.
type PlaybackState struct {
	IsPlaying    bool      `json:"isPlaying"`
	CurrentFrame int       `json:"currentFrame"`
	FPS          int       `json:"fps"`
	LastUpdate   time.Time `json:"-"`
}

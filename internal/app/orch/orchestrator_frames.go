package orch

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Dragon57t/GAME-ART/internal/domain"
)

// AddFrame inserts a frame into the session's store and returns the
// created frame plus the peer to notify.
func (o *Orchestrator) AddFrame(conn domain.ConnID, sid domain.SessionID, index *int, payload json.RawMessage) (domain.Frame, domain.ConnID, bool) {
	s, peer, ok := o.sessionFor(conn, sid)
	if !ok {
		return domain.Frame{}, "", false
	}
	f := s.AddFrame(index, payload)
	log.Debug().Str("module", "orch").Str("session", string(sid)).Str("frame", string(f.ID)).Int("index", f.Index).Msg("frame added")
	return f, peer, true
}

// UpdateFrame replaces a frame's payload. Stale frame ids are no-ops.
func (o *Orchestrator) UpdateFrame(conn domain.ConnID, sid domain.SessionID, fid domain.FrameID, payload json.RawMessage) (domain.Frame, domain.ConnID, bool) {
	s, peer, ok := o.sessionFor(conn, sid)
	if !ok {
		return domain.Frame{}, "", false
	}
	f, ok := s.UpdateFrame(fid, payload)
	if !ok {
		return domain.Frame{}, "", false
	}
	return f, peer, true
}

// DeleteFrame removes a frame, renumbers the store and reports the
// clamped playback cursor alongside the peer to notify.
func (o *Orchestrator) DeleteFrame(conn domain.ConnID, sid domain.SessionID, fid domain.FrameID) (current int, peer domain.ConnID, ok bool) {
	s, peer, ok := o.sessionFor(conn, sid)
	if !ok {
		return 0, "", false
	}
	current, ok = s.DeleteFrame(fid)
	if !ok {
		return 0, "", false
	}
	log.Debug().Str("module", "orch").Str("session", string(sid)).Str("frame", string(fid)).Int("currentFrame", current).Msg("frame deleted")
	return current, peer, true
}

// ReorderFrame moves a frame to a new index. Stale ids and out-of-range
// indices are no-ops.
func (o *Orchestrator) ReorderFrame(conn domain.ConnID, sid domain.SessionID, fid domain.FrameID, newIndex int) (domain.Frame, domain.ConnID, bool) {
	s, peer, ok := o.sessionFor(conn, sid)
	if !ok {
		return domain.Frame{}, "", false
	}
	f, ok := s.ReorderFrame(fid, newIndex)
	if !ok {
		return domain.Frame{}, "", false
	}
	return f, peer, true
}

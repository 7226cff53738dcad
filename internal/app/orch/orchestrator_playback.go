package orch

import (
	"github.com/Dragon57t/GAME-ART/internal/domain"
)

// Playback transitions happen only on explicit client request; the
// server never ticks currentFrame on its own. Each returns the new
// checkpoint plus both participants, since playback changes are
// broadcast to the whole session.

func (o *Orchestrator) Play(conn domain.ConnID, sid domain.SessionID) (domain.PlaybackState, [2]domain.ConnID, bool) {
	s, _, ok := o.sessionFor(conn, sid)
	if !ok {
		return domain.PlaybackState{}, [2]domain.ConnID{}, false
	}
	return s.Play(), s.Participants(), true
}

func (o *Orchestrator) Pause(conn domain.ConnID, sid domain.SessionID) (domain.PlaybackState, [2]domain.ConnID, bool) {
	s, _, ok := o.sessionFor(conn, sid)
	if !ok {
		return domain.PlaybackState{}, [2]domain.ConnID{}, false
	}
	return s.Pause(), s.Participants(), true
}

func (o *Orchestrator) SetFrame(conn domain.ConnID, sid domain.SessionID, index int) (domain.PlaybackState, [2]domain.ConnID, bool) {
	s, _, ok := o.sessionFor(conn, sid)
	if !ok {
		return domain.PlaybackState{}, [2]domain.ConnID{}, false
	}
	st, ok := s.SetFrame(index)
	if !ok {
		return domain.PlaybackState{}, [2]domain.ConnID{}, false
	}
	return st, s.Participants(), true
}

func (o *Orchestrator) SetFPS(conn domain.ConnID, sid domain.SessionID, fps int) (domain.PlaybackState, [2]domain.ConnID, bool) {
	s, _, ok := o.sessionFor(conn, sid)
	if !ok {
		return domain.PlaybackState{}, [2]domain.ConnID{}, false
	}
	return s.SetFPS(fps), s.Participants(), true
}

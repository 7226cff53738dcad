// Package orch coordinates matchmaking, session lifecycle and the
// relay of editing events between the two participants of a session.
package orch

import (
	"sync"

	"github.com/Dragon57t/GAME-ART/internal/app"
	"github.com/Dragon57t/GAME-ART/internal/core"
	"github.com/Dragon57t/GAME-ART/internal/domain"
)

type Orchestrator struct {
	Registry *app.Registry
	Queue    *app.Matchmaker
	Policy   app.Policy

	// mu serializes matchmaking and teardown transitions. The queue and
	// registry are each threadsafe on their own, but the pop-or-enqueue
	// decision and the queue/session moves around it must be atomic
	// across connection goroutines.
	mu sync.Mutex
}

// sessionFor resolves the session a message is addressed to and checks
// that the sender is one of its participants. Stale or foreign session
// ids fail the lookup; callers drop the message silently.
func (o *Orchestrator) sessionFor(conn domain.ConnID, sid domain.SessionID) (*core.Session, domain.ConnID, bool) {
	s, ok := o.Registry.GetSession(sid)
	if !ok {
		return nil, "", false
	}
	peer, ok := s.Peer(conn)
	if !ok {
		return nil, "", false
	}
	return s, peer, true
}

// PeerOf validates a relayed message's addressing and returns the other
// participant it should be forwarded to.
func (o *Orchestrator) PeerOf(conn domain.ConnID, sid domain.SessionID) (domain.ConnID, bool) {
	_, peer, ok := o.sessionFor(conn, sid)
	return peer, ok
}

// ClearCanvas invalidates the cached snapshot when a whole-canvas clear
// is relayed through the session.
func (o *Orchestrator) ClearCanvas(conn domain.ConnID, sid domain.SessionID) bool {
	s, _, ok := o.sessionFor(conn, sid)
	if !ok {
		return false
	}
	s.ClearSnapshot()
	return true
}

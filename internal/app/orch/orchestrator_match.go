package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/Dragon57t/GAME-ART/internal/core"
	"github.com/Dragon57t/GAME-ART/internal/domain"
)

type MatchStatus int

const (
	// MatchIgnored: the requester is already in a session and cannot
	// also wait in the queue, so the request is dropped.
	MatchIgnored MatchStatus = iota
	// MatchWaiting: the requester is (or already was) in the queue.
	MatchWaiting
	// MatchPaired: a session was created with the earliest waiter.
	MatchPaired
)

type MatchResult struct {
	Session          *core.Session
	Requester        domain.ConnID
	Peer             domain.ConnID
	RequesterProfile domain.Profile
	PeerProfile      domain.Profile
}

// RequestMatch pairs the requester with the earliest waiter, or parks it
// in the queue. A repeat request from a waiting connection is idempotent.
func (o *Orchestrator) RequestMatch(conn domain.ConnID, profile *domain.Profile) (*MatchResult, MatchStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if profile != nil {
		o.mergeProfile(conn, *profile)
	}

	if _, ok := o.Registry.SessionOf(conn); ok {
		log.Warn().Str("module", "orch").Str("conn", string(conn)).Msg("match request while in session")
		return nil, MatchIgnored
	}
	if o.Queue.Waiting(conn) {
		return nil, MatchWaiting
	}

	for {
		peer, ok := o.Queue.Pop()
		if !ok {
			break
		}
		// A waiter that disconnected was already removed from the queue,
		// but guard against a record that vanished between pop and use.
		if !o.Registry.Known(peer) || peer == conn {
			continue
		}
		s := core.NewSession(peer, conn)
		o.Registry.PutSession(s)
		log.Info().Str("module", "orch").Str("session", string(s.ID())).
			Str("slot1", string(peer)).Str("slot2", string(conn)).Msg("match found")
		return &MatchResult{
			Session:          s,
			Requester:        conn,
			Peer:             peer,
			RequesterProfile: o.Registry.ProfileOf(conn),
			PeerProfile:      o.Registry.ProfileOf(peer),
		}, MatchPaired
	}

	o.Queue.Enqueue(conn)
	return nil, MatchWaiting
}

// CancelSearch removes the connection from the queue. Idempotent:
// cancelling while not waiting changes nothing.
func (o *Orchestrator) CancelSearch(conn domain.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Queue.Remove(conn) {
		log.Info().Str("module", "orch").Str("conn", string(conn)).Msg("search cancelled")
	}
}

// Leave tears down the session if the connection is one of its
// participants. Returns the peer to notify. Unknown sessions and
// non-participants are silent no-ops.
func (o *Orchestrator) Leave(conn domain.ConnID, sid domain.SessionID) (domain.ConnID, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, peer, ok := o.sessionFor(conn, sid)
	if !ok {
		return "", false
	}
	if _, ok := o.Registry.DropSession(s.ID()); !ok {
		return "", false
	}
	log.Info().Str("module", "orch").Str("session", string(sid)).Str("conn", string(conn)).Msg("participant left, session destroyed")
	return peer, true
}

// Disconnect runs the close-path cleanup for a connection: queue
// removal, session teardown, record release. The registry guards make a
// second disconnect of the same connection a no-op.
func (o *Orchestrator) Disconnect(conn domain.ConnID) (peer domain.ConnID, notify bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Queue.Remove(conn)
	if s, ok := o.Registry.SessionOf(conn); ok {
		if p, ok := s.Peer(conn); ok {
			if _, dropped := o.Registry.DropSession(s.ID()); dropped {
				peer, notify = p, true
				log.Info().Str("module", "orch").Str("session", string(s.ID())).Str("conn", string(conn)).Msg("participant disconnected, session destroyed")
			}
		}
	}
	o.Registry.Unbind(conn)
	return peer, notify
}

func (o *Orchestrator) mergeProfile(conn domain.ConnID, p domain.Profile) {
	cur := o.Registry.ProfileOf(conn)
	if p.Name != "" {
		if err := cur.SetName(p.Name); err != nil {
			log.Warn().Err(err).Str("module", "orch").Str("conn", string(conn)).Msg("rejected display name")
		}
	}
	if p.Avatar != "" {
		cur.Avatar = p.Avatar
	}
	o.Registry.SetProfile(conn, cur)
}

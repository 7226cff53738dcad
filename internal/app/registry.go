package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Dragon57t/GAME-ART/internal/core"
	"github.com/Dragon57t/GAME-ART/internal/domain"
)

type connEntry struct {
	Profile *domain.Profile
	Session domain.SessionID
	Signal  core.SignalConnection
	Cancel  context.CancelFunc
}

// Registry owns the connection records and the session map. It is the
// only holder of cross-connection state: participants reference each
// other by id and resolve through the registry at use time, so a
// departed peer simply becomes unresolvable.
type Registry struct {
	mu       sync.RWMutex
	conns    map[domain.ConnID]*connEntry
	sessions map[domain.SessionID]*core.Session
}

func NewRegistry() *Registry {
	return &Registry{
		conns:    make(map[domain.ConnID]*connEntry),
		sessions: make(map[domain.SessionID]*core.Session),
	}
}

func (r *Registry) Bind(id domain.ConnID, sig core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &connEntry{
		Profile: &domain.Profile{},
		Signal:  sig,
		Cancel:  cancel,
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("bound connection")
}

// Unbind releases the connection record. Safe to call for unknown ids.
func (r *Registry) Unbind(id domain.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; !ok {
		return false
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("unbound connection")
	return true
}

func (r *Registry) Known(id domain.ConnID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[id]
	return ok
}

func (r *Registry) SignalOf(id domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok && e.Signal != nil {
		return e.Signal, true
	}
	return nil, false
}

func (r *Registry) ProfileOf(id domain.ConnID) domain.Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok {
		return *e.Profile
	}
	return domain.Profile{}
}

func (r *Registry) SetProfile(id domain.ConnID, p domain.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[id]; ok {
		*e.Profile = p
	}
}

// SetIdentity fills the auth-resolved fields without clobbering whatever
// profile the client sent alongside its match request.
func (r *Registry) SetIdentity(id domain.ConnID, ident domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[id]; ok {
		e.Profile.UserID = ident.UserID
		e.Profile.Name = ident.Name
		log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("user", ident.UserID).Msg("identity resolved")
	}
}

// PutSession registers a freshly paired session and records membership
// on both participant entries.
func (r *Registry) PutSession(s *core.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
	for _, cid := range s.Participants() {
		if e, ok := r.conns[cid]; ok {
			e.Session = s.ID()
		}
	}
	log.Info().Str("module", "app.registry").Str("session", string(s.ID())).Msg("session registered")
}

func (r *Registry) GetSession(id domain.SessionID) (*core.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// SessionOf resolves the session the connection currently belongs to.
func (r *Registry) SessionOf(id domain.ConnID) (*core.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok || e.Session == "" {
		return nil, false
	}
	s, ok := r.sessions[e.Session]
	return s, ok
}

// DropSession removes the session and clears membership on both
// participants. Idempotent: a second drop of the same id is a no-op.
func (r *Registry) DropSession(id domain.SessionID) (*core.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	delete(r.sessions, id)
	for _, cid := range s.Participants() {
		if e, ok := r.conns[cid]; ok && e.Session == id {
			e.Session = ""
		}
	}
	log.Info().Str("module", "app.registry").Str("session", string(id)).Msg("session dropped")
	return s, true
}

func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Cancel fires the stored cancel func, tearing down the connection's
// pumps from outside the adapter.
func (r *Registry) Cancel(id domain.ConnID) bool {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("canceled connection")
	return true
}

package orch

import (
	"encoding/json"

	"github.com/Dragon57t/GAME-ART/internal/domain"
)

// UpdateSnapshot caches the latest full-canvas raster and returns the
// peer it should be relayed to.
func (o *Orchestrator) UpdateSnapshot(conn domain.ConnID, sid domain.SessionID, raster json.RawMessage) (domain.ConnID, bool) {
	s, peer, ok := o.sessionFor(conn, sid)
	if !ok {
		return "", false
	}
	s.SetSnapshot(raster)
	return peer, true
}

// SnapshotOf returns the cached raster for a resync request. member
// reports whether the requester may ask at all; exists whether there is
// anything cached.
func (o *Orchestrator) SnapshotOf(conn domain.ConnID, sid domain.SessionID) (raster json.RawMessage, exists, member bool) {
	s, _, ok := o.sessionFor(conn, sid)
	if !ok {
		return nil, false, false
	}
	raster, exists = s.Snapshot()
	return raster, exists, true
}

package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Dragon57t/GAME-ART/internal/domain"
)

type snapshotEvent struct {
	Raster json.RawMessage `json:"raster,omitempty"`
}

func (ctl *SignalWSController) handleSnapshotUpdate(connID domain.ConnID, _ *WsSignalConn, payload json.RawMessage) {
	var p struct {
		SessionID domain.SessionID `json:"sessionId"`
		Raster    json.RawMessage  `json:"raster"`
	}
	if err := json.Unmarshal(payload, &p); err != nil || p.SessionID == "" || len(p.Raster) == 0 {
		log.Warn().Str("module", "signal").Str("conn", string(connID)).Msg("bad snapshot_update payload")
		return
	}
	if peer, ok := ctl.Orch.UpdateSnapshot(connID, p.SessionID, p.Raster); ok {
		ctl.sendTo(peer, "snapshot_update", snapshotEvent{Raster: p.Raster})
	}
}

// handleSnapshotRequest answers a resync request with the cached raster.
// An empty cache still gets a reply, just without the raster, so the
// requester keeps its local state.
func (ctl *SignalWSController) handleSnapshotRequest(connID domain.ConnID, c *WsSignalConn, payload json.RawMessage) {
	sid, ok := sessionOnly(payload)
	if !ok {
		log.Warn().Str("module", "signal").Str("conn", string(connID)).Msg("bad snapshot_request payload")
		return
	}
	raster, exists, member := ctl.Orch.SnapshotOf(connID, sid)
	if !member {
		return
	}
	ev := snapshotEvent{}
	if exists {
		ev.Raster = raster
	}
	ctl.send(c, "snapshot_response", ev)
}

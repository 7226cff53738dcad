package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Dragon57t/GAME-ART/internal/domain"
)

// handleDrawOp relays a drawing operation to the peer. The payload is
// opaque beyond its addressing: sessionId routes it, an optional tool
// plus frameIndex decide whether a whole-canvas clear invalidates the
// snapshot cache. Everything else passes through untouched.
func (ctl *SignalWSController) handleDrawOp(connID domain.ConnID, _ *WsSignalConn, payload json.RawMessage) {
	var addr struct {
		SessionID  domain.SessionID `json:"sessionId"`
		FrameIndex *int             `json:"frameIndex"`
		Tool       string           `json:"tool"`
	}
	if err := json.Unmarshal(payload, &addr); err != nil || addr.SessionID == "" {
		log.Warn().Str("module", "signal").Str("conn", string(connID)).Msg("bad draw payload")
		return
	}

	peer, ok := ctl.Orch.PeerOf(connID, addr.SessionID)
	if !ok {
		// Stale or foreign session: drop, racing clients are expected.
		return
	}

	if addr.Tool == "clear" && addr.FrameIndex == nil {
		ctl.Orch.ClearCanvas(connID, addr.SessionID)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return
	}
	delete(fields, "sessionId")
	ctl.sendTo(peer, "draw_op", fields)
}

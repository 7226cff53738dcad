package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Dragon57t/GAME-ART/internal/app/orch"
	"github.com/Dragon57t/GAME-ART/internal/domain"
)

type matchFoundEvent struct {
	SessionID   domain.SessionID `json:"sessionId"`
	Slot        int              `json:"slot"`
	PeerProfile domain.Profile   `json:"peerProfile"`
}

func (ctl *SignalWSController) handleRequestMatch(connID domain.ConnID, c *WsSignalConn, payload json.RawMessage) {
	var p struct {
		Profile *domain.Profile `json:"profile"`
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad match payload")
			return
		}
	}

	res, status := ctl.Orch.RequestMatch(connID, p.Profile)
	switch status {
	case orch.MatchWaiting:
		ctl.send(c, "waiting", nil)
	case orch.MatchPaired:
		// Earlier waiter takes slot 1, requester slot 2.
		ctl.sendTo(res.Peer, "match_found", matchFoundEvent{
			SessionID:   res.Session.ID(),
			Slot:        1,
			PeerProfile: res.RequesterProfile,
		})
		ctl.send(c, "match_found", matchFoundEvent{
			SessionID:   res.Session.ID(),
			Slot:        2,
			PeerProfile: res.PeerProfile,
		})
	case orch.MatchIgnored:
	}
}

func (ctl *SignalWSController) handleCancelSearch(connID domain.ConnID, c *WsSignalConn, _ json.RawMessage) {
	ctl.Orch.CancelSearch(connID)
	// Always confirmed, even when the connection was not waiting.
	ctl.send(c, "search_cancelled", nil)
}

func (ctl *SignalWSController) handleLeave(connID domain.ConnID, c *WsSignalConn, payload json.RawMessage) {
	var p struct {
		SessionID domain.SessionID `json:"sessionId"`
	}
	if err := json.Unmarshal(payload, &p); err != nil || p.SessionID == "" {
		log.Warn().Str("module", "signal").Str("conn", string(connID)).Msg("bad leave payload")
		return
	}
	if peer, ok := ctl.Orch.Leave(connID, p.SessionID); ok {
		ctl.sendTo(peer, "peer_left", nil)
	}
}

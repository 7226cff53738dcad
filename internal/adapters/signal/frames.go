package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Dragon57t/GAME-ART/internal/domain"
)

type frameEvent struct {
	Frame domain.Frame `json:"frame"`
}

func (ctl *SignalWSController) handleFrameAdd(connID domain.ConnID, _ *WsSignalConn, payload json.RawMessage) {
	var p struct {
		SessionID domain.SessionID `json:"sessionId"`
		Index     *int             `json:"index"`
		Payload   json.RawMessage  `json:"payload"`
	}
	if err := json.Unmarshal(payload, &p); err != nil || p.SessionID == "" {
		log.Warn().Str("module", "signal").Str("conn", string(connID)).Msg("bad frame_add payload")
		return
	}
	if f, peer, ok := ctl.Orch.AddFrame(connID, p.SessionID, p.Index, p.Payload); ok {
		ctl.sendTo(peer, "frame_added", frameEvent{Frame: f})
	}
}

func (ctl *SignalWSController) handleFrameUpdate(connID domain.ConnID, _ *WsSignalConn, payload json.RawMessage) {
	var p struct {
		SessionID domain.SessionID `json:"sessionId"`
		FrameID   domain.FrameID   `json:"frameId"`
		Payload   json.RawMessage  `json:"payload"`
	}
	if err := json.Unmarshal(payload, &p); err != nil || p.SessionID == "" || p.FrameID == "" {
		log.Warn().Str("module", "signal").Str("conn", string(connID)).Msg("bad frame_update payload")
		return
	}
	if f, peer, ok := ctl.Orch.UpdateFrame(connID, p.SessionID, p.FrameID, p.Payload); ok {
		ctl.sendTo(peer, "frame_updated", frameEvent{Frame: f})
	}
}

func (ctl *SignalWSController) handleFrameDelete(connID domain.ConnID, _ *WsSignalConn, payload json.RawMessage) {
	var p struct {
		SessionID domain.SessionID `json:"sessionId"`
		FrameID   domain.FrameID   `json:"frameId"`
	}
	if err := json.Unmarshal(payload, &p); err != nil || p.SessionID == "" || p.FrameID == "" {
		log.Warn().Str("module", "signal").Str("conn", string(connID)).Msg("bad frame_delete payload")
		return
	}
	if current, peer, ok := ctl.Orch.DeleteFrame(connID, p.SessionID, p.FrameID); ok {
		ctl.sendTo(peer, "frame_deleted", struct {
			FrameID      domain.FrameID `json:"frameId"`
			CurrentFrame int            `json:"currentFrame"`
		}{p.FrameID, current})
	}
}

func (ctl *SignalWSController) handleFrameReorder(connID domain.ConnID, _ *WsSignalConn, payload json.RawMessage) {
	var p struct {
		SessionID domain.SessionID `json:"sessionId"`
		FrameID   domain.FrameID   `json:"frameId"`
		NewIndex  *int             `json:"newIndex"`
	}
	if err := json.Unmarshal(payload, &p); err != nil || p.SessionID == "" || p.FrameID == "" || p.NewIndex == nil {
		log.Warn().Str("module", "signal").Str("conn", string(connID)).Msg("bad frame_reorder payload")
		return
	}
	if f, peer, ok := ctl.Orch.ReorderFrame(connID, p.SessionID, p.FrameID, *p.NewIndex); ok {
		ctl.sendTo(peer, "frame_reordered", struct {
			FrameID  domain.FrameID `json:"frameId"`
			NewIndex int            `json:"newIndex"`
		}{f.ID, f.Index})
	}
}

package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Dragon57t/GAME-ART/internal/domain"
)

type playbackEvent struct {
	IsPlaying    bool `json:"isPlaying"`
	CurrentFrame int  `json:"currentFrame"`
}

// Playback checkpoints go to both participants so everyone shares the
// same advisory state, sender included.
func (ctl *SignalWSController) broadcastPlayback(participants [2]domain.ConnID, st domain.PlaybackState) {
	ev := playbackEvent{IsPlaying: st.IsPlaying, CurrentFrame: st.CurrentFrame}
	for _, id := range participants {
		ctl.sendTo(id, "playback_state", ev)
	}
}

func (ctl *SignalWSController) handlePlay(connID domain.ConnID, _ *WsSignalConn, payload json.RawMessage) {
	sid, ok := sessionOnly(payload)
	if !ok {
		log.Warn().Str("module", "signal").Str("conn", string(connID)).Msg("bad playback_play payload")
		return
	}
	if st, parts, ok := ctl.Orch.Play(connID, sid); ok {
		ctl.broadcastPlayback(parts, st)
	}
}

func (ctl *SignalWSController) handlePause(connID domain.ConnID, _ *WsSignalConn, payload json.RawMessage) {
	sid, ok := sessionOnly(payload)
	if !ok {
		log.Warn().Str("module", "signal").Str("conn", string(connID)).Msg("bad playback_pause payload")
		return
	}
	if st, parts, ok := ctl.Orch.Pause(connID, sid); ok {
		ctl.broadcastPlayback(parts, st)
	}
}

func (ctl *SignalWSController) handleSetFrame(connID domain.ConnID, _ *WsSignalConn, payload json.RawMessage) {
	var p struct {
		SessionID domain.SessionID `json:"sessionId"`
		Index     *int             `json:"index"`
	}
	if err := json.Unmarshal(payload, &p); err != nil || p.SessionID == "" || p.Index == nil {
		log.Warn().Str("module", "signal").Str("conn", string(connID)).Msg("bad playback_set_frame payload")
		return
	}
	if st, parts, ok := ctl.Orch.SetFrame(connID, p.SessionID, *p.Index); ok {
		ctl.broadcastPlayback(parts, st)
	}
}

func (ctl *SignalWSController) handleSetFPS(connID domain.ConnID, _ *WsSignalConn, payload json.RawMessage) {
	var p struct {
		SessionID domain.SessionID `json:"sessionId"`
		FPS       *int             `json:"fps"`
	}
	if err := json.Unmarshal(payload, &p); err != nil || p.SessionID == "" || p.FPS == nil {
		log.Warn().Str("module", "signal").Str("conn", string(connID)).Msg("bad playback_set_fps payload")
		return
	}
	if st, parts, ok := ctl.Orch.SetFPS(connID, p.SessionID, *p.FPS); ok {
		for _, id := range parts {
			ctl.sendTo(id, "fps_update", struct {
				FPS int `json:"fps"`
			}{st.FPS})
		}
	}
}

func sessionOnly(payload json.RawMessage) (domain.SessionID, bool) {
	var p struct {
		SessionID domain.SessionID `json:"sessionId"`
	}
	if err := json.Unmarshal(payload, &p); err != nil || p.SessionID == "" {
		return "", false
	}
	return p.SessionID, true
}

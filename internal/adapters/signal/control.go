package signal

import (
	"encoding/json"

	"github.com/Dragon57t/GAME-ART/internal/domain"
)

func (ctl *SignalWSController) handlePing(_ domain.ConnID, conn *WsSignalConn, _ json.RawMessage) {
	ctl.send(conn, "pong", nil)
}

package signal

import (
	"encoding/json"

	"github.com/dkeye/peerview/internal/domain"
)

type signalPayload struct {
	RoomID  domain.RoomID   `json:"roomId" validate:"required,max=64"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// handleRelay forwards an offer, answer or candidate untouched. Frames over
// the connection's rate are dropped with an error reply.
func (ctl *SignalWSController) handleRelay(conn *WsSignalConn, data []byte) {
	if !conn.limiter.Allow() {
		ctl.Orch.SignalRateLimited(conn.uid)
		ctl.sendError(conn, "signal", errRateLimited)
		return
	}
	var p signalPayload
	if err := decode(data, &p); err != nil {
		ctl.sendError(conn, "signal", err)
		return
	}
	if _, err := ctl.Orch.Signal(conn.uid, conn, p.RoomID, p.Payload); err != nil {
		ctl.sendError(conn, "signal", err)
	}
}

package signal

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/peerview/internal/domain"
	"github.com/dkeye/peerview/internal/validate"
	"github.com/pion/webrtc/v4"
)

// decode unmarshals an envelope into p and checks its tags.
func decode(data []byte, p any) error {
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return validate.Struct(p)
}

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *SignalWSController) handleWhoAmI(conn *WsSignalConn) {
	pending := ctl.Orch.Invites.PendingFor(conn.uid)
	ids := make([]domain.InvitationID, 0, len(pending))
	for _, inv := range pending {
		ids = append(ids, inv.ID)
	}
	resp := struct {
		Type        string                `json:"type"`
		UserID      domain.UserID         `json:"userId"`
		Room        domain.RoomID         `json:"room,omitempty"`
		Invitations []domain.InvitationID `json:"invitations"`
		ICEServers  []webrtc.ICEServer    `json:"iceServers"`
	}{
		Type:        "whoami",
		UserID:      conn.uid,
		Invitations: ids,
		ICEServers:  ctl.cfg.ICEServers,
	}
	if roomID, ok := ctl.Orch.Relay.RoomOf(conn); ok {
		resp.Room = roomID
	}
	ctl.sendJSON(conn, resp)
}

package signal

import (
	"context"
	"errors"

	"github.com/dkeye/peerview/internal/app/invite"
	"github.com/dkeye/peerview/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

type proposePayload struct {
	InviteeID domain.UserID            `json:"inviteeId" validate:"required,max=64"`
	Domain    string                   `json:"domain" validate:"max=64"`
	RoomID    domain.RoomID            `json:"roomId" validate:"max=64"`
	Questions []domain.QuestionSummary `json:"questions" validate:"max=20"`
}

func (ctl *SignalWSController) handlePropose(ctx context.Context, conn *WsSignalConn, data []byte) {
	var p proposePayload
	if err := decode(data, &p); err != nil {
		ctl.sendInvitationFailed(conn, "", "", err)
		return
	}
	inv, err := ctl.Orch.ProposeInvitation(ctx, invite.ProposeInput{
		InviterID: conn.uid,
		InviteeID: p.InviteeID,
		Domain:    p.Domain,
		Questions: p.Questions,
		RoomID:    p.RoomID,
	})
	if err != nil {
		log.Info().Err(err).Str("module", "signal").Str("user", string(conn.uid)).Str("invitee", string(p.InviteeID)).Msg("propose failed")
		ctl.sendInvitationFailed(conn, "", p.InviteeID, err)
		return
	}
	resp := struct {
		Type       string            `json:"type"`
		Invitation domain.Invitation `json:"invitation"`
	}{
		Type:       "invitation_sent",
		Invitation: inv,
	}
	ctl.sendJSON(conn, resp)
}

type respondPayload struct {
	InvitationID domain.InvitationID `json:"invitationId" validate:"required"`
	Accept       bool                `json:"accept"`
}

func (ctl *SignalWSController) handleRespond(ctx context.Context, conn *WsSignalConn, data []byte) {
	var p respondPayload
	if err := decode(data, &p); err != nil {
		ctl.sendInvitationFailed(conn, "", "", err)
		return
	}
	out, err := ctl.Orch.RespondInvitation(ctx, conn.uid, p.InvitationID, p.Accept)
	if err != nil {
		ctl.sendInvitationFailed(conn, p.InvitationID, "", err)
		return
	}
	ctl.sendOutcome(conn, "invitation_answered", out)
}

type cancelPayload struct {
	InvitationID domain.InvitationID `json:"invitationId" validate:"required"`
}

func (ctl *SignalWSController) handleCancel(ctx context.Context, conn *WsSignalConn, data []byte) {
	var p cancelPayload
	if err := decode(data, &p); err != nil {
		ctl.sendInvitationFailed(conn, "", "", err)
		return
	}
	out, err := ctl.Orch.CancelInvitation(ctx, conn.uid, p.InvitationID)
	if errors.Is(err, domain.ErrAlreadyResolved) && out.AlreadyResolved {
		// Lost the race: report the outcome that won.
		ctl.sendOutcome(conn, "invitation_cancelled", out)
		return
	}
	if err != nil {
		ctl.sendInvitationFailed(conn, p.InvitationID, "", err)
		return
	}
	ctl.sendOutcome(conn, "invitation_cancelled", out)
}

// sendOutcome acknowledges respond/cancel. The parties already received the
// invitation notification; the ack adds the room and ICE servers.
func (ctl *SignalWSController) sendOutcome(conn *WsSignalConn, typ string, out invite.Outcome) {
	resp := struct {
		Type            string             `json:"type"`
		Invitation      domain.Invitation  `json:"invitation"`
		Room            *domain.Room       `json:"room,omitempty"`
		AlreadyResolved bool               `json:"alreadyResolved"`
		ICEServers      []webrtc.ICEServer `json:"iceServers,omitempty"`
	}{
		Type:            typ,
		Invitation:      out.Invitation,
		AlreadyResolved: out.AlreadyResolved,
	}
	if out.Room.ID != "" {
		room := out.Room
		resp.Room = &room
		resp.ICEServers = ctl.cfg.ICEServers
	}
	ctl.sendJSON(conn, resp)
}

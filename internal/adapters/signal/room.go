package signal

import (
	"context"

	"github.com/dkeye/peerview/internal/app/session"
	"github.com/dkeye/peerview/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

type roomReply struct {
	Type       string             `json:"type"`
	Room       domain.Room        `json:"room"`
	ICEServers []webrtc.ICEServer `json:"iceServers,omitempty"`
}

type createRoomPayload struct {
	PartnerID     domain.UserID `json:"partnerId" validate:"max=64"`
	Domain        string        `json:"domain" validate:"max=64"`
	QuestionCount int           `json:"questionCount" validate:"min=0,max=20"`
}

func (ctl *SignalWSController) handleCreateRoom(ctx context.Context, conn *WsSignalConn, data []byte) {
	var p createRoomPayload
	if err := decode(data, &p); err != nil {
		ctl.sendError(conn, "create_room", err)
		return
	}
	room, err := ctl.Orch.CreateRoom(ctx, session.CreateInput{
		CreatorID:     conn.uid,
		PartnerID:     p.PartnerID,
		Domain:        p.Domain,
		QuestionCount: p.QuestionCount,
	})
	if err != nil {
		ctl.sendError(conn, "create_room", err)
		return
	}
	ctl.sendJSON(conn, roomReply{Type: "room_created", Room: room})
}

type roomPayload struct {
	RoomID domain.RoomID `json:"roomId" validate:"required,max=64"`
}

func (ctl *SignalWSController) handleJoin(ctx context.Context, conn *WsSignalConn, data []byte) {
	var p roomPayload
	if err := decode(data, &p); err != nil {
		ctl.sendError(conn, "join", err)
		return
	}
	room, err := ctl.Orch.JoinRoom(ctx, conn.uid, p.RoomID)
	if err != nil {
		log.Info().Err(err).Str("module", "signal").Str("user", string(conn.uid)).Str("room", string(p.RoomID)).Msg("join refused")
		ctl.sendError(conn, "join", err)
		return
	}
	ctl.sendJSON(conn, roomReply{Type: "room_state", Room: room, ICEServers: ctl.cfg.ICEServers})
}

// handleLeave unbinds the socket from the room relay. The connection stays.
func (ctl *SignalWSController) handleLeave(conn *WsSignalConn, data []byte) {
	var p roomPayload
	if err := decode(data, &p); err != nil {
		ctl.sendError(conn, "leave", err)
		return
	}
	ctl.Orch.LeaveRoom(conn.uid, conn, p.RoomID)
	ctl.sendJSON(conn, map[string]any{
		"type":   "left",
		"roomId": p.RoomID,
	})
}

func (ctl *SignalWSController) handleEnd(ctx context.Context, conn *WsSignalConn, data []byte) {
	var p roomPayload
	if err := decode(data, &p); err != nil {
		ctl.sendError(conn, "end", err)
		return
	}
	room, err := ctl.Orch.EndRoom(ctx, conn.uid, p.RoomID)
	if err != nil {
		ctl.sendError(conn, "end", err)
		return
	}
	ctl.sendJSON(conn, roomReply{Type: "room_ended", Room: room})
}

type feedbackPayload struct {
	RoomID   domain.RoomID `json:"roomId" validate:"required,max=64"`
	ToUser   domain.UserID `json:"toUser" validate:"required,max=64"`
	Rating   int           `json:"rating"`
	Comments string        `json:"comments" validate:"max=4000"`
}

func (ctl *SignalWSController) handleFeedback(ctx context.Context, conn *WsSignalConn, data []byte) {
	var p feedbackPayload
	if err := decode(data, &p); err != nil {
		ctl.sendError(conn, "feedback", err)
		return
	}
	res, err := ctl.Orch.SubmitFeedback(ctx, session.FeedbackInput{
		RoomID:   p.RoomID,
		FromUser: conn.uid,
		ToUser:   p.ToUser,
		Rating:   p.Rating,
		Comments: p.Comments,
	})
	if err != nil {
		ctl.sendError(conn, "feedback", err)
		return
	}
	resp := struct {
		Type            string            `json:"type"`
		RoomID          domain.RoomID     `json:"roomId"`
		Status          domain.RoomStatus `json:"status"`
		Rating          float64           `json:"rating"`
		TotalInterviews int               `json:"totalInterviews"`
	}{
		Type:            "feedback_recorded",
		RoomID:          res.Room.ID,
		Status:          res.Room.Status,
		Rating:          res.Rating,
		TotalInterviews: res.TotalInterviews,
	}
	ctl.sendJSON(conn, resp)
}

type reportPayload struct {
	RoomID         domain.RoomID `json:"roomId" validate:"required,max=64"`
	ReportedUserID domain.UserID `json:"reportedUserId" validate:"max=64"`
	Reason         string        `json:"reason" validate:"required,max=2000"`
}

func (ctl *SignalWSController) handleReport(ctx context.Context, conn *WsSignalConn, data []byte) {
	var p reportPayload
	if err := decode(data, &p); err != nil {
		ctl.sendError(conn, "report", err)
		return
	}
	room, err := ctl.Orch.SubmitReport(ctx, session.ReportInput{
		RoomID:         p.RoomID,
		ReporterID:     conn.uid,
		ReportedUserID: p.ReportedUserID,
		Reason:         p.Reason,
	})
	if err != nil {
		ctl.sendError(conn, "report", err)
		return
	}
	ctl.sendJSON(conn, map[string]any{
		"type":    "report_recorded",
		"roomId":  room.ID,
		"reports": len(room.Reports),
	})
}

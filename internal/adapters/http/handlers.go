package http

import (
	"context"
	"net/http"

	"github.com/dkeye/peerview/internal/adapters/signal"
	"github.com/dkeye/peerview/internal/app/invite"
	"github.com/dkeye/peerview/internal/app/orch"
	"github.com/dkeye/peerview/internal/app/session"
	"github.com/dkeye/peerview/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
)

type handlers struct {
	// ctx outlives requests; sockets are bound to it.
	ctx      context.Context
	orch     *orch.Orchestrator
	ws       *signal.SignalWSController
	verifier *Verifier
	ice      []webrtc.ICEServer
	debug    bool
}

func (h *handlers) handleWS(c *gin.Context) {
	h.ws.HandleSignal(h.ctx, c, userOf(c))
}

func (h *handlers) handleICE(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"iceServers": h.ice})
}

func (h *handlers) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"online": h.orch.Presence.Count(),
	})
}

type createRoomRequest struct {
	PartnerID     domain.UserID            `json:"partnerId" validate:"max=64"`
	Domain        string                   `json:"domain" validate:"max=64"`
	Questions     []domain.QuestionSummary `json:"questions" validate:"max=20"`
	QuestionCount int                      `json:"questionCount" validate:"min=0,max=20"`
}

func (h *handlers) handleCreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := bindJSON(c, &req); err != nil {
		resolveError(c, err)
		return
	}
	room, err := h.orch.CreateRoom(c.Request.Context(), session.CreateInput{
		CreatorID:     userOf(c),
		PartnerID:     req.PartnerID,
		Domain:        req.Domain,
		Questions:     req.Questions,
		QuestionCount: req.QuestionCount,
	})
	if err != nil {
		resolveError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h *handlers) handleGetRoom(c *gin.Context) {
	room, err := h.orch.Room(userOf(c), domain.RoomID(c.Param("id")))
	if err != nil {
		resolveError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *handlers) handleEndRoom(c *gin.Context) {
	room, err := h.orch.EndRoom(c.Request.Context(), userOf(c), domain.RoomID(c.Param("id")))
	if err != nil {
		resolveError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type feedbackRequest struct {
	ToUser   domain.UserID `json:"toUser" validate:"required,max=64"`
	Rating   int           `json:"rating"`
	Comments string        `json:"comments" validate:"max=4000"`
}

type feedbackResponse struct {
	Room            domain.Room `json:"room"`
	Rating          float64     `json:"rating"`
	TotalInterviews int         `json:"totalInterviews"`
}

func (h *handlers) handleFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := bindJSON(c, &req); err != nil {
		resolveError(c, err)
		return
	}
	res, err := h.orch.SubmitFeedback(c.Request.Context(), session.FeedbackInput{
		RoomID:   domain.RoomID(c.Param("id")),
		FromUser: userOf(c),
		ToUser:   req.ToUser,
		Rating:   req.Rating,
		Comments: req.Comments,
	})
	if err != nil {
		resolveError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedbackResponse{
		Room:            res.Room,
		Rating:          res.Rating,
		TotalInterviews: res.TotalInterviews,
	})
}

type reportRequest struct {
	ReportedUserID domain.UserID `json:"reportedUserId" validate:"max=64"`
	Reason         string        `json:"reason" validate:"required,max=2000"`
}

func (h *handlers) handleReport(c *gin.Context) {
	var req reportRequest
	if err := bindJSON(c, &req); err != nil {
		resolveError(c, err)
		return
	}
	room, err := h.orch.SubmitReport(c.Request.Context(), session.ReportInput{
		RoomID:         domain.RoomID(c.Param("id")),
		ReporterID:     userOf(c),
		ReportedUserID: req.ReportedUserID,
		Reason:         req.Reason,
	})
	if err != nil {
		resolveError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

type proposeRequest struct {
	InviteeID domain.UserID            `json:"inviteeId" validate:"required,max=64"`
	Domain    string                   `json:"domain" validate:"max=64"`
	RoomID    domain.RoomID            `json:"roomId" validate:"max=64"`
	Questions []domain.QuestionSummary `json:"questions" validate:"max=20"`
}

func (h *handlers) handlePropose(c *gin.Context) {
	var req proposeRequest
	if err := bindJSON(c, &req); err != nil {
		resolveError(c, err)
		return
	}
	inv, err := h.orch.ProposeInvitation(c.Request.Context(), invite.ProposeInput{
		InviterID: userOf(c),
		InviteeID: req.InviteeID,
		Domain:    req.Domain,
		Questions: req.Questions,
		RoomID:    req.RoomID,
	})
	if err != nil {
		resolveError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *handlers) handleGetInvitation(c *gin.Context) {
	inv, err := h.orch.Invitation(userOf(c), domain.InvitationID(c.Param("id")))
	if err != nil {
		resolveError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

type respondRequest struct {
	Accept bool `json:"accept"`
}

type outcomeResponse struct {
	Invitation      domain.Invitation `json:"invitation"`
	Room            *domain.Room      `json:"room,omitempty"`
	AlreadyResolved bool              `json:"alreadyResolved"`
}

func toOutcome(out invite.Outcome) outcomeResponse {
	resp := outcomeResponse{Invitation: out.Invitation, AlreadyResolved: out.AlreadyResolved}
	if out.Room.ID != "" {
		room := out.Room
		resp.Room = &room
	}
	return resp
}

func (h *handlers) handleRespond(c *gin.Context) {
	var req respondRequest
	if err := bindJSON(c, &req); err != nil {
		resolveError(c, err)
		return
	}
	out, err := h.orch.RespondInvitation(c.Request.Context(), userOf(c), domain.InvitationID(c.Param("id")), req.Accept)
	if err != nil {
		resolveError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOutcome(out))
}

func (h *handlers) handleCancel(c *gin.Context) {
	out, err := h.orch.CancelInvitation(c.Request.Context(), userOf(c), domain.InvitationID(c.Param("id")))
	if err != nil {
		resolveError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOutcome(out))
}

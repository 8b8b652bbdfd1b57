package orch

import (
	"context"

	"github.com/dkeye/peerview/internal/app/session"
	"github.com/dkeye/peerview/internal/core"
	"github.com/dkeye/peerview/internal/domain"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) CreateRoom(ctx context.Context, in session.CreateInput) (domain.Room, error) {
	return o.Sessions.Create(ctx, in)
}

// JoinRoom seats uid's live channel in the room.
func (o *Orchestrator) JoinRoom(ctx context.Context, uid domain.UserID, roomID domain.RoomID) (domain.Room, error) {
	room, err := o.Sessions.Join(ctx, roomID, uid)
	if err != nil {
		return domain.Room{}, err
	}
	log.Info().Str("module", "orch").Str("user", string(uid)).Str("room", string(roomID)).Msg("added to room")
	return room, nil
}

// LeaveRoom unbinds the channel from the relay. The room status is kept so
// the user can come back.
func (o *Orchestrator) LeaveRoom(uid domain.UserID, ch core.Channel, roomID domain.RoomID) {
	o.Relay.Leave(roomID, ch)
	log.Info().Str("module", "orch").Str("user", string(uid)).Str("room", string(roomID)).Msg("left room")
}

// EndRoom finishes the room: completed when active, cancelled before that.
func (o *Orchestrator) EndRoom(ctx context.Context, uid domain.UserID, roomID domain.RoomID) (domain.Room, error) {
	room, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Room{}, err
	}
	switch room.Status {
	case domain.RoomPending, domain.RoomWaiting:
		return o.Sessions.Cancel(ctx, roomID, uid)
	default:
		return o.Sessions.End(ctx, roomID, uid)
	}
}

// Room returns the room if uid sits in it.
func (o *Orchestrator) Room(uid domain.UserID, roomID domain.RoomID) (domain.Room, error) {
	room, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Room{}, err
	}
	if _, ok := room.Participant(uid); !ok {
		return domain.Room{}, domain.ErrNotAuthorized
	}
	return room, nil
}

func (o *Orchestrator) SubmitFeedback(ctx context.Context, in session.FeedbackInput) (session.FeedbackResult, error) {
	return o.Sessions.SubmitFeedback(ctx, in)
}

func (o *Orchestrator) SubmitReport(ctx context.Context, in session.ReportInput) (domain.Room, error) {
	return o.Sessions.SubmitReport(ctx, in)
}

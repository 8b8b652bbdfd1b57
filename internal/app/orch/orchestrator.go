// Package orch turns inbound client events into calls on the presence
// registry, relay, invitation coordinator and session manager.
package orch

import (
	"context"
	"encoding/json"

	"github.com/dkeye/peerview/internal/app"
	"github.com/dkeye/peerview/internal/app/invite"
	"github.com/dkeye/peerview/internal/app/session"
	"github.com/dkeye/peerview/internal/core"
	"github.com/dkeye/peerview/internal/domain"
	"github.com/dkeye/peerview/internal/metrics"
	"github.com/rs/zerolog/log"
)

type Orchestrator struct {
	Presence *app.Presence
	Relay    *app.Relay
	Policy   app.Policy
	Invites  *invite.Coordinator
	Sessions *session.Manager
}

// Connect registers uid's channel and replays prompts it missed.
func (o *Orchestrator) Connect(uid domain.UserID, ch core.Channel) {
	o.Presence.MarkOnline(uid, ch)
	o.Invites.Redeliver(uid)
}

// Disconnect forgets the channel. Invitations and rooms are left alone.
func (o *Orchestrator) Disconnect(ch core.Channel) {
	o.Relay.LeaveAll(ch)
	uid, _ := o.Presence.Owner(ch)
	if o.Presence.MarkOffline(ch) {
		log.Info().Str("module", "orch").Str("user", string(uid)).Msg("channel disconnected")
	}
}

// Signal forwards an opaque negotiation payload to the sender's peer.
func (o *Orchestrator) Signal(uid domain.UserID, ch core.Channel, roomID domain.RoomID, payload json.RawMessage) (core.PublishResult, error) {
	frame, err := json.Marshal(domain.SignalFrame{
		Type:    domain.NoteSignal,
		RoomID:  roomID,
		From:    uid,
		Payload: payload,
	})
	if err != nil {
		return core.PublishResult{}, err
	}
	res, err := o.Relay.Relay(roomID, ch, frame)
	if err != nil {
		return res, err
	}
	if o.Policy == nil {
		return res, nil
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(roomID, slow) {
		case app.EvictChannel:
			o.Relay.Leave(roomID, slow)
			owner, _ := o.Presence.Owner(slow)
			log.Warn().Str("module", "orch").Str("room", string(roomID)).Str("user", string(owner)).Msg("slow channel evicted from relay")
		case app.DropFrame, app.NoAction:
		}
	}
	return res, nil
}

// SignalRateLimited records a frame the adapter refused to relay.
func (o *Orchestrator) SignalRateLimited(uid domain.UserID) {
	metrics.SignalsDroppedTotal.WithLabelValues("rate_limited").Inc()
	log.Debug().Str("module", "orch").Str("user", string(uid)).Msg("signal rate limited")
}

func (o *Orchestrator) ProposeInvitation(ctx context.Context, in invite.ProposeInput) (domain.Invitation, error) {
	return o.Invites.Propose(ctx, in)
}

func (o *Orchestrator) RespondInvitation(ctx context.Context, uid domain.UserID, id domain.InvitationID, accept bool) (invite.Outcome, error) {
	return o.Invites.Respond(ctx, id, uid, accept)
}

func (o *Orchestrator) CancelInvitation(ctx context.Context, uid domain.UserID, id domain.InvitationID) (invite.Outcome, error) {
	return o.Invites.Cancel(ctx, id, uid)
}

// Invitation returns the invitation if uid is one of its parties.
func (o *Orchestrator) Invitation(uid domain.UserID, id domain.InvitationID) (domain.Invitation, error) {
	inv, err := o.Invites.Get(id)
	if err != nil {
		return domain.Invitation{}, err
	}
	if inv.InviterID != uid && inv.InviteeID != uid {
		return domain.Invitation{}, domain.ErrNotAuthorized
	}
	return inv, nil
}

// Close stops every timer owned by the services.
func (o *Orchestrator) Close() {
	o.Invites.Close()
	o.Sessions.Close()
}

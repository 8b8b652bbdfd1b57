package invite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/peerview/internal/app/session"
	"github.com/dkeye/peerview/internal/domain"
	"github.com/dkeye/peerview/internal/metrics"
)

type ProposeInput struct {
	InviterID domain.UserID
	InviteeID domain.UserID
	Domain    string
	Questions []domain.QuestionSummary
	// RoomID points at a pending room the inviter created beforehand.
	RoomID domain.RoomID
}

// Propose creates a pending invitation and prompts the invitee. An offline
// invitee fails fast and leaves no trace.
func (c *Coordinator) Propose(ctx context.Context, in ProposeInput) (domain.Invitation, error) {
	if in.InviterID == "" || in.InviteeID == "" || in.InviterID == in.InviteeID {
		return domain.Invitation{}, domain.ErrNotAuthorized
	}
	if !c.deps.Presence.Online(in.InviteeID) {
		metrics.InvitationsTotal.WithLabelValues("offline").Inc()
		c.log.Info().Str("inviter", string(in.InviterID)).Str("invitee", string(in.InviteeID)).Msg("invitee offline")
		return domain.Invitation{}, domain.ErrInviteeOffline
	}

	questions := in.Questions
	topic := in.Domain
	roomID := in.RoomID
	if roomID != "" {
		room, err := c.deps.Rooms.Get(roomID)
		if err != nil {
			return domain.Invitation{}, err
		}
		if room.CreatedBy != in.InviterID {
			return domain.Invitation{}, domain.ErrNotAuthorized
		}
		if room.Status != domain.RoomPending {
			return domain.Invitation{}, fmt.Errorf("invite into room in %s: %w", room.Status, domain.ErrInvalidRoomState)
		}
		if seated, ok := room.Other(in.InviterID); ok && seated.UserID != in.InviteeID {
			return domain.Invitation{}, fmt.Errorf("room reserved for %s: %w", seated.UserID, domain.ErrInvalidRoomState)
		}
		if prior, err := c.latestForRoom(roomID); err == nil && prior.Status == domain.InvitationPending {
			return domain.Invitation{}, domain.ErrInvitationPending
		}
		if len(questions) == 0 {
			questions = room.SelectedQuestions
		}
		if topic == "" {
			topic = room.Domain
		}
	} else {
		roomID = domain.RoomID(c.newID())
	}
	if len(questions) == 0 {
		questions = c.fetchQuestions(ctx, topic)
	}
	inviter := c.inviterSummary(ctx, in.InviterID)

	now := c.now().UTC()
	e := &entry{
		inv: domain.Invitation{
			ID:                domain.InvitationID(c.newID()),
			InviterID:         in.InviterID,
			InviteeID:         in.InviteeID,
			RoomID:            roomID,
			Domain:            topic,
			SelectedQuestions: domain.CloneQuestions(questions),
			Status:            domain.InvitationPending,
			CreatedAt:         now,
			ExpiresAt:         now.Add(c.cfg.TTL),
		},
		inviter: inviter,
	}
	if err := c.claim(e); err != nil {
		return domain.Invitation{}, err
	}

	e.mu.Lock()
	c.invitations.Store(e.inv.ID, e)
	c.byRoom.Store(e.inv.RoomID, e.inv.ID)
	id := e.inv.ID
	e.timer = c.afterFunc(c.cfg.TTL, func() { c.expire(id) })
	inv := e.inv.Clone()
	e.mu.Unlock()

	metrics.InvitationsTotal.WithLabelValues("proposed").Inc()
	if !c.notify(inv.InviteeID, received(inv, inviter)) {
		c.log.Warn().Str("invitation", string(inv.ID)).Msg("invitee prompt not delivered, kept pending")
	}
	c.log.Info().
		Str("invitation", string(inv.ID)).
		Str("room", string(inv.RoomID)).
		Str("inviter", string(inv.InviterID)).
		Str("invitee", string(inv.InviteeID)).
		Int("questions", len(inv.SelectedQuestions)).
		Msg("invitation proposed")
	return inv, nil
}

// claim reserves the pending slot of e's triple. A holder found past its
// deadline is expired on the spot and the claim retried.
func (c *Coordinator) claim(e *entry) error {
	key := keyOf(e.inv)
	for {
		v, loaded := c.pending.LoadOrStore(key, e.inv.ID)
		if !loaded {
			return nil
		}
		holder, ok := c.load(v.(domain.InvitationID))
		if !ok {
			// Claimed by a Propose that has not stored its entry yet.
			return domain.ErrInvitationPending
		}
		holder.mu.Lock()
		expired := c.expireIfDueLocked(holder)
		stillPending := holder.inv.Status == domain.InvitationPending
		snap := holder.inv.Clone()
		holder.mu.Unlock()
		if expired {
			c.announceExpired(snap)
		}
		if stillPending {
			return domain.ErrInvitationPending
		}
	}
}

// Respond records the invitee's answer. Only the first terminal transition
// counts; later callers get that outcome back with AlreadyResolved set.
func (c *Coordinator) Respond(ctx context.Context, id domain.InvitationID, responder domain.UserID, accept bool) (Outcome, error) {
	e, ok := c.load(id)
	if !ok {
		return Outcome{}, domain.ErrInvitationNotFound
	}
	e.mu.Lock()
	if responder != e.inv.InviteeID {
		e.mu.Unlock()
		return Outcome{}, domain.ErrNotAuthorized
	}
	expired := c.expireIfDueLocked(e)
	next := domain.InvitationRejected
	if accept {
		next = domain.InvitationAccepted
	}
	won := c.resolveLocked(e, next)
	inv := e.inv.Clone()
	e.mu.Unlock()

	if expired {
		c.announceExpired(inv)
	}
	if !won {
		out := c.settled(inv)
		if accept && inv.Status == domain.InvitationExpired {
			return out, domain.ErrInvitationExpired
		}
		return out, nil
	}

	if accept {
		return c.accepted(ctx, inv)
	}
	return c.rejected(ctx, inv), nil
}

// Cancel withdraws a pending invitation on the inviter's request.
func (c *Coordinator) Cancel(ctx context.Context, id domain.InvitationID, requestedBy domain.UserID) (Outcome, error) {
	e, ok := c.load(id)
	if !ok {
		return Outcome{}, domain.ErrInvitationNotFound
	}
	e.mu.Lock()
	if requestedBy != e.inv.InviterID {
		e.mu.Unlock()
		return Outcome{}, domain.ErrNotAuthorized
	}
	expired := c.expireIfDueLocked(e)
	won := c.resolveLocked(e, domain.InvitationCancelled)
	inv := e.inv.Clone()
	e.mu.Unlock()

	if expired {
		c.announceExpired(inv)
	}
	if !won {
		return c.settled(inv), domain.ErrAlreadyResolved
	}
	c.broadcast(inv, domain.NoteInvitationCancelled)
	c.log.Info().Str("invitation", string(inv.ID)).Str("by", string(requestedBy)).Msg("invitation cancelled")
	return Outcome{Invitation: inv}, nil
}

// settled builds the outcome a race loser observes.
func (c *Coordinator) settled(inv domain.Invitation) Outcome {
	out := Outcome{Invitation: inv, AlreadyResolved: true}
	if inv.Status == domain.InvitationAccepted {
		if room, err := c.deps.Rooms.Get(inv.RoomID); err == nil {
			out.Room = room
		}
	}
	return out
}

func (c *Coordinator) accepted(ctx context.Context, inv domain.Invitation) (Outcome, error) {
	room, err := c.deps.Rooms.Open(ctx, session.OpenInput{
		RoomID:    inv.RoomID,
		InviterID: inv.InviterID,
		InviteeID: inv.InviteeID,
		Domain:    inv.Domain,
		Questions: inv.SelectedQuestions,
	})
	if err != nil {
		c.log.Error().Err(err).Str("invitation", string(inv.ID)).Msg("open room for accepted invitation")
		for _, uid := range []domain.UserID{inv.InviterID, inv.InviteeID} {
			c.notify(uid, domain.InvitationFailed{
				Type:         domain.NoteInvitationFailed,
				InvitationID: inv.ID,
				InviteeID:    inv.InviteeID,
				Reason:       err.Error(),
			})
		}
		return Outcome{Invitation: inv}, fmt.Errorf("open room: %w", err)
	}

	for _, uid := range []domain.UserID{inv.InviterID, inv.InviteeID} {
		joined, err := c.deps.Rooms.Join(ctx, room.ID, uid)
		if err != nil {
			c.log.Warn().Err(err).Str("room", string(room.ID)).Str("user", string(uid)).Msg("auto-join after accept")
			continue
		}
		room = joined
	}
	c.broadcast(inv, domain.NoteInvitationAccepted)
	c.log.Info().Str("invitation", string(inv.ID)).Str("room", string(room.ID)).Str("status", string(room.Status)).Msg("invitation accepted")
	return Outcome{Invitation: inv, Room: room}, nil
}

func (c *Coordinator) rejected(ctx context.Context, inv domain.Invitation) Outcome {
	out := Outcome{Invitation: inv}
	if room, err := c.deps.Rooms.Reject(ctx, inv.RoomID); err == nil {
		out.Room = room
	} else if !errors.Is(err, domain.ErrRoomNotFound) {
		c.log.Warn().Err(err).Str("room", string(inv.RoomID)).Msg("reject pre-created room")
	}
	c.broadcast(inv, domain.NoteInvitationRejected)
	c.log.Info().Str("invitation", string(inv.ID)).Msg("invitation rejected")
	return out
}

func (c *Coordinator) inviterSummary(ctx context.Context, uid domain.UserID) domain.UserSummary {
	fallback := domain.UserSummary{ID: uid}
	if c.deps.Users == nil {
		return fallback
	}
	start := time.Now()
	s, err := c.deps.Users.FetchUserSummary(ctx, uid)
	metrics.CollaboratorDuration.WithLabelValues("fetch_user_summary").Observe(time.Since(start).Seconds())
	if err != nil {
		c.log.Warn().Err(err).Str("user", string(uid)).Msg("fetch inviter summary")
		return fallback
	}
	s.ID = uid
	return s
}

func (c *Coordinator) fetchQuestions(ctx context.Context, topic string) []domain.QuestionSummary {
	if c.deps.Questions == nil {
		return nil
	}
	start := time.Now()
	qs, err := c.deps.Questions.FetchQuestionSet(ctx, topic, c.cfg.QuestionCount)
	metrics.CollaboratorDuration.WithLabelValues("fetch_question_set").Observe(time.Since(start).Seconds())
	if err != nil {
		c.log.Warn().Err(err).Str("domain", topic).Msg("fetch question set")
		return nil
	}
	return qs
}

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/dkeye/peerview/internal/domain"
	"github.com/dkeye/peerview/internal/metrics"
)

type CreateInput struct {
	CreatorID     domain.UserID
	PartnerID     domain.UserID
	Domain        string
	Questions     []domain.QuestionSummary
	QuestionCount int
}

// Create makes a pending room outside the invitation flow. The creator
// interviews first.
func (m *Manager) Create(ctx context.Context, in CreateInput) (domain.Room, error) {
	if in.CreatorID == "" {
		return domain.Room{}, domain.ErrNotAuthorized
	}
	if in.PartnerID == in.CreatorID {
		return domain.Room{}, fmt.Errorf("partner is creator: %w", domain.ErrNotAuthorized)
	}
	questions := in.Questions
	if len(questions) == 0 {
		count := in.QuestionCount
		if count <= 0 {
			count = m.cfg.QuestionCount
		}
		questions = m.fetchQuestions(ctx, in.Domain, count)
	}

	room := domain.Room{
		ID:                m.newID(),
		CreatedBy:         in.CreatorID,
		Participants:      []domain.Participant{{UserID: in.CreatorID, Role: domain.RoleInterviewer}},
		Domain:            in.Domain,
		SelectedQuestions: domain.CloneQuestions(questions),
		Status:            domain.RoomPending,
		CreatedAt:         m.now().UTC(),
	}
	if in.PartnerID != "" {
		room.Participants = append(room.Participants, domain.Participant{UserID: in.PartnerID, Role: domain.RoleInterviewee})
	}
	m.rooms.Store(room.ID, &roomEntry{room: room})
	metrics.RoomTransitionsTotal.WithLabelValues(string(domain.RoomPending)).Inc()
	m.log.Info().Str("room", string(room.ID)).Str("creator", string(in.CreatorID)).Msg("room created")
	return room.Clone(), nil
}

type OpenInput struct {
	RoomID    domain.RoomID
	InviterID domain.UserID
	InviteeID domain.UserID
	Domain    string
	Questions []domain.QuestionSummary
}

// Open backs an accepted invitation with a room: inviter interviews,
// invitee is interviewed. A pre-created pending room is completed in place
// unless its second seat already belongs to someone else.
func (m *Manager) Open(ctx context.Context, in OpenInput) (domain.Room, error) {
	if in.InviterID == "" || in.InviteeID == "" || in.InviterID == in.InviteeID {
		return domain.Room{}, domain.ErrNotAuthorized
	}
	id := in.RoomID
	if id == "" {
		id = m.newID()
	}
	fresh := &roomEntry{room: domain.Room{
		ID:        id,
		CreatedBy: in.InviterID,
		Participants: []domain.Participant{
			{UserID: in.InviterID, Role: domain.RoleInterviewer},
			{UserID: in.InviteeID, Role: domain.RoleInterviewee},
		},
		Domain:            in.Domain,
		SelectedQuestions: domain.CloneQuestions(in.Questions),
		Status:            domain.RoomPending,
		CreatedAt:         m.now().UTC(),
	}}
	v, loaded := m.rooms.LoadOrStore(id, fresh)
	if !loaded {
		metrics.RoomTransitionsTotal.WithLabelValues(string(domain.RoomPending)).Inc()
		m.log.Info().Str("room", string(id)).Str("inviter", string(in.InviterID)).Str("invitee", string(in.InviteeID)).Msg("room opened")
		return fresh.room.Clone(), nil
	}

	e := v.(*roomEntry)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.room.CreatedBy != in.InviterID {
		return domain.Room{}, domain.ErrNotAuthorized
	}
	if e.room.Status != domain.RoomPending {
		return domain.Room{}, fmt.Errorf("open room in %s: %w", e.room.Status, domain.ErrInvalidRoomState)
	}
	if seated, ok := e.room.Other(in.InviterID); ok && seated.UserID != in.InviteeID {
		return domain.Room{}, fmt.Errorf("room already seats %s: %w", seated.UserID, domain.ErrInvalidRoomState)
	}
	e.room.Participants = []domain.Participant{
		{UserID: in.InviterID, Role: domain.RoleInterviewer, Joined: joined(e.room, in.InviterID)},
		{UserID: in.InviteeID, Role: domain.RoleInterviewee, Joined: joined(e.room, in.InviteeID)},
	}
	if len(e.room.SelectedQuestions) == 0 {
		e.room.SelectedQuestions = domain.CloneQuestions(in.Questions)
	}
	if e.room.Domain == "" {
		e.room.Domain = in.Domain
	}
	m.log.Info().Str("room", string(id)).Str("invitee", string(in.InviteeID)).Msg("pre-created room opened")
	return e.room.Clone(), nil
}

func joined(room domain.Room, uid domain.UserID) bool {
	p, ok := room.Participant(uid)
	return ok && p.Joined
}

// Join binds uid's live channel to the room. The first join moves the room
// to waiting, the second distinct one to active and starts the role clock.
func (m *Manager) Join(ctx context.Context, roomID domain.RoomID, uid domain.UserID) (domain.Room, error) {
	e, ok := m.load(roomID)
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	ch, online := m.deps.Presence.Lookup(uid)
	if !online {
		return domain.Room{}, domain.ErrParticipantOffline
	}

	e.mu.Lock()
	p, ok := e.room.Participant(uid)
	if !ok {
		e.mu.Unlock()
		return domain.Room{}, domain.ErrNotAuthorized
	}
	if e.room.Status.Terminal() {
		status := e.room.Status
		e.mu.Unlock()
		return domain.Room{}, fmt.Errorf("join room in %s: %w", status, domain.ErrInvalidRoomState)
	}
	p.Joined = true
	switch {
	case len(e.room.Participants) == 2 && e.room.JoinedCount() == 2 && e.room.Status != domain.RoomActive:
		m.transitionLocked(e, domain.RoomActive)
		now := m.now().UTC()
		e.room.StartTime = now
		e.room.RoleSwitchDeadline = now.Add(m.cfg.RoleSwitchWindow)
		m.armRoleSwitchLocked(e)
		m.log.Info().Str("room", string(roomID)).Msg("room active")
	case e.room.Status == domain.RoomPending:
		m.transitionLocked(e, domain.RoomWaiting)
	}
	snap := e.room.Clone()
	e.mu.Unlock()

	m.deps.Relay.Join(roomID, ch)
	if other, ok := snap.Other(uid); ok {
		m.notify(other.UserID, domain.ParticipantJoined{
			Type:   domain.NoteParticipantJoined,
			RoomID: roomID,
			UserID: uid,
			Status: snap.Status,
		})
	}
	m.log.Debug().Str("room", string(roomID)).Str("user", string(uid)).Str("status", string(snap.Status)).Msg("participant joined")
	return snap, nil
}

// End completes an active room on behalf of one participant.
func (m *Manager) End(ctx context.Context, roomID domain.RoomID, uid domain.UserID) (domain.Room, error) {
	e, ok := m.load(roomID)
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	e.mu.Lock()
	if _, ok := e.room.Participant(uid); !ok {
		e.mu.Unlock()
		return domain.Room{}, domain.ErrNotAuthorized
	}
	if e.room.Status.Terminal() {
		e.mu.Unlock()
		return domain.Room{}, domain.ErrAlreadyResolved
	}
	if !m.completeLocked(e) {
		status := e.room.Status
		e.mu.Unlock()
		return domain.Room{}, fmt.Errorf("end room in %s: %w", status, domain.ErrInvalidRoomState)
	}
	snap := e.room.Clone()
	e.mu.Unlock()

	m.finish(ctx, snap, uid)
	return snap, nil
}

// Cancel abandons a room that never became active.
func (m *Manager) Cancel(ctx context.Context, roomID domain.RoomID, uid domain.UserID) (domain.Room, error) {
	return m.abort(ctx, roomID, uid, domain.RoomCancelled)
}

// Reject marks a room whose invitation was turned down.
func (m *Manager) Reject(ctx context.Context, roomID domain.RoomID) (domain.Room, error) {
	return m.abort(ctx, roomID, "", domain.RoomRejected)
}

func (m *Manager) abort(ctx context.Context, roomID domain.RoomID, uid domain.UserID, next domain.RoomStatus) (domain.Room, error) {
	e, ok := m.load(roomID)
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	e.mu.Lock()
	if uid != "" {
		if _, ok := e.room.Participant(uid); !ok {
			e.mu.Unlock()
			return domain.Room{}, domain.ErrNotAuthorized
		}
	}
	if e.room.Status.Terminal() {
		e.mu.Unlock()
		return domain.Room{}, domain.ErrAlreadyResolved
	}
	if !m.transitionLocked(e, next) {
		status := e.room.Status
		e.mu.Unlock()
		return domain.Room{}, fmt.Errorf("%s room in %s: %w", next, status, domain.ErrInvalidRoomState)
	}
	e.room.EndTime = m.now().UTC()
	snap := e.room.Clone()
	e.mu.Unlock()

	m.finish(ctx, snap, uid)
	return snap, nil
}

// completeLocked moves an active room to completed.
func (m *Manager) completeLocked(e *roomEntry) bool {
	if !m.transitionLocked(e, domain.RoomCompleted) {
		return false
	}
	e.room.EndTime = m.now().UTC()
	return true
}

// finish runs the side effects of a terminal transition: archive the
// snapshot, tell everyone but the actor, and unbind live channels.
func (m *Manager) finish(ctx context.Context, snap domain.Room, actor domain.UserID) {
	m.persist(ctx, snap)
	for _, p := range snap.Participants {
		if ch, ok := m.deps.Presence.Lookup(p.UserID); ok {
			m.deps.Relay.Leave(snap.ID, ch)
		}
		if p.UserID == actor {
			continue
		}
		m.notify(p.UserID, domain.SessionEnded{
			Type:    domain.NoteSessionEnded,
			RoomID:  snap.ID,
			Status:  snap.Status,
			EndedBy: actor,
		})
	}
	m.log.Info().Str("room", string(snap.ID)).Str("status", string(snap.Status)).Dur("elapsed", elapsed(snap)).Msg("room finished")
}

func elapsed(r domain.Room) time.Duration {
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

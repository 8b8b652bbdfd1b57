// Package invite runs the invitation handshake: propose, respond, cancel
// and expire. Every terminal transition is a compare-and-set under the
// invitation's own lock; side effects run after the lock is released.
package invite

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkeye/peerview/internal/app/session"
	"github.com/dkeye/peerview/internal/core"
	"github.com/dkeye/peerview/internal/domain"
	"github.com/dkeye/peerview/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Presence reports whether a user holds a live channel.
type Presence interface {
	Online(uid domain.UserID) bool
}

// Rooms is the part of the session manager the coordinator drives.
type Rooms interface {
	Get(roomID domain.RoomID) (domain.Room, error)
	Open(ctx context.Context, in session.OpenInput) (domain.Room, error)
	Join(ctx context.Context, roomID domain.RoomID, uid domain.UserID) (domain.Room, error)
	Reject(ctx context.Context, roomID domain.RoomID) (domain.Room, error)
}

type Config struct {
	TTL           time.Duration
	QuestionCount int
	// Retention keeps resolved invitations readable for this long. Zero keeps
	// them until Close.
	Retention time.Duration
}

type Deps struct {
	Presence  Presence
	Rooms     Rooms
	Notifier  core.Notifier
	Users     core.UserDirectory
	Questions core.QuestionBank
}

// Outcome is the state an invitation ended in. AlreadyResolved is set when
// the caller lost the race and observes someone else's decision.
type Outcome struct {
	Invitation      domain.Invitation
	Room            domain.Room
	AlreadyResolved bool
}

type entry struct {
	mu      sync.Mutex
	inv     domain.Invitation
	inviter domain.UserSummary
	timer   *time.Timer
}

type Coordinator struct {
	cfg  Config
	deps Deps
	log  zerolog.Logger

	now       func() time.Time
	newID     func() string
	afterFunc func(time.Duration, func()) *time.Timer

	invitations sync.Map // domain.InvitationID -> *entry
	byRoom      sync.Map // domain.RoomID -> domain.InvitationID
	pending     sync.Map // pendingKey -> domain.InvitationID
	closed      atomic.Bool
}

// pendingKey identifies the (inviter, invitee, room) triple that may hold at
// most one pending invitation.
type pendingKey struct {
	inviter domain.UserID
	invitee domain.UserID
	room    domain.RoomID
}

func keyOf(inv domain.Invitation) pendingKey {
	return pendingKey{inviter: inv.InviterID, invitee: inv.InviteeID, room: inv.RoomID}
}

func NewCoordinator(cfg Config, deps Deps, logger zerolog.Logger) *Coordinator {
	if cfg.TTL <= 0 {
		cfg.TTL = domain.DefaultInvitationTTL
	}
	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = session.DefaultQuestionCount
	}
	return &Coordinator{
		cfg:       cfg,
		deps:      deps,
		log:       logger.With().Str("module", "app.invite").Logger(),
		now:       time.Now,
		newID:     uuid.NewString,
		afterFunc: time.AfterFunc,
	}
}

// Get returns a copy of the invitation, expiring it first if due.
func (c *Coordinator) Get(id domain.InvitationID) (domain.Invitation, error) {
	e, ok := c.load(id)
	if !ok {
		return domain.Invitation{}, domain.ErrInvitationNotFound
	}
	e.mu.Lock()
	expired := c.expireIfDueLocked(e)
	inv := e.inv.Clone()
	e.mu.Unlock()
	if expired {
		c.announceExpired(inv)
	}
	return inv, nil
}

// latestForRoom returns the most recent invitation issued for roomID.
func (c *Coordinator) latestForRoom(roomID domain.RoomID) (domain.Invitation, error) {
	v, ok := c.byRoom.Load(roomID)
	if !ok {
		return domain.Invitation{}, domain.ErrInvitationNotFound
	}
	return c.Get(v.(domain.InvitationID))
}

// PendingFor lists the invitations still waiting on uid's answer.
func (c *Coordinator) PendingFor(uid domain.UserID) []domain.Invitation {
	var out []domain.Invitation
	var expired []domain.Invitation
	c.invitations.Range(func(_, v any) bool {
		e := v.(*entry)
		e.mu.Lock()
		if e.inv.InviteeID == uid {
			if c.expireIfDueLocked(e) {
				expired = append(expired, e.inv.Clone())
			} else if e.inv.Status == domain.InvitationPending {
				out = append(out, e.inv.Clone())
			}
		}
		e.mu.Unlock()
		return true
	})
	for _, inv := range expired {
		c.announceExpired(inv)
	}
	return out
}

// Redeliver pushes every pending prompt addressed to uid again. Used when
// the invitee reconnects.
func (c *Coordinator) Redeliver(uid domain.UserID) int {
	n := 0
	for _, inv := range c.PendingFor(uid) {
		e, ok := c.load(inv.ID)
		if !ok {
			continue
		}
		e.mu.Lock()
		inviter := e.inviter
		e.mu.Unlock()
		if c.notify(uid, received(inv, inviter)) {
			n++
		}
	}
	if n > 0 {
		c.log.Info().Str("user", string(uid)).Int("count", n).Msg("pending invitations redelivered")
	}
	return n
}

// Close stops every expiry timer.
func (c *Coordinator) Close() {
	c.closed.Store(true)
	c.invitations.Range(func(_, v any) bool {
		e := v.(*entry)
		e.mu.Lock()
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		e.mu.Unlock()
		return true
	})
	c.log.Info().Msg("invitation coordinator closed")
}

func (c *Coordinator) load(id domain.InvitationID) (*entry, bool) {
	v, ok := c.invitations.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*entry), true
}

// resolveLocked is the single compare-and-set out of pending. It reports
// whether this call made the transition. Caller holds e.mu.
func (c *Coordinator) resolveLocked(e *entry, next domain.InvitationStatus) bool {
	if !e.inv.Status.CanTransitionTo(next) {
		return false
	}
	e.inv.Status = next
	e.inv.ResolvedAt = c.now().UTC()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	c.pending.CompareAndDelete(keyOf(e.inv), e.inv.ID)
	metrics.InvitationsTotal.WithLabelValues(string(next)).Inc()
	if c.cfg.Retention > 0 && !c.closed.Load() {
		id, roomID := e.inv.ID, e.inv.RoomID
		c.afterFunc(c.cfg.Retention, func() { c.forget(id, roomID, e) })
	}
	return true
}

func (c *Coordinator) forget(id domain.InvitationID, roomID domain.RoomID, e *entry) {
	c.invitations.CompareAndDelete(id, e)
	c.byRoom.CompareAndDelete(roomID, id)
}

// expireIfDueLocked applies the lazy expiry check. Caller holds e.mu.
func (c *Coordinator) expireIfDueLocked(e *entry) bool {
	if !e.inv.Expired(c.now()) {
		return false
	}
	return c.resolveLocked(e, domain.InvitationExpired)
}

// expire is the timer path. The timer is the deadline, so a pending
// invitation expires regardless of clock skew.
func (c *Coordinator) expire(id domain.InvitationID) {
	if c.closed.Load() {
		return
	}
	e, ok := c.load(id)
	if !ok {
		return
	}
	e.mu.Lock()
	won := c.resolveLocked(e, domain.InvitationExpired)
	inv := e.inv.Clone()
	e.mu.Unlock()
	if won {
		c.announceExpired(inv)
	}
}

func (c *Coordinator) announceExpired(inv domain.Invitation) {
	c.broadcast(inv, domain.NoteInvitationExpired)
	c.log.Info().Str("invitation", string(inv.ID)).Str("inviter", string(inv.InviterID)).Str("invitee", string(inv.InviteeID)).Msg("invitation expired")
}

// broadcast tells both parties the terminal outcome. Role is filled per
// recipient for accepted invitations.
func (c *Coordinator) broadcast(inv domain.Invitation, typ domain.NotificationType) {
	for _, uid := range []domain.UserID{inv.InviterID, inv.InviteeID} {
		note := domain.InvitationResolved{
			Type:         typ,
			InvitationID: inv.ID,
			RoomID:       inv.RoomID,
			Status:       inv.Status,
		}
		if inv.Status == domain.InvitationAccepted {
			note.Role = domain.RoleInterviewee
			if uid == inv.InviterID {
				note.Role = domain.RoleInterviewer
			}
		}
		c.notify(uid, note)
	}
}

func (c *Coordinator) notify(uid domain.UserID, v any) bool {
	if c.deps.Notifier == nil {
		return false
	}
	return c.deps.Notifier.Notify(uid, v)
}

func received(inv domain.Invitation, inviter domain.UserSummary) domain.InvitationReceived {
	return domain.InvitationReceived{
		Type:          domain.NoteInvitationReceived,
		InvitationID:  inv.ID,
		RoomID:        inv.RoomID,
		Inviter:       inviter,
		Domain:        inv.Domain,
		QuestionCount: len(inv.SelectedQuestions),
		ExpiresAt:     inv.ExpiresAt,
	}
}

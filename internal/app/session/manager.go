// Package session owns interview rooms: their status machine, the timed
// role switch and feedback aggregation.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkeye/peerview/internal/core"
	"github.com/dkeye/peerview/internal/domain"
	"github.com/dkeye/peerview/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Presence is the part of the presence registry the manager needs.
type Presence interface {
	Lookup(uid domain.UserID) (core.Channel, bool)
}

// Relay is the part of the signaling relay the manager needs.
type Relay interface {
	Join(roomID domain.RoomID, ch core.Channel)
	Leave(roomID domain.RoomID, ch core.Channel)
}

type Config struct {
	RoleSwitchWindow time.Duration
	QuestionCount    int
}

type Deps struct {
	Presence  Presence
	Relay     Relay
	Notifier  core.Notifier
	Users     core.UserDirectory
	Archive   core.RoomArchive
	Questions core.QuestionBank
	Ledger    core.RatingLedger
}

// roomEntry guards one room. gen identifies the live role-switch timer;
// a firing carrying an older generation is ignored.
type roomEntry struct {
	mu    sync.Mutex
	room  domain.Room
	timer *time.Timer
	gen   uint64
}

type Manager struct {
	cfg  Config
	deps Deps
	log  zerolog.Logger

	now       func() time.Time
	newID     func() domain.RoomID
	afterFunc func(time.Duration, func()) *time.Timer

	rooms  sync.Map // domain.RoomID -> *roomEntry
	closed atomic.Bool
}

func NewManager(cfg Config, deps Deps, logger zerolog.Logger) *Manager {
	if cfg.RoleSwitchWindow <= 0 {
		cfg.RoleSwitchWindow = domain.DefaultRoleSwitchWindow
	}
	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = DefaultQuestionCount
	}
	return &Manager{
		cfg:   cfg,
		deps:  deps,
		log:   logger.With().Str("module", "app.session").Logger(),
		now:   time.Now,
		newID: func() domain.RoomID { return domain.RoomID(uuid.NewString()) },

		afterFunc: time.AfterFunc,
	}
}

// DefaultQuestionCount is how many questions a room gets when the caller
// does not pick any.
const DefaultQuestionCount = 5

// Get returns a deep copy of the room.
func (m *Manager) Get(roomID domain.RoomID) (domain.Room, error) {
	e, ok := m.load(roomID)
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.room.Clone(), nil
}

// Close stops every role-switch timer. Rooms stay readable.
func (m *Manager) Close() {
	m.closed.Store(true)
	m.rooms.Range(func(_, v any) bool {
		e := v.(*roomEntry)
		e.mu.Lock()
		m.stopTimerLocked(e)
		e.mu.Unlock()
		return true
	})
	m.log.Info().Msg("session manager closed")
}

func (m *Manager) load(roomID domain.RoomID) (*roomEntry, bool) {
	v, ok := m.rooms.Load(roomID)
	if !ok {
		return nil, false
	}
	return v.(*roomEntry), true
}

// transitionLocked moves the room to next. Caller holds e.mu.
func (m *Manager) transitionLocked(e *roomEntry, next domain.RoomStatus) bool {
	if !e.room.Status.CanTransitionTo(next) {
		return false
	}
	e.room.Status = next
	metrics.RoomTransitionsTotal.WithLabelValues(string(next)).Inc()
	if next.Terminal() {
		m.stopTimerLocked(e)
	}
	return true
}

func (m *Manager) notify(uid domain.UserID, v any) {
	if m.deps.Notifier == nil || uid == "" {
		return
	}
	m.deps.Notifier.Notify(uid, v)
}

func (m *Manager) persist(ctx context.Context, room domain.Room) {
	if m.deps.Archive == nil {
		return
	}
	start := time.Now()
	err := m.deps.Archive.PersistRoomSnapshot(ctx, room)
	metrics.CollaboratorDuration.WithLabelValues("persist_room_snapshot").Observe(time.Since(start).Seconds())
	if err != nil {
		m.log.Error().Err(err).Str("room", string(room.ID)).Msg("persist room snapshot")
	}
}

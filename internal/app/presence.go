package app

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkeye/peerview/internal/core"
	"github.com/dkeye/peerview/internal/domain"
	"github.com/dkeye/peerview/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Connection binds a user identity to one live channel.
type Connection struct {
	UserID      domain.UserID
	Channel     core.Channel
	ConnectedAt time.Time
}

// Presence tracks which users hold a live channel. At most one Connection
// exists per user; the latest MarkOnline wins.
type Presence struct {
	byUser    sync.Map // domain.UserID -> *Connection
	byChannel sync.Map // core.Channel -> *Connection
	online    atomic.Int64
	now       func() time.Time
}

func NewPresence() *Presence {
	return &Presence{now: time.Now}
}

// MarkOnline records ch as uid's live channel, replacing any previous one.
// The replaced channel is not closed here; its owner notices on its own.
func (p *Presence) MarkOnline(uid domain.UserID, ch core.Channel) *Connection {
	conn := &Connection{UserID: uid, Channel: ch, ConnectedAt: p.now().UTC()}
	p.byChannel.Store(ch, conn)

	old, loaded := p.byUser.Swap(uid, conn)
	if !loaded {
		p.online.Add(1)
		metrics.PresenceOnline.Inc()
		log.Info().Str("module", "app.presence").Str("user", string(uid)).Msg("online")
		return conn
	}
	prev := old.(*Connection)
	if prev.Channel != ch {
		p.byChannel.CompareAndDelete(prev.Channel, prev)
	}
	log.Info().Str("module", "app.presence").Str("user", string(uid)).Msg("channel replaced")
	return conn
}

// MarkOffline drops the mapping owned by ch. It reports false when ch is
// unknown or was already replaced by a newer connect.
func (p *Presence) MarkOffline(ch core.Channel) bool {
	v, ok := p.byChannel.LoadAndDelete(ch)
	if !ok {
		return false
	}
	conn := v.(*Connection)
	if !p.byUser.CompareAndDelete(conn.UserID, conn) {
		log.Debug().Str("module", "app.presence").Str("user", string(conn.UserID)).Msg("stale channel offline ignored")
		return false
	}
	p.online.Add(-1)
	metrics.PresenceOnline.Dec()
	log.Info().Str("module", "app.presence").Str("user", string(conn.UserID)).Msg("offline")
	return true
}

// Lookup returns uid's live channel. Not found is an expected outcome.
func (p *Presence) Lookup(uid domain.UserID) (core.Channel, bool) {
	v, ok := p.byUser.Load(uid)
	if !ok {
		return nil, false
	}
	return v.(*Connection).Channel, true
}

// Owner returns the user currently bound to ch.
func (p *Presence) Owner(ch core.Channel) (domain.UserID, bool) {
	v, ok := p.byChannel.Load(ch)
	if !ok {
		return "", false
	}
	return v.(*Connection).UserID, true
}

func (p *Presence) Online(uid domain.UserID) bool {
	_, ok := p.byUser.Load(uid)
	return ok
}

func (p *Presence) Count() int {
	return int(p.online.Load())
}

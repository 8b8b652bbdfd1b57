package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/peerview/internal/core"
	"github.com/dkeye/peerview/internal/domain"
	"github.com/rs/zerolog"
)

type stubChannel struct{ owner domain.UserID }

func (*stubChannel) TrySend(core.Frame) error { return nil }
func (*stubChannel) Close()                   {}

type stubPresence struct {
	mu       sync.Mutex
	channels map[domain.UserID]core.Channel
}

func newStubPresence(online ...domain.UserID) *stubPresence {
	p := &stubPresence{channels: map[domain.UserID]core.Channel{}}
	for _, uid := range online {
		p.channels[uid] = &stubChannel{owner: uid}
	}
	return p
}

func (p *stubPresence) Lookup(uid domain.UserID) (core.Channel, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch, ok := p.channels[uid]
	return ch, ok
}

type stubRelay struct {
	mu     sync.Mutex
	joined map[core.Channel]domain.RoomID
}

func newStubRelay() *stubRelay {
	return &stubRelay{joined: map[core.Channel]domain.RoomID{}}
}

func (r *stubRelay) Join(roomID domain.RoomID, ch core.Channel) {
	r.mu.Lock()
	r.joined[ch] = roomID
	r.mu.Unlock()
}

func (r *stubRelay) Leave(roomID domain.RoomID, ch core.Channel) {
	r.mu.Lock()
	if r.joined[ch] == roomID {
		delete(r.joined, ch)
	}
	r.mu.Unlock()
}

func (r *stubRelay) roomOf(ch core.Channel) domain.RoomID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.joined[ch]
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[domain.UserID][]any
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: map[domain.UserID][]any{}}
}

func (n *recordingNotifier) Notify(uid domain.UserID, v any) bool {
	n.mu.Lock()
	n.sent[uid] = append(n.sent[uid], v)
	n.mu.Unlock()
	return true
}

func (n *recordingNotifier) of(uid domain.UserID) []any {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]any(nil), n.sent[uid]...)
}

// sumLedger averages every rating recorded for a user.
type sumLedger struct {
	mu    sync.Mutex
	sum   map[domain.UserID]int
	count map[domain.UserID]int
}

func newSumLedger() *sumLedger {
	return &sumLedger{sum: map[domain.UserID]int{}, count: map[domain.UserID]int{}}
}

func (l *sumLedger) Record(_ context.Context, uid domain.UserID, _ domain.RoomID, rating int) (float64, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sum[uid] += rating
	l.count[uid]++
	return float64(l.sum[uid]) / float64(l.count[uid]), l.count[uid], nil
}

type fixture struct {
	m        *Manager
	presence *stubPresence
	relay    *stubRelay
	notifier *recordingNotifier
	ledger   *sumLedger
	clock    time.Time
	ids      int
}

func newFixture(t *testing.T, deps Deps, online ...domain.UserID) *fixture {
	t.Helper()
	f := &fixture{
		presence: newStubPresence(online...),
		relay:    newStubRelay(),
		notifier: newRecordingNotifier(),
		ledger:   newSumLedger(),
		clock:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	deps.Presence = f.presence
	deps.Relay = f.relay
	deps.Notifier = f.notifier
	if deps.Ledger == nil {
		deps.Ledger = f.ledger
	}
	f.m = NewManager(Config{}, deps, zerolog.Nop())
	f.m.now = func() time.Time { return f.clock }
	f.m.newID = func() domain.RoomID {
		f.ids++
		return domain.RoomID("room-" + string(rune('0'+f.ids)))
	}
	t.Cleanup(f.m.Close)
	return f
}

// activeRoom opens a room for inviter/invitee and joins both.
func (f *fixture) activeRoom(t *testing.T, inviter, invitee domain.UserID) domain.Room {
	t.Helper()
	ctx := context.Background()
	room, err := f.m.Open(ctx, OpenInput{InviterID: inviter, InviteeID: invitee, Domain: "Backend"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.m.Join(ctx, room.ID, inviter); err != nil {
		t.Fatalf("join inviter: %v", err)
	}
	room, err = f.m.Join(ctx, room.ID, invitee)
	if err != nil {
		t.Fatalf("join invitee: %v", err)
	}
	if room.Status != domain.RoomActive {
		t.Fatalf("expected active room, got: %s", room.Status)
	}
	return room
}

func (f *fixture) gen(t *testing.T, id domain.RoomID) uint64 {
	t.Helper()
	e, ok := f.m.load(id)
	if !ok {
		t.Fatalf("room %s not found", id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen
}

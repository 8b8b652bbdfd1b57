package invite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/peerview/internal/app"
	"github.com/dkeye/peerview/internal/app/session"
	"github.com/dkeye/peerview/internal/core"
	"github.com/dkeye/peerview/internal/domain"
	"github.com/rs/zerolog"
)

type nopChannel struct {
	owner domain.UserID
}

func (*nopChannel) TrySend(core.Frame) error { return nil }
func (*nopChannel) Close()                   {}

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[domain.UserID][]any
}

func (n *recordingNotifier) Notify(uid domain.UserID, v any) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sent == nil {
		n.sent = map[domain.UserID][]any{}
	}
	n.sent[uid] = append(n.sent[uid], v)
	return true
}

func (n *recordingNotifier) of(uid domain.UserID) []any {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]any(nil), n.sent[uid]...)
}

// resolvedOf returns the InvitationResolved notes uid received.
func (n *recordingNotifier) resolvedOf(uid domain.UserID) []domain.InvitationResolved {
	var out []domain.InvitationResolved
	for _, v := range n.of(uid) {
		if r, ok := v.(domain.InvitationResolved); ok {
			out = append(out, r)
		}
	}
	return out
}

type ledgerStub struct{}

func (ledgerStub) Record(_ context.Context, _ domain.UserID, _ domain.RoomID, rating int) (float64, int, error) {
	return float64(rating), 1, nil
}

type fixture struct {
	c        *Coordinator
	rooms    *session.Manager
	presence *app.Presence
	notifier *recordingNotifier
	clock    time.Time
	mu       sync.Mutex
}

func newFixture(t *testing.T, deps Deps, online ...domain.UserID) *fixture {
	t.Helper()
	f := &fixture{
		presence: app.NewPresence(),
		notifier: &recordingNotifier{},
		clock:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	for _, uid := range online {
		f.presence.MarkOnline(uid, &nopChannel{owner: uid})
	}
	f.rooms = session.NewManager(session.Config{}, session.Deps{
		Presence: f.presence,
		Relay:    app.NewRelay(),
		Notifier: f.notifier,
		Ledger:   ledgerStub{},
	}, zerolog.Nop())
	deps.Presence = f.presence
	deps.Rooms = f.rooms
	deps.Notifier = f.notifier
	f.c = NewCoordinator(Config{}, deps, zerolog.Nop())
	f.c.now = f.now
	t.Cleanup(func() {
		f.c.Close()
		f.rooms.Close()
	})
	return f
}

func (f *fixture) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clock
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	f.clock = f.clock.Add(d)
	f.mu.Unlock()
}

func questions(n int) []domain.QuestionSummary {
	out := make([]domain.QuestionSummary, n)
	for i := range out {
		out[i] = domain.QuestionSummary{ID: string(rune('a' + i)), Title: "question"}
	}
	return out
}

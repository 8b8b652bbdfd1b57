package memory

import (
	"context"
	"sync"

	"github.com/dkeye/peerview/internal/domain"
)

type tally struct {
	sum   int
	count int
}

// Ledger keeps a running sum and count of ratings per user.
type Ledger struct {
	mu     sync.Mutex
	totals map[domain.UserID]tally
}

func NewLedger() *Ledger {
	return &Ledger{totals: make(map[domain.UserID]tally)}
}

func (l *Ledger) Record(_ context.Context, uid domain.UserID, _ domain.RoomID, rating int) (float64, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t := l.totals[uid]
	t.sum += rating
	t.count++
	l.totals[uid] = t
	return float64(t.sum) / float64(t.count), t.count, nil
}

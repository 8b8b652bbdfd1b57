// Package memory keeps collaborator state in process. It backs tests and
// single-node development runs.
package memory

import (
	"context"
	"sync"

	"github.com/dkeye/peerview/internal/domain"
)

// Users is an in-process user directory. Unknown users resolve to a
// summary carrying only their id.
type Users struct {
	mu    sync.RWMutex
	users map[domain.UserID]domain.UserSummary
}

func NewUsers() *Users {
	return &Users{users: make(map[domain.UserID]domain.UserSummary)}
}

// Put stores or replaces a profile summary.
func (u *Users) Put(s domain.UserSummary) {
	u.mu.Lock()
	defer u.mu.Unlock()
	s.Skills = append([]string(nil), s.Skills...)
	u.users[s.ID] = s
}

func (u *Users) FetchUserSummary(_ context.Context, uid domain.UserID) (domain.UserSummary, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	s, ok := u.users[uid]
	if !ok {
		return domain.UserSummary{ID: uid, Name: string(uid)}, nil
	}
	s.Skills = append([]string(nil), s.Skills...)
	return s, nil
}

func (u *Users) UpdateUserRating(_ context.Context, uid domain.UserID, rating float64, total int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	s, ok := u.users[uid]
	if !ok {
		s = domain.UserSummary{ID: uid, Name: string(uid)}
	}
	s.Rating = rating
	s.TotalInterviews = total
	u.users[uid] = s
	return nil
}

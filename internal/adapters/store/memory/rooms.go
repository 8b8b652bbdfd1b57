package memory

import (
	"context"
	"sync"

	"github.com/dkeye/peerview/internal/domain"
)

// Archive keeps the latest snapshot of every finished room.
type Archive struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]domain.Room
}

func NewArchive() *Archive {
	return &Archive{rooms: make(map[domain.RoomID]domain.Room)}
}

func (a *Archive) PersistRoomSnapshot(_ context.Context, room domain.Room) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rooms[room.ID] = room.Clone()
	return nil
}

func (a *Archive) Get(roomID domain.RoomID) (domain.Room, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	r, ok := a.rooms[roomID]
	if !ok {
		return domain.Room{}, false
	}
	return r.Clone(), true
}

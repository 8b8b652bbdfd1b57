package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/dkeye/peerview/internal/domain"
)

// PersistRoomSnapshot upserts the full room as JSON next to a few
// queryable columns.
func (s *Store) PersistRoomSnapshot(ctx context.Context, room domain.Room) error {
	payload, err := json.Marshal(room)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO room_snapshot (id, status, domain, created_by, started_at, ended_at, payload, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET status = excluded.status, started_at = excluded.started_at,
            ended_at = excluded.ended_at, payload = excluded.payload, updated_at = excluded.updated_at`,
		string(room.ID), string(room.Status), room.Domain, string(room.CreatedBy),
		formatTime(room.StartTime), formatTime(room.EndTime), string(payload), time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetRoomSnapshot returns the archived room.
func (s *Store) GetRoomSnapshot(ctx context.Context, roomID domain.RoomID) (domain.Room, error) {
	row := s.db.QueryRowContext(ctx, "SELECT payload FROM room_snapshot WHERE id = ? LIMIT 1", string(roomID))
	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Room{}, domain.ErrRoomNotFound
		}
		return domain.Room{}, err
	}
	var room domain.Room
	if err := json.Unmarshal([]byte(payload), &room); err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

// formatTime converts a zero time into NULL.
func formatTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

package sqlitestore

import (
	"context"
	"time"

	"github.com/dkeye/peerview/internal/domain"
)

// Record inserts one rating and returns the user's mean and count in the
// same transaction.
func (s *Store) Record(ctx context.Context, uid domain.UserID, roomID domain.RoomID, rating int) (float64, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "INSERT INTO rating (user_id, room_id, rating, created_at) VALUES (?, ?, ?, ?)",
		string(uid), string(roomID), rating, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return 0, 0, err
	}
	var mean float64
	var total int
	row := tx.QueryRowContext(ctx, "SELECT AVG(rating), COUNT(*) FROM rating WHERE user_id = ?", string(uid))
	if err := row.Scan(&mean, &total); err != nil {
		return 0, 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return mean, total, nil
}

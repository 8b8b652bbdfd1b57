package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/dkeye/peerview/internal/domain"
)

// PutUser upserts a profile summary.
func (s *Store) PutUser(ctx context.Context, u domain.UserSummary) error {
	skills, err := json.Marshal(append([]string{}, u.Skills...))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO user_summary (id, name, domain, skills, rating, total_interviews, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET name = excluded.name, domain = excluded.domain, skills = excluded.skills,
            rating = excluded.rating, total_interviews = excluded.total_interviews, updated_at = excluded.updated_at`,
		string(u.ID), u.Name, u.Domain, string(skills), u.Rating, u.TotalInterviews, time.Now().UTC().Format(time.RFC3339))
	return err
}

// FetchUserSummary returns the stored summary. An unknown user yields an
// id-only summary.
func (s *Store) FetchUserSummary(ctx context.Context, uid domain.UserID) (domain.UserSummary, error) {
	row := s.db.QueryRowContext(ctx, "SELECT name, domain, skills, rating, total_interviews FROM user_summary WHERE id = ? LIMIT 1", string(uid))
	u := domain.UserSummary{ID: uid}
	var skills string
	if err := row.Scan(&u.Name, &u.Domain, &skills, &u.Rating, &u.TotalInterviews); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, nil
		}
		return domain.UserSummary{}, err
	}
	_ = json.Unmarshal([]byte(skills), &u.Skills)
	return u, nil
}

func (s *Store) UpdateUserRating(ctx context.Context, uid domain.UserID, rating float64, total int) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO user_summary (id, rating, total_interviews, updated_at) VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET rating = excluded.rating, total_interviews = excluded.total_interviews, updated_at = excluded.updated_at`,
		string(uid), rating, total, time.Now().UTC().Format(time.RFC3339))
	return err
}

package sqlitestore

import (
	"context"

	"github.com/dkeye/peerview/internal/domain"
)

// AddQuestion upserts a question into a domain at position.
func (s *Store) AddQuestion(ctx context.Context, domainName string, position int, q domain.QuestionSummary) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO question (id, domain, title, difficulty, position) VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET domain = excluded.domain, title = excluded.title,
            difficulty = excluded.difficulty, position = excluded.position`,
		q.ID, domainName, q.Title, q.Difficulty, position)
	return err
}

// FetchQuestionSet returns up to count questions of a domain in position order.
func (s *Store) FetchQuestionSet(ctx context.Context, domainName string, count int) ([]domain.QuestionSummary, error) {
	if count <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, difficulty FROM question WHERE domain = ? COLLATE NOCASE ORDER BY position, id LIMIT ?", domainName, count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.QuestionSummary
	for rows.Next() {
		var q domain.QuestionSummary
		if err := rows.Scan(&q.ID, &q.Title, &q.Difficulty); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

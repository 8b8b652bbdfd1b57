package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dkeye/peerview/internal/domain"
	"github.com/dkeye/peerview/internal/metrics"
)

type FeedbackInput struct {
	RoomID   domain.RoomID
	FromUser domain.UserID
	ToUser   domain.UserID
	Rating   int
	Comments string
}

// FeedbackResult carries the rated user's aggregate after the entry was
// recorded.
type FeedbackResult struct {
	Room            domain.Room
	Rating          float64
	TotalInterviews int
}

// SubmitFeedback appends one rating from a participant to the other. A room
// still active is completed by it.
func (m *Manager) SubmitFeedback(ctx context.Context, in FeedbackInput) (FeedbackResult, error) {
	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return FeedbackResult{}, domain.ErrInvalidRating
	}
	e, ok := m.load(in.RoomID)
	if !ok {
		return FeedbackResult{}, domain.ErrRoomNotFound
	}

	e.mu.Lock()
	err := e.validFeedback(in)
	e.mu.Unlock()
	if err != nil {
		return FeedbackResult{}, err
	}

	// The ledger goes first so a failed record leaves the room untouched.
	start := time.Now()
	mean, total, err := m.deps.Ledger.Record(ctx, in.ToUser, in.RoomID, in.Rating)
	metrics.CollaboratorDuration.WithLabelValues("record_rating").Observe(time.Since(start).Seconds())
	if err != nil {
		return FeedbackResult{}, fmt.Errorf("record rating: %w", err)
	}

	e.mu.Lock()
	if err := e.validFeedback(in); err != nil {
		e.mu.Unlock()
		return FeedbackResult{}, err
	}
	e.room.Feedback = append(e.room.Feedback, domain.Feedback{
		FromUser:    in.FromUser,
		ToUser:      in.ToUser,
		Rating:      in.Rating,
		Comments:    in.Comments,
		SubmittedAt: m.now().UTC(),
	})
	completed := e.room.Status == domain.RoomActive && m.completeLocked(e)
	snap := e.room.Clone()
	e.mu.Unlock()

	if completed {
		m.finish(ctx, snap, in.FromUser)
	} else {
		m.persist(ctx, snap)
	}
	metrics.FeedbackSubmittedTotal.Inc()

	if m.deps.Users != nil {
		start = time.Now()
		err = m.deps.Users.UpdateUserRating(ctx, in.ToUser, mean, total)
		metrics.CollaboratorDuration.WithLabelValues("update_user_rating").Observe(time.Since(start).Seconds())
		if err != nil {
			m.log.Error().Err(err).Str("user", string(in.ToUser)).Msg("update user rating")
		}
	}
	m.log.Info().
		Str("room", string(in.RoomID)).
		Str("from", string(in.FromUser)).
		Str("to", string(in.ToUser)).
		Int("rating", in.Rating).
		Float64("mean", mean).
		Int("total", total).
		Msg("feedback recorded")
	return FeedbackResult{Room: snap, Rating: mean, TotalInterviews: total}, nil
}

// validFeedback checks that in names both participants of a room that can
// take ratings. Caller holds e.mu.
func (e *roomEntry) validFeedback(in FeedbackInput) error {
	_, fromOK := e.room.Participant(in.FromUser)
	_, toOK := e.room.Participant(in.ToUser)
	if !fromOK || !toOK || in.FromUser == in.ToUser {
		return domain.ErrNotAuthorized
	}
	if e.room.Status != domain.RoomActive && e.room.Status != domain.RoomCompleted {
		return fmt.Errorf("feedback on room in %s: %w", e.room.Status, domain.ErrInvalidRoomState)
	}
	return nil
}

type ReportInput struct {
	RoomID         domain.RoomID
	ReporterID     domain.UserID
	ReportedUserID domain.UserID
	Reason         string
}

// SubmitReport appends a misconduct report. The room status is untouched.
// An empty ReportedUserID targets the other participant.
func (m *Manager) SubmitReport(ctx context.Context, in ReportInput) (domain.Room, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return domain.Room{}, domain.ErrEmptyReason
	}
	e, ok := m.load(in.RoomID)
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	other, ok := e.room.Other(in.ReporterID)
	if !ok {
		return domain.Room{}, domain.ErrNotAuthorized
	}
	reported := in.ReportedUserID
	if reported == "" {
		reported = other.UserID
	}
	if reported != other.UserID {
		return domain.Room{}, domain.ErrNotAuthorized
	}
	e.room.Reports = append(e.room.Reports, domain.Report{
		ReporterID:     in.ReporterID,
		ReportedUserID: reported,
		Reason:         reason,
		CreatedAt:      m.now().UTC(),
	})
	m.log.Warn().Str("room", string(in.RoomID)).Str("reporter", string(in.ReporterID)).Str("reported", string(reported)).Msg("report filed")
	return e.room.Clone(), nil
}

func (m *Manager) fetchQuestions(ctx context.Context, domainName string, count int) []domain.QuestionSummary {
	if m.deps.Questions == nil {
		return nil
	}
	start := time.Now()
	qs, err := m.deps.Questions.FetchQuestionSet(ctx, domainName, count)
	metrics.CollaboratorDuration.WithLabelValues("fetch_question_set").Observe(time.Since(start).Seconds())
	if err != nil {
		m.log.Warn().Err(err).Str("domain", domainName).Msg("fetch question set")
		return nil
	}
	return qs
}

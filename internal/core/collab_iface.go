package core

//go:generate mockgen -source=collab_iface.go -destination=mocks/collab_mock.go -package=mocks

import (
	"context"

	"github.com/dkeye/peerview/internal/domain"
)

// UserDirectory is the external user-record store.
type UserDirectory interface {
	FetchUserSummary(ctx context.Context, uid domain.UserID) (domain.UserSummary, error)
	UpdateUserRating(ctx context.Context, uid domain.UserID, rating float64, totalInterviews int) error
}

// RoomArchive receives finished rooms for durable storage.
type RoomArchive interface {
	PersistRoomSnapshot(ctx context.Context, room domain.Room) error
}

// QuestionBank hands out question summaries for a domain.
type QuestionBank interface {
	FetchQuestionSet(ctx context.Context, domainName string, count int) ([]domain.QuestionSummary, error)
}

// RatingLedger keeps every rating directed at a user across all rooms.
// Record stores one entry and returns the user's mean rating and entry count.
type RatingLedger interface {
	Record(ctx context.Context, uid domain.UserID, roomID domain.RoomID, rating int) (mean float64, total int, err error)
}

// Notifier delivers an outbound notification to a user's live channel.
// It reports false when the user is offline or the channel refused the frame.
type Notifier interface {
	Notify(uid domain.UserID, v any) bool
}

package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dkeye/peerview/internal/domain"
	_ "modernc.org/sqlite"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := InitDB(db); err != nil {
		t.Fatalf("init db: %v", err)
	}
	return New(db)
}

func TestInitDBIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := InitDB(s.db); err != nil {
		t.Fatalf("second init: %v", err)
	}
}

func TestRecordAveragesAcrossRooms(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, _, err := s.Record(ctx, "bob", "r1", 5); err != nil {
		t.Fatalf("record: %v", err)
	}
	mean, total, err := s.Record(ctx, "bob", "r2", 3)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if mean != 4.0 || total != 2 {
		t.Fatalf("expected 4.0 over 2, got %v over %d", mean, total)
	}
	if mean, total, _ := s.Record(ctx, "alice", "r1", 2); mean != 2 || total != 1 {
		t.Fatalf("expected ratings kept per user, got %v over %d", mean, total)
	}
}

func TestUserSummaryRoundTripAndRatingUpdate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.PutUser(ctx, domain.UserSummary{ID: "bob", Name: "Bob", Domain: "Backend", Skills: []string{"go", "sql"}}); err != nil {
		t.Fatalf("put user: %v", err)
	}
	if err := s.UpdateUserRating(ctx, "bob", 4.5, 3); err != nil {
		t.Fatalf("update rating: %v", err)
	}
	u, err := s.FetchUserSummary(ctx, "bob")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if u.Name != "Bob" || len(u.Skills) != 2 || u.Rating != 4.5 || u.TotalInterviews != 3 {
		t.Fatalf("unexpected summary: %+v", u)
	}

	unknown, err := s.FetchUserSummary(ctx, "ghost")
	if err != nil || unknown.ID != "ghost" || unknown.Name != "" {
		t.Fatalf("expected id-only summary, got %+v %v", unknown, err)
	}
}

func TestRoomSnapshotUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	room := domain.Room{
		ID:        "r1",
		CreatedBy: "alice",
		Status:    domain.RoomActive,
		StartTime: start,
		Participants: []domain.Participant{
			{UserID: "alice", Role: domain.RoleInterviewer},
			{UserID: "bob", Role: domain.RoleInterviewee},
		},
	}
	if err := s.PersistRoomSnapshot(ctx, room); err != nil {
		t.Fatalf("persist: %v", err)
	}
	room.Status = domain.RoomCompleted
	room.EndTime = start.Add(time.Hour)
	room.Feedback = []domain.Feedback{{FromUser: "alice", ToUser: "bob", Rating: 5}}
	if err := s.PersistRoomSnapshot(ctx, room); err != nil {
		t.Fatalf("persist again: %v", err)
	}

	got, err := s.GetRoomSnapshot(ctx, "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.RoomCompleted || len(got.Feedback) != 1 || !got.EndTime.Equal(room.EndTime) {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if _, err := s.GetRoomSnapshot(ctx, "missing"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestFetchQuestionSetOrdered(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i, title := range []string{"two sum", "lru cache", "rate limiter"} {
		q := domain.QuestionSummary{ID: title, Title: title}
		if err := s.AddQuestion(ctx, "Backend", i, q); err != nil {
			t.Fatalf("add question: %v", err)
		}
	}

	got, err := s.FetchQuestionSet(ctx, "backend", 2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 || got[0].Title != "two sum" || got[1].Title != "lru cache" {
		t.Fatalf("unexpected set: %+v", got)
	}
}

package mongo

import (
	"testing"
	"time"

	"github.com/dkeye/peerview/internal/domain"
)

func TestRoomDocRoundTrip(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	room := domain.Room{
		ID:        "r1",
		CreatedBy: "alice",
		Status:    domain.RoomCompleted,
		Domain:    "Backend",
		StartTime: start,
		EndTime:   start.Add(90 * time.Minute),
		Participants: []domain.Participant{
			{UserID: "alice", Role: domain.RoleInterviewee},
			{UserID: "bob", Role: domain.RoleInterviewer},
		},
		RoleSwitches: 1,
	}

	doc := toRoomDoc(room, start)
	if doc.RoleSwitchDeadline != nil {
		t.Fatal("expected zero deadline to be omitted")
	}
	if doc.Participants[1].UserID != "bob" || doc.Participants[1].Role != "interviewer" {
		t.Fatalf("unexpected participants: %+v", doc.Participants)
	}

	got := fromRoomDoc(doc)
	if got.ID != room.ID || got.Status != room.Status || !got.EndTime.Equal(room.EndTime) {
		t.Fatalf("unexpected room: %+v", got)
	}
	if got.RoleOf("alice") != domain.RoleInterviewee || got.RoleSwitches != 1 {
		t.Fatalf("expected roles kept, got: %+v", got.Participants)
	}
	if !got.RoleSwitchDeadline.IsZero() {
		t.Fatal("expected zero deadline")
	}
}

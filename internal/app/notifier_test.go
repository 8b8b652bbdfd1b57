package app

import (
	"encoding/json"
	"testing"

	"github.com/dkeye/peerview/internal/domain"
)

func TestNotifier_DeliversToCurrentChannel(t *testing.T) {
	p := NewPresence()
	ch := newFakeChannel("a")
	p.MarkOnline("alice", ch)
	n := NewNotifier(p)

	ok := n.Notify("alice", domain.SessionEnded{Type: domain.NoteSessionEnded, RoomID: "r1", Status: domain.RoomCompleted})
	if !ok {
		t.Fatal("expected delivery")
	}
	frames := ch.received()
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got: %d", len(frames))
	}
	var got map[string]any
	if err := json.Unmarshal(frames[0], &got); err != nil {
		t.Fatalf("expected json frame, got: %v", err)
	}
	if got["type"] != "sessionEnded" || got["roomId"] != "r1" {
		t.Fatalf("unexpected frame: %v", got)
	}
}

func TestNotifier_OfflineAndFull(t *testing.T) {
	p := NewPresence()
	n := NewNotifier(p)
	if n.Notify("ghost", map[string]string{"type": "x"}) {
		t.Fatal("expected offline notify to report false")
	}

	ch := newFakeChannel("a")
	ch.full = true
	p.MarkOnline("alice", ch)
	if n.Notify("alice", map[string]string{"type": "x"}) {
		t.Fatal("expected full channel to report false")
	}
}

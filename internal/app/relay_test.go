package app

import (
	"errors"
	"testing"

	"github.com/dkeye/peerview/internal/core"
	"github.com/dkeye/peerview/internal/domain"
)

func TestRelay_ForwardsToOthersOnly(t *testing.T) {
	r := NewRelay()
	a, b := newFakeChannel("a"), newFakeChannel("b")
	r.Join("room-1", a)
	r.Join("room-1", b)

	res, err := r.Relay("room-1", a, core.Frame(`{"sdp":"offer"}`))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.SentTo != 1 {
		t.Fatalf("expected SentTo 1, got: %d", res.SentTo)
	}
	if len(a.received()) != 0 {
		t.Fatal("sender must not receive its own frame")
	}
	got := b.received()
	if len(got) != 1 || string(got[0]) != `{"sdp":"offer"}` {
		t.Fatalf("expected payload forwarded unchanged, got: %q", got)
	}
}

func TestRelay_AloneDropsSilently(t *testing.T) {
	r := NewRelay()
	a := newFakeChannel("a")
	r.Join("room-1", a)

	res, err := r.Relay("room-1", a, core.Frame("x"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.SentTo != 0 || len(res.Dropped) != 0 {
		t.Fatalf("expected empty result, got: %+v", res)
	}
}

func TestRelay_NonMemberRejected(t *testing.T) {
	r := NewRelay()
	a, outsider := newFakeChannel("a"), newFakeChannel("x")
	r.Join("room-1", a)

	if _, err := r.Relay("room-1", outsider, core.Frame("x")); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got: %v", err)
	}
	if _, err := r.Relay("nope", a, core.Frame("x")); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for unknown room, got: %v", err)
	}
}

func TestRelay_JoinMovesChannel(t *testing.T) {
	r := NewRelay()
	a := newFakeChannel("a")
	r.Join("room-1", a)
	r.Join("room-2", a)

	if r.Members("room-1") != 0 {
		t.Fatalf("expected room-1 empty, got: %d", r.Members("room-1"))
	}
	if r.Members("room-2") != 1 {
		t.Fatalf("expected room-2 to hold a, got: %d", r.Members("room-2"))
	}
	room, ok := r.RoomOf(a)
	if !ok || room != "room-2" {
		t.Fatalf("expected room-2, got: %q", room)
	}
}

func TestRelay_JoinIsSetSemantics(t *testing.T) {
	r := NewRelay()
	a := newFakeChannel("a")
	r.Join("room-1", a)
	r.Join("room-1", a)
	if r.Members("room-1") != 1 {
		t.Fatalf("expected 1 member, got: %d", r.Members("room-1"))
	}
}

func TestRelay_LeaveAndLeaveAll(t *testing.T) {
	r := NewRelay()
	a, b := newFakeChannel("a"), newFakeChannel("b")
	r.Join("room-1", a)
	r.Join("room-1", b)

	r.Leave("room-2", a)
	if r.Members("room-1") != 2 {
		t.Fatal("leaving a room the channel is not in must be a no-op")
	}
	r.Leave("room-1", a)
	if r.Members("room-1") != 1 {
		t.Fatalf("expected 1 member, got: %d", r.Members("room-1"))
	}
	r.LeaveAll(b)
	if r.Members("room-1") != 0 {
		t.Fatalf("expected room empty, got: %d", r.Members("room-1"))
	}
	if _, ok := r.RoomOf(b); ok {
		t.Fatal("expected b forgotten")
	}

	// A room emptied and unlinked can be joined again.
	r.Join("room-1", a)
	r.Join("room-1", b)
	if res, _ := r.Relay("room-1", b, core.Frame("y")); res.SentTo != 1 {
		t.Fatalf("expected relay after rejoin, got: %+v", res)
	}
}

func TestRelay_BackpressureReported(t *testing.T) {
	r := NewRelay()
	a, b := newFakeChannel("a"), newFakeChannel("b")
	b.full = true
	r.Join("room-1", a)
	r.Join("room-1", b)

	res, err := r.Relay("room-1", a, core.Frame("x"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.SentTo != 0 || len(res.Dropped) != 1 || res.Dropped[0] != b {
		t.Fatalf("expected b dropped, got: %+v", res)
	}
}

func TestPolicyFromString(t *testing.T) {
	if _, ok := PolicyFromString("evict").(EvictPolicy); !ok {
		t.Fatal("expected EvictPolicy")
	}
	if _, ok := PolicyFromString("").(DropPolicy); !ok {
		t.Fatal("expected DropPolicy by default")
	}
}

package orch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/peerview/internal/adapters/store/memory"
	"github.com/dkeye/peerview/internal/app/invite"
	"github.com/dkeye/peerview/internal/app/session"
	"github.com/dkeye/peerview/internal/core"
	"github.com/dkeye/peerview/internal/domain"
	"github.com/rs/zerolog"
)

type testChannel struct {
	mu     sync.Mutex
	full   bool
	frames [][]byte
}

func (c *testChannel) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return core.ErrBackpressure
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *testChannel) Close() {}

func (c *testChannel) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, f := range c.frames {
		var env struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(f, &env)
		out = append(out, env.Type)
	}
	return out
}

func newOrch(t *testing.T, policy string) *Orchestrator {
	t.Helper()
	o := New(Config{
		InvitationTTL:    time.Minute,
		RoleSwitchWindow: time.Hour,
		RelayPolicy:      policy,
	}, Collaborators{
		Users:     memory.NewUsers(),
		Archive:   memory.NewArchive(),
		Questions: memory.NewQuestions(),
		Ledger:    memory.NewLedger(),
	}, zerolog.Nop())
	t.Cleanup(o.Close)
	return o
}

// activeRoom connects alice and bob and seats both in a fresh room.
func activeRoom(t *testing.T, o *Orchestrator) (domain.Room, *testChannel, *testChannel) {
	t.Helper()
	ctx := context.Background()
	alice, bob := &testChannel{}, &testChannel{}
	o.Connect("alice", alice)
	o.Connect("bob", bob)

	room, err := o.CreateRoom(ctx, session.CreateInput{CreatorID: "alice", PartnerID: "bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, uid := range []domain.UserID{"alice", "bob"} {
		if room, err = o.JoinRoom(ctx, uid, room.ID); err != nil {
			t.Fatalf("join %s: %v", uid, err)
		}
	}
	if room.Status != domain.RoomActive {
		t.Fatalf("expected active room, got %s", room.Status)
	}
	return room, alice, bob
}

func TestSignal_RelaysToPeer(t *testing.T) {
	o := newOrch(t, "drop")
	room, alice, bob := activeRoom(t, o)

	res, err := o.Signal("alice", alice, room.ID, json.RawMessage(`{"sdp":"x"}`))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.SentTo != 1 {
		t.Fatalf("expected one delivery, got %d", res.SentTo)
	}
	types := bob.types()
	if types[len(types)-1] != string(domain.NoteSignal) {
		t.Fatalf("expected signal frame last, got %v", types)
	}
}

func TestSignal_EvictsSlowPeer(t *testing.T) {
	o := newOrch(t, "evict")
	room, alice, bob := activeRoom(t, o)

	bob.mu.Lock()
	bob.full = true
	bob.mu.Unlock()

	res, err := o.Signal("alice", alice, room.ID, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(res.Dropped) != 1 {
		t.Fatalf("expected one dropped channel, got %d", len(res.Dropped))
	}
	if n := o.Relay.Members(room.ID); n != 1 {
		t.Fatalf("expected slow peer evicted, members=%d", n)
	}
	if got, _ := o.Sessions.Get(room.ID); got.Status != domain.RoomActive {
		t.Fatalf("eviction must not touch room status, got %s", got.Status)
	}
}

func TestSignal_DropKeepsSlowPeer(t *testing.T) {
	o := newOrch(t, "drop")
	room, alice, bob := activeRoom(t, o)

	bob.mu.Lock()
	bob.full = true
	bob.mu.Unlock()

	if _, err := o.Signal("alice", alice, room.ID, json.RawMessage(`{}`)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if n := o.Relay.Members(room.ID); n != 2 {
		t.Fatalf("expected both members kept, got %d", n)
	}
}

func TestDisconnect_KeepsInvitationsAndRooms(t *testing.T) {
	o := newOrch(t, "")
	ctx := context.Background()
	room, alice, _ := activeRoom(t, o)

	inv, err := o.ProposeInvitation(ctx, invite.ProposeInput{InviterID: "alice", InviteeID: "bob"})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	o.Disconnect(alice)
	if o.Presence.Online("alice") {
		t.Fatal("expected alice offline")
	}
	if _, ok := o.Relay.RoomOf(alice); ok {
		t.Fatal("expected alice's channel out of the relay")
	}
	if got, _ := o.Sessions.Get(room.ID); got.Status != domain.RoomActive {
		t.Fatalf("room must stay active, got %s", got.Status)
	}
	if got, _ := o.Invitation("alice", inv.ID); got.Status != domain.InvitationPending {
		t.Fatalf("invitation must stay pending, got %s", got.Status)
	}
}

func TestConnect_RedeliversPendingInvitations(t *testing.T) {
	o := newOrch(t, "")
	ctx := context.Background()
	o.Connect("alice", &testChannel{})
	o.Connect("bob", &testChannel{})

	if _, err := o.ProposeInvitation(ctx, invite.ProposeInput{InviterID: "alice", InviteeID: "bob"}); err != nil {
		t.Fatalf("propose: %v", err)
	}

	fresh := &testChannel{}
	o.Connect("bob", fresh)
	types := fresh.types()
	if len(types) != 1 || types[0] != string(domain.NoteInvitationReceived) {
		t.Fatalf("expected the pending prompt re-pushed, got %v", types)
	}
}

func TestEndRoom_CancelsBeforeActive(t *testing.T) {
	o := newOrch(t, "")
	ctx := context.Background()

	room, err := o.CreateRoom(ctx, session.CreateInput{CreatorID: "alice", PartnerID: "bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := o.EndRoom(ctx, "bob", room.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got.Status != domain.RoomCancelled {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}
}

func TestEndRoom_CompletesActive(t *testing.T) {
	o := newOrch(t, "")
	room, _, bob := activeRoom(t, o)

	got, err := o.EndRoom(context.Background(), "alice", room.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got.Status != domain.RoomCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
	types := bob.types()
	if types[len(types)-1] != string(domain.NoteSessionEnded) {
		t.Fatalf("expected sessionEnded for bob, got %v", types)
	}
}

func TestReads_ParticipantsOnly(t *testing.T) {
	o := newOrch(t, "")
	ctx := context.Background()
	o.Connect("bob", &testChannel{})

	room, err := o.CreateRoom(ctx, session.CreateInput{CreatorID: "alice", PartnerID: "bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := o.Room("carol", room.ID); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got: %v", err)
	}

	inv, err := o.ProposeInvitation(ctx, invite.ProposeInput{InviterID: "alice", InviteeID: "bob"})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if _, err := o.Invitation("carol", inv.ID); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got: %v", err)
	}
	if _, err := o.Invitation("bob", inv.ID); err != nil {
		t.Fatalf("invitee should read the invitation, got: %v", err)
	}
}

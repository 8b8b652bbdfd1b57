package app

import (
	"testing"

	"github.com/sourcegraph/conc"
)

func TestPresence_MarkOnlineAndLookup(t *testing.T) {
	p := NewPresence()
	ch := newFakeChannel("a")
	p.MarkOnline("alice", ch)

	got, ok := p.Lookup("alice")
	if !ok {
		t.Fatal("expected alice online")
	}
	if got != ch {
		t.Fatalf("expected channel a, got: %v", got)
	}
	if _, ok := p.Lookup("bob"); ok {
		t.Fatal("expected bob not found")
	}
	if p.Count() != 1 {
		t.Fatalf("expected count 1, got: %d", p.Count())
	}
}

func TestPresence_LastConnectWins(t *testing.T) {
	p := NewPresence()
	first := newFakeChannel("first")
	second := newFakeChannel("second")
	p.MarkOnline("alice", first)
	p.MarkOnline("alice", second)

	got, _ := p.Lookup("alice")
	if got != second {
		t.Fatal("expected newest channel to win")
	}
	if p.Count() != 1 {
		t.Fatalf("expected count 1, got: %d", p.Count())
	}
	if first.closed {
		t.Fatal("presence must not close replaced channels")
	}
}

func TestPresence_StaleOfflineIsNoop(t *testing.T) {
	p := NewPresence()
	first := newFakeChannel("first")
	second := newFakeChannel("second")
	p.MarkOnline("alice", first)
	p.MarkOnline("alice", second)

	if p.MarkOffline(first) {
		t.Fatal("expected stale offline to be ignored")
	}
	if !p.Online("alice") {
		t.Fatal("expected alice still online")
	}
	if !p.MarkOffline(second) {
		t.Fatal("expected current channel offline to succeed")
	}
	if p.Online("alice") {
		t.Fatal("expected alice offline")
	}
	if p.Count() != 0 {
		t.Fatalf("expected count 0, got: %d", p.Count())
	}
	if p.MarkOffline(second) {
		t.Fatal("expected second offline to be a no-op")
	}
}

func TestPresence_Owner(t *testing.T) {
	p := NewPresence()
	ch := newFakeChannel("a")
	p.MarkOnline("alice", ch)

	uid, ok := p.Owner(ch)
	if !ok || uid != "alice" {
		t.Fatalf("expected owner alice, got: %q %v", uid, ok)
	}
}

func TestPresence_ConcurrentReconnects(t *testing.T) {
	p := NewPresence()
	channels := make([]*fakeChannel, 32)
	for i := range channels {
		channels[i] = newFakeChannel("c")
	}

	var wg conc.WaitGroup
	for _, ch := range channels {
		wg.Go(func() {
			p.MarkOnline("alice", ch)
		})
	}
	wg.Wait()

	if p.Count() != 1 {
		t.Fatalf("expected count 1, got: %d", p.Count())
	}
	current, ok := p.Lookup("alice")
	if !ok {
		t.Fatal("expected alice online")
	}
	for _, ch := range channels {
		wg.Go(func() {
			p.MarkOffline(ch)
		})
	}
	wg.Wait()

	if p.Online("alice") {
		t.Fatalf("expected alice offline after every channel left, current was %v", current)
	}
	if p.Count() != 0 {
		t.Fatalf("expected count 0, got: %d", p.Count())
	}
}

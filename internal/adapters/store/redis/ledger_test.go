package redis

import "testing"

func TestMeanOf(t *testing.T) {
	mean, total := meanOf(8, 2)
	if mean != 4.0 || total != 2 {
		t.Fatalf("expected 4.0 over 2, got: %v over %d", mean, total)
	}
	if mean, total := meanOf(0, 0); mean != 0 || total != 0 {
		t.Fatalf("expected zero, got: %v over %d", mean, total)
	}
}

func TestLedgerKeys(t *testing.T) {
	if got := ledgerKey("bob"); got != "rating:bob" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := roomsKey("bob"); got != "rating:bob:rooms" {
		t.Fatalf("unexpected key: %s", got)
	}
}

package routing

import (
	"testing"
	"time"
)

func TestUpdateHelloReportsFullDiscoveryTransition(t *testing.T) {
	r := NewRouter("self", []string{"r1", "r2"})
	now := time.Now()

	if became := r.UpdateHello("r1", "10.0.0.1", now); became {
		t.Fatalf("UpdateHello(r1) = true, want false (r2 still missing)")
	}

	if became := r.UpdateHello("r2", "10.0.0.2", now); !became {
		t.Fatalf("UpdateHello(r2) = false, want true (all expected neighbors now known)")
	}

	// A further HELLO from an already-known neighbor must not re-report
	// the transition.
	if became := r.UpdateHello("r1", "10.0.0.1", now.Add(time.Second)); became {
		t.Fatalf("UpdateHello(r1) on refresh = true, want false")
	}
}

func TestExpireNeighbors(t *testing.T) {
	r := NewRouter("self", nil)
	base := time.Now()

	r.UpdateHello("stale", "10.0.0.1", base)
	r.UpdateHello("fresh", "10.0.0.2", base.Add(NeighborTimeout))

	expired := r.ExpireNeighbors(base.Add(NeighborTimeout + time.Second))

	if len(expired) != 1 || expired[0] != "stale" {
		t.Fatalf("ExpireNeighbors() = %v, want [stale]", expired)
	}

	if _, ok := r.IsNeighbor("stale"); ok {
		t.Errorf("stale neighbor still present after expiry")
	}
	if _, ok := r.IsNeighbor("fresh"); !ok {
		t.Errorf("fresh neighbor incorrectly expired")
	}
}

func TestAllExpectedDiscoveredEmptySet(t *testing.T) {
	r := NewRouter("self", nil)
	if !r.AllExpectedDiscovered() {
		t.Errorf("AllExpectedDiscovered() = false, want true for an empty expected set")
	}
}

func TestHasNeighbors(t *testing.T) {
	r := NewRouter("self", nil)
	if r.HasNeighbors() {
		t.Fatalf("HasNeighbors() = true on a fresh router")
	}
	r.UpdateHello("r1", "10.0.0.1", time.Now())
	if !r.HasNeighbors() {
		t.Errorf("HasNeighbors() = false after UpdateHello")
	}
}

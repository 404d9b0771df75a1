package routing

import "time"

// NeighborTimeout is the age at which a silent neighbor is evicted.
const NeighborTimeout = 30 * time.Second

// NeighborEntry is one row of the neighbor table, keyed by RouterId in
// Router.neighbors.
type NeighborEntry struct {
	IP       string
	LastSeen time.Time
}

// UpdateHello records (or refreshes) a neighbor discovered via HELLO and
// reports whether this transition caused every expected neighbor to now be
// known. Callers must not hold r.mu.
func (r *Router) UpdateHello(peerID, peerIP string, now time.Time) (becameFullyDiscovered bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasFullyDiscovered := r.allExpectedDiscoveredLocked()

	r.neighbors[peerID] = NeighborEntry{IP: peerIP, LastSeen: now}

	isFullyDiscovered := r.allExpectedDiscoveredLocked()

	return !wasFullyDiscovered && isFullyDiscovered
}

// AllExpectedDiscovered reports whether every configured expected neighbor
// is currently present in the neighbor table.
func (r *Router) AllExpectedDiscovered() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.allExpectedDiscoveredLocked()
}

// allExpectedDiscoveredLocked reports whether the neighbor table is a
// superset of the configured expected-neighbor set. r.mu must be held.
func (r *Router) allExpectedDiscoveredLocked() bool {
	for _, expected := range r.expectedNeighbors {
		if _, ok := r.neighbors[expected]; !ok {
			return false
		}
	}
	return true
}

// ExpireNeighbors removes neighbors whose last HELLO is older than
// NeighborTimeout and returns their RouterIds.
func (r *Router) ExpireNeighbors(now time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []string
	for id, entry := range r.neighbors {
		if now.Sub(entry.LastSeen) > NeighborTimeout {
			expired = append(expired, id)
		}
	}

	for _, id := range expired {
		delete(r.neighbors, id)
	}

	return expired
}

// IsNeighbor reports whether id is a current direct neighbor and, if so,
// its IP address.
func (r *Router) IsNeighbor(id string) (ip string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.neighbors[id]
	return entry.IP, ok
}

// NeighborsSnapshot returns a copy of the current RouterId -> IP mapping,
// safe to range over without holding the lock.
func (r *Router) NeighborsSnapshot() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]string, len(r.neighbors))
	for id, entry := range r.neighbors {
		snapshot[id] = entry.IP
	}
	return snapshot
}

// HasNeighbors reports whether the neighbor table is non-empty.
func (r *Router) HasNeighbors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.neighbors) > 0
}

// Package routing owns the daemon's mutable state: the neighbor table, the
// link state database and the topology graph derived from it, and the
// routing table computed over that graph. All of it sits behind one coarse
// mutex and is driven by the independent activities in package daemon: one
// struct, one lock, snapshots taken under the lock and iterated outside it.
package routing

import (
	"sync"
	"time"

	"github.com/LuisLgl/Estado-de-Enlace/internal/config"
	"github.com/LuisLgl/Estado-de-Enlace/internal/wire"
)

// Router holds all state shared across the Hello, LSA, transport-receive
// and supervisor activities.
type Router struct {
	mu sync.Mutex

	routerID          string
	expectedNeighbors []string
	startTime         time.Time

	neighbors    map[string]NeighborEntry
	lsdb         map[string]LSAEntry
	topology     map[string]map[string]int
	routingTable map[string]RouteEntry

	selfSequence        uint64
	routerHighWaterMark int
	convergenceLog      []ConvergenceSample
}

// NewRouter constructs an empty Router for the given identity.
func NewRouter(routerID string, expectedNeighbors []string) *Router {
	return &Router{
		routerID:          routerID,
		expectedNeighbors: expectedNeighbors,
		startTime:         time.Now(),
		neighbors:         make(map[string]NeighborEntry),
		lsdb:              make(map[string]LSAEntry),
		topology:          make(map[string]map[string]int),
		routingTable:      make(map[string]RouteEntry),
	}
}

// RouterID returns this router's own identity.
func (r *Router) RouterID() string {
	return r.routerID
}

// Elapsed returns the monotonic time since the router was constructed,
// used as the convergence log's time axis.
func (r *Router) Elapsed() float64 {
	return timeSinceSeconds(r.startTime)
}

func timeSinceSeconds(start time.Time) float64 {
	return time.Since(start).Seconds()
}

// BuildSelfLSA claims the next self sequence number and constructs the LSA
// describing this router's current neighbors and addresses. It does not
// transmit or ingest the LSA; callers decide whether to do either, which is
// how the periodic LSA emitter (transmits and ingests) and the
// supervisor's refresh (ingests only) share this one code path. Claiming
// the sequence number atomically with construction means the emitter's
// next tick and the supervisor's refresh can never produce two different
// LSAs under the same sequence number.
func (r *Router) BuildSelfLSA(cfg *config.Config, addresses []string) *wire.LSA {
	r.mu.Lock()
	neighbors := make(map[string]string, len(r.neighbors))
	for id, entry := range r.neighbors {
		neighbors[id] = entry.IP
	}
	r.selfSequence++
	seq := r.selfSequence
	r.mu.Unlock()

	links := make(map[string]int, len(neighbors))
	for peer := range neighbors {
		links[peer] = cfg.LinkCost(r.routerID, peer)
	}

	return &wire.LSA{
		Type:           wire.TypeLSA,
		RouterID:       r.routerID,
		SequenceNumber: seq,
		Timestamp:      float64(time.Now().UnixNano()) / 1e9,
		Addresses:      addresses,
		Links:          links,
	}
}

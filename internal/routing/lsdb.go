package routing

import (
	"sort"

	"github.com/LuisLgl/Estado-de-Enlace/internal/wire"
	"github.com/LuisLgl/Estado-de-Enlace/util/logger"
)

// LSAEntry is the latest accepted LSA for one origin.
type LSAEntry struct {
	Origin    string
	Sequence  uint64
	Timestamp float64
	Neighbors map[string]wire.NormalizedNeighbor
	Addresses []string
}

// ConvergenceSample is one row of the convergence log.
type ConvergenceSample struct {
	ElapsedSeconds float64
	RouterCount    int
}

// IngestLSA applies admission control to a candidate LSA and, if accepted,
// rebuilds the topology graph and appends a convergence sample when the
// LSDB's router count reaches a new high water mark. It reports whether
// the LSA was admitted, i.e. whether it should be forwarded by the
// caller's flooding logic.
func (r *Router) IngestLSA(l *wire.LSA) (accepted bool) {
	origin, sequence, ok := l.OriginAndSequence()
	if !ok {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.lsdb[origin]; exists && sequence <= existing.Sequence {
		return false
	}

	r.lsdb[origin] = LSAEntry{
		Origin:    origin,
		Sequence:  sequence,
		Timestamp: l.Timestamp,
		Neighbors: l.NormalizeNeighbors(),
		Addresses: l.Addresses,
	}

	r.rebuildTopologyLocked()

	if count := len(r.lsdb); count > r.routerHighWaterMark {
		r.routerHighWaterMark = count
		r.convergenceLog = append(r.convergenceLog, ConvergenceSample{
			ElapsedSeconds: timeSinceSeconds(r.startTime),
			RouterCount:    count,
		})
	}

	return true
}

// rebuildTopologyLocked reconstructs the undirected weighted topology
// graph from scratch. Origins are iterated in sorted order so that, when
// two LSAs disagree on an edge's cost, the outcome is deterministic and
// reproducible across runs rather than dependent on Go's randomized map
// iteration order. A detected disagreement is logged as a warning but does
// not change the outcome: symmetric cost is a precondition of the
// environment configuration, and asymmetry is a misconfiguration to
// surface, not silently resolve.
func (r *Router) rebuildTopologyLocked() {
	graph := make(map[string]map[string]int)

	origins := make([]string, 0, len(r.lsdb))
	for origin := range r.lsdb {
		origins = append(origins, origin)
	}
	sort.Strings(origins)

	for _, u := range origins {
		neighbors := make([]string, 0, len(r.lsdb[u].Neighbors))
		for v := range r.lsdb[u].Neighbors {
			neighbors = append(neighbors, v)
		}
		sort.Strings(neighbors)

		for _, v := range neighbors {
			cost := r.lsdb[u].Neighbors[v].Cost

			if existing, ok := graph[v][u]; ok && existing != cost {
				logger.Warnf("asymmetric link cost between %s and %s: %d vs %d", u, v, existing, cost)
			}

			setEdge(graph, u, v, cost)
			setEdge(graph, v, u, cost)
		}
	}

	r.topology = graph
}

func setEdge(graph map[string]map[string]int, u, v string, cost int) {
	if graph[u] == nil {
		graph[u] = make(map[string]int)
	}
	graph[u][v] = cost
}

// GetLSA returns the stored LSA for origin, if any.
func (r *Router) GetLSA(origin string) (LSAEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.lsdb[origin]
	return entry, ok
}

// RouterAddresses returns the addresses recorded for dest's latest LSA.
func (r *Router) RouterAddresses(dest string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lsdb[dest].Addresses
}

// ConvergenceLogSnapshot returns a copy of the accumulated convergence
// samples without clearing them.
func (r *Router) ConvergenceLogSnapshot() []ConvergenceSample {
	r.mu.Lock()
	defer r.mu.Unlock()

	samples := make([]ConvergenceSample, len(r.convergenceLog))
	copy(samples, r.convergenceLog)
	return samples
}

// ClearConvergenceLog removes the first n samples from the in-memory
// convergence log. Callers must only do this after successfully
// persisting those n samples, as returned by ConvergenceLogSnapshot. Using
// a count rather than clearing unconditionally keeps samples appended
// concurrently, between the snapshot and the flush, from being silently
// dropped.
func (r *Router) ClearConvergenceLog(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n > len(r.convergenceLog) {
		n = len(r.convergenceLog)
	}
	r.convergenceLog = r.convergenceLog[n:]
}

package daemon

import (
	"encoding/json"
	"net"
	"time"

	"github.com/LuisLgl/Estado-de-Enlace/internal/transport"
	"github.com/LuisLgl/Estado-de-Enlace/internal/wire"
	"github.com/LuisLgl/Estado-de-Enlace/util/logger"
)

// runLSAEmitter periodically originates this router's own LSA and unicasts
// it to every current neighbor. It only runs once the Hello receiver has
// observed every expected neighbor.
func (d *Daemon) runLSAEmitter(stop chan struct{}) {
	defer d.wg.Done()

	ticker := time.NewTicker(lsaInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-d.stop:
			return
		case <-ticker.C:
			d.sendSelfLSA()
		}
	}
}

func (d *Daemon) sendSelfLSA() {
	lsa := d.router.BuildSelfLSA(d.cfg, d.addresses)

	neighbors := d.router.NeighborsSnapshot()
	for _, ip := range neighbors {
		dest := &net.UDPAddr{IP: net.ParseIP(ip), Port: transport.Port}
		if err := d.socket.SendJSON(dest, lsa); err != nil {
			logger.Warnf("%s: LSA send to %v failed: %v", d.router.RouterID(), dest, err)
		}
	}

	// Re-ingest through the same admission path inbound LSAs use, so the
	// emitter's own view of the topology stays consistent with everyone
	// else's.
	d.router.IngestLSA(lsa)
	d.recompute()
}

// handleLSA processes an inbound LSA datagram: admission control, route
// recomputation, convergence logging, and split-horizon flooding.
func (d *Daemon) handleLSA(data []byte, senderIP string) {
	var lsa wire.LSA
	if err := json.Unmarshal(data, &lsa); err != nil {
		return // malformed input: silently drop
	}

	if _, _, ok := lsa.OriginAndSequence(); !ok {
		return // missing origin/sequence: silently drop
	}

	accepted := d.router.IngestLSA(&lsa)
	if !accepted {
		return // stale LSA: drop without forwarding
	}

	origin, _, _ := lsa.OriginAndSequence()
	logger.Infof("%s: admitted LSA from %s", d.router.RouterID(), origin)

	d.recompute()
	d.floodLSA(&lsa, senderIP)

	d.convLog.Flush(d.router.RouterID(), d.router)
}

// floodLSA forwards the original LSA, unchanged, to every current neighbor
// except the one whose address matches the sender: the flooder never sends
// an LSA back to the address it was received from. Each neighbor has its
// own rate limiter so a burst cannot monopolize the flooder.
func (d *Daemon) floodLSA(lsa *wire.LSA, senderIP string) {
	neighbors := d.router.NeighborsSnapshot()

	for id, ip := range neighbors {
		if ip == senderIP {
			continue // split horizon
		}

		if !d.floodLimiterFor(id).Allow() {
			logger.Warnf("%s: dropping LSA forward to %s, rate limit exceeded", d.router.RouterID(), id)
			continue
		}

		dest := &net.UDPAddr{IP: net.ParseIP(ip), Port: transport.Port}
		if err := d.socket.SendJSON(dest, lsa); err != nil {
			logger.Warnf("%s: LSA forward to %v failed: %v", d.router.RouterID(), dest, err)
		}
	}
}

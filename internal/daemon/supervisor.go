package daemon

import (
	"time"

	"github.com/LuisLgl/Estado-de-Enlace/util/logger"
)

// runSupervisor periodically expires silent neighbors, refreshes this
// router's own LSA under the same sequence-claiming path the emitter
// uses, and re-flushes the convergence log so it never sits unwritten
// for more than one tick.
func (d *Daemon) runSupervisor() {
	defer d.wg.Done()

	ticker := time.NewTicker(supervisorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			d.tick()
		}
	}
}

func (d *Daemon) tick() {
	expired := d.router.ExpireNeighbors(time.Now())
	if len(expired) > 0 {
		logger.Infof("%s: neighbors expired: %v", d.router.RouterID(), expired)
		d.recompute()
	}

	if d.router.HasNeighbors() {
		d.refreshSelfLSA()
		d.recompute()
	}

	d.convLog.Flush(d.router.RouterID(), d.router)
}

// refreshSelfLSA re-originates this router's own LSA between periodic
// emitter ticks, using the same BuildSelfLSA path the emitter uses so the
// two never race on the sequence counter. Unlike sendSelfLSA it only
// ingests: this LSA is never transmitted, and neighbors learn this
// router's links from the emitter's next tick, which builds a new LSA
// under a higher sequence number.
func (d *Daemon) refreshSelfLSA() {
	lsa := d.router.BuildSelfLSA(d.cfg, d.addresses)
	d.router.IngestLSA(lsa)
}

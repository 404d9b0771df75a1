// Package daemon drives the four concurrent activities of the routing
// process — Hello emission, LSA emission, transport receive, and the
// supervisor loop — over the shared routing.Router. Each activity is a
// long-running goroutine with its own ticker: independent activities
// communicating through shared, mutex-protected state, rather than
// callbacks chained through each other.
package daemon

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/LuisLgl/Estado-de-Enlace/internal/config"
	"github.com/LuisLgl/Estado-de-Enlace/internal/convergence"
	"github.com/LuisLgl/Estado-de-Enlace/internal/fib"
	"github.com/LuisLgl/Estado-de-Enlace/internal/routing"
	"github.com/LuisLgl/Estado-de-Enlace/internal/transport"
	"github.com/LuisLgl/Estado-de-Enlace/util/logger"
)

const (
	helloInterval      = 2 * time.Second
	lsaInterval        = 10 * time.Second
	supervisorInterval = 5 * time.Second
)

// Daemon wires the transport, the router, and the FIB reconciler into the
// running protocol.
type Daemon struct {
	cfg       *config.Config
	router    *routing.Router
	socket    transport.Socket
	fib       *fib.Reconciler
	convLog   *convergence.Writer
	addresses []string

	lsaRunning atomic.Bool
	lsaStop    chan struct{}
	floodLimit sync.Map // RouterId -> *rate.Limiter, guards the flooder against storms

	stop chan struct{}
	wg   sync.WaitGroup
}

// New constructs a Daemon. addresses is this router's interface_ips list;
// installer backs the FIB reconciler.
func New(cfg *config.Config, router *routing.Router, socket transport.Socket, installer fib.Installer, addresses []string) *Daemon {
	return &Daemon{
		cfg:       cfg,
		router:    router,
		socket:    socket,
		fib:       fib.NewReconciler(installer),
		convLog:   convergence.NewWriter(),
		addresses: addresses,
		stop:      make(chan struct{}),
	}
}

// Run opens the transport and starts the Hello-emission, receive, and
// supervisor activities. It blocks until Stop is called.
func (d *Daemon) Run() error {
	if err := d.socket.Open(); err != nil {
		return err
	}

	d.wg.Add(3)
	go d.runHelloEmitter()
	go d.runReceiveLoop()
	go d.runSupervisor()

	<-d.stop
	return nil
}

// Stop signals every activity to exit and closes the transport, which
// unblocks the receive loop's pending read.
func (d *Daemon) Stop() {
	close(d.stop)
	d.stopLSAEmitter()
	_ = d.socket.Close()
	d.wg.Wait()
}

// startLSAEmitterOnce starts the LSA emitter the first time every expected
// neighbor has been discovered. The false -> true transition is the only
// trigger; later calls are no-ops.
func (d *Daemon) startLSAEmitterOnce() {
	if !d.lsaRunning.CompareAndSwap(false, true) {
		return
	}

	d.lsaStop = make(chan struct{})
	d.wg.Add(1)
	go d.runLSAEmitter(d.lsaStop)
	logger.Infof("%s: LSA emitter started", d.router.RouterID())
}

func (d *Daemon) stopLSAEmitter() {
	if !d.lsaRunning.CompareAndSwap(true, false) {
		return
	}
	close(d.lsaStop)
}

// recompute rebuilds the routing table and reconciles it with the FIB.
func (d *Daemon) recompute() {
	d.router.BuildRoutingTable()
	d.applyFIB()
}

func (d *Daemon) applyFIB() {
	neighbors := d.router.NeighborsSnapshot()

	var routes []fib.Route
	for dest, entry := range d.router.RoutingTableSnapshot() {
		hopIP, ok := neighbors[entry.NextHop]
		if !ok {
			continue
		}
		for _, addr := range d.router.RouterAddresses(dest) {
			routes = append(routes, fib.Route{Dest: addr, NextHopIP: hopIP})
		}
	}

	installed := d.fib.Apply(routes)
	logger.Debugf("%s: installed %d routes", d.router.RouterID(), installed)
}

// floodLimiterFor returns the per-neighbor forwarding rate limiter,
// creating one on first use. It hardens the flooder against a burst of
// malformed or adversarial LSAs.
func (d *Daemon) floodLimiterFor(neighborID string) *rate.Limiter {
	if v, ok := d.floodLimit.Load(neighborID); ok {
		return v.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(rate.Limit(20), 40)
	actual, _ := d.floodLimit.LoadOrStore(neighborID, limiter)
	return actual.(*rate.Limiter)
}

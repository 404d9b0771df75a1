package daemon

import (
	"encoding/json"
	"net"
	"strings"
	"time"

	"github.com/LuisLgl/Estado-de-Enlace/internal/transport"
	"github.com/LuisLgl/Estado-de-Enlace/internal/wire"
	"github.com/LuisLgl/Estado-de-Enlace/util/logger"
)

// runHelloEmitter periodically broadcasts HELLO on every local interface.
// It stops when Daemon.stop is closed.
func (d *Daemon) runHelloEmitter() {
	defer d.wg.Done()

	ticker := time.NewTicker(helloInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			d.sendHellos()
		}
	}
}

func (d *Daemon) sendHellos() {
	neighbors := d.router.NeighborsSnapshot()
	known := make([]string, 0, len(neighbors))
	for id := range neighbors {
		known = append(known, id)
	}

	for _, addr := range d.addresses {
		broadcast, err := directedBroadcast(addr)
		if err != nil {
			logger.Warnf("hello: skipping interface address %q: %v", addr, err)
			continue
		}

		hello := &wire.Hello{
			Type:           wire.TypeHello,
			RouterID:       d.router.RouterID(),
			Timestamp:      float64(time.Now().UnixNano()) / 1e9,
			IPAddress:      addr,
			KnownNeighbors: known,
		}

		dest := &net.UDPAddr{IP: broadcast, Port: transport.Port}
		if err := d.socket.SendJSON(dest, hello); err != nil {
			logger.Warnf("hello: send to %v failed: %v", dest, err)
		}
	}
}

// directedBroadcast returns the directed broadcast address of addr's /24:
// the same address with its host octet replaced by 255. addr may itself
// already be in /24-summary form.
func directedBroadcast(addr string) (net.IP, error) {
	host := addr
	if idx := strings.IndexByte(addr, '/'); idx >= 0 {
		host = addr[:idx]
	}

	segments := strings.Split(host, ".")
	if len(segments) != 4 {
		return nil, errInvalidAddress(addr)
	}

	segments[3] = "255"
	return net.ParseIP(strings.Join(segments, ".")), nil
}

type errInvalidAddress string

func (e errInvalidAddress) Error() string {
	return "not an IPv4 address: " + string(e)
}

// handleHello processes an inbound HELLO datagram.
func (d *Daemon) handleHello(data []byte) {
	var hello wire.Hello
	if err := json.Unmarshal(data, &hello); err != nil {
		return // malformed input: silently drop
	}

	if hello.RouterID == "" || hello.RouterID == d.router.RouterID() {
		return // a HELLO from self is discarded
	}

	logger.Infof("%s: HELLO from %s (%s)", d.router.RouterID(), hello.RouterID, hello.IPAddress)

	becameFullyDiscovered := d.router.UpdateHello(hello.RouterID, hello.IPAddress, time.Now())
	if becameFullyDiscovered {
		d.startLSAEmitterOnce()
	}
}

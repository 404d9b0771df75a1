package daemon

import (
	"github.com/LuisLgl/Estado-de-Enlace/internal/transport"
	"github.com/LuisLgl/Estado-de-Enlace/internal/wire"
	"github.com/LuisLgl/Estado-de-Enlace/util/logger"
)

// runReceiveLoop subscribes to the transport and dispatches each inbound
// packet by its declared type. It exits when Stop closes d.stop; the
// transport never closes the subscription channel itself.
func (d *Daemon) runReceiveLoop() {
	defer d.wg.Done()

	packets := d.socket.Subscribe()

	for {
		select {
		case <-d.stop:
			return
		case pkt, ok := <-packets:
			if !ok {
				return
			}
			d.dispatch(pkt)
		}
	}
}

func (d *Daemon) dispatch(pkt *transport.Packet) {
	msgType, err := wire.DecodeType(pkt.Data)
	if err != nil {
		return
	}

	switch msgType {
	case wire.TypeHello:
		d.handleHello(pkt.Data)
	case wire.TypeLSA:
		d.handleLSA(pkt.Data, pkt.Addr.IP.String())
	default:
		logger.Debugf("dropping packet from %v with unrecognized type %q", pkt.Addr, msgType)
	}
}

// Package transport manages the daemon's single UDP control-plane socket:
// an interface so routing logic can be tested against a fake, and a real
// implementation backed by a single net.UDPConn whose received datagrams
// are published to subscribers through util/observer.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/LuisLgl/Estado-de-Enlace/internal/wire"
	"github.com/LuisLgl/Estado-de-Enlace/util/assert"
	"github.com/LuisLgl/Estado-de-Enlace/util/logger"
	"github.com/LuisLgl/Estado-de-Enlace/util/observer"
)

// Port is the well-known UDP port the control plane binds to.
const Port = 5000

// receiveTimeout bounds each blocking read so the read loop can notice
// shutdown promptly.
const receiveTimeout = 1 * time.Second

// Packet is one received datagram, paired with its sender.
type Packet struct {
	Addr *net.UDPAddr
	Data []byte
}

// Socket is the control-plane transport abstraction.
type Socket interface {
	// Open binds the UDP socket to 0.0.0.0:Port with address reuse and
	// broadcast enabled, then starts the background read loop.
	Open() error

	// Close closes the socket, unblocking the read loop.
	Close() error

	// SendJSON marshals v and sends it to addr. It refuses to send a
	// payload larger than wire.MaxMessageSize.
	SendJSON(addr *net.UDPAddr, v any) error

	// Subscribe returns a channel that receives every datagram read off
	// the socket from this point on.
	Subscribe() chan *Packet
}

type udpSocket struct {
	conn     *net.UDPConn
	packets  *observer.Observable[*Packet]
	stopping chan struct{}
}

// NewUDPSocket constructs an unopened Socket.
func NewUDPSocket() *udpSocket {
	return &udpSocket{
		packets:  observer.NewObservable[*Packet](),
		stopping: make(chan struct{}),
	}
}

// listenConfig sets SO_REUSEADDR and SO_BROADCAST before bind, using
// net.ListenConfig.Control to reach the raw fd before it is wrapped.
var listenConfig = net.ListenConfig{
	Control: func(network, address string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			if sockErr != nil {
				return
			}
			sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
		})
		if err != nil {
			return err
		}
		return sockErr
	},
}

func (s *udpSocket) Open() error {
	assert.Assert(s.conn == nil, "socket is already open")

	pc, err := listenConfig.ListenPacket(context.Background(), "udp4", "0.0.0.0:"+strconv.Itoa(Port))
	if err != nil {
		return err
	}

	s.conn = pc.(*net.UDPConn)

	go s.readLoop()

	return nil
}

func (s *udpSocket) readLoop() {
	buf := make([]byte, 1500)

	for {
		select {
		case <-s.stopping:
			return
		default:
		}

		_ = s.conn.SetReadDeadline(time.Now().Add(receiveTimeout))

		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Warnf("transport read error: %v", err)
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])

		s.packets.NotifyObservers(&Packet{Addr: addr, Data: data})
	}
}

func (s *udpSocket) SendJSON(addr *net.UDPAddr, v any) error {
	assert.IsNotNil(s.conn, "socket is not open")

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if len(data) > wire.MaxMessageSize {
		return fmt.Errorf("transport: encoded message is %d bytes, exceeds %d byte limit", len(data), wire.MaxMessageSize)
	}

	_, err = s.conn.WriteToUDP(data, addr)
	return err
}

func (s *udpSocket) Subscribe() chan *Packet {
	return s.packets.Subscribe(32)
}

func (s *udpSocket) Close() error {
	if s.conn == nil {
		return nil
	}

	close(s.stopping)
	err := s.conn.Close()
	s.conn = nil
	return err
}

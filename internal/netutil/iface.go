// Package netutil discovers the host's local layer-3 addresses by walking
// net.Interfaces() and keeping only up, non-loopback, IPv4 addresses, with
// /24 summarization applied to the 192.168.0.0/16 range.
package netutil

import (
	"net"
	"strings"
)

// LocalAddresses returns one entry per configured non-loopback IPv4
// address, with addresses in the 192.168.0.0/16 range summarized to their
// /24 network form. Point-to-point link addresses outside that range are
// returned verbatim.
func LocalAddresses() ([]string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var addrs []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		ifaceAddrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, a := range ifaceAddrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}

			ip4 := ipNet.IP.To4()
			if ip4 == nil {
				continue // IPv6 is out of scope
			}

			addrs = append(addrs, summarize(ip4.String()))
		}
	}

	return addrs, nil
}

// summarize converts a 192.168.0.0/16 address to its /24 network form;
// every other address is returned unchanged, since it identifies a
// router-to-router point-to-point link.
func summarize(ip string) string {
	if !strings.HasPrefix(ip, "192.168.") {
		return ip
	}

	segments := strings.Split(ip, ".")
	if len(segments) != 4 {
		return ip
	}

	return segments[0] + "." + segments[1] + "." + segments[2] + ".0/24"
}

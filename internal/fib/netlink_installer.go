package fib

import (
	"net"

	"github.com/vishvananda/netlink"
)

// NetlinkInstaller installs routes via the kernel's rtnetlink interface, a
// native-API alternative to shelling out to `ip route replace`.
type NetlinkInstaller struct{}

// NewNetlinkInstaller constructs an Installer backed by github.com/vishvananda/netlink.
func NewNetlinkInstaller() *NetlinkInstaller {
	return &NetlinkInstaller{}
}

func (NetlinkInstaller) Replace(dest *net.IPNet, nextHop net.IP) error {
	return netlink.RouteReplace(&netlink.Route{
		Dst: dest,
		Gw:  nextHop,
	})
}

func (NetlinkInstaller) Delete(dest *net.IPNet) error {
	err := netlink.RouteDel(&netlink.Route{Dst: dest})
	if err != nil && isNotExist(err) {
		return nil
	}
	return err
}

func isNotExist(err error) bool {
	return err != nil && err.Error() == "no such process"
}

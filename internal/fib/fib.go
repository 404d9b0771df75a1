// Package fib reconciles the daemon's computed routing table with the
// kernel's Forwarding Information Base. It validates each destination
// address, issues idempotent route replacements, and tracks the set of
// routes it has installed so it can withdraw any that drop out of the
// routing table on a later reconciliation pass.
package fib

import (
	"fmt"
	"net"

	"github.com/LuisLgl/Estado-de-Enlace/util/logger"
)

// Installer issues the two kernel operations the reconciler needs.
// Implementations must be idempotent: calling Replace twice with the same
// arguments must leave the FIB in the same state as calling it once.
type Installer interface {
	// Replace installs or overwrites the route to dest via nextHop.
	Replace(dest *net.IPNet, nextHop net.IP) error
	// Delete removes the route to dest, if present.
	Delete(dest *net.IPNet) error
}

// Route is one destination/next-hop pair the reconciler should install.
// Dest may be a bare IP address or a CIDR; for local interfaces, a /24
// network form is also permitted as a destination summary.
type Route struct {
	Dest      string
	NextHopIP string
}

// Reconciler tracks the set of destinations it has installed so it can
// withdraw ones that are no longer present in a later call to Apply.
type Reconciler struct {
	installer Installer
	installed map[string]*net.IPNet // dest CIDR string -> parsed net
}

// NewReconciler constructs a Reconciler backed by the given Installer.
func NewReconciler(installer Installer) *Reconciler {
	return &Reconciler{
		installer: installer,
		installed: make(map[string]*net.IPNet),
	}
}

// Apply parses and validates each route's destination, issues a replace
// for every valid one, counts successes (logging and skipping failures),
// and withdraws any previously-installed destination that is absent from
// this call's route list.
func (rc *Reconciler) Apply(routes []Route) (installed int) {
	desired := make(map[string]struct{}, len(routes))

	for _, route := range routes {
		dest, err := parseDestination(route.Dest)
		if err != nil {
			logger.Warnf("fib: rejecting invalid destination %q: %v", route.Dest, err)
			continue
		}

		nextHop := net.ParseIP(route.NextHopIP)
		if nextHop == nil {
			logger.Warnf("fib: rejecting invalid next hop %q for %s", route.NextHopIP, route.Dest)
			continue
		}

		key := dest.String()
		desired[key] = struct{}{}

		if err := rc.installer.Replace(dest, nextHop); err != nil {
			logger.Warnf("fib: failed to install route %s via %s: %v", dest, nextHop, err)
			continue
		}

		rc.installed[key] = dest
		installed++
	}

	for key, dest := range rc.installed {
		if _, stillDesired := desired[key]; stillDesired {
			continue
		}
		if err := rc.installer.Delete(dest); err != nil {
			logger.Warnf("fib: failed to withdraw stale route %s: %v", dest, err)
			continue
		}
		delete(rc.installed, key)
	}

	return installed
}

// parseDestination accepts either a bare IP address or a CIDR and
// normalizes it to a *net.IPNet.
func parseDestination(addr string) (*net.IPNet, error) {
	if ip, ipNet, err := net.ParseCIDR(addr); err == nil {
		ipNet.IP = ip.Mask(ipNet.Mask)
		return ipNet, nil
	}

	ip := net.ParseIP(addr)
	if ip == nil {
		return nil, fmt.Errorf("not a valid IP or CIDR")
	}

	ip4 := ip.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("IPv6 destinations are out of scope")
	}

	return &net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}, nil
}

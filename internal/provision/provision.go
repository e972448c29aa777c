// Package provision optionally advertises the hosted simulator's debug
// endpoint over mDNS/DNS-SD, so a companion tool can find a running
// instance on the LAN without BLE scanning. Grounded directly on the
// teacher's dns_sd.go.
package provision

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"

	"github.com/charmbracelet/log"
)

// ServiceType is the DNS-SD service type this firmware's hosted debug
// endpoint announces itself as.
const ServiceType = "_diskomator-dbg._tcp"

// Announce registers and starts responding to mDNS queries for the debug
// endpoint on port, using name as the instance name. It logs and returns
// without error on failure — provisioning is purely a convenience, never a
// boot-blocking dependency.
func Announce(ctx context.Context, logger *log.Logger, name string, port int) {
	var cfg = dnssd.Config{Name: name, Type: ServiceType, Port: port} //nolint:exhaustruct

	var sv, svErr = dnssd.NewService(cfg)
	if svErr != nil {
		logger.Error("provision: failed to create service", "err", svErr)

		return
	}

	var rp, rpErr = dnssd.NewResponder()
	if rpErr != nil {
		logger.Error("provision: failed to create responder", "err", rpErr)

		return
	}

	var _, addErr = rp.Add(sv)
	if addErr != nil {
		logger.Error("provision: failed to add service", "err", addErr)

		return
	}

	logger.Info(fmt.Sprintf("provision: announcing debug endpoint on port %d as %q", port, name))

	go func() {
		if err := rp.Respond(ctx); err != nil {
			logger.Error("provision: responder stopped", "err", err)
		}
	}()
}

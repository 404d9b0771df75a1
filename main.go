package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/LuisLgl/Estado-de-Enlace/internal/config"
	"github.com/LuisLgl/Estado-de-Enlace/internal/daemon"
	"github.com/LuisLgl/Estado-de-Enlace/internal/fib"
	"github.com/LuisLgl/Estado-de-Enlace/internal/netutil"
	"github.com/LuisLgl/Estado-de-Enlace/internal/routing"
	"github.com/LuisLgl/Estado-de-Enlace/internal/transport"
	"github.com/LuisLgl/Estado-de-Enlace/util/logger"
)

func main() {
	logger.Infof("Running...")

	cfg := config.Load()
	logger.Infof("router identity: %s", cfg.RouterID)

	addresses, err := netutil.LocalAddresses()
	if err != nil {
		logger.Errorf("failed to enumerate local addresses: %v", err)
		return
	}
	fmt.Println("Available network addresses:")
	for _, addr := range addresses {
		fmt.Printf("  %s\n", addr)
	}

	router := routing.NewRouter(cfg.RouterID, cfg.ExpectedNeighbors())
	socket := transport.NewUDPSocket()
	installer := fib.NewNetlinkInstaller()

	d := daemon.New(cfg, router, socket, installer, addresses)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Infof("shutting down...")
		d.Stop()
	}()

	if err := d.Run(); err != nil {
		logger.Errorf("daemon exited with error: %v", err)
		os.Exit(1)
	}
}

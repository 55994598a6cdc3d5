// Command botguardd is a minimal demo server that puts botguard in
// front of a trivial "ok" response, showing the caller contract: adapt
// the incoming request to a detect.RequestView, call the coordinator,
// map the verdict to an HTTP response. It carries no router, response,
// or middleware framework of its own — that is the outer HTTP server,
// explicitly out of scope for this module.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/botguard/botguard"
	"github.com/botguard/botguard/core/config"
	"github.com/botguard/botguard/core/event"
	"github.com/botguard/botguard/core/logger"
	"github.com/botguard/botguard/geoasn"
	"github.com/botguard/botguard/settings"
	"github.com/botguard/botguard/transport/livefeed"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(logger.WithProduction("botguardd"))

	appCfg := config.MustLoad[Config]()
	cfg := settings.MustLoad()

	var resolver geoasn.Resolver = geoasn.SimulatedResolver{}
	if appCfg.DNSResolver != "" {
		resolver = geoasn.NewDNSResolver(appCfg.DNSResolver)
	}

	bus := event.NewBus()
	coord, err := botguard.New(cfg, resolver, bus, log)
	if err != nil {
		log.Error("failed to build coordinator", logger.Error(err))
		os.Exit(1)
	}

	hub := livefeed.New(bus, nil, log)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.Handle("/", newHandler(coord, cfg.Thresholds, log))

	server := &http.Server{Addr: appCfg.HTTPAddr, Handler: mux}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info("listening", "addr", appCfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.ShutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
	log.Info("application stopped")
}

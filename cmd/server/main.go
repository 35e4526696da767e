package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harrylevesque/gatecheck/internal/api"
	"github.com/harrylevesque/gatecheck/internal/config"
	"github.com/harrylevesque/gatecheck/internal/utils"
)

func main() {
	configPath := flag.String("config", "", "Config file (yaml or json)")
	addr := flag.String("addr", "", "Listen address (default from server.addr)")
	fixtures := flag.String("fixtures", "", "Fixtures file (default from server.fixtures)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *fixtures != "" {
		cfg.Server.Fixtures = *fixtures
	}

	log, err := utils.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	f, err := api.LoadFixtures(cfg.Server.Fixtures)
	if err != nil {
		log.Fatalw("load fixtures", "path", cfg.Server.Fixtures, "error", err)
	}
	accounts, err := f.BuildAccounts()
	if err != nil {
		log.Fatalw("load accounts", "error", err)
	}
	data := f.Dataset()

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(data, accounts, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Infow("staging backend listening",
		"addr", cfg.Server.Addr,
		"fixtures", cfg.Server.Fixtures,
		"events", len(data.Events()),
		"accounts", len(f.Accounts),
	)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("server error", "error", err)
		}
	case <-stopCtx.Done():
		log.Infow("shutdown signal received, stopping server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorw("server shutdown error", "error", err)
	}
	log.Infow("server stopped")
}

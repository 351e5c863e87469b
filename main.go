package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stevemurr/study-app-server/config"
	"github.com/stevemurr/study-app-server/handler"
	"github.com/stevemurr/study-app-server/logger"
	"github.com/stevemurr/study-app-server/service"
	"github.com/stevemurr/study-app-server/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A store that cannot be created leaves the server running without one:
	// data endpoints answer 503 and /test reports the problem.
	st, err := store.New(ctx, store.Options{
		Backend:      cfg.StoreBackend,
		DatabaseURL:  cfg.DatabaseURL,
		DatabaseName: cfg.DatabaseName,
		DataDir:      cfg.DataDir,
	})
	if err != nil {
		log.Error("store not initialized", "backend", cfg.StoreBackend, "database_url", cfg.DatabaseURL, "error", err)
	} else {
		defer st.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := st.Ping(pingCtx); err != nil {
			log.Warn("store not reachable yet", "name", st.Name(), "error", err)
		}
		cancel()
	}

	svc := service.New(st, log)
	svc.DatabaseURLSet = cfg.DatabaseURL != ""

	h := handler.New(svc, log)
	h.MaxRequestBytes = cfg.MaxRequestBytes

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Wrap(h, cfg.AllowedOrigins, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Study App Server starting", "addr", srv.Addr, "backend", storeName(st), "data", cfg.DataDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func storeName(st store.Store) string {
	if st == nil {
		return "none"
	}
	return st.Name()
}

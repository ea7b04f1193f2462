package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"catering_store/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply the schema before serving")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !skipMigrate {
		if err := server.Migrate(ctx, cfg, log); err != nil {
			return err
		}
	}

	store, err := server.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	productCache, closeCache := server.OpenProductCache(ctx, cfg, log)
	defer closeCache()

	if cfg.VerifyOrderPrices {
		log.Info("order price verification enabled: line prices and totals are checked against the catalog")
	} else {
		log.Info("order price verification disabled: client prices and totals are stored as sent")
	}

	router := server.NewRouter(store, productCache, server.Options{
		JWTSecret:         cfg.JWTSecret,
		TokenTTL:          cfg.TokenTTL(),
		VerifyOrderPrices: cfg.VerifyOrderPrices,
		RecentOrdersLimit: cfg.RecentOrdersLimit,
		CORSOrigin:        cfg.CORSOrigin,
	}, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server exiting")
	return nil
}

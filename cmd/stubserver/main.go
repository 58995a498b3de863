// Command stubserver runs an in-memory stand-in for the XwanAI API on
// localhost so the client can be developed and tested without the hosted
// service. State is lost on exit.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xwanai/xwan-client/internal/api"
	"github.com/xwanai/xwan-client/internal/api/backend"
	"github.com/xwanai/xwan-client/internal/pkg/config"
	"github.com/xwanai/xwan-client/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "xwan-stubserver"})

	if cfg.Stub.JWTSecret == "dev-secret-change-me" {
		log.Warn().Msg("JWT_SECRET not set, signing tokens with the development secret")
	}

	b := backend.New(cfg.Stub.JWTSecret, cfg.Stub.TokenTTL)
	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Stub.Port),
		Handler:           api.NewRouter(b, logger.For("http")),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", srv.Addr).Msg("stub server listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("stub server stopped")
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

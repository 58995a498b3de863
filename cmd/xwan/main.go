// Command xwan is a terminal client for the XwanAI character-chat service.
//
//	xwan login -email a@b.com -password secret
//	xwan characters
//	xwan chat <character-id>
//
// Run "xwan help" for the full list of commands.
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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/xwanai/xwan-client/internal/core/domain"
	"github.com/xwanai/xwan-client/internal/core/service"
	"github.com/xwanai/xwan-client/internal/infrastructure/credstore"
	"github.com/xwanai/xwan-client/internal/infrastructure/remote"
	"github.com/xwanai/xwan-client/internal/pkg/config"
	"github.com/xwanai/xwan-client/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "xwan"})

	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	store, closeStore, err := credstore.Open(ctx, credstore.Config{
		Backend:  cfg.Credentials.Store,
		FilePath: cfg.Credentials.File,
		Redis: credstore.RedisConfig{
			Addr:      cfg.Redis.Addr,
			DB:        cfg.Redis.DB,
			Namespace: cfg.Credentials.Namespace,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open credential store")
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn().Err(err).Msg("failed to close credential store")
		}
	}()

	client, err := remote.New(remote.Options{
		BaseURL: cfg.API.URL,
		Timeout: cfg.API.Timeout,
		Store:   store,
		Log:     logger.For("remote"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build api client")
	}

	session := service.NewSessionService(client, store, logger.For("session"))
	a := &app{
		session:        session,
		chat:           service.NewChatService(client, session, logger.For("chat")),
		directory:      service.NewDirectoryService(client, session, cfg.Directory.OwnedPageSize, logger.For("directory")),
		profiles:       service.NewProfileService(client, session, logger.For("profile")),
		publicPageSize: cfg.Directory.PublicPageSize,
		in:             os.Stdin,
		out:            os.Stdout,
	}

	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(exitCode(err))
	}
}

func serveMetrics(addr string, log zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()
	log.Debug().Str("addr", addr).Msg("metrics server listening")
	return srv
}

// describe turns an error into a single line for the terminal.
func describe(err error) string {
	if errors.Is(err, errUsage) {
		return err.Error()
	}
	switch domain.Classify(err) {
	case domain.KindValidation:
		return "invalid input: " + domain.Detail(err)
	case domain.KindAuthentication:
		return "login failed: " + domain.Detail(err)
	case domain.KindAuthorization:
		if errors.Is(err, domain.ErrNotAuthenticated) || errors.Is(err, domain.ErrSessionExpired) {
			return "not logged in, run: xwan login"
		}
		return "not allowed: " + domain.Detail(err)
	case domain.KindUnavailable:
		return "service unavailable, try again later: " + domain.Detail(err)
	default:
		return "error: " + domain.Detail(err)
	}
}

func exitCode(err error) int {
	if errors.Is(err, errUsage) {
		return 2
	}
	return 1
}

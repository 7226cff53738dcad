package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Dragon57t/GAME-ART/internal/adapters/auth"
	router "github.com/Dragon57t/GAME-ART/internal/adapters/http"
	wssignal "github.com/Dragon57t/GAME-ART/internal/adapters/signal"
	"github.com/Dragon57t/GAME-ART/internal/app"
	"github.com/Dragon57t/GAME-ART/internal/app/orch"
	"github.com/Dragon57t/GAME-ART/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	orchestrator := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Queue:    app.NewMatchmaker(),
		Policy:   app.SimplePolicy{},
	}

	var authenticator app.Authenticator
	if cfg.AuthURL != "" {
		authenticator = auth.NewClient(cfg.AuthURL, cfg.AuthTimeout)
	}

	ctrl := wssignal.NewSignalWSController(orchestrator, authenticator, wssignal.Options{
		ReadLimit:   cfg.ReadLimit,
		PingPeriod:  cfg.PingPeriod,
		MatchRate:   cfg.MatchRate,
		MatchWindow: cfg.MatchWindow,
	})

	r := router.SetupRouter(ctx, cfg, ctrl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("GAME-ART server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}

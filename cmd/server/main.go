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

	"github.com/craftvoice/relay/internal/adapters/ai"
	router "github.com/craftvoice/relay/internal/adapters/http"
	wsignal "github.com/craftvoice/relay/internal/adapters/signal"
	"github.com/craftvoice/relay/internal/app"
	"github.com/craftvoice/relay/internal/config"
	"github.com/craftvoice/relay/internal/core"
	"github.com/craftvoice/relay/internal/domain"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	store := core.NewRoomStore()
	registry := core.NewSessionRegistry()
	relay := app.NewRelay(store, registry, domain.Settings{
		MaxPlayers:       cfg.Room.MaxPlayers,
		ProximityRadius:  cfg.Room.ProximityRadius,
		AllowTranslation: cfg.Room.AllowTranslation,
	})

	ctl := &wsignal.Controller{
		Relay:      relay,
		Moderation: app.NewModeration(registry),
		Router:     core.ProximityRouter{},
		Translator: ai.NewSimulatedTranslator(),
		TTS:        ai.NewSimulatedSynthesizer(),
		Addon:      router.LogBridge{},
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
	}

	reclaimer := app.NewReclaimer(store, cfg.Reclaim.SweepInterval, cfg.Reclaim.StaleAfter)
	go reclaimer.Run(ctx)

	r := router.SetupRouter(ctx, cfg, ctl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("voice relay started")
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

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

	router "github.com/parthdv/huddle/internal/adapters/http"
	"github.com/parthdv/huddle/internal/adapters/speech"
	"github.com/parthdv/huddle/internal/adapters/store"
	"github.com/parthdv/huddle/internal/adapters/summarize"
	"github.com/parthdv/huddle/internal/app"
	"github.com/parthdv/huddle/internal/app/orch"
	"github.com/parthdv/huddle/internal/config"
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
		log.Fatal().Err(err).Msg("failed to load config")
	}

	speechClient := speech.NewClient(cfg.Speech.APIKey, cfg.Speech.BaseURL,
		speech.WithPolling(cfg.Speech.PollInterval, cfg.Speech.PollTimeout))
	summarizer := summarize.NewClient(cfg.Summary.APIKey, cfg.Summary.BaseURL, cfg.Summary.Model)

	// The store is optional: without a DSN the summary persistence endpoints
	// answer 503 while the relay keeps working.
	var summaryStore router.SummaryStore
	if cfg.Store.DSN != "" {
		s, err := store.Connect(ctx, cfg.Store.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect store")
		}
		defer s.Close()
		summaryStore = s
	} else {
		log.Warn().Msg("no store DSN configured, summary persistence disabled")
	}

	registry := app.NewRegistry()
	rooms := app.NewRooms()
	o := orch.New(registry, rooms, speechClient, summarizer, cfg.TempDir, cfg.MaxInflightChunks)

	r := router.SetupRouter(ctx, cfg, o, summaryStore)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Huddle server started")
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

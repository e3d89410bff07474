package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"designrage/internal/config"
	"designrage/internal/game"
	"designrage/internal/scenario"
	"designrage/internal/session"
	"designrage/internal/storage"
	"designrage/internal/web"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pack := scenario.Default()
	if cfg.ScenarioFile != "" {
		pack, err = scenario.LoadPack(cfg.ScenarioFile)
		if err != nil {
			log.Fatal(err)
		}
	}

	fetcher := scenario.Static(pack)
	if cfg.GeminiAPIKey != "" {
		g, err := scenario.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal(err)
		}
		defer g.Close()
		fetcher = scenario.WithFallback(g, scenario.Generated(game.CryptoPicker{}))
		log.Printf("generating scenarios with %s", cfg.GeminiModel)
	}

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer backend.Close()

	tmpl, err := web.ParseTemplates()
	if err != nil {
		log.Fatal(err)
	}

	srv := &web.Server{
		Sessions:      session.NewMemoryStore[*web.Play](),
		States:        backend,
		Profiles:      backend,
		NewSource:     func() game.ScenarioSource { return scenario.NewCache(fetcher, pack.Chaos) },
		Tmpl:          tmpl,
		MaxRounds:     cfg.MaxRounds,
		FeedbackDelay: cfg.FeedbackDelay,
	}

	hs := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s (store: %s)", cfg.Addr, cfg.Store)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

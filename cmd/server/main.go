package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gitea.jw6.us/james/traindesk/internal/cache"
	"gitea.jw6.us/james/traindesk/internal/config"
	"gitea.jw6.us/james/traindesk/internal/derive"
	httpserver "gitea.jw6.us/james/traindesk/internal/http"
	"gitea.jw6.us/james/traindesk/internal/remote"
)

func main() {
	log.Println("Starting Traindesk server...")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := remote.NewClient(cfg.Remote.BaseURL)
	store := cache.New(client)
	palette := derive.DefaultPalette()

	// Warm the snapshot so the first page render has data; pages reload on
	// their own, so a cold start against a down store is not fatal.
	warmCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := store.ReloadCustomers(warmCtx); err != nil {
		log.Printf("initial customer load failed: %v", err)
	}
	if err := store.ReloadTrainings(warmCtx); err != nil {
		log.Printf("initial training load failed: %v", err)
	}
	cancel()

	r := httpserver.NewRouter(cfg, client, store, palette)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

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

	"memorymatch/config"
	"memorymatch/network"
	"memorymatch/room"
	"memorymatch/store"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.SetPrefix("[MEMORY] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	results, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer results.Close()

	rooms := room.NewManager(room.Options{
		TickInterval: cfg.TickInterval,
		MatchDelay:   cfg.MatchDelay,
	})
	rooms.OnWin = results.WinRecorder(2 * time.Second)
	defer rooms.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           network.NewServer(rooms, results, cfg.LeaderboardSize).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s (ws endpoint: /api/games/{code}/ws)", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package store

import (
	"context"
	"log"
	"time"

	"memorymatch/game"
)

// WinRecorder returns a room.Manager OnWin hook that saves each won game.
// It runs on the room goroutine, so each save is bounded by timeout.
func (s *Store) WinRecorder(timeout time.Duration) func(code string, sum game.Summary) {
	return func(code string, sum game.Summary) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		r, err := s.SaveResult(ctx, Result{
			Code:    code,
			Moves:   sum.Moves,
			Seconds: sum.Time,
			Stars:   sum.Stars,
		})
		if err != nil {
			log.Printf("room %s: record win: %v", code, err)
			return
		}
		log.Printf("room %s: recorded result %s", code, r.ID)
	}
}

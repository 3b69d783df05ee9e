package network

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"memorymatch/room"
	"memorymatch/store"
)

// Leaderboard is the read side of the results store.
type Leaderboard interface {
	Leaderboard(ctx context.Context, limit int) ([]store.Result, error)
}

// Server exposes rooms over HTTP and websockets.
type Server struct {
	rooms           *room.Manager
	results         Leaderboard
	leaderboardSize int
	logger          *log.Logger
	upgrader        websocket.Upgrader
	joinTimeout     time.Duration
}

func NewServer(rooms *room.Manager, results Leaderboard, leaderboardSize int) *Server {
	if leaderboardSize <= 0 {
		leaderboardSize = 10
	}
	return &Server{
		rooms:           rooms,
		results:         results,
		leaderboardSize: leaderboardSize,
		logger:          log.New(os.Stdout, "[API] ", log.LstdFlags),
		upgrader: websocket.Upgrader{
			// For dev, allow all origins. Lock this down in prod.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		joinTimeout: 5 * time.Second,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Post("/games", s.handleCreateGame)
		r.Get("/games", s.handleListGames)
		r.Get("/games/{code}/ws", s.handleWS)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	code := s.rooms.CreateRoom()
	writeJSON(w, http.StatusCreated, map[string]string{"code": code})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.rooms.ListRooms())
}

// GET /api/leaderboard?limit=N
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := s.leaderboardSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeJSON(w, http.StatusBadRequest, errObj("VALIDATION_ERROR", "limit must be between 1 and 100"))
			return
		}
		limit = n
	}
	if s.results == nil {
		writeJSON(w, http.StatusOK, []store.Result{})
		return
	}
	board, err := s.results.Leaderboard(r.Context(), limit)
	if err != nil {
		s.logger.Printf("leaderboard: %v", err)
		writeJSON(w, http.StatusInternalServerError, errObj("INTERNAL", "could not load leaderboard"))
		return
	}
	writeJSON(w, http.StatusOK, board)
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errObj(code, message string) map[string]apiError {
	return map[string]apiError{"error": {Code: code, Message: message}}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

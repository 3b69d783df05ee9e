package room

import (
	"crypto/rand"
	"log"
	"math/big"
	"sort"
	"sync"

	"memorymatch/game"
)

// RoomInfo is returned by the API for the game list.
type RoomInfo struct {
	Code    string `json:"code"`
	Players int    `json:"players"`
}

// Manager holds multiple rooms by code. Rooms are created via CreateRoom
// and removed when the last player leaves.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	opts  Options

	// OnWin is wired into every room the manager creates.
	OnWin func(code string, sum game.Summary)
}

func NewManager(opts Options) *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
		opts:  opts,
	}
}

// GetRoom returns the room for the given code, or nil.
func (m *Manager) GetRoom(code string) *Room {
	if code == "" {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[code]
}

func (m *Manager) removeRoom(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[code]; ok {
		r.Stop()
		delete(m.rooms, code)
		log.Printf("room %s: removed", code)
	}
}

const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CreateRoom generates a unique 6-char code, creates the room, and returns the code.
func (m *Manager) CreateRoom() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		code := generateCode(6)
		if _, exists := m.rooms[code]; exists {
			continue
		}
		r := New(m.opts)
		r.Code = code
		r.OnEmpty = func(c string) {
			m.removeRoom(c)
		}
		r.OnWin = m.OnWin
		m.rooms[code] = r
		go r.Run()
		log.Printf("room %s: created", code)
		return code
	}
}

// ListRooms returns all active rooms with code and player count, sorted by code.
func (m *Manager) ListRooms() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RoomInfo, 0, len(m.rooms))
	for code, r := range m.rooms {
		out = append(out, RoomInfo{Code: code, Players: r.NumPlayers()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Close stops every room.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, r := range m.rooms {
		r.Stop()
		delete(m.rooms, code)
	}
}

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}

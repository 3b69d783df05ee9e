package room

import "memorymatch/protocol"

type Conn interface {
	Send([]byte) error
	Close() error
}

// Join: issued once after hello parsed
type Join struct {
	Conn  Conn
	Name  string
	Reply chan<- JoinResult
}

type JoinResult struct {
	PlayerID string
}

// Leave: issued on disconnect
type Leave struct {
	PlayerID string
}

// Start: start-clicked
type Start struct {
	PlayerID string
}

// Restart: restart-clicked
type Restart struct {
	PlayerID string
}

// Open: card-clicked
type Open struct {
	PlayerID string
	Position int
}

// Snapshot asks for the current board; Reply must be buffered.
type Snapshot struct {
	Reply chan<- protocol.State
}

// checkMatch is posted by the deferred match timer. Stale generations are dropped.
type checkMatch struct {
	generation int
}

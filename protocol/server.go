package protocol

type Welcome struct {
	PlayerID string `json:"playerId"`
	Code     string `json:"code"`
}

// State is the full board as seen by a newly joined client.
type State struct {
	Phase        string         `json:"phase"`
	Moves        int            `json:"moves"`
	Time         int            `json:"time"`
	Stars        int            `json:"stars"`
	TimerRunning bool           `json:"timerRunning"`
	Cards        []CardSnapshot `json:"cards"`
}

type CardSnapshot struct {
	Position int    `json:"position"`
	State    string `json:"state"`
	Symbol   string `json:"symbol,omitempty"` // only once the card has been shuffled in
}

type Moves struct {
	N int `json:"n"`
}

type Time struct {
	Seconds int `json:"seconds"`
}

type Stars struct {
	N int `json:"n"`
}

type Card struct {
	Position int    `json:"position"`
	State    string `json:"state"`
}

type Symbol struct {
	Position int    `json:"position"`
	Symbol   string `json:"symbol"`
}

// Prompt carries the thresholds shown on the start screen.
type Prompt struct {
	TwoStarMoves int `json:"twoStarMoves"`
	OneStarMoves int `json:"oneStarMoves"`
}

type Won struct {
	Time  int `json:"time"`
	Moves int `json:"moves"`
	Stars int `json:"stars"`
}

type Error struct {
	Message string `json:"message"`
}

package game

import (
	"fmt"
	"math/rand/v2"
)

type Phase uint8

const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhaseWon
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhaseWon:
		return "won"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Session owns the score and deck of one game and is the only writer of its Display.
// It is not safe for concurrent use; room.Room serializes access.
type Session struct {
	score   Score
	deck    *Deck
	display Display
	phase   Phase
}

// Resolution is what Resolve did with the pending pair.
type Resolution struct {
	Match
	Won bool
}

// NewSession builds an idle session and shows the start prompt.
func NewSession(display Display, rng *rand.Rand) *Session {
	s := &Session{
		score:   NewScore(),
		deck:    NewDeck(rng),
		display: display,
		phase:   PhaseIdle,
	}
	display.ShowStartPrompt()
	return s
}

func (s *Session) Phase() Phase { return s.phase }

func (s *Session) Score() Score { return s.score }

func (s *Session) Pending() bool { return s.deck.Pending() }

// Card returns the symbol and state at pos; ok is false for an unknown position.
func (s *Session) Card(pos int) (sym Symbol, state CardState, ok bool) {
	sym, ok = s.deck.Symbol(pos)
	if !ok {
		return 0, 0, false
	}
	state, _ = s.deck.State(pos)
	return sym, state, true
}

// Start clears the board and score, reshuffles and enters PhasePlaying.
// Restarting is the same transition from any phase.
func (s *Session) Start() {
	s.deck.Reset()
	for pos := 0; pos < DeckSize; pos++ {
		s.display.SetCardState(pos, CardClosed)
	}
	for pos, sym := range s.deck.Cards() {
		s.display.SetCardSymbol(pos, sym)
	}

	s.score.Reset()
	s.display.SetMoves(s.score.Moves)
	s.display.SetStars(s.score.Stars)
	s.display.SetTime(s.score.Time)

	s.phase = PhasePlaying
}

// Open flips the card at pos. Anything other than a closed card during play with
// fewer than two cards pending is ignored, with no effect on score or display.
func (s *Session) Open(pos int) bool {
	if s.phase != PhasePlaying || !s.deck.CanOpen(pos) {
		return false
	}

	dropped := s.score.IncrementMove()
	s.display.SetMoves(s.score.Moves)
	if dropped {
		s.display.SetStars(s.score.Stars)
	}

	s.deck.Open(pos)
	s.display.SetCardState(pos, CardOpened)
	return true
}

// Resolve checks the pending pair and, only afterwards, the win condition.
// ok is false when there was nothing to resolve.
func (s *Session) Resolve() (res Resolution, ok bool) {
	m, ok := s.deck.CheckMatch()
	if !ok {
		return Resolution{}, false
	}
	state := CardClosed
	if m.Matched {
		state = CardMatched
	}
	s.display.SetCardState(m.A, state)
	s.display.SetCardState(m.B, state)

	res.Match = m
	if s.phase == PhasePlaying && s.deck.Complete() {
		s.phase = PhaseWon
		res.Won = true
		s.display.ShowWinSummary(s.Summary())
	}
	return res, true
}

// Tick adds one second while the game is running.
func (s *Session) Tick() bool {
	if s.phase != PhasePlaying {
		return false
	}
	s.score.IncrementTime()
	s.display.SetTime(s.score.Time)
	return true
}

func (s *Session) Summary() Summary {
	return Summary{Time: s.score.Time, Moves: s.score.Moves, Stars: s.score.Stars}
}

package game

const (
	DeckSize       = 2 * len(Symbols)
	MaxOpened      = 2
	MaxStars       = 3
	TwoStarMoves   = 30 // at or above: 2 stars
	OneStarMoves   = 40 // at or above: 1 star
	MatchDelayMS   = 200
	TickIntervalMS = 1000
)

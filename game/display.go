package game

// Summary is shown to the player once the last pair is matched.
type Summary struct {
	Time  int
	Moves int
	Stars int
}

// Display is the surface a Session writes to. It is never read back.
type Display interface {
	SetMoves(n int)
	SetTime(seconds int)
	SetStars(n int)
	SetCardState(pos int, state CardState)
	SetCardSymbol(pos int, symbol Symbol)
	ShowStartPrompt()
	ShowWinSummary(sum Summary)
}

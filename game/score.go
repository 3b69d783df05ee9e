package game

// Score is the move counter, elapsed seconds and star rating of one game.
type Score struct {
	Moves int
	Time  int
	Stars int
}

func NewScore() Score {
	return Score{Stars: MaxStars}
}

func (s *Score) IncrementTime() {
	s.Time++
}

// IncrementMove counts a move and reports whether the star rating dropped.
func (s *Score) IncrementMove() bool {
	s.Moves++
	stars := StarsFor(s.Moves)
	if stars < s.Stars {
		s.Stars = stars
		return true
	}
	return false
}

func (s *Score) Reset() {
	*s = NewScore()
}

// StarsFor maps a move count onto the fixed thresholds.
func StarsFor(moves int) int {
	switch {
	case moves >= OneStarMoves:
		return 1
	case moves >= TwoStarMoves:
		return 2
	default:
		return MaxStars
	}
}

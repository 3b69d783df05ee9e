package game

import (
	"fmt"
	"strings"
)

// recordDisplay keeps every Display call as a short string.
type recordDisplay struct {
	calls []string
}

func (r *recordDisplay) SetMoves(n int) { r.add("moves %d", n) }

func (r *recordDisplay) SetTime(seconds int) { r.add("time %d", seconds) }

func (r *recordDisplay) SetStars(n int) { r.add("stars %d", n) }

func (r *recordDisplay) ShowStartPrompt() { r.add("prompt") }

func (r *recordDisplay) ShowWinSummary(s Summary) {
	r.add("won %d %d %d", s.Time, s.Moves, s.Stars)
}

func (r *recordDisplay) SetCardState(pos int, state CardState) {
	r.add("card %d %s", pos, state)
}

func (r *recordDisplay) SetCardSymbol(pos int, symbol Symbol) {
	r.add("symbol %d %s", pos, symbol)
}

func (r *recordDisplay) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordDisplay) reset() { r.calls = nil }

func (r *recordDisplay) count(prefix string) int {
	n := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

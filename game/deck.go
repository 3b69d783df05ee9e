package game

import "math/rand/v2"

// Deck holds the 16 card positions and their closed/opened/matched views.
type Deck struct {
	cards   [DeckSize]Symbol
	states  [DeckSize]CardState
	opened  []int
	matched []int
	rng     *rand.Rand
}

// Match is the outcome of resolving one opened pair.
type Match struct {
	A, B    int
	Matched bool
}

func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		opened:  make([]int, 0, MaxOpened),
		matched: make([]int, 0, DeckSize),
		rng:     rng,
	}
	for i, s := range Symbols {
		d.cards[2*i] = s
		d.cards[2*i+1] = s
	}
	return d
}

// Reset closes every card, clears both views and reshuffles once.
func (d *Deck) Reset() {
	d.opened = d.opened[:0]
	d.matched = d.matched[:0]
	for i := range d.states {
		d.states[i] = CardClosed
	}
	d.Shuffle()
}

// Shuffle is a Fisher-Yates permutation of the symbol sequence.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

func inRange(pos int) bool {
	return pos >= 0 && pos < DeckSize
}

func (d *Deck) Symbol(pos int) (Symbol, bool) {
	if !inRange(pos) {
		return 0, false
	}
	return d.cards[pos], true
}

func (d *Deck) State(pos int) (CardState, bool) {
	if !inRange(pos) {
		return 0, false
	}
	return d.states[pos], true
}

// CanOpen reports whether pos is a closed card and no pair is awaiting resolution.
func (d *Deck) CanOpen(pos int) bool {
	return inRange(pos) && d.states[pos] == CardClosed && len(d.opened) < MaxOpened
}

// Open flips a closed card face up. It returns false and changes nothing otherwise.
func (d *Deck) Open(pos int) bool {
	if !d.CanOpen(pos) {
		return false
	}
	d.states[pos] = CardOpened
	d.opened = append(d.opened, pos)
	return true
}

// Pending reports whether two opened cards are waiting for CheckMatch.
func (d *Deck) Pending() bool {
	return len(d.opened) == MaxOpened
}

// CheckMatch resolves the pending pair. ok is false when no pair is pending.
func (d *Deck) CheckMatch() (m Match, ok bool) {
	if !d.Pending() {
		return Match{}, false
	}
	m = Match{A: d.opened[0], B: d.opened[1]}
	m.Matched = d.cards[m.A] == d.cards[m.B]
	next := CardClosed
	if m.Matched {
		next = CardMatched
		d.matched = append(d.matched, m.A, m.B)
	}
	d.states[m.A] = next
	d.states[m.B] = next
	d.opened = d.opened[:0]
	return m, true
}

// Complete reports whether every position is matched.
func (d *Deck) Complete() bool {
	return len(d.matched) == DeckSize
}

func (d *Deck) Cards() []Symbol {
	out := make([]Symbol, DeckSize)
	copy(out, d.cards[:])
	return out
}

func (d *Deck) Opened() []int {
	return append([]int(nil), d.opened...)
}

func (d *Deck) Matched() []int {
	return append([]int(nil), d.matched...)
}

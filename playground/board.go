package playground

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
)

var ErrUnknownPiece = errors.New("playground: unknown piece")

type Piece struct {
	ID         int
	Rect       Rect
	Color      string
	FramesLeft int

	pathX, pathY float64
}

// Moving reports whether the piece still has path frames to play.
func (p *Piece) Moving() bool {
	return p.FramesLeft > 0
}

// Board holds the spawned pieces and the fixed target that deletes them.
type Board struct {
	Target Rect
	pieces map[int]*Piece
	nextID int
	rng    *rand.Rand
}

func NewBoard(target Rect, rng *rand.Rand) *Board {
	return &Board{
		Target: target,
		pieces: make(map[int]*Piece),
		nextID: 1,
		rng:    rng,
	}
}

// Palette lays out n templates of size w x h in a row along the top.
func Palette(n int, w, h float64) []Rect {
	out := make([]Rect, n)
	for i := range out {
		out[i] = RectAt((float64(i)+PaletteOffset)*PaletteSpacing, PaletteTop, w, h)
	}
	return out
}

// Spawn clones template below itself and gives it a random-length drift path.
func (b *Board) Spawn(template Rect) Piece {
	p := &Piece{
		ID:         b.nextID,
		Rect:       template.Offset(0, SpawnDropY),
		Color:      RandomColor(b.rng),
		FramesLeft: b.rng.IntN(MaxPathFrames),
		pathX:      template.Left + PathStartDX,
		pathY:      template.Top + PathStartDY,
	}
	b.nextID++
	b.pieces[p.ID] = p
	return *p
}

// Step plays one animation frame and returns how many pieces are still moving.
func (b *Board) Step() int {
	moving := 0
	for _, p := range b.pieces {
		if !p.Moving() {
			continue
		}
		p.FramesLeft--
		p.pathX += PathStepX
		p.pathY += PathStepY
		p.Rect = p.Rect.MoveTo(p.pathX, p.pathY)
		if p.Moving() {
			moving++
		}
	}
	return moving
}

// Drag moves a piece by (dx, dy). A piece that ends up touching the target
// is deleted and removed is true.
func (b *Board) Drag(id int, dx, dy float64) (removed bool, err error) {
	p, ok := b.pieces[id]
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownPiece, id)
	}
	p.FramesLeft = 0
	p.Rect = p.Rect.Offset(dx, dy)
	if Collide(p.Rect, b.Target) {
		delete(b.pieces, id)
		return true, nil
	}
	return false, nil
}

func (b *Board) Piece(id int) (Piece, bool) {
	p, ok := b.pieces[id]
	if !ok {
		return Piece{}, false
	}
	return *p, true
}

// Pieces returns a copy of every live piece ordered by id.
func (b *Board) Pieces() []Piece {
	out := make([]Piece, 0, len(b.pieces))
	for _, p := range b.pieces {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RandomColor returns #rrggbb, always two hex digits per channel.
func RandomColor(rng *rand.Rand) string {
	return fmt.Sprintf("#%02x%02x%02x", rng.IntN(256), rng.IntN(256), rng.IntN(256))
}

package room

import (
	"memorymatch/game"
	"memorymatch/protocol"
)

// broadcaster is the game.Display of a room: every call becomes one frame
// sent to all joined clients.
type broadcaster struct {
	r *Room
}

var _ game.Display = broadcaster{}

func (b broadcaster) SetMoves(n int) {
	b.r.broadcast(protocol.MsgMoves, protocol.Moves{N: n})
}

func (b broadcaster) SetTime(seconds int) {
	b.r.broadcast(protocol.MsgTime, protocol.Time{Seconds: seconds})
}

func (b broadcaster) SetStars(n int) {
	b.r.broadcast(protocol.MsgStars, protocol.Stars{N: n})
}

func (b broadcaster) SetCardState(pos int, state game.CardState) {
	b.r.broadcast(protocol.MsgCard, protocol.Card{Position: pos, State: state.String()})
}

func (b broadcaster) SetCardSymbol(pos int, symbol game.Symbol) {
	b.r.broadcast(protocol.MsgSymbol, protocol.Symbol{Position: pos, Symbol: symbol.String()})
}

func (b broadcaster) ShowStartPrompt() {
	b.r.broadcast(protocol.MsgPrompt, startPrompt())
}

func (b broadcaster) ShowWinSummary(sum game.Summary) {
	b.r.broadcast(protocol.MsgWon, protocol.Won{Time: sum.Time, Moves: sum.Moves, Stars: sum.Stars})
}

func startPrompt() protocol.Prompt {
	return protocol.Prompt{TwoStarMoves: game.TwoStarMoves, OneStarMoves: game.OneStarMoves}
}

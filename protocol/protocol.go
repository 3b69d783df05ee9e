package protocol

import (
	"encoding/json"
)

// client -> server
const (
	MsgHello   = "hello"
	MsgStart   = "start"
	MsgRestart = "restart"
	MsgOpen    = "open"
)

// server -> client
const (
	MsgWelcome = "welcome"
	MsgState   = "state"
	MsgMoves   = "moves"
	MsgTime    = "time"
	MsgStars   = "stars"
	MsgCard    = "card"
	MsgSymbol  = "symbol"
	MsgPrompt  = "prompt"
	MsgWon     = "won"
	MsgError   = "error"
)

const Version = 1

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // raw payload bytes
}

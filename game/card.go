package game

import "fmt"

type CardState uint8

const (
	CardClosed CardState = iota
	CardOpened
	CardMatched
)

func (s CardState) String() string {
	switch s {
	case CardClosed:
		return "closed"
	case CardOpened:
		return "opened"
	case CardMatched:
		return "matched"
	default:
		return fmt.Sprintf("CardState(%d)", uint8(s))
	}
}

type Symbol uint8

const (
	Binoculars Symbol = iota
	Bug
	Tree
	Child
	Globe
	Envira
	Cutlery
	Moon
)

// Symbols is the alphabet a deck is built from, in declaration order.
var Symbols = [...]Symbol{Binoculars, Bug, Tree, Child, Globe, Envira, Cutlery, Moon}

func (s Symbol) String() string {
	switch s {
	case Binoculars:
		return "binoculars"
	case Bug:
		return "bug"
	case Tree:
		return "tree"
	case Child:
		return "child"
	case Globe:
		return "globe"
	case Envira:
		return "envira"
	case Cutlery:
		return "cutlery"
	case Moon:
		return "moon"
	default:
		return fmt.Sprintf("Symbol(%d)", uint8(s))
	}
}

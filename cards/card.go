// Package cards defines the 52-card domain and its fixed public mapping
// onto G1 group elements.
package cards

import (
	"fmt"

	"github.com/paulhankin/poker"
	"github.com/pterm/pterm"
)

// Card suit constants (0-3)
const (
	Club    = 0 // ♣ (black)
	Diamond = 1 // ♦ (red)
	Heart   = 2 // ♥ (red)
	Spade   = 3 // ♠ (black)
)

// Card rank constants for face cards and ace
const (
	Jack  = 11 // J
	Queen = 12 // Q
	King  = 13 // K
	Ace   = 1  // A (low in straights, high in value)
)

// FaceDown is the display character for hidden cards
const FaceDown = "▓"

// rank and suit label alphabets; their product enumerates the deck in
// canonical order.
const (
	rankLabels = "23456789TJQKA"
	suitLabels = "shdc"
)

// Card represents a playing card with suit and rank.
// Rank 0 indicates a face-down or uninitialized card.
type Card struct {
	suit uint8 // 0-3: clubs, diamonds, hearts, spades
	rank uint8 // 1-13: ace through king (0 = face down)
}

// New creates a Card with validation.
//
// Parameters:
//   - suit: 0-3 (Club, Diamond, Heart, Spade)
//   - rank: 1-13 (Ace=1, 2-10=face value, Jack=11, Queen=12, King=13)
func New(suit uint8, rank uint8) (Card, error) {
	if suit > 3 || rank == 0 || rank > 13 {
		return Card{}, fmt.Errorf("invalid card %d, %d", suit, rank)
	}
	return Card{suit: suit, rank: rank}, nil
}

// Suit returns the suit value of the Card (0-3: clubs, diamonds, hearts, spades).
func (c Card) Suit() uint8 {
	return c.suit
}

// Rank returns the rank value of the Card (1-13: ace through king).
func (c Card) Rank() uint8 {
	return c.rank
}

// Label returns the two-character public label, e.g. "As" or "Th". The
// label bytes are what gets hashed to the card's group element.
func (c Card) Label() string {
	var rank byte
	switch c.rank {
	case Ace:
		rank = 'A'
	case 10:
		rank = 'T'
	case Jack:
		rank = 'J'
	case Queen:
		rank = 'Q'
	case King:
		rank = 'K'
	default:
		rank = '0' + c.rank
	}
	var suit byte
	switch c.suit {
	case Spade:
		suit = 's'
	case Heart:
		suit = 'h'
	case Diamond:
		suit = 'd'
	default:
		suit = 'c'
	}
	return string([]byte{rank, suit})
}

// Parse is the inverse of Label.
func Parse(label string) (Card, error) {
	if len(label) != 2 {
		return Card{}, fmt.Errorf("invalid card label %q", label)
	}
	var rank uint8
	switch r := label[0]; {
	case r == 'A':
		rank = Ace
	case r == 'T':
		rank = 10
	case r == 'J':
		rank = Jack
	case r == 'Q':
		rank = Queen
	case r == 'K':
		rank = King
	case r >= '2' && r <= '9':
		rank = r - '0'
	default:
		return Card{}, fmt.Errorf("invalid rank in label %q", label)
	}
	var suit uint8
	switch label[1] {
	case 's':
		suit = Spade
	case 'h':
		suit = Heart
	case 'd':
		suit = Diamond
	case 'c':
		suit = Club
	default:
		return Card{}, fmt.Errorf("invalid suit in label %q", label)
	}
	return New(suit, rank)
}

// EvalCard converts to the evaluator's card representation for showdown
// scoring.
func (c Card) EvalCard() (poker.Card, error) {
	return poker.MakeCard(poker.Suit(c.suit), poker.Rank(c.rank))
}

// String returns a human-readable representation of the Card using suit
// symbols (♣, ♦, ♥, ♠) and rank abbreviations (A, J, Q, K, or number).
func (c Card) String() string {
	if c.rank == 0 {
		return FaceDown
	}

	var suit string
	switch c.suit {
	case Club:
		suit = pterm.Black("♣")
	case Diamond:
		suit = pterm.LightRed("♦")
	case Heart:
		suit = pterm.LightRed("♥")
	case Spade:
		suit = pterm.Black("♠")
	default:
		suit = "?"
	}

	var rankStr string
	switch c.rank {
	case Ace:
		rankStr = "A"
	case Jack:
		rankStr = "J"
	case Queen:
		rankStr = "Q"
	case King:
		rankStr = "K"
	default:
		rankStr = fmt.Sprintf("%d", c.rank)
	}
	return rankStr + suit
}

// All enumerates the 52 cards in canonical deck order: ranks 2..A, each
// in suit order s, h, d, c.
func All() []Card {
	deck := make([]Card, 0, 52)
	for _, r := range []byte(rankLabels) {
		for _, s := range []byte(suitLabels) {
			c, err := Parse(string([]byte{r, s}))
			if err != nil {
				panic(err) // alphabets are fixed
			}
			deck = append(deck, c)
		}
	}
	return deck
}

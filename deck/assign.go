package deck

import "fmt"

// Board layout: flop (3 cards), turn, river.
const (
	flopSize  = 3
	boardSize = 5
)

// Assignment fixes which slots belong to which seat's hole cards and
// which form the community board. It is purely a function of the player
// count: seats 0..n-1 own slots (2i, 2i+1), the next five slots are the
// board. Assignment is decided before any unmasking begins and never
// changes mid-hand.
type Assignment struct {
	numPlayers int
}

// Assign builds the slot assignment for n seated players.
func Assign(n int) (Assignment, error) {
	if n < 2 {
		return Assignment{}, fmt.Errorf("need at least 2 players, got %d", n)
	}
	if 2*n+boardSize > Size {
		return Assignment{}, fmt.Errorf("%d players need %d slots, deck has %d", n, 2*n+boardSize, Size)
	}
	return Assignment{numPlayers: n}, nil
}

// NumPlayers returns the seated player count.
func (a Assignment) NumPlayers() int {
	return a.numPlayers
}

// HoleSlots returns the two hole-card slots owned by seat.
func (a Assignment) HoleSlots(seat int) [2]int {
	return [2]int{2 * seat, 2*seat + 1}
}

// FlopSlots returns the three flop slots.
func (a Assignment) FlopSlots() [3]int {
	base := 2 * a.numPlayers
	return [3]int{base, base + 1, base + 2}
}

// TurnSlot returns the turn slot.
func (a Assignment) TurnSlot() int {
	return 2*a.numPlayers + flopSize
}

// RiverSlot returns the river slot.
func (a Assignment) RiverSlot() int {
	return 2*a.numPlayers + flopSize + 1
}

// BoardSlots returns all five community slots in reveal order.
func (a Assignment) BoardSlots() [5]int {
	base := 2 * a.numPlayers
	return [5]int{base, base + 1, base + 2, base + 3, base + 4}
}

// Owner returns the seat owning a hole-card slot, or ok=false for board
// and undealt slots.
func (a Assignment) Owner(slot int) (int, bool) {
	if slot < 0 || slot >= 2*a.numPlayers {
		return 0, false
	}
	return slot / 2, true
}

// IsBoard reports whether slot is one of the community slots.
func (a Assignment) IsBoard(slot int) bool {
	base := 2 * a.numPlayers
	return slot >= base && slot < base+boardSize
}

// Dealt reports whether slot is assigned at all this hand. Slots past
// the board stay sealed and are never unmasked.
func (a Assignment) Dealt(slot int) bool {
	return slot >= 0 && slot < 2*a.numPlayers+boardSize
}

package holdem

import (
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"

	"github.com/pairdeal/pairdeal/audit"
	"github.com/pairdeal/pairdeal/deck"
)

// Table runs consecutive hands over a fixed set of seats: it carries
// stacks across hands, rotates the dealer button, and sits out busted
// seats. Hands are dealt to the live seats only, so hand seat numbers
// are positions in the live rotation; TableSeat and HandSeat translate.
type Table struct {
	stacks     []uint64
	dealer     int // table seat holding the button
	smallBlind uint64
	referee    audit.Referee
	prover     deck.ShuffleProver
	log        zerolog.Logger

	current *Hand
	seatMap []int // hand seat -> table seat for current
	played  int
}

// NewTable seats numPlayers with equal buy-ins.
func NewTable(numPlayers int, buyIn, smallBlind uint64, referee audit.Referee, prover deck.ShuffleProver, logger zerolog.Logger) (*Table, error) {
	if numPlayers < 2 {
		return nil, xerrors.Errorf("need at least 2 players, got %d", numPlayers)
	}
	if smallBlind == 0 || buyIn < 2*smallBlind {
		return nil, xerrors.Errorf("buy-in of %d cannot cover blinds of %d/%d", buyIn, smallBlind, 2*smallBlind)
	}
	stacks := make([]uint64, numPlayers)
	for i := range stacks {
		stacks[i] = buyIn
	}
	return &Table{
		stacks:     stacks,
		smallBlind: smallBlind,
		referee:    referee,
		prover:     prover,
		log:        logger,
	}, nil
}

// StartHand deals the next hand to the seats still holding chips. The
// previous hand must have reached a terminal phase; its stacks carry
// over and the button moves to the next live seat.
func (t *Table) StartHand() (*Hand, error) {
	if t.current != nil {
		if !t.current.Phase().Terminal() {
			return nil, xerrors.Errorf("hand %s still in %s", t.current.ID(), t.current.Phase())
		}
		t.collectStacks()
		t.advanceButton()
	}

	var live []int
	for seat, chips := range t.stacks {
		if chips > 0 {
			live = append(live, seat)
		}
	}
	if len(live) < 2 {
		return nil, xerrors.Errorf("only %d seats still have chips", len(live))
	}

	if t.stacks[t.dealer] == 0 {
		t.advanceButton()
	}
	stacks := make([]uint64, len(live))
	dealer := 0
	for i, seat := range live {
		stacks[i] = t.stacks[seat]
		if seat == t.dealer {
			dealer = i
		}
	}

	h, err := NewHand(Config{
		Players:    len(live),
		Dealer:     dealer,
		SmallBlind: t.smallBlind,
		Stacks:     stacks,
		Referee:    t.referee,
		Prover:     t.prover,
		Logger:     t.log,
	})
	if err != nil {
		return nil, err
	}
	t.current = h
	t.seatMap = live
	t.played++
	return h, nil
}

// TableSeat translates a current-hand seat to its table seat.
func (t *Table) TableSeat(handSeat int) (int, bool) {
	if handSeat < 0 || handSeat >= len(t.seatMap) {
		return 0, false
	}
	return t.seatMap[handSeat], true
}

// HandSeat translates a table seat to its seat in the current hand;
// ok is false for seats sitting out.
func (t *Table) HandSeat(tableSeat int) (int, bool) {
	for i, seat := range t.seatMap {
		if seat == tableSeat {
			return i, true
		}
	}
	return 0, false
}

// Stacks returns the table stacks as of the last finished hand.
func (t *Table) Stacks() []uint64 {
	return append([]uint64(nil), t.stacks...)
}

// HandsPlayed returns the number of hands started.
func (t *Table) HandsPlayed() int {
	return t.played
}

func (t *Table) collectStacks() {
	for i, seat := range t.seatMap {
		t.stacks[seat] = t.current.Chips(i)
	}
}

// advanceButton moves the button to the next seat with chips.
func (t *Table) advanceButton() {
	n := len(t.stacks)
	for i := 1; i <= n; i++ {
		seat := (t.dealer + i) % n
		if t.stacks[seat] > 0 {
			t.dealer = seat
			return
		}
	}
}

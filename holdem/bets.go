package holdem

import (
	"fmt"
)

// ActionKind is a betting action kind.
type ActionKind string

const (
	ActionFold  ActionKind = "fold"
	ActionCheck ActionKind = "check"
	ActionCall  ActionKind = "call"
	ActionBet   ActionKind = "bet"
	ActionRaise ActionKind = "raise"
	ActionAllIn ActionKind = "allin"
)

// BetAction is one player's betting decision. Amount is the chips put
// in by this action (for call it may be omitted; the engine computes
// the owed difference). Seq is the hand's betting sequence number at
// submission time, taken from Hand.ActionSeq; a redelivered action
// keeps its original number and is rejected as a duplicate.
type BetAction struct {
	Kind   ActionKind
	Amount uint64
	Seq    uint64
}

// BettingState tracks chips, street bets, the pot and fold/all-in
// status for one hand. It is street-aware: nextStreet resets the
// per-street tracking while cumulative contributions keep feeding the
// side-pot computation.
type BettingState struct {
	chips       []uint64
	streetBets  []uint64
	contributed []uint64
	acted       []bool
	active      []bool
	allIn       []bool
	pot         uint64
	highest     uint64
}

func newBettingState(stacks []uint64) *BettingState {
	n := len(stacks)
	b := &BettingState{
		chips:       append([]uint64(nil), stacks...),
		streetBets:  make([]uint64, n),
		contributed: make([]uint64, n),
		acted:       make([]bool, n),
		active:      make([]bool, n),
		allIn:       make([]bool, n),
	}
	for i := range b.active {
		b.active[i] = true
	}
	return b
}

// Chips returns player's remaining stack.
func (b *BettingState) Chips(player int) uint64 {
	return b.chips[player]
}

// Pot returns the total chips committed this hand.
func (b *BettingState) Pot() uint64 {
	return b.pot
}

// Active reports whether player has not folded.
func (b *BettingState) Active(player int) bool {
	return b.active[player]
}

// ActiveCount returns the number of non-folded players.
func (b *BettingState) ActiveCount() int {
	n := 0
	for _, a := range b.active {
		if a {
			n++
		}
	}
	return n
}

// CallAmount returns the chips player owes to stay in.
func (b *BettingState) CallAmount(player int) (uint64, error) {
	if !b.active[player] {
		return 0, fmt.Errorf("player %d has already folded", player)
	}
	return b.highest - b.streetBets[player], nil
}

// validate checks an action against the current street without
// applying it.
func (b *BettingState) validate(player int, a BetAction) error {
	if !b.active[player] {
		return fmt.Errorf("player %d has already folded", player)
	}
	if b.allIn[player] {
		return fmt.Errorf("player %d is all-in", player)
	}
	owed := b.highest - b.streetBets[player]

	switch a.Kind {
	case ActionFold:
		return nil
	case ActionCheck:
		if owed > 0 {
			return fmt.Errorf("cannot check facing a bet of %d, must call, raise or fold", owed)
		}
	case ActionCall:
		if owed == 0 {
			return fmt.Errorf("nothing to call")
		}
		if owed > b.chips[player] {
			return fmt.Errorf("insufficient chips to call %d, go all-in instead", owed)
		}
	case ActionBet:
		if b.highest > 0 {
			return fmt.Errorf("facing a bet, raise instead")
		}
		if a.Amount == 0 {
			return fmt.Errorf("bet amount must be positive")
		}
		if a.Amount > b.chips[player] {
			return fmt.Errorf("insufficient chips")
		}
	case ActionRaise:
		if a.Amount > b.chips[player] {
			return fmt.Errorf("insufficient chips")
		}
		if b.streetBets[player]+a.Amount <= b.highest {
			return fmt.Errorf("raise must exceed the highest bet")
		}
	case ActionAllIn:
		if a.Amount != 0 && a.Amount != b.chips[player] {
			return fmt.Errorf("all-in amount must match player's stack")
		}
	default:
		return fmt.Errorf("unknown action %q", a.Kind)
	}
	return nil
}

// apply validates then applies an action, moving chips into the pot.
func (b *BettingState) apply(player int, a BetAction) error {
	if err := b.validate(player, a); err != nil {
		return err
	}

	put := func(amount uint64) {
		b.chips[player] -= amount
		b.streetBets[player] += amount
		b.contributed[player] += amount
		b.pot += amount
	}

	switch a.Kind {
	case ActionFold:
		b.active[player] = false
	case ActionCheck:
		// no chips move
	case ActionCall:
		put(b.highest - b.streetBets[player])
	case ActionBet, ActionRaise:
		put(a.Amount)
	case ActionAllIn:
		put(b.chips[player])
		b.allIn[player] = true
	}

	if b.streetBets[player] > b.highest {
		b.highest = b.streetBets[player]
		// a raise reopens the action for everyone still in
		for i := range b.acted {
			b.acted[i] = false
		}
	}
	b.acted[player] = true
	return nil
}

// forceBet posts a blind: chips move without marking the player as
// having acted, so the poster keeps the option when action returns. A
// short stack is put all-in.
func (b *BettingState) forceBet(player int, amount uint64) {
	if amount >= b.chips[player] {
		amount = b.chips[player]
		b.allIn[player] = true
	}
	b.chips[player] -= amount
	b.streetBets[player] += amount
	b.contributed[player] += amount
	b.pot += amount
	if b.streetBets[player] > b.highest {
		b.highest = b.streetBets[player]
	}
}

// fold is a direct fold used for betting timeouts and showdown mucks.
func (b *BettingState) fold(player int) {
	b.active[player] = false
}

// roundComplete reports whether the street is done: every non-folded
// player is either all-in or has acted and matched the highest bet.
func (b *BettingState) roundComplete() bool {
	if b.ActiveCount() <= 1 {
		return true
	}
	for i := range b.active {
		if !b.active[i] || b.allIn[i] {
			continue
		}
		if !b.acted[i] || b.streetBets[i] < b.highest {
			return false
		}
	}
	return true
}

// nextStreet resets the per-street tracking for the next betting round.
func (b *BettingState) nextStreet() {
	for i := range b.streetBets {
		b.streetBets[i] = 0
		b.acted[i] = false
	}
	b.highest = 0
}

// canAct reports whether player still makes betting decisions.
func (b *BettingState) canAct(player int) bool {
	return b.active[player] && !b.allIn[player]
}

// pot is one main or side pot with the seats eligible to win it.
type sidePot struct {
	amount   uint64
	eligible []int
}

// pots slices the cumulative contributions into main and side pots.
// Each iteration takes the minimum remaining contribution from every
// contributor; only non-folded players are eligible for a slice.
func (b *BettingState) pots() []sidePot {
	bets := append([]uint64(nil), b.contributed...)
	var out []sidePot

	for {
		var contributors []int
		for i, amt := range bets {
			if amt > 0 {
				contributors = append(contributors, i)
			}
		}
		if len(contributors) == 0 {
			break
		}

		minBet := bets[contributors[0]]
		for _, i := range contributors {
			if bets[i] < minBet {
				minBet = bets[i]
			}
		}

		var amount uint64
		var eligible []int
		for _, i := range contributors {
			amount += minBet
			bets[i] -= minBet
			if b.active[i] {
				eligible = append(eligible, i)
			}
		}
		out = append(out, sidePot{amount: amount, eligible: eligible})
	}
	return out
}

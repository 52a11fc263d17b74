// Package audit implements selective unmasking: per-slot layer
// bookkeeping, pairing-verified peels, and the fraud proofs an external
// referee can check without replaying the hand.
package audit

import (
	"sort"
)

// LayerLedger tracks, per card slot, which players' masking layers have
// been applied and which have been removed. Rows are created lazily:
// only slots actually undergoing unmasking occupy memory, so the ledger
// stays bounded by the number of revealed cards, never the deck size.
type LayerLedger struct {
	players []int
	rows    map[int]map[int]bool // slot -> player -> layer still present
}

// NewLayerLedger builds an empty ledger for the given players. Every
// lazily created row starts with all players' layers present, matching
// a fully sealed deck.
func NewLayerLedger(players []int) *LayerLedger {
	return &LayerLedger{
		players: append([]int(nil), players...),
		rows:    make(map[int]map[int]bool),
	}
}

func (l *LayerLedger) row(slot int) map[int]bool {
	r, ok := l.rows[slot]
	if !ok {
		r = make(map[int]bool, len(l.players))
		for _, p := range l.players {
			r[p] = true
		}
		l.rows[slot] = r
	}
	return r
}

// HasLayer reports whether player's layer is still present on slot.
func (l *LayerLedger) HasLayer(slot, player int) bool {
	return l.row(slot)[player]
}

// MarkRemoved records that player's layer came off slot.
func (l *LayerLedger) MarkRemoved(slot, player int) {
	l.row(slot)[player] = false
}

// Remaining returns how many layers are still present on slot. Zero
// means the slot is fully unmasked and should decode to a card.
func (l *LayerLedger) Remaining(slot int) int {
	n := 0
	for _, present := range l.row(slot) {
		if present {
			n++
		}
	}
	return n
}

// RemainingPlayers lists the players whose layers are still on slot, in
// ascending order.
func (l *LayerLedger) RemainingPlayers(slot int) []int {
	var out []int
	for p, present := range l.row(slot) {
		if present {
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}

// ActiveSlots lists the slots with at least one recorded peel, i.e. the
// rows the ledger actually holds.
func (l *LayerLedger) ActiveSlots() []int {
	out := make([]int, 0, len(l.rows))
	for slot := range l.rows {
		out = append(out, slot)
	}
	sort.Ints(out)
	return out
}

// Export snapshots the ledger as slot -> players whose layers were
// removed, for the hand's audit record.
func (l *LayerLedger) Export() map[int][]int {
	out := make(map[int][]int, len(l.rows))
	for slot, row := range l.rows {
		var removed []int
		for p, present := range row {
			if !present {
				removed = append(removed, p)
			}
		}
		sort.Ints(removed)
		out[slot] = removed
	}
	return out
}

package audit

import (
	"errors"
	"fmt"

	"go.dedis.ch/kyber/v4"

	"github.com/pairdeal/pairdeal/cards"
	"github.com/pairdeal/pairdeal/group"
)

var (
	// ErrInvalidProof signals a peel whose pairing check failed: the
	// submitted element is not the current slot element with the
	// peeler's layer removed. Never recovered silently.
	ErrInvalidProof = errors.New("invalid unmask proof")
	// ErrDuplicatePeel signals a second peel by the same player on the
	// same slot; the ledger is left untouched.
	ErrDuplicatePeel = errors.New("layer already removed")
	// ErrStillMasked signals a reveal attempt on a slot with layers
	// remaining.
	ErrStillMasked = errors.New("slot still carries masking layers")
)

// Engine drives selective unmasking for one hand. It owns the current
// element of every tracked slot, the layer ledger, and the players'
// public commitments; every peel is pairing-verified on arrival so a
// forged peel is caught at the first bad step.
type Engine struct {
	enc         *cards.Encoding
	current     map[int]kyber.Point
	ledger      *LayerLedger
	commitments map[int]group.Commitment
}

// NewEngine tracks the sealed deck slots for the given players.
// sealed is the final post-lock deck; commitments maps player to their
// KeyCommit commitment.
func NewEngine(enc *cards.Encoding, sealed []kyber.Point, commitments map[int]group.Commitment) *Engine {
	players := make([]int, 0, len(commitments))
	for p := range commitments {
		players = append(players, p)
	}
	current := make(map[int]kyber.Point, len(sealed))
	for i, p := range sealed {
		current[i] = p.Clone()
	}
	return &Engine{
		enc:         enc,
		current:     current,
		ledger:      NewLayerLedger(players),
		commitments: commitments,
	}
}

// Peel applies player's submitted unmask of slot. The submitted element
// must satisfy e(current, g2) == e(submitted, pk2): current is the
// player's layer on top of submitted. Order across players is free;
// any order reaches the same fully unmasked element.
//
// On ErrInvalidProof the slot is left unchanged so a fraud proof can be
// built from the still-current element.
func (e *Engine) Peel(slot, player int, unmasked kyber.Point) error {
	cur, ok := e.current[slot]
	if !ok {
		return fmt.Errorf("slot %d not tracked", slot)
	}
	com, ok := e.commitments[player]
	if !ok {
		return fmt.Errorf("no commitment for player %d", player)
	}
	if !e.ledger.HasLayer(slot, player) {
		return fmt.Errorf("player %d, slot %d: %w", player, slot, ErrDuplicatePeel)
	}
	if !group.VerifyPeel(cur, unmasked, com.PK2) {
		return fmt.Errorf("player %d, slot %d: %w", player, slot, ErrInvalidProof)
	}
	e.current[slot] = unmasked.Clone()
	e.ledger.MarkRemoved(slot, player)
	return nil
}

// Element returns the current (partially unmasked) element at slot.
func (e *Engine) Element(slot int) (kyber.Point, error) {
	cur, ok := e.current[slot]
	if !ok {
		return nil, fmt.Errorf("slot %d not tracked", slot)
	}
	return cur.Clone(), nil
}

// Remaining returns the number of masking layers still on slot.
func (e *Engine) Remaining(slot int) int {
	return e.ledger.Remaining(slot)
}

// HasLayer reports whether player's layer is still present on slot.
func (e *Engine) HasLayer(slot, player int) bool {
	return e.ledger.HasLayer(slot, player)
}

// Reveal decodes a fully unmasked slot. ErrStillMasked while layers
// remain; cards.ErrUnknownCard if the final element is not one of the
// 52 encodings, which means some accepted peel chain was fraudulent.
func (e *Engine) Reveal(slot int) (cards.Card, error) {
	if n := e.ledger.Remaining(slot); n > 0 {
		return cards.Card{}, fmt.Errorf("slot %d has %d layers left: %w", slot, n, ErrStillMasked)
	}
	cur, ok := e.current[slot]
	if !ok {
		return cards.Card{}, fmt.Errorf("slot %d not tracked", slot)
	}
	return e.enc.Decode(cur)
}

// Ledger exposes the layer ledger for phase bookkeeping and export.
func (e *Engine) Ledger() *LayerLedger {
	return e.ledger
}

// BuildFraudProof packages everything a referee needs to recheck a
// disputed peel of slot by player: the current element (which the peel
// claimed to unmask), the claimed result, and the player's commitment.
// Call before applying any further peel to the slot.
func (e *Engine) BuildFraudProof(handID string, slot, player int, claimed kyber.Point) (FraudProof, error) {
	cur, ok := e.current[slot]
	if !ok {
		return FraudProof{}, fmt.Errorf("slot %d not tracked", slot)
	}
	com, ok := e.commitments[player]
	if !ok {
		return FraudProof{}, fmt.Errorf("no commitment for player %d", player)
	}
	return FraudProof{
		HandID:     handID,
		Slot:       slot,
		Accused:    player,
		Masked:     cur.Clone(),
		Claimed:    claimed.Clone(),
		Commitment: com.PK2.Clone(),
	}, nil
}

// Package deck implements the jointly masked deck: sequential
// lock-and-shuffle by every player, the append-only shuffle trace, and
// the O(M) traced audit over opened slots.
package deck

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand/v2"

	"go.dedis.ch/kyber/v4"

	"github.com/pairdeal/pairdeal/cards"
	"github.com/pairdeal/pairdeal/group"
)

// Size is the number of card slots in a deck.
const Size = 52

var (
	// ErrDuplicateLock signals a second lock-and-shuffle by the same
	// player within one hand.
	ErrDuplicateLock = errors.New("player already locked this deck")
	// ErrOutOfOrder signals a lock submitted outside the agreed
	// sequential order.
	ErrOutOfOrder = errors.New("lock submitted out of order")
	// ErrSealed signals a lock arriving after every player has locked.
	ErrSealed = errors.New("deck already fully sealed")
)

// TraceEntry is one step of the shuffle trace: which player locked, the
// deck as it stood after their lock, a hash commitment over that
// snapshot, and the opaque remask proof their ShuffleProver produced.
type TraceEntry struct {
	Player      int
	Snapshot    []kyber.Point
	Hash        string
	RemaskProof []byte
}

// Deck is the ordered sequence of 52 masked card slots plus the shuffle
// trace accumulated while sealing it. It is created fresh per hand and
// mutated only through AcceptLock; unmasking happens slot-wise in the
// audit engine, never here.
type Deck struct {
	slots   []kyber.Point
	initial []kyber.Point
	order   []int // agreed locking order (seat ids)
	next    int
	trace   []TraceEntry
}

// New produces a deck holding the 52 cards in canonical, unshuffled,
// unmasked order, to be sealed by the players in lockOrder.
func New(enc *cards.Encoding, lockOrder []int) (*Deck, error) {
	if len(lockOrder) < 2 {
		return nil, fmt.Errorf("need at least 2 players, got %d", len(lockOrder))
	}
	points := enc.Points()
	if len(points) != Size {
		return nil, fmt.Errorf("encoding yielded %d cards, want %d", len(points), Size)
	}
	d := &Deck{
		slots:   points,
		initial: enc.Points(),
		order:   append([]int(nil), lockOrder...),
	}
	return d, nil
}

// Lock is the player-side half of lock-and-shuffle: it masks every slot
// with the player's scalar and reorders them by perm, returning the new
// deck without touching the input. perm must be a bijection of 0..51;
// the result's slot i holds mask(slots[perm[i]]).
func Lock(slots []kyber.Point, s kyber.Scalar, perm []int) ([]kyber.Point, error) {
	if len(perm) != len(slots) {
		return nil, fmt.Errorf("permutation has %d entries, want %d", len(perm), len(slots))
	}
	seen := make([]bool, len(slots))
	for _, j := range perm {
		if j < 0 || j >= len(slots) || seen[j] {
			return nil, fmt.Errorf("not a valid permutation of %d slots", len(slots))
		}
		seen[j] = true
	}
	out := make([]kyber.Point, len(slots))
	for i, j := range perm {
		out[i] = group.Mask(slots[j], s)
	}
	return out, nil
}

// RandomPermutation draws a fresh permutation of n slots.
func RandomPermutation(n int) []int {
	return rand.Perm(n)
}

// AcceptLock records one player's lock-and-shuffle submission.
// commitment is the locker's G2 key commitment, the point the remask
// pairing relation is checked against. The engine enforces the agreed
// order, rejects duplicate locks, checks the remask proof through the
// injected prover, and appends the trace entry binding the player to
// the resulting deck snapshot.
func (d *Deck) AcceptLock(player int, commitment kyber.Point, after []kyber.Point, proof []byte, prover ShuffleProver) (TraceEntry, error) {
	if d.next >= len(d.order) {
		return TraceEntry{}, ErrSealed
	}
	for _, e := range d.trace {
		if e.Player == player {
			return TraceEntry{}, fmt.Errorf("player %d: %w", player, ErrDuplicateLock)
		}
	}
	if d.order[d.next] != player {
		return TraceEntry{}, fmt.Errorf("expected player %d, got %d: %w", d.order[d.next], player, ErrOutOfOrder)
	}
	if len(after) != len(d.slots) {
		return TraceEntry{}, fmt.Errorf("locked deck has %d slots, want %d", len(after), len(d.slots))
	}
	if err := prover.Verify(d.slots, after, commitment, proof); err != nil {
		return TraceEntry{}, fmt.Errorf("remask proof for player %d: %w", player, err)
	}

	snapshot := clonePoints(after)
	entry := TraceEntry{
		Player:      player,
		Snapshot:    snapshot,
		Hash:        SnapshotHash(snapshot),
		RemaskProof: proof,
	}
	d.trace = append(d.trace, entry)
	d.slots = clonePoints(after)
	d.next++
	return entry, nil
}

// LockAndShuffle performs Lock and AcceptLock in one step for a player
// driving the deck in-process.
func (d *Deck) LockAndShuffle(player int, commitment kyber.Point, s kyber.Scalar, perm []int, prover ShuffleProver) (TraceEntry, error) {
	after, err := Lock(d.slots, s, perm)
	if err != nil {
		return TraceEntry{}, err
	}
	proof, err := prover.Prove(d.slots, after, s, perm)
	if err != nil {
		return TraceEntry{}, fmt.Errorf("remask proof: %w", err)
	}
	return d.AcceptLock(player, commitment, after, proof, prover)
}

// StepSnapshots returns the deck as it stood immediately before and
// after player's recorded lock, the inputs to a traced audit of that
// step.
func (d *Deck) StepSnapshots(player int) (before, after []kyber.Point, err error) {
	prev := d.initial
	for _, e := range d.trace {
		if e.Player == player {
			return clonePoints(prev), clonePoints(e.Snapshot), nil
		}
		prev = e.Snapshot
	}
	return nil, nil, fmt.Errorf("player %d has no recorded lock", player)
}

// FullySealed reports whether every player in the lock order has
// contributed their lock-and-shuffle. Only a fully sealed deck hides
// the slot-to-card mapping from every proper subset of players.
func (d *Deck) FullySealed() bool {
	return d.next == len(d.order)
}

// Slots returns the current deck state. Callers get clones.
func (d *Deck) Slots() []kyber.Point {
	return clonePoints(d.slots)
}

// Initial returns the canonical pre-lock deck.
func (d *Deck) Initial() []kyber.Point {
	return clonePoints(d.initial)
}

// Trace returns the shuffle trace accumulated so far.
func (d *Deck) Trace() []TraceEntry {
	return append([]TraceEntry(nil), d.trace...)
}

// LockOrder returns the agreed sequential locking order.
func (d *Deck) LockOrder() []int {
	return append([]int(nil), d.order...)
}

// SnapshotHash commits to a deck snapshot: sha256 over the marshaled
// slots in order, hex encoded.
func SnapshotHash(slots []kyber.Point) string {
	h := sha256.New()
	for _, p := range slots {
		b, err := p.MarshalBinary()
		if err != nil {
			panic(err) // group points always marshal
		}
		h.Write(b)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func clonePoints(ps []kyber.Point) []kyber.Point {
	out := make([]kyber.Point, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}

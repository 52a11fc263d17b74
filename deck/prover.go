package deck

import (
	"go.dedis.ch/kyber/v4"
)

// ShuffleProver is the pluggable argument that a lock-and-shuffle step
// applied a valid permutation plus remask without revealing which
// permutation. Prove runs on the locking player's side, Verify on every
// receiver's.
//
// The proof bytes are opaque to the deck engine; they travel in the
// trace entry so an external verifier can re-check them later.
type ShuffleProver interface {
	Prove(before, after []kyber.Point, secret kyber.Scalar, perm []int) ([]byte, error)
	Verify(before, after []kyber.Point, commitment kyber.Point, proof []byte) error
}

// DeferredTraceProver is the default prover: it emits no proof at lock
// time and accepts every lock, deferring verification to the traced
// audit over opened slots (VerifyShuffleTraced). This matches the
// optimistic protocol: cheating in the shuffle is caught when a
// tampered slot is opened, bounded by the number of cards actually
// revealed. A full ZK shuffle argument can be slotted in behind the
// same interface.
type DeferredTraceProver struct{}

func (DeferredTraceProver) Prove(_, _ []kyber.Point, _ kyber.Scalar, _ []int) ([]byte, error) {
	return nil, nil
}

func (DeferredTraceProver) Verify(_, _ []kyber.Point, _ kyber.Point, _ []byte) error {
	return nil
}

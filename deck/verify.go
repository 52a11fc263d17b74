package deck

import (
	"errors"
	"fmt"

	"go.dedis.ch/kyber/v4"

	"github.com/pairdeal/pairdeal/group"
)

// ErrShuffleForged is returned when a traced shuffle audit fails: the
// claimed input/output pairing does not hold, or a trace tries to map
// two outputs onto one input (card cloning).
var ErrShuffleForged = errors.New("shuffle verification failed")

// SlotTrace claims that after[AfterIndex] is the relock of
// before[BeforeIndex]. A player discloses these only for slots that
// were actually opened, keeping the audit O(M) in revealed cards.
type SlotTrace struct {
	AfterIndex  int
	BeforeIndex int
}

// VerifyShuffleTraced checks that the traced subset of a lock step is a
// valid remask under the locker's commitment pk2: for every trace,
// e(after[i], g2) == e(before[j], pk2), and no input slot is claimed
// twice. Work is proportional to the number of traces submitted, never
// to the deck size.
func VerifyShuffleTraced(before, after []kyber.Point, pk2 kyber.Point, traces []SlotTrace) error {
	used := make(map[int]bool, len(traces))
	for _, tr := range traces {
		if tr.AfterIndex < 0 || tr.AfterIndex >= len(after) ||
			tr.BeforeIndex < 0 || tr.BeforeIndex >= len(before) {
			return fmt.Errorf("trace index out of bounds (%d -> %d)", tr.BeforeIndex, tr.AfterIndex)
		}
		if used[tr.BeforeIndex] {
			return fmt.Errorf("input slot %d claimed twice: %w", tr.BeforeIndex, ErrShuffleForged)
		}
		used[tr.BeforeIndex] = true

		// after[i] = s*before[j] with pk2 = s*g2
		if !group.PairingCheck(after[tr.AfterIndex], group.G2Base(), before[tr.BeforeIndex], pk2) {
			return fmt.Errorf("slot %d -> %d: %w", tr.BeforeIndex, tr.AfterIndex, ErrShuffleForged)
		}
	}
	return nil
}

package holdem

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.dedis.ch/kyber/v4"

	"github.com/pairdeal/pairdeal/audit"
	"github.com/pairdeal/pairdeal/cards"
	"github.com/pairdeal/pairdeal/deck"
	"github.com/pairdeal/pairdeal/group"
)

func newTestHand(t *testing.T, players int) (*Hand, []*group.KeyPair, *audit.LocalReferee) {
	t.Helper()
	ref := &audit.LocalReferee{}
	h, err := NewHand(Config{
		Players:      players,
		Dealer:       0,
		InitialChips: 1000,
		SmallBlind:   10,
		Referee:      ref,
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)

	kps := make([]*group.KeyPair, players)
	for i := range kps {
		kp, err := group.NewKeyPair()
		require.NoError(t, err)
		kps[i] = kp
	}
	return h, kps, ref
}

func commitKeys(t *testing.T, h *Hand, kps []*group.KeyPair) {
	t.Helper()
	for seat, kp := range kps {
		require.NoError(t, h.SubmitKeyCommit(seat, kp.Public))
	}
	require.Equal(t, PhaseLockAndShuffle, h.Phase())
}

func sealDeck(t *testing.T, h *Hand, kps []*group.KeyPair) {
	t.Helper()
	n := len(kps)
	prover := deck.DeferredTraceProver{}
	for i := 0; i < n; i++ {
		seat := i % n // dealer is seat 0, so the rotation starts there
		slots := h.DeckSlots()
		perm := deck.RandomPermutation(len(slots))
		after, err := deck.Lock(slots, kps[seat].Secret, perm)
		require.NoError(t, err)
		proof, err := prover.Prove(slots, after, kps[seat].Secret, perm)
		require.NoError(t, err)
		require.NoError(t, h.SubmitLockAndShuffle(seat, after, proof))
	}
	require.Equal(t, PhaseDeal, h.Phase())
}

// dealHoles has every player peel every other player's hole slots.
func dealHoles(t *testing.T, h *Hand, kps []*group.KeyPair) {
	t.Helper()
	n := len(kps)
	for owner := 0; owner < n; owner++ {
		for _, slot := range h.Assignment().HoleSlots(owner) {
			for seat := 0; seat < n; seat++ {
				if seat == owner {
					continue
				}
				peelSlot(t, h, kps, seat, slot)
			}
		}
	}
	require.Equal(t, PhaseBetPreFlop, h.Phase())
}

func peelSlot(t *testing.T, h *Hand, kps []*group.KeyPair, seat, slot int) {
	t.Helper()
	el, err := h.SlotElement(slot)
	require.NoError(t, err)
	require.NoError(t, h.SubmitPeel(seat, slot, group.Unmask(el, kps[seat].Secret)))
}

// peelStreet has every player peel the given community slots.
func peelStreet(t *testing.T, h *Hand, kps []*group.KeyPair, slots ...int) {
	t.Helper()
	for _, slot := range slots {
		for seat := range kps {
			peelSlot(t, h, kps, seat, slot)
		}
	}
}

// act submits the given action for whoever is due, carrying the
// current sequence number.
func act(t *testing.T, h *Hand, kind ActionKind) {
	t.Helper()
	require.NoError(t, h.SubmitBetAction(h.Turn(), BetAction{Kind: kind, Seq: h.ActionSeq()}))
}

func checkAround(t *testing.T, h *Hand, kps []*group.KeyPair) {
	t.Helper()
	for range kps {
		act(t, h, ActionCheck)
	}
}

func TestHandPlaysToShowdown(t *testing.T) {
	h, kps, ref := newTestHand(t, 2)
	commitKeys(t, h, kps)
	sealDeck(t, h, kps)
	dealHoles(t, h, kps)

	// private views are available once the deal is done
	holes := make([][2]cards.Card, 2)
	for seat, kp := range kps {
		hc, err := h.HoleCards(seat, kp.Secret)
		require.NoError(t, err)
		holes[seat] = hc
	}

	// preflop: small blind completes, big blind checks
	act(t, h, ActionCall)
	act(t, h, ActionCheck)
	require.Equal(t, PhaseRevealFlop, h.Phase())

	flop := h.Assignment().FlopSlots()
	peelStreet(t, h, kps, flop[:]...)
	require.Equal(t, PhaseBetFlop, h.Phase())
	require.Len(t, h.Board(), 3)

	checkAround(t, h, kps)
	peelStreet(t, h, kps, h.Assignment().TurnSlot())
	require.Equal(t, PhaseBetTurn, h.Phase())

	checkAround(t, h, kps)
	peelStreet(t, h, kps, h.Assignment().RiverSlot())
	require.Equal(t, PhaseBetRiver, h.Phase())
	require.Len(t, h.Board(), 5)

	checkAround(t, h, kps)
	require.Equal(t, PhaseShowdown, h.Phase())

	for seat := range kps {
		for _, slot := range h.Assignment().HoleSlots(seat) {
			peelSlot(t, h, kps, seat, slot)
		}
	}
	require.Equal(t, PhaseSettled, h.Phase())

	// the public showdown must reveal exactly the private views
	for seat, hc := range holes {
		require.Equal(t, hc, h.hole[seat])
	}

	s := h.Settlement()
	require.NotNil(t, s)
	require.Equal(t, uint64(40), s.Pot)
	var paid uint64
	for _, won := range s.Payouts {
		paid += won
	}
	require.Equal(t, s.Pot, paid)
	require.Equal(t, uint64(2000), h.Chips(0)+h.Chips(1), "chips conserved")
	require.Len(t, ref.Settlements, 1)
	require.Empty(t, ref.Frauds)

	rec := h.AuditRecord()
	require.Equal(t, "settled", rec.FinalPhase)
	require.Len(t, rec.ShuffleTrace, 2)
	require.Len(t, rec.Board, 5)
	require.NotEmpty(t, rec.Layers)
	require.NoError(t, h.chain.Verify())
}

func TestHandFoldoutSkipsShowdown(t *testing.T) {
	h, kps, ref := newTestHand(t, 2)
	commitKeys(t, h, kps)
	sealDeck(t, h, kps)
	dealHoles(t, h, kps)

	// heads-up preflop: the small blind acts first and folds
	act(t, h, ActionFold)
	require.Equal(t, PhaseSettled, h.Phase())

	s := h.Settlement()
	require.NotNil(t, s)
	require.Equal(t, uint64(30), s.Pot)
	require.Equal(t, map[int]uint64{1: 30}, s.Payouts)
	require.Equal(t, uint64(990), h.Chips(0))
	require.Equal(t, uint64(1010), h.Chips(1))
	require.Len(t, ref.Settlements, 1)
}

func TestForgedCommunityPeelFaultsHand(t *testing.T) {
	h, kps, ref := newTestHand(t, 2)
	commitKeys(t, h, kps)
	sealDeck(t, h, kps)
	dealHoles(t, h, kps)
	act(t, h, ActionCall)
	act(t, h, ActionCheck)
	require.Equal(t, PhaseRevealFlop, h.Phase())

	// seat 0 submits a random element instead of removing its layer
	slot := h.Assignment().FlopSlots()[0]
	garbage := group.Suite.G1().Point().Mul(group.RandomScalar(), nil)
	err := h.SubmitPeel(0, slot, garbage)
	require.ErrorIs(t, err, ErrInvalidProof)
	require.Equal(t, PhaseFaulted, h.Phase())

	proofs := h.FraudProofs()
	require.Len(t, proofs, 1)
	require.True(t, proofs[0].Verify(), "accusation must stand on re-check")
	require.Equal(t, 0, proofs[0].Accused)
	require.Len(t, ref.Frauds, 1, "referee upheld the accusation")
}

func TestForgedLockAttributedByTracedAudit(t *testing.T) {
	h, kps, ref := newTestHand(t, 2)
	commitKeys(t, h, kps)

	// seat 0 locks the deck it received
	slots := h.DeckSlots()
	perm0 := deck.RandomPermutation(len(slots))
	after0, err := deck.Lock(slots, kps[0].Secret, perm0)
	require.NoError(t, err)
	require.NoError(t, h.SubmitLockAndShuffle(0, after0, nil))

	// seat 1 discards seat 0's deck and locks a fresh canonical one
	// instead, silently stripping seat 0's layer from every slot
	perm1 := deck.RandomPermutation(len(slots))
	after1, err := deck.Lock(cards.NewEncoding().Points(), kps[1].Secret, perm1)
	require.NoError(t, err)
	require.NoError(t, h.SubmitLockAndShuffle(1, after1, nil))
	require.Equal(t, PhaseDeal, h.Phase(), "optimistic sealing accepts the forged lock")

	// every peel satisfies its own pairing relation over the substituted
	// deck, so the hand runs until a community card refuses to decode
	dealHoles(t, h, kps)

	_, err = h.AttributeShuffleFraud(nil)
	require.ErrorIs(t, err, ErrPhaseViolation, "audit only runs on a faulted hand")

	act(t, h, ActionCall)
	act(t, h, ActionCheck)
	flop := h.Assignment().FlopSlots()
	peelStreet(t, h, kps, flop[:]...)
	require.Equal(t, PhaseFaulted, h.Phase())
	require.Empty(t, h.FraudProofs(), "the decode failure alone does not name the cheater")

	// both lockers disclose their permutations; re-checking the lock
	// steps against the recorded snapshots pins the forgery on seat 1
	disclosures := map[int][]deck.SlotTrace{}
	for i := range perm0 {
		disclosures[0] = append(disclosures[0], deck.SlotTrace{AfterIndex: i, BeforeIndex: perm0[i]})
		disclosures[1] = append(disclosures[1], deck.SlotTrace{AfterIndex: i, BeforeIndex: perm1[i]})
	}
	accused, err := h.AttributeShuffleFraud(disclosures)
	require.NoError(t, err)
	require.Equal(t, 1, accused)

	proofs := h.FraudProofs()
	require.Len(t, proofs, 1)
	require.Equal(t, 1, proofs[0].Accused)
	require.True(t, proofs[0].Verify(), "accusation must stand on re-check")
	require.Len(t, ref.Frauds, 1, "referee upheld the accusation")
}

func TestWithheldDisclosureAccusesLocker(t *testing.T) {
	h, kps, _ := newTestHand(t, 2)
	commitKeys(t, h, kps)
	sealDeck(t, h, kps)

	// force the hand into the dead-end state via a missed deadline
	require.ErrorIs(t, h.Timeout(1), ErrTimeoutExceeded)
	require.Equal(t, PhaseFaulted, h.Phase())

	// seat 0 never discloses where its shuffle moved the slots, and is
	// accused for the silence without any pairing work
	accused, err := h.AttributeShuffleFraud(map[int][]deck.SlotTrace{})
	require.NoError(t, err)
	require.Equal(t, 0, accused)
}

// lockKeyRecorder accepts every lock while recording the key each
// verification was checked against.
type lockKeyRecorder struct {
	deck.DeferredTraceProver
	keys []kyber.Point
}

func (r *lockKeyRecorder) Verify(before, after []kyber.Point, commitment kyber.Point, proof []byte) error {
	r.keys = append(r.keys, commitment)
	return r.DeferredTraceProver.Verify(before, after, commitment, proof)
}

func TestLockVerificationUsesUnmaskKey(t *testing.T) {
	rec := &lockKeyRecorder{}
	h, err := NewHand(Config{
		Players:      2,
		InitialChips: 1000,
		SmallBlind:   10,
		Referee:      &audit.LocalReferee{},
		Prover:       rec,
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)

	kps := make([]*group.KeyPair, 2)
	for i := range kps {
		kp, err := group.NewKeyPair()
		require.NoError(t, err)
		kps[i] = kp
	}
	for seat, kp := range kps {
		require.NoError(t, h.SubmitKeyCommit(seat, kp.Public))
	}
	sealDeck(t, h, kps)

	// each lock must be checked against the locker's G2 key, the same
	// point the peel and traced-audit pairing relations verify against
	require.Len(t, rec.keys, 2)
	for seat, kp := range kps {
		require.True(t, rec.keys[seat].Equal(kp.Public.PK2), "seat %d", seat)
	}
}

func TestReplayedBetActionRejected(t *testing.T) {
	h, kps, _ := newTestHand(t, 2)
	commitKeys(t, h, kps)
	sealDeck(t, h, kps)
	dealHoles(t, h, kps)

	// small blind completes, then the big blind raises, reopening the
	// street to the seat that already acted
	sb := h.Turn()
	call := BetAction{Kind: ActionCall, Seq: h.ActionSeq()}
	require.NoError(t, h.SubmitBetAction(sb, call))
	require.NoError(t, h.SubmitBetAction(h.Turn(),
		BetAction{Kind: ActionRaise, Amount: 40, Seq: h.ActionSeq()}))
	require.Equal(t, sb, h.Turn(), "raise reopens the action")

	// a redelivered copy of the earlier call carries a stale sequence
	// number and must not stand in for the new decision
	require.ErrorIs(t, h.SubmitBetAction(sb, call), ErrDuplicateContribution)

	require.ErrorIs(t,
		h.SubmitBetAction(sb, BetAction{Kind: ActionCall, Seq: h.ActionSeq() + 1}),
		ErrPhaseViolation)

	require.NoError(t, h.SubmitBetAction(sb, BetAction{Kind: ActionCall, Seq: h.ActionSeq()}))
	require.Equal(t, PhaseRevealFlop, h.Phase())
}

func TestPhaseGating(t *testing.T) {
	h, kps, _ := newTestHand(t, 2)

	require.ErrorIs(t, h.SubmitBetAction(0, BetAction{Kind: ActionCheck}), ErrPhaseViolation)
	require.ErrorIs(t, h.SubmitPeel(0, 0, group.G1Base()), ErrPhaseViolation)
	require.ErrorIs(t, h.SubmitLockAndShuffle(0, h.DeckSlots(), nil), ErrPhaseViolation)

	require.NoError(t, h.SubmitKeyCommit(0, kps[0].Public))
	require.ErrorIs(t, h.SubmitKeyCommit(0, kps[0].Public), ErrDuplicateContribution)
	require.NoError(t, h.SubmitKeyCommit(1, kps[1].Public))

	// seat 1 locking before seat 0 violates the rotation
	slots := h.DeckSlots()
	after, err := deck.Lock(slots, kps[1].Secret, deck.RandomPermutation(len(slots)))
	require.NoError(t, err)
	require.ErrorIs(t, h.SubmitLockAndShuffle(1, after, nil), ErrPhaseViolation)
}

func TestDuplicatePeelRejected(t *testing.T) {
	h, kps, _ := newTestHand(t, 2)
	commitKeys(t, h, kps)
	sealDeck(t, h, kps)

	slot := h.Assignment().HoleSlots(1)[0]
	peelSlot(t, h, kps, 0, slot)

	el, err := h.SlotElement(slot)
	require.NoError(t, err)
	err = h.SubmitPeel(0, slot, group.Unmask(el, kps[0].Secret))
	require.ErrorIs(t, err, ErrDuplicateContribution)
	require.Equal(t, PhaseDeal, h.Phase(), "duplicate leaves the hand running")
}

func TestOwnerCannotPeelOwnHoleDuringDeal(t *testing.T) {
	h, kps, _ := newTestHand(t, 2)
	commitKeys(t, h, kps)
	sealDeck(t, h, kps)

	slot := h.Assignment().HoleSlots(0)[0]
	el, err := h.SlotElement(slot)
	require.NoError(t, err)
	err = h.SubmitPeel(0, slot, group.Unmask(el, kps[0].Secret))
	require.ErrorIs(t, err, ErrPhaseViolation)
}

func TestWrongTurnBetRejected(t *testing.T) {
	h, kps, _ := newTestHand(t, 2)
	commitKeys(t, h, kps)
	sealDeck(t, h, kps)
	dealHoles(t, h, kps)

	notTurn := 1 - h.Turn()
	err := h.SubmitBetAction(notTurn, BetAction{Kind: ActionCall})
	require.ErrorIs(t, err, ErrPhaseViolation)
}

func TestTimeoutFaultsIntegrityPhases(t *testing.T) {
	h, kps, _ := newTestHand(t, 2)
	require.NoError(t, h.SubmitKeyCommit(0, kps[0].Public))

	err := h.Timeout(1)
	require.ErrorIs(t, err, ErrTimeoutExceeded)
	require.Equal(t, PhaseFaulted, h.Phase())
}

func TestTimeoutFoldsInBetting(t *testing.T) {
	h, kps, _ := newTestHand(t, 2)
	commitKeys(t, h, kps)
	sealDeck(t, h, kps)
	dealHoles(t, h, kps)

	require.NoError(t, h.Timeout(h.Turn()))
	require.Equal(t, PhaseSettled, h.Phase(), "absent player folds, hand settles")
}

func TestInvalidKeyCommitFaults(t *testing.T) {
	h, kps, _ := newTestHand(t, 2)

	bad := kps[0].Public
	bad.PK2 = group.Suite.G2().Point().Mul(group.RandomScalar(), nil)
	err := h.SubmitKeyCommit(0, bad)
	require.ErrorIs(t, err, ErrInvalidProof)
	require.Equal(t, PhaseFaulted, h.Phase())
}

func TestTableCarriesStacksAndRotatesButton(t *testing.T) {
	ref := &audit.LocalReferee{}
	tbl, err := NewTable(2, 1000, 10, ref, deck.DeferredTraceProver{}, zerolog.Nop())
	require.NoError(t, err)

	playFoldout := func() *Hand {
		h, err := tbl.StartHand()
		require.NoError(t, err)
		kps := make([]*group.KeyPair, 2)
		for i := range kps {
			kp, err := group.NewKeyPair()
			require.NoError(t, err)
			kps[i] = kp
		}
		for seat, kp := range kps {
			require.NoError(t, h.SubmitKeyCommit(seat, kp.Public))
		}
		// lock in rotation starting at this hand's dealer
		for len(h.dk.LockOrder()) > 0 && !h.dk.FullySealed() {
			seat := h.dk.LockOrder()[len(h.dk.Trace())]
			slots := h.DeckSlots()
			after, err := deck.Lock(slots, kps[seat].Secret, deck.RandomPermutation(len(slots)))
			require.NoError(t, err)
			require.NoError(t, h.SubmitLockAndShuffle(seat, after, nil))
		}
		dealHoles(t, h, kps)
		act(t, h, ActionFold)
		require.Equal(t, PhaseSettled, h.Phase())
		return h
	}

	first := playFoldout()
	require.Equal(t, 0, first.dealer)

	second := playFoldout()
	require.Equal(t, 1, second.dealer, "button moves")

	stacks := tbl.Stacks()
	require.Equal(t, uint64(2000), stacks[0]+stacks[1])
	require.Equal(t, 2, tbl.HandsPlayed())
}

package holdem

import (
	"sync"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"go.dedis.ch/kyber/v4"
	"golang.org/x/xerrors"

	"github.com/pairdeal/pairdeal/audit"
	"github.com/pairdeal/pairdeal/cards"
	"github.com/pairdeal/pairdeal/deck"
	"github.com/pairdeal/pairdeal/group"
	"github.com/pairdeal/pairdeal/ledger"
)

// Config parameterizes one hand. Stacks, when set, carries per-seat
// chips in from a previous hand and overrides InitialChips.
type Config struct {
	Players      int
	Dealer       int
	InitialChips uint64
	SmallBlind   uint64
	Stacks       []uint64
	Referee      audit.Referee
	Prover       deck.ShuffleProver
	Logger       zerolog.Logger
}

// Hand sequences one hand from key commitment to settlement. All
// mutation goes through the Submit* methods under one mutex; every
// accepted contribution and phase transition lands on the hash-linked
// event chain.
type Hand struct {
	mu sync.Mutex

	id      string
	cfg     Config
	phase   Phase
	log     zerolog.Logger
	chain   *ledger.Chain
	referee audit.Referee
	prover  deck.ShuffleProver

	enc         *cards.Encoding
	assign      deck.Assignment
	commitments map[int]group.Commitment
	dk          *deck.Deck
	engine      *audit.Engine
	bets        *BettingState

	dealer    int
	turn      int
	actionSeq uint64 // bet actions accepted so far

	board      [5]cards.Card
	boardKnown int // community cards revealed so far
	hole       map[int][2]cards.Card

	fraud      []audit.FraudProof
	settlement *audit.SettlementRecord
}

// NewHand sets up a hand for cfg.Players seats and opens the key
// commitment phase. The locking order is the seat rotation starting at
// the dealer.
func NewHand(cfg Config) (*Hand, error) {
	assign, err := deck.Assign(cfg.Players)
	if err != nil {
		return nil, err
	}
	if cfg.Dealer < 0 || cfg.Dealer >= cfg.Players {
		return nil, xerrors.Errorf("dealer seat %d out of range", cfg.Dealer)
	}
	stacks := cfg.Stacks
	if stacks == nil {
		stacks = make([]uint64, cfg.Players)
		for i := range stacks {
			stacks[i] = cfg.InitialChips
		}
	}
	if len(stacks) != cfg.Players {
		return nil, xerrors.Errorf("%d stacks for %d players", len(stacks), cfg.Players)
	}
	if cfg.SmallBlind == 0 {
		return nil, xerrors.New("small blind must be positive")
	}
	for seat, chips := range stacks {
		if chips == 0 {
			return nil, xerrors.Errorf("seat %d has no chips", seat)
		}
	}
	if cfg.Referee == nil {
		return nil, xerrors.New("a referee is required")
	}
	if cfg.Prover == nil {
		cfg.Prover = deck.DeferredTraceProver{}
	}

	enc := cards.NewEncoding()
	order := make([]int, cfg.Players)
	for i := range order {
		order[i] = (cfg.Dealer + i) % cfg.Players
	}
	dk, err := deck.New(enc, order)
	if err != nil {
		return nil, err
	}

	h := &Hand{
		id:          xid.New().String(),
		cfg:         cfg,
		phase:       PhaseInit,
		chain:       ledger.NewChain(),
		referee:     cfg.Referee,
		prover:      cfg.Prover,
		enc:         enc,
		assign:      assign,
		commitments: make(map[int]group.Commitment, cfg.Players),
		dk:          dk,
		bets:        newBettingState(stacks),
		dealer:      cfg.Dealer,
		hole:        make(map[int][2]cards.Card, cfg.Players),
	}
	h.log = cfg.Logger.With().Str("hand", h.id).Logger()
	h.setPhase(PhaseKeyCommit)
	return h, nil
}

// SubmitKeyCommit accepts a player's masking key commitment. The proof
// of key knowledge and the pairing binding between PK1 and PK2 are
// checked on arrival; a bad commitment faults the hand.
func (h *Hand) SubmitKeyCommit(player int, com group.Commitment) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.phase.permits(opKeyCommit) {
		return xerrors.Errorf("key commit in phase %s: %w", h.phase, ErrPhaseViolation)
	}
	if err := h.checkSeat(player); err != nil {
		return err
	}
	if _, ok := h.commitments[player]; ok {
		return xerrors.Errorf("player %d key commit: %w", player, ErrDuplicateContribution)
	}
	if err := com.Verify(); err != nil {
		h.fault(player, "key commitment rejected: "+err.Error(), nil)
		return xerrors.Errorf("player %d key commit: %w", player, ErrInvalidProof)
	}

	h.commitments[player] = com
	h.append(ledger.Event{Kind: ledger.KindKeyCommit, Player: player})
	h.log.Info().Int("player", player).Msg("key commitment accepted")

	if len(h.commitments) == h.cfg.Players {
		h.setPhase(PhaseLockAndShuffle)
	}
	return nil
}

// SubmitLockAndShuffle accepts a player's locked-and-shuffled deck.
// Players submit in the agreed rotation; the sealed deck that results
// from the last lock seeds the unmasking engine.
func (h *Hand) SubmitLockAndShuffle(player int, after []kyber.Point, proof []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.phase.permits(opLock) {
		return xerrors.Errorf("lock in phase %s: %w", h.phase, ErrPhaseViolation)
	}
	if err := h.checkSeat(player); err != nil {
		return err
	}

	entry, err := h.dk.AcceptLock(player, h.commitments[player].PK2, after, proof, h.prover)
	switch {
	case err == nil:
	case xerrors.Is(err, deck.ErrDuplicateLock):
		return xerrors.Errorf("player %d lock: %w", player, ErrDuplicateContribution)
	case xerrors.Is(err, deck.ErrOutOfOrder), xerrors.Is(err, deck.ErrSealed):
		return xerrors.Errorf("player %d lock: %w", player, ErrPhaseViolation)
	default:
		h.fault(player, "lock rejected: "+err.Error(), nil)
		return xerrors.Errorf("player %d lock: %w", player, ErrInvalidProof)
	}

	h.append(ledger.Event{Kind: ledger.KindLock, Player: player, Detail: entry.Hash})
	h.log.Info().Int("player", player).Str("snapshot", entry.Hash).Msg("deck lock accepted")

	if h.dk.FullySealed() {
		h.engine = audit.NewEngine(h.enc, h.dk.Slots(), h.commitments)
		h.setPhase(PhaseDeal)
	}
	return nil
}

// SubmitPeel accepts one layer removal. Which slots a player may peel
// depends on the phase: during the deal, everyone peels every hole
// slot except their own; during reveals, everyone peels the street's
// community slots; at showdown, owners peel their own hole slots. A
// peel failing its pairing check faults the hand and files a fraud
// proof with the referee.
func (h *Hand) SubmitPeel(player, slot int, unmasked kyber.Point) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.phase.permits(opPeel) {
		return xerrors.Errorf("peel in phase %s: %w", h.phase, ErrPhaseViolation)
	}
	if err := h.checkSeat(player); err != nil {
		return err
	}
	if err := h.peelAllowed(player, slot); err != nil {
		return err
	}

	if err := h.engine.Peel(slot, player, unmasked); err != nil {
		switch {
		case xerrors.Is(err, audit.ErrDuplicatePeel):
			return xerrors.Errorf("player %d slot %d: %w", player, slot, ErrDuplicateContribution)
		case xerrors.Is(err, audit.ErrInvalidProof):
			fp, perr := h.engine.BuildFraudProof(h.id, slot, player, unmasked)
			if perr == nil {
				h.fault(player, "forged peel", &fp)
			} else {
				h.fault(player, "forged peel", nil)
			}
			return xerrors.Errorf("player %d slot %d: %w", player, slot, ErrInvalidProof)
		default:
			return err
		}
	}

	h.append(ledger.Event{Kind: ledger.KindPeel, Player: player, Slot: slot})

	switch h.phase {
	case PhaseDeal:
		if h.dealComplete() {
			h.enterBetting(PhaseBetPreFlop)
		}
	case PhaseRevealFlop, PhaseRevealTurn, PhaseRevealRiver:
		h.maybeFinishReveal()
	case PhaseShowdown:
		h.maybeFinishShowdown()
	}
	return nil
}

// SubmitBetAction accepts the acting player's betting decision. The
// action must carry the current ActionSeq; a stale number marks a
// redelivered action, which matters when a raise has reopened the
// street to a seat that already acted once.
func (h *Hand) SubmitBetAction(player int, a BetAction) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.phase.permits(opBet) {
		return xerrors.Errorf("bet in phase %s: %w", h.phase, ErrPhaseViolation)
	}
	if err := h.checkSeat(player); err != nil {
		return err
	}
	if player != h.turn {
		return xerrors.Errorf("player %d acting on player %d's turn: %w", player, h.turn, ErrPhaseViolation)
	}
	if a.Seq < h.actionSeq {
		return xerrors.Errorf("player %d replayed action seq %d, hand is at %d: %w",
			player, a.Seq, h.actionSeq, ErrDuplicateContribution)
	}
	if a.Seq > h.actionSeq {
		return xerrors.Errorf("player %d action seq %d ahead of %d: %w",
			player, a.Seq, h.actionSeq, ErrPhaseViolation)
	}
	if err := h.bets.apply(player, a); err != nil {
		return xerrors.Errorf("player %d %s: %w", player, a.Kind, err)
	}
	h.actionSeq++

	h.append(ledger.Event{
		Kind:   ledger.KindBet,
		Player: player,
		Detail: string(a.Kind),
	})
	h.log.Info().Int("player", player).Str("action", string(a.Kind)).
		Uint64("amount", a.Amount).Uint64("pot", h.bets.Pot()).Msg("bet accepted")

	h.afterBetting()
	return nil
}

// Timeout records that a player missed their deadline for the current
// phase. During integrity phases the hand faults: the protocol cannot
// continue without the missing cryptographic contribution. During
// betting the absent player is folded. At showdown they muck.
func (h *Hand) Timeout(player int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.phase.permits(opTimeout) {
		return xerrors.Errorf("timeout in phase %s: %w", h.phase, ErrPhaseViolation)
	}
	if err := h.checkSeat(player); err != nil {
		return err
	}

	h.append(ledger.Event{Kind: ledger.KindTimeout, Player: player, Phase: h.phase.String()})
	h.log.Warn().Int("player", player).Str("phase", h.phase.String()).Msg("deadline exceeded")

	switch {
	case h.phase.betting():
		if !h.bets.Active(player) {
			return nil
		}
		h.bets.fold(player)
		if h.bets.ActiveCount() == 1 {
			h.settleFoldout()
			return nil
		}
		if player == h.turn {
			h.turn = h.nextActing(h.turn)
		}
		if h.bets.roundComplete() {
			h.advanceFromBetting()
		}
	case h.phase == PhaseShowdown:
		h.bets.fold(player)
		h.maybeFinishShowdown()
	default:
		h.fault(player, "missing contribution in "+h.phase.String(), nil)
		return xerrors.Errorf("player %d in %s: %w", player, h.phase, ErrTimeoutExceeded)
	}
	return nil
}

// HoleCards computes the owner's private view of their hole cards once
// the other players have peeled: removing the owner's own layer
// locally decodes the slot without publishing anything.
func (h *Hand) HoleCards(player int, secret kyber.Scalar) ([2]cards.Card, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.engine == nil {
		return [2]cards.Card{}, xerrors.Errorf("deck not sealed: %w", ErrPhaseViolation)
	}
	if err := h.checkSeat(player); err != nil {
		return [2]cards.Card{}, err
	}

	var out [2]cards.Card
	for i, slot := range h.assign.HoleSlots(player) {
		if rem := h.engine.Ledger().RemainingPlayers(slot); len(rem) != 1 || rem[0] != player {
			return [2]cards.Card{}, xerrors.Errorf("slot %d still carries other layers", slot)
		}
		el, err := h.engine.Element(slot)
		if err != nil {
			return [2]cards.Card{}, err
		}
		c, err := h.enc.Decode(group.Unmask(el, secret))
		if err != nil {
			return [2]cards.Card{}, xerrors.Errorf("hole slot %d: %w", slot, err)
		}
		out[i] = c
	}
	return out, nil
}

// --- phase machinery ---

func (h *Hand) setPhase(p Phase) {
	h.phase = p
	h.append(ledger.Event{Kind: ledger.KindPhase, Phase: p.String()})
	h.log.Info().Str("phase", p.String()).Msg("phase entered")
}

func (h *Hand) checkSeat(player int) error {
	if player < 0 || player >= h.cfg.Players {
		return xerrors.Errorf("no seat %d at this table", player)
	}
	return nil
}

// peelAllowed enforces the per-phase slot authorization.
func (h *Hand) peelAllowed(player, slot int) error {
	switch h.phase {
	case PhaseDeal:
		owner, ok := h.assign.Owner(slot)
		if !ok {
			return xerrors.Errorf("slot %d is not a hole slot: %w", slot, ErrPhaseViolation)
		}
		if owner == player {
			return xerrors.Errorf("player %d peeling own hole slot %d: %w", player, slot, ErrPhaseViolation)
		}
	case PhaseRevealFlop, PhaseRevealTurn, PhaseRevealRiver:
		for _, s := range h.streetSlots() {
			if s == slot {
				return nil
			}
		}
		return xerrors.Errorf("slot %d is not on the current street: %w", slot, ErrPhaseViolation)
	case PhaseShowdown:
		owner, ok := h.assign.Owner(slot)
		if !ok || owner != player {
			return xerrors.Errorf("player %d revealing slot %d: %w", player, slot, ErrPhaseViolation)
		}
		if !h.bets.Active(player) {
			return xerrors.Errorf("player %d has folded: %w", player, ErrPhaseViolation)
		}
	}
	return nil
}

func (h *Hand) streetSlots() []int {
	switch h.phase {
	case PhaseRevealFlop:
		f := h.assign.FlopSlots()
		return f[:]
	case PhaseRevealTurn:
		return []int{h.assign.TurnSlot()}
	case PhaseRevealRiver:
		return []int{h.assign.RiverSlot()}
	}
	return nil
}

// dealComplete reports whether every hole slot is down to exactly its
// owner's layer.
func (h *Hand) dealComplete() bool {
	for seat := 0; seat < h.cfg.Players; seat++ {
		for _, slot := range h.assign.HoleSlots(seat) {
			rem := h.engine.Ledger().RemainingPlayers(slot)
			if len(rem) != 1 || rem[0] != seat {
				return false
			}
		}
	}
	return true
}

// maybeFinishReveal decodes the street once its slots are bare and
// advances to the next betting round. A decode failure means an
// accepted peel chain produced garbage, which is unrecoverable.
func (h *Hand) maybeFinishReveal() {
	for _, slot := range h.streetSlots() {
		if h.engine.Remaining(slot) > 0 {
			return
		}
	}
	for _, slot := range h.streetSlots() {
		c, err := h.engine.Reveal(slot)
		if err != nil {
			h.fault(-1, "community slot decode failed: "+err.Error(), nil)
			return
		}
		h.board[h.boardKnown] = c
		h.boardKnown++
	}

	switch h.phase {
	case PhaseRevealFlop:
		h.enterBetting(PhaseBetFlop)
	case PhaseRevealTurn:
		h.enterBetting(PhaseBetTurn)
	case PhaseRevealRiver:
		h.enterBetting(PhaseBetRiver)
	}
}

// maybeFinishShowdown settles once every non-folded seat has fully
// revealed both hole slots.
func (h *Hand) maybeFinishShowdown() {
	if h.bets.ActiveCount() <= 1 {
		h.settleFoldout()
		return
	}
	for seat := 0; seat < h.cfg.Players; seat++ {
		if !h.bets.Active(seat) {
			continue
		}
		if _, done := h.hole[seat]; done {
			continue
		}
		var hc [2]cards.Card
		for i, slot := range h.assign.HoleSlots(seat) {
			if h.engine.Remaining(slot) > 0 {
				return
			}
			c, err := h.engine.Reveal(slot)
			if err != nil {
				h.fault(seat, "hole slot decode failed: "+err.Error(), nil)
				return
			}
			hc[i] = c
		}
		h.hole[seat] = hc
	}
	h.settleShowdown()
}

// enterBetting opens a betting street: blinds on the preflop street,
// fresh per-street state otherwise, then hands the action to the first
// seat due to act. Skips the street entirely when nobody can act.
func (h *Hand) enterBetting(p Phase) {
	if p == PhaseBetPreFlop {
		h.setPhase(p)
		h.postBlinds()
	} else {
		h.bets.nextStreet()
		h.setPhase(p)
	}

	h.turn = h.firstToAct(p)
	if h.turn < 0 || h.bets.roundComplete() {
		h.advanceFromBetting()
	}
}

// postBlinds moves the forced bets. Heads-up the dealer posts the
// small blind; with more seats the blinds sit left of the dealer.
func (h *Hand) postBlinds() {
	sb, bb := h.blindSeats()
	h.bets.forceBet(sb, h.cfg.SmallBlind)
	h.bets.forceBet(bb, 2*h.cfg.SmallBlind)
	h.append(ledger.Event{Kind: ledger.KindBet, Player: sb, Detail: "small-blind"})
	h.append(ledger.Event{Kind: ledger.KindBet, Player: bb, Detail: "big-blind"})
	h.log.Info().Int("small", sb).Int("big", bb).Uint64("pot", h.bets.Pot()).Msg("blinds posted")
}

func (h *Hand) blindSeats() (sb, bb int) {
	n := h.cfg.Players
	if n == 2 {
		return h.dealer, (h.dealer + 1) % n
	}
	return (h.dealer + 1) % n, (h.dealer + 2) % n
}

// firstToAct returns the first seat due to act on a street, or -1 when
// nobody can.
func (h *Hand) firstToAct(p Phase) int {
	n := h.cfg.Players
	var start int
	if p == PhaseBetPreFlop {
		_, bb := h.blindSeats()
		start = (bb + 1) % n
	} else {
		start = (h.dealer + 1) % n
	}
	for i := 0; i < n; i++ {
		seat := (start + i) % n
		if h.bets.canAct(seat) {
			return seat
		}
	}
	return -1
}

// nextActing returns the next seat after from that can act, or -1.
func (h *Hand) nextActing(from int) int {
	n := h.cfg.Players
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if h.bets.canAct(seat) {
			return seat
		}
	}
	return -1
}

// afterBetting advances turn or street after a fold or accepted action.
func (h *Hand) afterBetting() {
	if h.bets.ActiveCount() == 1 {
		h.settleFoldout()
		return
	}
	if h.bets.roundComplete() {
		h.advanceFromBetting()
		return
	}
	h.turn = h.nextActing(h.turn)
}

func (h *Hand) advanceFromBetting() {
	switch h.phase {
	case PhaseBetPreFlop:
		h.setPhase(PhaseRevealFlop)
	case PhaseBetFlop:
		h.setPhase(PhaseRevealTurn)
	case PhaseBetTurn:
		h.setPhase(PhaseRevealRiver)
	case PhaseBetRiver:
		h.setPhase(PhaseShowdown)
	}
}

// --- terminal transitions ---

// settleFoldout pays the whole pot to the last seat standing without
// any card reveal.
func (h *Hand) settleFoldout() {
	winner := -1
	for seat := 0; seat < h.cfg.Players; seat++ {
		if h.bets.Active(seat) {
			winner = seat
			break
		}
	}
	h.finishSettlement(map[int]uint64{winner: h.bets.Pot()})
}

func (h *Hand) settleShowdown() {
	result, err := payouts(h.bets, h.hole, h.board)
	if err != nil {
		h.fault(-1, "showdown evaluation failed: "+err.Error(), nil)
		return
	}
	h.finishSettlement(result)
}

func (h *Hand) finishSettlement(result map[int]uint64) {
	for seat, won := range result {
		h.bets.chips[seat] += won
	}
	rec := audit.SettlementRecord{
		HandID:  h.id,
		Pot:     h.bets.Pot(),
		Payouts: result,
	}
	if err := h.referee.RecordSettlement(rec); err != nil {
		h.log.Error().Err(err).Msg("referee rejected settlement")
	}
	h.settlement = &rec
	h.append(ledger.Event{Kind: ledger.KindSettlement})
	h.log.Info().Uint64("pot", rec.Pot).Msg("hand settled")
	h.setPhase(PhaseSettled)
}

// AttributeShuffleFraud runs the deferred traced audit after a hand
// faulted on a slot that would not decode. Each locker discloses where
// the deck slots moved through their shuffle; the lock steps are then
// re-checked in order against the recorded snapshots, and the first
// step that fails its pairing relation, or arrives with no disclosure
// at all, identifies the cheater. The cost is one pairing check per
// disclosed slot rather than a full zero-knowledge shuffle argument.
// Returns the accused seat.
func (h *Hand) AttributeShuffleFraud(disclosures map[int][]deck.SlotTrace) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.phase != PhaseFaulted {
		return 0, xerrors.Errorf("traced audit in phase %s: %w", h.phase, ErrPhaseViolation)
	}

	for _, entry := range h.dk.Trace() {
		player := entry.Player
		before, after, err := h.dk.StepSnapshots(player)
		if err != nil {
			return 0, err
		}
		traces, ok := disclosures[player]
		if !ok || len(traces) == 0 {
			h.accuseLock(player, "withheld shuffle disclosure", nil, before, after)
			return player, nil
		}
		if err := deck.VerifyShuffleTraced(before, after, h.commitments[player].PK2, traces); err != nil {
			h.accuseLock(player, "forged lock step", traces, before, after)
			return player, nil
		}
	}
	return 0, xerrors.New("every disclosed lock step verified")
}

// accuseLock records the traced-audit verdict against player. When a
// disclosed slot fails its pairing relation the failing step is
// packaged as a self-contained fraud proof and filed with the referee.
func (h *Hand) accuseLock(player int, reason string, traces []deck.SlotTrace, before, after []kyber.Point) {
	pk2 := h.commitments[player].PK2
	for _, tr := range traces {
		if tr.AfterIndex < 0 || tr.AfterIndex >= len(after) ||
			tr.BeforeIndex < 0 || tr.BeforeIndex >= len(before) {
			continue
		}
		if group.VerifyPeel(after[tr.AfterIndex], before[tr.BeforeIndex], pk2) {
			continue
		}
		fp := audit.FraudProof{
			HandID:     h.id,
			Slot:       tr.AfterIndex,
			Accused:    player,
			Masked:     after[tr.AfterIndex].Clone(),
			Claimed:    before[tr.BeforeIndex].Clone(),
			Commitment: pk2.Clone(),
		}
		h.fraud = append(h.fraud, fp)
		h.referee.VerifyFraudProof(fp)
		break
	}
	h.append(ledger.Event{Kind: ledger.KindFraud, Player: player, Detail: reason})
	h.log.Error().Int("player", player).Str("reason", reason).Msg("traced shuffle audit failed")
}

// fault moves the hand to the dead-end state, filing the fraud proof
// with the referee when one exists.
func (h *Hand) fault(player int, reason string, fp *audit.FraudProof) {
	if fp != nil {
		h.fraud = append(h.fraud, *fp)
		h.referee.VerifyFraudProof(*fp)
	}
	h.append(ledger.Event{Kind: ledger.KindFraud, Player: player, Detail: reason})
	h.log.Error().Int("player", player).Str("reason", reason).Msg("hand faulted")
	h.setPhase(PhaseFaulted)
}

func (h *Hand) append(ev ledger.Event) {
	if err := h.chain.Append(ev); err != nil {
		// chain corruption is unrecoverable process state
		panic(err)
	}
}

// --- accessors ---

// ID returns the hand identifier.
func (h *Hand) ID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.id
}

// Phase returns the current phase.
func (h *Hand) Phase() Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phase
}

// Turn returns the seat due to act on the current betting street.
func (h *Hand) Turn() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.turn
}

// ActionSeq returns the sequence number the next bet action must
// carry.
func (h *Hand) ActionSeq() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.actionSeq
}

// Dealer returns the seat holding the button; the locking rotation
// starts there.
func (h *Hand) Dealer() int {
	return h.dealer
}

// CallAmount returns the chips seat owes to stay in the current street.
func (h *Hand) CallAmount(seat int) (uint64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bets.CallAmount(seat)
}

// Chips returns a seat's current stack.
func (h *Hand) Chips(seat int) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bets.Chips(seat)
}

// Pot returns the chips committed so far.
func (h *Hand) Pot() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bets.Pot()
}

// RevealedHole returns a seat's hole cards once they went public at
// showdown.
func (h *Hand) RevealedHole(seat int) ([2]cards.Card, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hc, ok := h.hole[seat]
	return hc, ok
}

// Board returns the community cards revealed so far.
func (h *Hand) Board() []cards.Card {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]cards.Card(nil), h.board[:h.boardKnown]...)
}

// DeckSlots returns the current masked deck, the input to the next
// lock during sealing.
func (h *Hand) DeckSlots() []kyber.Point {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dk.Slots()
}

// SlotElement returns the current element at slot, the input to the
// next peel.
func (h *Hand) SlotElement(slot int) (kyber.Point, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.engine == nil {
		return nil, xerrors.Errorf("deck not sealed: %w", ErrPhaseViolation)
	}
	return h.engine.Element(slot)
}

// Assignment returns the slot layout for this table size.
func (h *Hand) Assignment() deck.Assignment {
	return h.assign
}

// FraudProofs returns the fraud proofs filed so far.
func (h *Hand) FraudProofs() []audit.FraudProof {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]audit.FraudProof(nil), h.fraud...)
}

// Settlement returns the settlement record, or nil before Settled.
func (h *Hand) Settlement() *audit.SettlementRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settlement
}

// AuditRecord exports the durable record of the hand.
func (h *Hand) AuditRecord() ledger.AuditRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	trace := h.dk.Trace()
	traceRecs := make([]ledger.TraceRecord, len(trace))
	for i, e := range trace {
		snap := make([][]byte, len(e.Snapshot))
		for j, p := range e.Snapshot {
			b, err := p.MarshalBinary()
			if err != nil {
				// group points always marshal
				panic(err)
			}
			snap[j] = b
		}
		traceRecs[i] = ledger.TraceRecord{
			Player:       e.Player,
			SnapshotHash: e.Hash,
			Snapshot:     snap,
			RemaskProof:  e.RemaskProof,
		}
	}
	rec := ledger.AuditRecord{
		HandID:       h.id,
		FinalPhase:   h.phase.String(),
		Events:       h.chain.Blocks(),
		ShuffleTrace: traceRecs,
	}
	if h.engine != nil {
		rec.Layers = h.engine.Ledger().Export()
	}
	for _, c := range h.board[:h.boardKnown] {
		rec.Board = append(rec.Board, c.Label())
	}
	if h.settlement != nil {
		rec.Payouts = h.settlement.Payouts
	}
	return rec
}

// Package holdem sequences a mental-poker Texas Hold'em hand: phase
// gating, betting, selective reveals and settlement over the jointly
// masked deck.
package holdem

import "errors"

var (
	// ErrPhaseViolation signals an operation submitted outside its
	// valid phase or turn. The message is discarded, state unchanged;
	// the sender may retry in the right phase.
	ErrPhaseViolation = errors.New("operation not permitted in current phase")
	// ErrDuplicateContribution signals a re-submitted one-time
	// contribution. Rejected locally, state unchanged.
	ErrDuplicateContribution = errors.New("duplicate contribution")
	// ErrInvalidProof signals a cryptographically invalid step. The
	// hand faults immediately; never recovered.
	ErrInvalidProof = errors.New("invalid proof")
	// ErrTimeoutExceeded records a missing required contribution.
	ErrTimeoutExceeded = errors.New("phase deadline exceeded")
)

// Phase enumerates the hand states. Settled and Faulted are terminal.
type Phase uint8

const (
	PhaseInit Phase = iota
	PhaseKeyCommit
	PhaseLockAndShuffle
	PhaseDeal
	PhaseBetPreFlop
	PhaseRevealFlop
	PhaseBetFlop
	PhaseRevealTurn
	PhaseBetTurn
	PhaseRevealRiver
	PhaseBetRiver
	PhaseShowdown
	PhaseSettled
	PhaseFaulted
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseKeyCommit:
		return "key-commit"
	case PhaseLockAndShuffle:
		return "lock-and-shuffle"
	case PhaseDeal:
		return "deal"
	case PhaseBetPreFlop:
		return "bet-preflop"
	case PhaseRevealFlop:
		return "reveal-flop"
	case PhaseBetFlop:
		return "bet-flop"
	case PhaseRevealTurn:
		return "reveal-turn"
	case PhaseBetTurn:
		return "bet-turn"
	case PhaseRevealRiver:
		return "reveal-river"
	case PhaseBetRiver:
		return "bet-river"
	case PhaseShowdown:
		return "showdown"
	case PhaseSettled:
		return "settled"
	case PhaseFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Terminal reports whether the hand can no longer advance.
func (p Phase) Terminal() bool {
	return p == PhaseSettled || p == PhaseFaulted
}

// opKind tags the operation families the dispatch table gates on.
type opKind uint8

const (
	opKeyCommit opKind = iota
	opLock
	opPeel
	opBet
	opTimeout
)

// permittedOps is the static phase -> operations table. Dispatch
// rejects any operation whose kind is absent for the current phase;
// finer checks (turn order, slot authorization) come after this gate.
var permittedOps = map[Phase][]opKind{
	PhaseKeyCommit:      {opKeyCommit, opTimeout},
	PhaseLockAndShuffle: {opLock, opTimeout},
	PhaseDeal:           {opPeel, opTimeout},
	PhaseBetPreFlop:     {opBet, opTimeout},
	PhaseRevealFlop:     {opPeel, opTimeout},
	PhaseBetFlop:        {opBet, opTimeout},
	PhaseRevealTurn:     {opPeel, opTimeout},
	PhaseBetTurn:        {opBet, opTimeout},
	PhaseRevealRiver:    {opPeel, opTimeout},
	PhaseBetRiver:       {opBet, opTimeout},
	PhaseShowdown:       {opPeel, opTimeout},
}

func (p Phase) permits(op opKind) bool {
	for _, k := range permittedOps[p] {
		if k == op {
			return true
		}
	}
	return false
}

// betting reports whether p is one of the betting streets.
func (p Phase) betting() bool {
	switch p {
	case PhaseBetPreFlop, PhaseBetFlop, PhaseBetTurn, PhaseBetRiver:
		return true
	}
	return false
}

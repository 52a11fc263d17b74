package audit

import (
	"go.dedis.ch/kyber/v4"

	"github.com/pairdeal/pairdeal/group"
)

// FraudProof is a self-contained accusation: one disputed peel plus the
// group elements needed to recompute its pairing check. A referee
// verifies it in one pairing comparison, without the shuffle trace or
// any other hand state, so adjudicating a hand costs O(M) in disputed
// peels, never O(deck).
type FraudProof struct {
	HandID     string
	Slot       int
	Accused    int
	Masked     kyber.Point // slot element the peel claimed to unmask
	Claimed    kyber.Point // submitted result
	Commitment kyber.Point // accused player's PK2
}

// Verify recomputes the pairing check. True means the accusation
// stands: the claimed peel was NOT a valid removal of the accused
// player's layer.
func (p FraudProof) Verify() bool {
	if p.Masked == nil || p.Claimed == nil || p.Commitment == nil {
		return false
	}
	return !group.VerifyPeel(p.Masked, p.Claimed, p.Commitment)
}

// SettlementRecord reports the final payouts of a dispute-free hand to
// the referee. Payouts maps seat to chips won.
type SettlementRecord struct {
	HandID  string
	Pot     uint64
	Payouts map[int]uint64
}

// Referee is the external adjudicator consulted on dispute and at
// settlement. It is an injected capability: on-chain contract, relay
// service or in-process recorder, the core does not care.
type Referee interface {
	VerifyFraudProof(FraudProof) bool
	RecordSettlement(SettlementRecord) error
}

// LocalReferee adjudicates in-process; useful for tests and for
// off-chain play where every participant re-checks proofs themselves.
type LocalReferee struct {
	Frauds      []FraudProof
	Settlements []SettlementRecord
}

// VerifyFraudProof recomputes the proof and records upheld accusations.
func (r *LocalReferee) VerifyFraudProof(p FraudProof) bool {
	upheld := p.Verify()
	if upheld {
		r.Frauds = append(r.Frauds, p)
	}
	return upheld
}

// RecordSettlement stores the settlement.
func (r *LocalReferee) RecordSettlement(s SettlementRecord) error {
	r.Settlements = append(r.Settlements, s)
	return nil
}

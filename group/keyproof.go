package group

import (
	"fmt"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/proof"
)

// keyProofTag domain-separates the key knowledge proofs from any other
// use of the proof framework.
const keyProofTag = "pairdeal/masking-key-v1"

// keyPred states PK1 = s*G1 for a secret s.
var keyPred = proof.Rep("PK1", "s", "G1")

// KeyPair is a player's hand-scoped masking key. Secret never leaves the
// owning player's process; Public is what gets published at KeyCommit.
type KeyPair struct {
	Secret kyber.Scalar
	Public Commitment
}

// Commitment binds a player to their masking scalar for the duration of
// a hand. PK2 is the point used in pairing checks; PK1 carries a
// Schnorr-style proof of knowledge of the scalar, and the pairing
// relation e(PK1, g2) == e(g1, PK2) ties both to the same secret.
type Commitment struct {
	PK1   kyber.Point
	PK2   kyber.Point
	Proof []byte
}

// NewKeyPair generates a fresh masking key pair for one hand.
func NewKeyPair() (*KeyPair, error) {
	s := RandomScalar()
	pk1 := Suite.G1().Point().Mul(s, nil)
	pk2 := Suite.G2().Point().Mul(s, nil)

	sec := map[string]kyber.Scalar{"s": s}
	pub := map[string]kyber.Point{"G1": G1Base(), "PK1": pk1}
	prover := keyPred.Prover(proofSuite, sec, pub, nil)
	pf, err := proof.HashProve(proofSuite, keyProofTag, prover)
	if err != nil {
		return nil, fmt.Errorf("proving key knowledge: %w", err)
	}

	return &KeyPair{
		Secret: s,
		Public: Commitment{PK1: pk1, PK2: pk2, Proof: pf},
	}, nil
}

// Verify checks the knowledge proof for PK1 and that PK2 commits to the
// same scalar.
func (c Commitment) Verify() error {
	if c.PK1 == nil || c.PK2 == nil {
		return fmt.Errorf("incomplete commitment")
	}
	pub := map[string]kyber.Point{"G1": G1Base(), "PK1": c.PK1}
	verifier := keyPred.Verifier(proofSuite, pub)
	if err := proof.HashVerify(proofSuite, keyProofTag, verifier, c.Proof); err != nil {
		return fmt.Errorf("key knowledge proof: %w", err)
	}
	if !PairingCheck(c.PK1, G2Base(), G1Base(), c.PK2) {
		return fmt.Errorf("commitment points bind different scalars")
	}
	return nil
}

// Package group implements the masking algebra over the bn256 pairing
// groups. Cards live in G1, player commitments in G2, and the bilinear
// pairing ties the two together so that every unmasking step can be
// checked without revealing the masking scalar.
package group

import (
	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/pairing/bn256"
)

// Suite is the shared pairing suite. All points handled by this module
// belong to its G1, G2 or GT groups.
var Suite = bn256.NewSuite()

// proofSuite is the flat G1 suite the kyber proof framework works over.
var proofSuite = bn256.NewSuiteG1()

// RandomScalar draws a fresh uniform scalar. Masking scalars are
// hand-scoped: reusing one across hands breaks unlinkability and is a
// caller error, not something this layer can detect.
func RandomScalar() kyber.Scalar {
	return Suite.G1().Scalar().Pick(Suite.RandomStream())
}

// Mask applies a player's masking layer: s*p in G1.
func Mask(p kyber.Point, s kyber.Scalar) kyber.Point {
	return Suite.G1().Point().Mul(s, p)
}

// Unmask removes a masking layer by multiplying with the scalar's
// inverse. Unmask(Mask(x, s), s) == x for every valid x and s; the whole
// protocol rests on this and on scalar multiplication commuting.
func Unmask(p kyber.Point, s kyber.Scalar) kyber.Point {
	inv := Suite.G1().Scalar().Inv(s)
	return Suite.G1().Point().Mul(inv, p)
}

// PairingCheck reports whether e(a, b) == e(c, d) with a, c in G1 and
// b, d in G2.
func PairingCheck(a, b, c, d kyber.Point) bool {
	return Suite.Pair(a, b).Equal(Suite.Pair(c, d))
}

// hashablePoint is satisfied by the bn256 G1 point implementation.
type hashablePoint interface {
	Hash([]byte) kyber.Point
}

// HashToPoint maps an arbitrary message to a G1 point. Used for the
// fixed public card encodings.
func HashToPoint(msg []byte) kyber.Point {
	return Suite.G1().Point().(hashablePoint).Hash(msg)
}

// G1Base returns the G1 generator.
func G1Base() kyber.Point {
	return Suite.G1().Point().Base()
}

// G2Base returns the G2 generator.
func G2Base() kyber.Point {
	return Suite.G2().Point().Base()
}

// VerifyPeel checks that unmasked is masked with the peeler's layer
// removed, i.e. masked == s*unmasked where pk2 == s*g2:
//
//	e(masked, g2) == e(unmasked, pk2)
//
// A false result means the submitted peel is a forgery.
func VerifyPeel(masked, unmasked, pk2 kyber.Point) bool {
	return PairingCheck(masked, G2Base(), unmasked, pk2)
}

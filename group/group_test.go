package group

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/kyber/v4"
)

func TestMaskUnmaskRoundTrip(t *testing.T) {
	x := HashToPoint([]byte("As"))
	for i := 0; i < 10; i++ {
		s := RandomScalar()
		masked := Mask(x, s)
		require.False(t, masked.Equal(x))
		require.True(t, Unmask(masked, s).Equal(x))
	}
}

func TestMaskingCommutes(t *testing.T) {
	x := HashToPoint([]byte("Qh"))
	scalars := []kyber.Scalar{RandomScalar(), RandomScalar(), RandomScalar()}

	forward := x.Clone()
	for _, s := range scalars {
		forward = Mask(forward, s)
	}
	backward := x.Clone()
	for i := len(scalars) - 1; i >= 0; i-- {
		backward = Mask(backward, scalars[i])
	}
	require.True(t, forward.Equal(backward))

	// removing layers in a different order than they were applied
	peeled := Unmask(Unmask(Unmask(forward, scalars[1]), scalars[2]), scalars[0])
	require.True(t, peeled.Equal(x))
}

func TestVerifyPeel(t *testing.T) {
	kp, err := NewKeyPair()
	require.NoError(t, err)

	x := HashToPoint([]byte("7c"))
	masked := Mask(x, kp.Secret)
	unmasked := Unmask(masked, kp.Secret)

	require.True(t, VerifyPeel(masked, unmasked, kp.Public.PK2))

	// a forged peel result fails the pairing relation
	forged := Mask(unmasked, RandomScalar())
	require.False(t, VerifyPeel(masked, forged, kp.Public.PK2))

	// a peel verified against the wrong commitment fails too
	other, err := NewKeyPair()
	require.NoError(t, err)
	require.False(t, VerifyPeel(masked, unmasked, other.Public.PK2))
}

func TestCommitmentVerify(t *testing.T) {
	kp, err := NewKeyPair()
	require.NoError(t, err)
	require.NoError(t, kp.Public.Verify())

	// swapping in someone else's PK2 breaks the binding check
	other, err := NewKeyPair()
	require.NoError(t, err)
	tampered := kp.Public
	tampered.PK2 = other.Public.PK2
	require.Error(t, tampered.Verify())

	// corrupting the proof is rejected
	bad := kp.Public
	bad.Proof = append([]byte(nil), kp.Public.Proof...)
	bad.Proof[0] ^= 0xff
	require.Error(t, bad.Verify())
}

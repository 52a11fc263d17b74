package cards

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pairdeal/pairdeal/group"
)

func TestAllEnumeratesFullDeck(t *testing.T) {
	all := All()
	require.Len(t, all, 52)

	seen := map[Card]bool{}
	for _, c := range all {
		require.False(t, seen[c], "duplicate card %v", c)
		seen[c] = true
	}
}

func TestLabelRoundTrip(t *testing.T) {
	for _, c := range All() {
		parsed, err := Parse(c.Label())
		require.NoError(t, err)
		require.Equal(t, c, parsed)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, label := range []string{"", "A", "Asx", "1s", "Xq", "Az"} {
		_, err := Parse(label)
		require.Error(t, err, "label %q", label)
	}
}

func TestNewValidatesBounds(t *testing.T) {
	c, err := New(Spade, Ace)
	require.NoError(t, err)
	require.Equal(t, "As", c.Label())

	for _, bad := range [][2]uint8{{4, 1}, {0, 0}, {0, 14}} {
		_, err := New(bad[0], bad[1])
		require.Error(t, err, "suit %d rank %d", bad[0], bad[1])
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	enc := NewEncoding()
	for _, c := range All() {
		p, err := enc.Encode(c)
		require.NoError(t, err)
		back, err := enc.Decode(p)
		require.NoError(t, err)
		require.Equal(t, c, back)
	}
}

func TestDecodeRejectsNonCardPoints(t *testing.T) {
	enc := NewEncoding()

	// an arbitrary point not derived from a card label
	_, err := enc.Decode(group.HashToPoint([]byte("not a card")))
	require.ErrorIs(t, err, ErrUnknownCard)

	// a masked card is not decodable either
	ace, err := enc.Encode(All()[0])
	require.NoError(t, err)
	masked := group.Mask(ace, group.RandomScalar())
	_, err = enc.Decode(masked)
	require.ErrorIs(t, err, ErrUnknownCard)
}

func TestEvalCardConversion(t *testing.T) {
	for _, c := range All() {
		_, err := c.EvalCard()
		require.NoError(t, err, "card %v", c)
	}
}

package cards

import (
	"errors"
	"fmt"

	"go.dedis.ch/kyber/v4"

	"github.com/pairdeal/pairdeal/group"
)

// ErrUnknownCard is returned by Decode for any point outside the 52
// known encodings. During play this is the primary signal that a
// claimed unmask is fraudulent: an honest peel chain always terminates
// on one of the public card points.
var ErrUnknownCard = errors.New("not a recognized card")

// Encoding is the fixed public bijection between the 52 cards and their
// G1 points. Every participant derives the same table, so it carries no
// secrets and can be shared freely.
type Encoding struct {
	cards  []Card
	points []kyber.Point
	index  map[string]int // marshaled point -> card index
}

// NewEncoding derives the card points by hashing each card's label to
// G1.
func NewEncoding() *Encoding {
	all := All()
	e := &Encoding{
		cards:  all,
		points: make([]kyber.Point, len(all)),
		index:  make(map[string]int, len(all)),
	}
	for i, c := range all {
		p := group.HashToPoint([]byte(c.Label()))
		e.points[i] = p
		e.index[pointKey(p)] = i
	}
	return e
}

// Encode returns the group element for a card.
func (e *Encoding) Encode(c Card) (kyber.Point, error) {
	for i, known := range e.cards {
		if known == c {
			return e.points[i].Clone(), nil
		}
	}
	return nil, fmt.Errorf("encode card %v: %w", c, ErrUnknownCard)
}

// Decode maps a fully unmasked group element back to its card. Fails
// with ErrUnknownCard for anything that is not one of the 52 encodings;
// it never returns a false positive.
func (e *Encoding) Decode(p kyber.Point) (Card, error) {
	i, ok := e.index[pointKey(p)]
	if !ok {
		return Card{}, ErrUnknownCard
	}
	return e.cards[i], nil
}

// Points returns the encoded deck in canonical order. Callers get
// clones; the table itself is immutable.
func (e *Encoding) Points() []kyber.Point {
	out := make([]kyber.Point, len(e.points))
	for i, p := range e.points {
		out[i] = p.Clone()
	}
	return out
}

func pointKey(p kyber.Point) string {
	b, err := p.MarshalBinary()
	if err != nil {
		// G1 points always marshal; an error here means a broken point
		// implementation, not bad input.
		panic(err)
	}
	return string(b)
}

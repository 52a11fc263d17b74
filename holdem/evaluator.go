package holdem

import (
	"fmt"
	"sort"

	"github.com/paulhankin/poker"

	"github.com/pairdeal/pairdeal/cards"
)

// payouts evaluates every pot against the revealed hole cards and the
// board. Seven-card evaluation per eligible player, ties split the pot
// equally, folded players never win. Returns seat to winnings.
func payouts(bets *BettingState, hole map[int][2]cards.Card, board [5]cards.Card) (map[int]uint64, error) {
	results := make(map[int]uint64)

	for _, pot := range bets.pots() {
		type scored struct {
			seat  int
			score int16
		}
		var ranked []scored

		for _, seat := range pot.eligible {
			hc, ok := hole[seat]
			if !ok {
				// mucked at showdown, cannot win
				continue
			}
			final, err := finalHand(hc, board)
			if err != nil {
				return nil, err
			}
			ranked = append(ranked, scored{seat: seat, score: poker.Eval7(&final)})
		}

		if len(ranked) == 0 {
			continue
		}

		sort.Slice(ranked, func(i, j int) bool {
			return ranked[i].score > ranked[j].score
		})

		best := ranked[0].score
		winners := []int{ranked[0].seat}
		for i := 1; i < len(ranked); i++ {
			if ranked[i].score != best {
				break
			}
			winners = append(winners, ranked[i].seat)
		}

		share := pot.amount / uint64(len(winners))
		remainder := pot.amount - share*uint64(len(winners))
		for i, w := range winners {
			results[w] += share
			// odd chip goes to the earliest winner
			if i == 0 {
				results[w] += remainder
			}
		}
	}

	return results, nil
}

// DescribeHand names the best five-card hand a seat makes from its
// hole cards and the board.
func DescribeHand(hole [2]cards.Card, board [5]cards.Card) (string, error) {
	final, err := finalHand(hole, board)
	if err != nil {
		return "", err
	}
	return poker.Describe(final[:])
}

func finalHand(hole [2]cards.Card, board [5]cards.Card) ([7]poker.Card, error) {
	var final [7]poker.Card
	for i, c := range board {
		ec, err := c.EvalCard()
		if err != nil {
			return [7]poker.Card{}, fmt.Errorf("invalid board card at idx %d: %w", i, err)
		}
		final[i] = ec
	}
	for i, c := range hole {
		ec, err := c.EvalCard()
		if err != nil {
			return [7]poker.Card{}, fmt.Errorf("invalid hole card: %w", err)
		}
		final[5+i] = ec
	}
	return final, nil
}

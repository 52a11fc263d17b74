package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/rs/zerolog"

	"github.com/pairdeal/pairdeal/audit"
	"github.com/pairdeal/pairdeal/cards"
	"github.com/pairdeal/pairdeal/deck"
	"github.com/pairdeal/pairdeal/group"
	"github.com/pairdeal/pairdeal/holdem"
)

func main() {
	numPlayers := flag.Int("players", 3, "number of simulated players at the table")
	numHands := flag.Int("hands", 1, "number of hands to play")
	verbose := flag.Bool("v", false, "log every accepted protocol step")
	flag.Parse()

	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	logger := slog.New(handler)

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Pair", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Deal", pterm.FgDarkGray.ToStyle()),
	).Render()
	pterm.Info.Println("Scripted mental-poker hand: every seat is simulated in-process.")
	pterm.Println()

	handLog := zerolog.Nop()
	if *verbose {
		handLog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	referee := &audit.LocalReferee{}
	table, err := holdem.NewTable(*numPlayers, 1000, 10, referee, deck.DeferredTraceProver{}, handLog)
	if err != nil {
		logger.Error("table setup failed", "error", err.Error())
		os.Exit(1)
	}

	for i := 0; i < *numHands; i++ {
		if err := playHand(table, logger); err != nil {
			logger.Error("hand aborted", "error", err.Error())
			os.Exit(1)
		}
		pterm.Println()
	}

	printStacks(table)
}

// seat bundles a simulated player's secret state.
type seat struct {
	id int
	kp *group.KeyPair
}

func playHand(table *holdem.Table, logger *slog.Logger) error {
	h, err := table.StartHand()
	if err != nil {
		return err
	}
	logger.Info("hand started", "id", h.ID(), "dealer", h.Dealer())

	n := len(table.Stacks())
	seats := make([]*seat, 0, n)
	for i := range table.Stacks() {
		if hs, ok := table.HandSeat(i); ok {
			kp, err := group.NewKeyPair()
			if err != nil {
				return err
			}
			seats = append(seats, &seat{id: hs, kp: kp})
		}
	}

	spinner, _ := pterm.DefaultSpinner.Start("Committing masking keys ...")
	for _, s := range seats {
		if err := h.SubmitKeyCommit(s.id, s.kp.Public); err != nil {
			spinner.Fail()
			return err
		}
	}
	spinner.Success()

	spinner, _ = pterm.DefaultSpinner.Start("Sealing the deck: lock and shuffle around the table ...")
	prover := deck.DeferredTraceProver{}
	for i := 0; i < len(seats); i++ {
		s := seats[(h.Dealer()+i)%len(seats)]
		slots := h.DeckSlots()
		perm := deck.RandomPermutation(len(slots))
		after, err := deck.Lock(slots, s.kp.Secret, perm)
		if err != nil {
			spinner.Fail()
			return err
		}
		proof, err := prover.Prove(slots, after, s.kp.Secret, perm)
		if err != nil {
			spinner.Fail()
			return err
		}
		if err := h.SubmitLockAndShuffle(s.id, after, proof); err != nil {
			spinner.Fail()
			return err
		}
	}
	spinner.Success()

	spinner, _ = pterm.DefaultSpinner.Start("Dealing hole cards: peeling every layer but the owner's ...")
	for _, owner := range seats {
		for _, slot := range h.Assignment().HoleSlots(owner.id) {
			for _, s := range seats {
				if s.id == owner.id {
					continue
				}
				if err := peel(h, s, slot); err != nil {
					spinner.Fail()
					return err
				}
			}
		}
	}
	spinner.Success()

	printHoles(h, seats)

	for !h.Phase().Terminal() {
		switch h.Phase() {
		case holdem.PhaseBetPreFlop, holdem.PhaseBetFlop, holdem.PhaseBetTurn, holdem.PhaseBetRiver:
			if err := callOrCheck(h, logger); err != nil {
				return err
			}
		case holdem.PhaseRevealFlop:
			f := h.Assignment().FlopSlots()
			if err := revealStreet(h, seats, f[:]...); err != nil {
				return err
			}
			printBoard(h)
		case holdem.PhaseRevealTurn:
			if err := revealStreet(h, seats, h.Assignment().TurnSlot()); err != nil {
				return err
			}
			printBoard(h)
		case holdem.PhaseRevealRiver:
			if err := revealStreet(h, seats, h.Assignment().RiverSlot()); err != nil {
				return err
			}
			printBoard(h)
		case holdem.PhaseShowdown:
			for _, s := range seats {
				for _, slot := range h.Assignment().HoleSlots(s.id) {
					if err := peel(h, s, slot); err != nil {
						return err
					}
				}
			}
		default:
			return fmt.Errorf("unexpected phase %s", h.Phase())
		}
	}

	if h.Phase() == holdem.PhaseFaulted {
		return fmt.Errorf("hand %s faulted", h.ID())
	}
	printSettlement(h)
	return nil
}

func peel(h *holdem.Hand, s *seat, slot int) error {
	el, err := h.SlotElement(slot)
	if err != nil {
		return err
	}
	return h.SubmitPeel(s.id, slot, group.Unmask(el, s.kp.Secret))
}

func revealStreet(h *holdem.Hand, seats []*seat, slots ...int) error {
	for _, slot := range slots {
		for _, s := range seats {
			if err := peel(h, s, slot); err != nil {
				return err
			}
		}
	}
	return nil
}

// callOrCheck plays the acting seat's decision: call when facing a
// bet, check otherwise.
func callOrCheck(h *holdem.Hand, logger *slog.Logger) error {
	turn := h.Turn()
	owed, err := h.CallAmount(turn)
	if err != nil {
		return err
	}
	action := holdem.BetAction{Kind: holdem.ActionCheck, Seq: h.ActionSeq()}
	if owed > 0 {
		action.Kind = holdem.ActionCall
	}
	if err := h.SubmitBetAction(turn, action); err != nil {
		return err
	}
	logger.Info("bet accepted", "seat", turn, "action", string(action.Kind), "pot", h.Pot())
	return nil
}

func printHoles(h *holdem.Hand, seats []*seat) {
	var panels []pterm.Panel
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	for _, s := range seats {
		hc, err := h.HoleCards(s.id, s.kp.Secret)
		if err != nil {
			continue
		}
		hand := pterm.BgGreen.Sprintf("%s - %s", hc[0].String(), hc[1].String())
		title := fmt.Sprintf("Player %d", s.id)
		panels = append(panels, pterm.Panel{
			Data: pbox.WithTitle(title).WithTitleTopLeft().Sprintf("Chips: %d\n%s", h.Chips(s.id), hand),
		})
	}
	pterm.DefaultPanel.WithPanels([][]pterm.Panel{panels}).Render()
}

func printBoard(h *holdem.Hand) {
	board := ""
	for _, c := range h.Board() {
		board += c.String() + " - "
	}
	board += fmt.Sprintf(" Pot: %d", h.Pot())
	pterm.Println(pterm.BgGreen.Sprint("\n" + board + "\n"))
}

func printSettlement(h *holdem.Hand) {
	s := h.Settlement()
	if s == nil {
		return
	}
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	info := ""
	board := h.Board()
	for winner, amount := range s.Payouts {
		name := pterm.LightCyan(fmt.Sprintf("Player %d", winner))
		line := pterm.Sprintfln("%s won %d taking down the pot", name, amount)
		if hc, ok := h.RevealedHole(winner); ok && len(board) == 5 {
			var b [5]cards.Card
			copy(b[:], board)
			if desc, err := holdem.DescribeHand(hc, b); err == nil {
				line = pterm.Sprintfln("%s won %d with %s", name, amount, desc)
			}
		}
		info += line
	}
	pterm.DefaultPanel.WithPanels([][]pterm.Panel{{
		{Data: pbox.WithTitle(pterm.LightGreen("|SHOWDOWN|")).WithTitleTopCenter().Sprintf(info)},
	}}).Render()
}

func printStacks(table *holdem.Table) {
	rows := pterm.TableData{{"Seat", "Chips"}}
	for seat, chips := range table.Stacks() {
		rows = append(rows, []string{fmt.Sprintf("%d", seat), fmt.Sprintf("%d", chips)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

package app

import (
	"fmt"
	"strings"

	"felt/internal/domain"
	"felt/internal/wire"
)

// resultMessage renders the round summary for a completed event from the
// projection as it stands on arrival. Rounds that skipped intermediate
// events still produce a sensible outcome line.
func (s *Service) resultMessage(evt wire.Completed) string {
	var b strings.Builder
	if detail := s.resultDetailLocked(); detail != "" {
		b.WriteString(detail)
		b.WriteString(". ")
	}
	switch {
	case evt.Payout > 0:
		fmt.Fprintf(&b, "Won %d", evt.Payout)
	case evt.Payout < 0:
		fmt.Fprintf(&b, "Lost %d", -evt.Payout)
	default:
		b.WriteString("Push")
	}
	if evt.Doubled {
		b.WriteString(" with double")
	}
	if evt.Shielded {
		b.WriteString(", shield spent")
	}
	return b.String()
}

// resultDetailLocked describes the table outcome for the active game, or ""
// when the revealed cards already say everything.
func (s *Service) resultDetailLocked() string {
	switch s.state.Game {
	case domain.Blackjack:
		t := s.state.Blackjack
		if len(t.Hands) == 0 {
			return ""
		}
		hand := t.Hands[t.DisplayHand()]
		if hand.Status == domain.HandBlackjack {
			return "Blackjack"
		}
		if len(t.Dealer) == 0 {
			return fmt.Sprintf("You %d", hand.Total())
		}
		return fmt.Sprintf("You %d, dealer %d", hand.Total(), dealerTotal(t.Dealer))
	case domain.HiLo:
		if n := len(s.state.HiLo.History); n > 1 {
			return fmt.Sprintf("Run ended after %d cards", n)
		}
		return ""
	case domain.Baccarat:
		t := s.state.Baccarat
		if !t.Dealt {
			return ""
		}
		return fmt.Sprintf("Player %d, banker %d", baccaratTotal(t.Player), baccaratTotal(t.Banker))
	case domain.CasinoWar:
		if s.state.War.TieWar {
			return "War"
		}
		return ""
	case domain.Craps:
		h := s.state.Craps.RollHistory
		if len(h) == 1 && h[0] == 7 {
			return "Seven out"
		}
		if len(h) > 0 {
			return fmt.Sprintf("Rolled %d", h[len(h)-1])
		}
		return ""
	case domain.Roulette:
		t := s.state.Roulette
		if !t.HasResult {
			return ""
		}
		return fmt.Sprintf("Ball landed on %d %s", t.Pocket, pocketColor(t.Pocket))
	case domain.SicBo:
		t := s.state.SicBo
		if !t.Rolled {
			return ""
		}
		total := int(t.Dice[0]) + int(t.Dice[1]) + int(t.Dice[2])
		return fmt.Sprintf("Dice %d %d %d, total %d", t.Dice[0], t.Dice[1], t.Dice[2], total)
	default:
		return ""
	}
}

// dealerTotal values a revealed dealer hand the blackjack way, demoting aces
// while the total busts.
func dealerTotal(cards []domain.Card) int {
	h := domain.BlackjackHand{Cards: cards}
	return h.Total()
}

// baccaratTotal values a hand with aces as one and tens and faces as zero.
func baccaratTotal(cards []domain.Card) int {
	total := 0
	for _, c := range cards {
		if c.Rank < 9 {
			total += int(c.Rank) + 1
		}
	}
	return total % 10
}

func pocketColor(pocket uint8) string {
	switch {
	case pocket == 0:
		return "green"
	case domain.RedPocket(pocket):
		return "red"
	default:
		return "black"
	}
}

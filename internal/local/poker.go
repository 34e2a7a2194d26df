package local

import (
	"fmt"

	"github.com/paulhankin/poker"

	"felt/internal/domain"
)

// pokerCard converts a table card to the evaluator's encoding, which ranks
// aces as 1.
func pokerCard(c domain.Card) poker.Card {
	var suit poker.Suit
	switch c.Suit {
	case domain.Spades:
		suit = poker.Spade
	case domain.Hearts:
		suit = poker.Heart
	case domain.Diamonds:
		suit = poker.Diamond
	case domain.Clubs:
		suit = poker.Club
	}
	pc, err := poker.MakeCard(suit, poker.Rank(c.Rank)+1)
	if err != nil {
		panic(fmt.Sprintf("local: card %v does not convert: %v", c, err))
	}
	return pc
}

func eval3(cards []domain.Card) int16 {
	var hand [3]poker.Card
	for i, c := range cards {
		hand[i] = pokerCard(c)
	}
	return poker.Eval3(&hand)
}

func eval7(hole, community []domain.Card) int16 {
	var hand [7]poker.Card
	for i, c := range hole {
		hand[i] = pokerCard(c)
	}
	for i, c := range community {
		hand[2+i] = pokerCard(c)
	}
	return poker.Eval7(&hand)
}

// describeHand names a hand for result logging. An empty string on a
// conversion failure is fine; the name is cosmetic.
func describeHand(cards []domain.Card) string {
	hand := make([]poker.Card, len(cards))
	for i, c := range cards {
		hand[i] = pokerCard(c)
	}
	name, err := poker.Describe(hand)
	if err != nil {
		return ""
	}
	return name
}

// aceHighOrder ranks cards for the high-card games: deuce lowest, ace highest.
func aceHighOrder(c domain.Card) int {
	if c.Rank == 0 {
		return 14
	}
	return int(c.Rank) + 1
}

// threeCardQualifies reports whether the dealer plays: queen high or better.
func threeCardQualifies(cards []domain.Card) bool {
	var rankCount [13]int
	high := 0
	for _, c := range cards {
		rankCount[c.Rank]++
		if o := aceHighOrder(c); o > high {
			high = o
		}
	}
	for _, n := range rankCount {
		if n >= 2 {
			return true
		}
	}
	return high >= 12
}

// Video poker pay multipliers, jacks-or-better style. The returned multiple
// is on the full wager: 0 loses it, 1 pushes, anything above wins.
func videoPokerClass(cards []domain.Card) (int64, string) {
	var rankCount [13]int
	flush := true
	for _, c := range cards {
		rankCount[c.Rank]++
		if c.Suit != cards[0].Suit {
			flush = false
		}
	}
	pairs, trips, quads := 0, 0, 0
	highPair := false
	for r, n := range rankCount {
		switch n {
		case 2:
			pairs++
			if r == 0 || r >= 10 {
				highPair = true
			}
		case 3:
			trips++
		case 4:
			quads++
		}
	}
	straightHigh := straightHighCard(rankCount)
	switch {
	case flush && straightHigh == 14:
		return 250, "Royal Flush"
	case flush && straightHigh > 0:
		return 50, "Straight Flush"
	case quads == 1:
		return 25, "Four of a Kind"
	case trips == 1 && pairs == 1:
		return 9, "Full House"
	case flush:
		return 6, "Flush"
	case straightHigh > 0:
		return 4, "Straight"
	case trips == 1:
		return 3, "Three of a Kind"
	case pairs == 2:
		return 2, "Two Pair"
	case highPair:
		return 1, "Jacks or Better"
	default:
		return 0, ""
	}
}

// straightHighCard returns the high card order of a five-card straight, 5
// for the wheel, or 0 when the cards do not form one.
func straightHighCard(rankCount [13]int) int {
	var have [15]bool
	for r, n := range rankCount {
		if n == 0 {
			continue
		}
		if n > 1 {
			return 0
		}
		if r == 0 {
			have[14] = true
		} else {
			have[r+1] = true
		}
	}
	for high := 14; high >= 6; high-- {
		run := true
		for v := high - 4; v <= high; v++ {
			if !have[v] {
				run = false
				break
			}
		}
		if run {
			return high
		}
	}
	if have[14] && have[2] && have[3] && have[4] && have[5] {
		return 5
	}
	return 0
}

package domain

import "fmt"

// Suit identifies one of the four French suits.
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the single-letter suit code used in wire logs and messages.
func (s Suit) String() string {
	switch s {
	case Spades:
		return "S"
	case Hearts:
		return "H"
	case Diamonds:
		return "D"
	case Clubs:
		return "C"
	}
	return "?"
}

// Rank is a zero-based rank index: 0=Ace, 1=Two ... 9=Ten, 10=Jack, 11=Queen, 12=King.
type Rank uint8

var rankNames = [13]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

func (r Rank) String() string {
	if int(r) < len(rankNames) {
		return rankNames[r]
	}
	return "?"
}

// Value returns the blackjack-style numeric value of the rank:
// Ace=11, Two..Nine=face value, Ten/Jack/Queen/King=10.
func (r Rank) Value() int {
	switch {
	case r == 0:
		return 11
	case r <= 8:
		return int(r) + 1
	default:
		return 10
	}
}

// Card is a single playing card decoded from the engine's one-byte encoding.
// Hidden marks cards the protocol delivered but the current stage does not reveal
// (a dealer hole card stays hidden until the result stage).
type Card struct {
	Rank   Rank
	Suit   Suit
	Hidden bool
}

// Value is the blackjack-style numeric value of the card.
func (c Card) Value() int {
	return c.Rank.Value()
}

// String renders the card as rank+suit, e.g. "AS" or "10H".
func (c Card) String() string {
	if c.Hidden {
		return "??"
	}
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// sentinelCard is what out-of-range bytes decode to: the two of spades.
var sentinelCard = Card{Rank: 1, Suit: Spades}

// DecodeCard decodes a single wire byte in [0,51] into a card.
// suit = v/13, rank index = v%13. Out-of-range bytes yield the sentinel
// low card and ok=false so callers can log the corruption; a single bad
// byte must never abort an otherwise valid state update.
func DecodeCard(v byte) (Card, bool) {
	if v > 51 {
		return sentinelCard, false
	}
	return Card{Rank: Rank(v % 13), Suit: Suit(v / 13)}, true
}

// EncodeCard is the inverse of DecodeCard for valid cards.
func EncodeCard(c Card) byte {
	return byte(c.Suit)*13 + byte(c.Rank)
}

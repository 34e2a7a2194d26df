package wire

import (
	"fmt"

	"felt/internal/domain"
)

// Blackjack move codes.
const (
	MoveHit byte = iota
	MoveStand
	MoveDouble
	MoveSplit
)

// Hi-Lo guess codes.
const (
	GuessLower  byte = 0
	GuessHigher byte = 1
)

// Casino War decision codes.
const (
	ChoiceWar       byte = 0
	ChoiceSurrender byte = 1
)

// Three Card decision codes.
const (
	ChoicePlay byte = 0
	ChoiceFold byte = 1
)

// Ultimate Hold'em action codes: 0 checks, 1..4 raise by that multiplier,
// 5 folds.
const (
	HoldemCheck    byte = 0
	HoldemRaiseMax byte = 4
	HoldemFold     byte = 5
)

// EncodeBlackjackMove encodes hit/stand/double/split. Panics on an unknown code.
func EncodeBlackjackMove(code byte) []byte {
	if code > MoveSplit {
		panic(fmt.Sprintf("wire: unknown blackjack move %d", code))
	}
	return []byte{ActionBet, code}
}

// EncodeVideoPokerDraw encodes the hold mask (bits 0..4 keep the matching
// card). Panics when bits outside the five cards are set.
func EncodeVideoPokerDraw(holdMask byte) []byte {
	if holdMask > 0x1f {
		panic(fmt.Sprintf("wire: hold mask %#x has bits beyond five cards", holdMask))
	}
	return []byte{ActionBet, holdMask}
}

// EncodeHiLoGuess encodes a higher/lower guess.
func EncodeHiLoGuess(higher bool) []byte {
	code := GuessLower
	if higher {
		code = GuessHigher
	}
	return []byte{ActionBet, code}
}

// EncodeHiLoCashOut encodes the cash-out confirmation.
func EncodeHiLoCashOut() []byte {
	return []byte{ActionTrigger}
}

// EncodeBaccaratBet encodes one baccarat bet placement.
func EncodeBaccaratBet(kind uint8, amount uint64) []byte {
	mustKind(domain.Baccarat, kind)
	dst := []byte{ActionBet, kind}
	return appendU64(dst, amount)
}

// EncodeBaccaratDeal encodes the deal trigger.
func EncodeBaccaratDeal() []byte {
	return []byte{ActionTrigger}
}

// EncodeBaccaratClear encodes the clear-bets request.
func EncodeBaccaratClear() []byte {
	return []byte{ActionClear}
}

// EncodeWarChoice encodes the tie decision: go to war or surrender.
func EncodeWarChoice(surrender bool) []byte {
	code := ChoiceWar
	if surrender {
		code = ChoiceSurrender
	}
	return []byte{ActionBet, code}
}

// EncodeThreeCardChoice encodes the play-or-fold decision.
func EncodeThreeCardChoice(fold bool) []byte {
	code := ChoicePlay
	if fold {
		code = ChoiceFold
	}
	return []byte{ActionBet, code}
}

// EncodeHoldemAction encodes check (0), a raise multiplier (1..4) or fold (5).
// Panics on any other code.
func EncodeHoldemAction(code byte) []byte {
	if code > HoldemFold {
		panic(fmt.Sprintf("wire: unknown hold'em action %d", code))
	}
	return []byte{ActionBet, code}
}

// EncodeCrapsBet encodes one craps bet placement.
func EncodeCrapsBet(kind, target uint8, amount uint64) []byte {
	mustKind(domain.Craps, kind)
	dst := []byte{ActionBet, kind, target}
	return appendU64(dst, amount)
}

// EncodeCrapsRoll encodes the roll trigger. Craps reuses the clear
// discriminant for its roll; it has no clear operation because bets become
// working the moment the engine accepts them.
func EncodeCrapsRoll() []byte {
	return []byte{ActionClear}
}

// EncodeRouletteBet encodes one roulette bet placement.
func EncodeRouletteBet(kind, target uint8, amount uint64) []byte {
	mustKind(domain.Roulette, kind)
	dst := []byte{ActionBet, kind, target}
	return appendU64(dst, amount)
}

// EncodeRouletteSpin encodes the spin trigger.
func EncodeRouletteSpin() []byte {
	return []byte{ActionTrigger}
}

// EncodeRouletteClear encodes the clear-bets request.
func EncodeRouletteClear() []byte {
	return []byte{ActionClear}
}

// EncodeSicBoBet encodes one sic bo bet placement.
func EncodeSicBoBet(kind, target uint8, amount uint64) []byte {
	mustKind(domain.SicBo, kind)
	dst := []byte{ActionBet, kind, target}
	return appendU64(dst, amount)
}

// EncodeSicBoRoll encodes the roll trigger.
func EncodeSicBoRoll() []byte {
	return []byte{ActionTrigger}
}

// EncodeSicBoClear encodes the clear-bets request.
func EncodeSicBoClear() []byte {
	return []byte{ActionClear}
}

// Move is a parsed move payload, the engine-side view of what the encoders
// above produce. Code carries the choice byte or hold mask for the choice
// games; Bet carries the wager for bet placements.
type Move struct {
	Action byte
	Code   byte
	Bet    domain.Bet
}

// ParseMove decodes a move payload for the given game. The game type comes
// from the session, never from the payload.
func ParseMove(game domain.GameType, payload []byte) (Move, error) {
	c := newCursor(payload)
	action, err := c.u8()
	if err != nil {
		return Move{}, shortErr("move", err)
	}

	switch game {
	case domain.Blackjack, domain.VideoPoker, domain.HiLo, domain.CasinoWar,
		domain.ThreeCard, domain.UltimateHoldem:
		return parseChoiceMove(game, action, c)
	case domain.Baccarat:
		return parseBetMove(game, action, c, false)
	case domain.Craps, domain.Roulette, domain.SicBo:
		return parseBetMove(game, action, c, true)
	default:
		panic(fmt.Sprintf("wire: unhandled game type %d", game))
	}
}

func parseChoiceMove(game domain.GameType, action byte, c *cursor) (Move, error) {
	switch action {
	case ActionBet:
		code, err := c.u8()
		if err != nil {
			return Move{}, shortErr("move", err)
		}
		if err := validateChoice(game, code); err != nil {
			return Move{}, err
		}
		return Move{Action: action, Code: code}, nil
	case ActionTrigger:
		if game != domain.HiLo {
			return Move{}, fmt.Errorf("%v: unexpected trigger action", game)
		}
		return Move{Action: action}, nil
	default:
		return Move{}, fmt.Errorf("%v: unknown action %d", game, action)
	}
}

func validateChoice(game domain.GameType, code byte) error {
	var max byte
	switch game {
	case domain.Blackjack:
		max = MoveSplit
	case domain.VideoPoker:
		max = 0x1f
	case domain.HiLo, domain.CasinoWar, domain.ThreeCard:
		max = 1
	case domain.UltimateHoldem:
		max = HoldemFold
	}
	if code > max {
		return fmt.Errorf("%v: choice %d out of range", game, code)
	}
	return nil
}

func parseBetMove(game domain.GameType, action byte, c *cursor, hasTarget bool) (Move, error) {
	switch action {
	case ActionBet:
		kind, err := c.u8()
		if err != nil {
			return Move{}, shortErr("move", err)
		}
		if _, ok := kindTable(game)[kind]; !ok {
			return Move{}, fmt.Errorf("%v: unknown bet kind %d", game, kind)
		}
		var target byte
		if hasTarget {
			if target, err = c.u8(); err != nil {
				return Move{}, shortErr("move", err)
			}
		}
		amount, err := c.u64()
		if err != nil {
			return Move{}, shortErr("move", err)
		}
		return Move{Action: action, Bet: domain.Bet{Kind: kind, Target: target, Amount: amount}}, nil
	case ActionTrigger:
		if game == domain.Craps {
			return Move{}, fmt.Errorf("%v: unknown action %d", game, action)
		}
		return Move{Action: action}, nil
	case ActionClear:
		return Move{Action: action}, nil
	default:
		return Move{}, fmt.Errorf("%v: unknown action %d", game, action)
	}
}

package app

import (
	"context"
	"fmt"

	"felt/internal/domain"
	"felt/internal/wire"
)

// Choice-game intents. Each builds the move payload for its game and submits
// it under the pending guard; the confirming event updates the projection.

// Hit requests another blackjack card for the active hand.
func (s *Service) Hit(ctx context.Context) error {
	return s.choiceMove(ctx, domain.Blackjack, wire.EncodeBlackjackMove(wire.MoveHit))
}

// Stand ends the active blackjack hand.
func (s *Service) Stand(ctx context.Context) error {
	return s.choiceMove(ctx, domain.Blackjack, wire.EncodeBlackjackMove(wire.MoveStand))
}

// DoubleDown doubles the blackjack wager for one final card.
func (s *Service) DoubleDown(ctx context.Context) error {
	return s.choiceMove(ctx, domain.Blackjack, wire.EncodeBlackjackMove(wire.MoveDouble))
}

// Split separates a blackjack pair into two hands.
func (s *Service) Split(ctx context.Context) error {
	return s.choiceMove(ctx, domain.Blackjack, wire.EncodeBlackjackMove(wire.MoveSplit))
}

// DrawCards redraws the video poker cards not held by the mask. Bit i holds
// card i.
func (s *Service) DrawCards(ctx context.Context, holdMask byte) error {
	return s.choiceMove(ctx, domain.VideoPoker, wire.EncodeVideoPokerDraw(holdMask))
}

// GuessHigher wagers that the next hi-lo card ranks above the current one.
func (s *Service) GuessHigher(ctx context.Context) error {
	return s.choiceMove(ctx, domain.HiLo, wire.EncodeHiLoGuess(true))
}

// GuessLower wagers that the next hi-lo card ranks below the current one.
func (s *Service) GuessLower(ctx context.Context) error {
	return s.choiceMove(ctx, domain.HiLo, wire.EncodeHiLoGuess(false))
}

// CashOut banks the accumulated hi-lo pot and ends the run.
func (s *Service) CashOut(ctx context.Context) error {
	return s.choiceMove(ctx, domain.HiLo, wire.EncodeHiLoCashOut())
}

// GoToWar raises on a casino war tie.
func (s *Service) GoToWar(ctx context.Context) error {
	return s.choiceMove(ctx, domain.CasinoWar, wire.EncodeWarChoice(false))
}

// SurrenderWar concedes a casino war tie for half the ante.
func (s *Service) SurrenderWar(ctx context.Context) error {
	return s.choiceMove(ctx, domain.CasinoWar, wire.EncodeWarChoice(true))
}

// PlayThreeCard matches the ante after seeing the three card poker hand.
func (s *Service) PlayThreeCard(ctx context.Context) error {
	return s.choiceMove(ctx, domain.ThreeCard, wire.EncodeThreeCardChoice(false))
}

// FoldThreeCard forfeits the three card poker ante.
func (s *Service) FoldThreeCard(ctx context.Context) error {
	return s.choiceMove(ctx, domain.ThreeCard, wire.EncodeThreeCardChoice(true))
}

// CheckHoldem checks the current ultimate holdem street.
func (s *Service) CheckHoldem(ctx context.Context) error {
	return s.choiceMove(ctx, domain.UltimateHoldem, wire.EncodeHoldemAction(wire.HoldemCheck))
}

// RaiseHoldem raises the given multiple of the ante, between 1x and 4x.
func (s *Service) RaiseHoldem(ctx context.Context, multiple uint8) error {
	if multiple < 1 || multiple > wire.HoldemRaiseMax {
		panic(fmt.Sprintf("app: holdem raise multiple %d out of range", multiple))
	}
	return s.choiceMove(ctx, domain.UltimateHoldem, wire.EncodeHoldemAction(multiple))
}

// FoldHoldem folds the ultimate holdem hand.
func (s *Service) FoldHoldem(ctx context.Context) error {
	return s.choiceMove(ctx, domain.UltimateHoldem, wire.EncodeHoldemAction(wire.HoldemFold))
}

// Bet-driven intents. While idle the bet joins the local builder queue and
// nothing is sent; the queue drains automatically after StartSession. With a
// live session the bet is submitted immediately.

// PlaceBaccaratBet stakes amount on a baccarat outcome.
func (s *Service) PlaceBaccaratBet(ctx context.Context, kind uint8, amount uint64) error {
	return s.placeBet(ctx, domain.Baccarat, domain.Bet{Kind: kind, Amount: amount})
}

// PlaceCrapsBet stakes amount on a craps line. Target carries the place or
// hardway number and is zero otherwise.
func (s *Service) PlaceCrapsBet(ctx context.Context, kind, target uint8, amount uint64) error {
	return s.placeBet(ctx, domain.Craps, domain.Bet{Kind: kind, Target: target, Amount: amount})
}

// PlaceRouletteBet stakes amount on a roulette position. Target is the pocket
// for straight bets, the dozen or column index otherwise.
func (s *Service) PlaceRouletteBet(ctx context.Context, kind, target uint8, amount uint64) error {
	return s.placeBet(ctx, domain.Roulette, domain.Bet{Kind: kind, Target: target, Amount: amount})
}

// PlaceSicBoBet stakes amount on a sic bo combination.
func (s *Service) PlaceSicBoBet(ctx context.Context, kind, target uint8, amount uint64) error {
	return s.placeBet(ctx, domain.SicBo, domain.Bet{Kind: kind, Target: target, Amount: amount})
}

// Deal asks the baccarat table to deal with the placed bets.
func (s *Service) Deal(ctx context.Context) error {
	return s.choiceMove(ctx, domain.Baccarat, wire.EncodeBaccaratDeal())
}

// Spin launches the roulette ball.
func (s *Service) Spin(ctx context.Context) error {
	return s.choiceMove(ctx, domain.Roulette, wire.EncodeRouletteSpin())
}

// ShootDice throws the craps dice.
func (s *Service) ShootDice(ctx context.Context) error {
	return s.choiceMove(ctx, domain.Craps, wire.EncodeCrapsRoll())
}

// RollSicBo shakes the sic bo cage.
func (s *Service) RollSicBo(ctx context.Context) error {
	return s.choiceMove(ctx, domain.SicBo, wire.EncodeSicBoRoll())
}

// ClearBets empties the local builder while idle, or asks the engine to
// return the staked bets on a live table. Craps bets stay locked once placed.
func (s *Service) ClearBets(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionID == 0 {
		s.state.Queued = nil
		s.state.UndoStack = nil
		return nil
	}
	switch s.state.Game {
	case domain.Baccarat:
		return s.submitMoveLocked(ctx, wire.EncodeBaccaratClear())
	case domain.Roulette:
		return s.submitMoveLocked(ctx, wire.EncodeRouletteClear())
	case domain.SicBo:
		return s.submitMoveLocked(ctx, wire.EncodeSicBoClear())
	case domain.Craps:
		return ErrBetsLocked
	default:
		return ErrWrongGame
	}
}

// UndoBet removes the most recently queued bet. It reports false once the
// queue history is exhausted or a session is live.
func (s *Service) UndoBet() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionID != 0 {
		return false
	}
	return s.state.UndoBet()
}

// Rebet queues the previous round's bets again. Only available while idle.
func (s *Service) Rebet() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionID != 0 {
		return false
	}
	return s.state.Rebet()
}

// QueuedTotal sums the local builder queue.
func (s *Service) QueuedTotal() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.QueuedTotal()
}

func (s *Service) choiceMove(ctx context.Context, game domain.GameType, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionID != 0 && s.state.Game != game {
		return ErrWrongGame
	}
	return s.submitMoveLocked(ctx, payload)
}

func (s *Service) placeBet(ctx context.Context, game domain.GameType, b domain.Bet) error {
	wire.MustBetKind(game, b.Kind)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionID == 0 {
		if s.state.Game != game {
			// The builder belongs to one table at a time.
			s.state.Queued = nil
			s.state.UndoStack = nil
			s.state.LastRound = nil
			s.state.Game = game
		}
		s.state.Stage = domain.StageBetting
		s.state.QueueBet(b)
		s.state.InputMode = domain.InputNone
		return nil
	}
	if s.state.Game != game {
		return ErrWrongGame
	}
	return s.submitMoveLocked(ctx, encodeBetMove(game, b))
}

// encodeBetMove builds the bet move payload for a bet-driven game.
func encodeBetMove(game domain.GameType, b domain.Bet) []byte {
	switch game {
	case domain.Baccarat:
		return wire.EncodeBaccaratBet(b.Kind, b.Amount)
	case domain.Craps:
		return wire.EncodeCrapsBet(b.Kind, b.Target, b.Amount)
	case domain.Roulette:
		return wire.EncodeRouletteBet(b.Kind, b.Target, b.Amount)
	case domain.SicBo:
		return wire.EncodeSicBoBet(b.Kind, b.Target, b.Amount)
	default:
		panic(fmt.Sprintf("app: %v takes no bet moves", game))
	}
}

// triggerPayload builds the deal, spin or roll move that commits the bets.
func triggerPayload(game domain.GameType) []byte {
	switch game {
	case domain.Baccarat:
		return wire.EncodeBaccaratDeal()
	case domain.Craps:
		return wire.EncodeCrapsRoll()
	case domain.Roulette:
		return wire.EncodeRouletteSpin()
	case domain.SicBo:
		return wire.EncodeSicBoRoll()
	default:
		panic(fmt.Sprintf("app: %v has no trigger move", game))
	}
}

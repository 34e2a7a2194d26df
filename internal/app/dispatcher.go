package app

import (
	"context"
	"fmt"

	"felt/internal/domain"
	"felt/internal/wire"
)

// HandleEvent reconciles one engine event into the local projection. It is
// the ports.EventHandler wired to the engine adapter, which delivers events
// one at a time in arrival order.
func (s *Service) HandleEvent(opCode int64, data []byte) {
	s.mu.Lock()
	switch opCode {
	case wire.OpGameStarted:
		s.onStarted(data)
	case wire.OpGameMoved:
		s.onMoved(data)
	case wire.OpGameCompleted:
		s.onCompleted(data)
	case wire.OpLeaderboardUpdated:
		s.onLeaderboard(data)
	default:
		s.log.Debug("ignoring event with op code %d", opCode)
	}
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *Service) onStarted(data []byte) {
	evt, err := wire.DecodeStarted(data)
	if err != nil {
		s.log.Warn("dropping malformed started event: %v", err)
		return
	}
	if evt.SessionID != s.sessionID {
		s.log.Debug("discarding started event for session %d while tracking %d", evt.SessionID, s.sessionID)
		return
	}
	s.pending = false
	s.state.Unconfirmed = false
	if evt.Game != s.state.Game {
		// Dispatch stays on the locally tracked type; the engine echo is
		// informational only.
		s.log.Warn("started event reports %v while tracking %v", evt.Game, s.state.Game)
	}
	if err := s.mergeStateLocked(evt.State); err != nil {
		s.log.Warn("started: dropping undecodable state for session %d: %v", s.sessionID, err)
	}
	s.maybeContinueLocked()
}

func (s *Service) onMoved(data []byte) {
	evt, err := wire.DecodeMoved(data)
	if err != nil {
		s.log.Warn("dropping malformed moved event: %v", err)
		return
	}
	if evt.SessionID != s.sessionID {
		s.log.Debug("discarding moved event for session %d while tracking %d", evt.SessionID, s.sessionID)
		return
	}
	s.pending = false
	s.state.Unconfirmed = false
	if err := s.mergeStateLocked(evt.State); err != nil {
		s.log.Warn("moved: dropping undecodable state for session %d: %v", s.sessionID, err)
	}
	s.continueStepLocked()
}

// onCompleted applies the terminal event. Completion is unconditional: it
// lands even when the intermediate moved events never arrived.
func (s *Service) onCompleted(data []byte) {
	evt, err := wire.DecodeCompleted(data)
	if err != nil {
		s.log.Warn("dropping malformed completed event: %v", err)
		return
	}
	if evt.SessionID != s.sessionID {
		s.log.Debug("discarding completed event for session %d while tracking %d", evt.SessionID, s.sessionID)
		return
	}
	s.state.Stage = domain.StageResult
	s.state.RevealAll()
	s.state.LastResult = evt.Payout
	s.state.Message = s.resultMessage(evt)
	s.pushBalanceLocked(evt.FinalChips)
	if evt.Shielded {
		s.shieldActive = false
		if s.shields > 0 {
			s.shields--
		}
	}
	if evt.Doubled {
		s.doubleActive = false
		if s.doubles > 0 {
			s.doubles--
		}
	}
	if s.state.Game.BetDriven() {
		s.state.ConsumeBets()
	}
	s.clearSessionLocked()
}

func (s *Service) onLeaderboard(data []byte) {
	entries, err := wire.DecodeLeaderboard(data)
	if err != nil {
		s.log.Warn("dropping malformed leaderboard event: %v", err)
		return
	}
	s.leaderboard = entries
}

// maybeContinueLocked fires the auto-bet chain for a freshly confirmed
// session. The armed flag is consumed here, so the chain gets exactly one
// chance per start.
func (s *Service) maybeContinueLocked() {
	if !s.contArmed {
		return
	}
	s.contArmed = false
	if len(s.state.Queued) == 0 {
		return
	}
	if s.pending {
		// Surfaced instead of silently dropped; the queue stays local so
		// the player can commit it by hand.
		s.state.Message = "Bets held, another operation is in flight"
		s.log.Warn("skipping auto-bet for session %d: operation pending", s.sessionID)
		return
	}
	s.contLive = true
	// Queued bets are committed from here on; undo history no longer applies.
	s.state.UndoStack = nil
	s.continueStepLocked()
}

// continueStepLocked advances the auto-bet chain by one submission: the next
// queued bet, or the trigger move once the queue is drained. A failed send
// stops the chain with the unsent remainder still queued.
func (s *Service) continueStepLocked() {
	if !s.contLive {
		return
	}
	if len(s.state.Queued) > 0 {
		payload := encodeBetMove(s.state.Game, s.state.Queued[0])
		s.pending = true
		if err := s.submit(context.Background(), wire.OpMove, wire.EncodeMoveTx(s.sessionID, payload)); err != nil {
			s.pending = false
			s.contLive = false
			s.state.Message = "Auto-bet failed, remaining bets kept"
			s.log.Warn("continuation bet failed for session %d: %v", s.sessionID, err)
			return
		}
		s.state.Queued = s.state.Queued[1:]
		return
	}
	s.contLive = false
	s.pending = true
	if err := s.submit(context.Background(), wire.OpMove, wire.EncodeMoveTx(s.sessionID, triggerPayload(s.state.Game))); err != nil {
		s.pending = false
		s.state.Message = "Bets placed, start the round manually"
		s.log.Warn("continuation trigger failed for session %d: %v", s.sessionID, err)
	}
}

// mergeStateLocked decodes a state blob using the locally tracked game type
// and folds it into the projection. A decode error leaves the previous
// projection untouched.
func (s *Service) mergeStateLocked(blob []byte) error {
	switch s.state.Game {
	case domain.Blackjack:
		t, err := wire.DecodeBlackjack(s.log, blob)
		if err != nil {
			return err
		}
		s.state.Blackjack = t
		s.state.Stage = t.Stage
		s.state.DealerCards = t.Dealer
		if len(t.Hands) > 0 {
			s.state.PlayerCards = t.Hands[t.DisplayHand()].Cards
		} else {
			s.state.PlayerCards = nil
		}
	case domain.HiLo:
		t, err := wire.DecodeHiLo(s.log, blob)
		if err != nil {
			return err
		}
		t.History = s.state.HiLo.History
		// Redelivered frames repeat the card; only a change extends the run.
		if n := len(t.History); n == 0 || t.History[n-1] != t.Current {
			t.History = append(t.History, t.Current)
		}
		s.state.HiLo = t
		s.state.PlayerCards = []domain.Card{t.Current}
		s.state.Stage = domain.StagePlaying
	case domain.Baccarat:
		t, err := wire.DecodeBaccarat(s.log, blob)
		if err != nil {
			return err
		}
		s.state.Baccarat = t
		s.state.ActiveBets = t.Bets
		if t.Dealt {
			s.state.Stage = domain.StagePlaying
			s.state.PlayerCards = t.Player
			s.state.DealerCards = t.Banker
		} else {
			s.state.Stage = domain.StageBetting
		}
	case domain.VideoPoker:
		t, err := wire.DecodeVideoPoker(s.log, blob)
		if err != nil {
			return err
		}
		s.state.VideoPoker = t
		s.state.PlayerCards = t.Cards
		s.state.Stage = domain.StagePlaying
		if t.Resolved {
			s.state.Stage = domain.StageResult
		}
	case domain.CasinoWar:
		t, err := wire.DecodeWar(s.log, blob)
		if err != nil {
			return err
		}
		s.state.War = t
		s.state.PlayerCards = []domain.Card{t.Player}
		s.state.DealerCards = []domain.Card{t.Dealer}
		s.state.Stage = domain.StagePlaying
	case domain.ThreeCard:
		t, err := wire.DecodeThreeCard(s.log, blob)
		if err != nil {
			return err
		}
		s.state.ThreeCard = t
		s.state.PlayerCards = t.Player
		s.state.DealerCards = t.Dealer
		s.state.Stage = domain.StagePlaying
		if t.Showdown {
			s.state.Stage = domain.StageResult
		}
	case domain.UltimateHoldem:
		t, err := wire.DecodeHoldem(s.log, blob)
		if err != nil {
			return err
		}
		s.state.Holdem = t
		s.state.PlayerCards = t.Player
		s.state.DealerCards = t.Dealer
		s.state.CommunityCards = t.Community
		s.state.Stage = domain.StagePlaying
		if t.Street == 3 {
			s.state.Stage = domain.StageResult
		}
	case domain.Craps:
		t, err := wire.DecodeCraps(s.log, blob)
		if err != nil {
			return err
		}
		prev := s.state.Craps
		t.RollHistory = prev.RollHistory
		if t.Dice[0] > 0 && rollChanged(prev, t) {
			total := int(t.Dice[0]) + int(t.Dice[1])
			if total == 7 && prev.OnPoint {
				// Seven out wipes the run.
				t.RollHistory = []int{7}
			} else {
				t.RollHistory = append(t.RollHistory, total)
			}
		}
		s.state.Craps = t
		s.state.ActiveBets = t.Bets
		s.state.Stage = domain.StageBetting
		if t.Dice[0] > 0 {
			s.state.Stage = domain.StagePlaying
		}
	case domain.Roulette:
		t, err := wire.DecodeRoulette(s.log, blob)
		if err != nil {
			return err
		}
		s.state.Roulette = t
		s.state.ActiveBets = t.Bets
		s.state.Stage = domain.StageBetting
		if t.HasResult {
			s.state.Stage = domain.StageResult
		}
	case domain.SicBo:
		t, err := wire.DecodeSicBo(s.log, blob)
		if err != nil {
			return err
		}
		s.state.SicBo = t
		s.state.ActiveBets = t.Bets
		s.state.Stage = domain.StageBetting
		if t.Rolled {
			s.state.Stage = domain.StageResult
		}
	default:
		panic(fmt.Sprintf("app: merge for unhandled game type %v", s.state.Game))
	}
	return nil
}

// rollChanged reports whether the merged frame reflects a new throw. Bet
// placement echoes repeat the previous dice, so only a visible change counts.
func rollChanged(prev, next domain.CrapsTable) bool {
	if prev.Dice[0] == 0 {
		return true
	}
	return prev.Dice != next.Dice || prev.OnPoint != next.OnPoint || prev.Point != next.Point
}

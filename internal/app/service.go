package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"felt/internal/domain"
	"felt/internal/ports"
	"felt/internal/wire"
)

// Service owns the single live session against the table engine: it signs and
// submits transactions, tracks the pending-operation guard, and reconciles the
// event stream into the local table projection. All methods are safe for
// concurrent use; the event stream and user intents contend on one mutex.
type Service struct {
	mu     sync.Mutex
	log    ports.Logger
	engine ports.EnginePort
	snap   ports.SnapshotPort
	signer ports.Signer
	rng    *rand.Rand
	now    func() time.Time

	sessionID uint64 // 0 while idle
	pending   bool   // one start or move awaiting its event
	contArmed bool   // queued bets to auto-place once the session is confirmed
	contLive  bool   // continuation chain currently draining

	state domain.TableState

	playerName   string
	chips        uint64
	shields      int
	doubles      int
	shieldActive bool
	doubleActive bool
	lastPush     time.Time
	cooldown     time.Duration

	leaderboard []ports.LeaderboardEntry
	onChange    func()
}

// NewService constructs a Service with the provided rng or a time-seeded
// default. The logger may be nil, in which case output is discarded.
func NewService(log ports.Logger, engine ports.EnginePort, snap ports.SnapshotPort, signer ports.Signer, rng *rand.Rand) *Service {
	if log == nil {
		log = ports.NopLogger{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		log:      log,
		engine:   engine,
		snap:     snap,
		signer:   signer,
		rng:      rng,
		now:      time.Now,
		cooldown: DefaultBalanceCooldown,
	}
}

var (
	ErrSessionActive   = errors.New("a session is already active")
	ErrNoActiveSession = errors.New("no active session")
	ErrMovePending     = errors.New("an operation is already awaiting confirmation")
	ErrUnknownGame     = errors.New("unknown game type")
	ErrWrongGame       = errors.New("intent does not match the active game")
	ErrBetsLocked      = errors.New("active bets cannot be cleared")
	ErrNoShields       = errors.New("no shields available")
	ErrNoDoubles       = errors.New("no doubles available")
)

// SetOnChange registers a callback fired after every event-driven state
// change. It runs outside the service lock.
func (s *Service) SetOnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Register submits a signed registration carrying the display name and the
// session public key. An empty name gets a generated fallback.
func (s *Service) Register(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		name = fmt.Sprintf("Player%04d", s.rng.Intn(10000))
	}
	body, err := wire.EncodeRegister(name, s.signer.PublicKey())
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if err := s.submit(ctx, wire.OpRegister, body); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	// Provisional until the next player snapshot confirms it.
	s.playerName = name
	return nil
}

// StartSession opens a new session for the given game. It generates the
// session id client-side, submits the signed start transaction and returns
// the id. The session stays unconfirmed until the engine's started event.
func (s *Service) StartSession(ctx context.Context, game domain.GameType, bet uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !game.Valid() {
		return 0, ErrUnknownGame
	}
	if s.sessionID != 0 {
		return 0, ErrSessionActive
	}
	if s.pending {
		return 0, ErrMovePending
	}

	s.resetProjectionLocked(game, bet)
	sid := s.newSessionID()
	s.sessionID = sid
	s.pending = true
	s.state.Unconfirmed = true
	s.contArmed = game.BetDriven() && len(s.state.Queued) > 0

	wireBet := bet
	if game.BetDriven() {
		wireBet = PlaceholderBet
	}
	if err := s.submit(ctx, wire.OpStartGame, wire.EncodeStartGame(sid, game, wireBet)); err != nil {
		s.sessionID = 0
		s.pending = false
		s.contArmed = false
		s.state.Unconfirmed = false
		s.state.Message = "Could not start the game, try again"
		s.log.Warn("start %v session %d failed: %v", game, sid, err)
		return 0, fmt.Errorf("start session: %w", err)
	}
	return sid, nil
}

// SubmitMove sends a raw move payload for the active session. It rejects
// without touching the network while idle or while another operation is
// awaiting confirmation.
func (s *Service) SubmitMove(ctx context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitMoveLocked(ctx, payload)
}

func (s *Service) submitMoveLocked(ctx context.Context, payload []byte) error {
	if s.sessionID == 0 {
		return ErrNoActiveSession
	}
	if s.pending {
		return ErrMovePending
	}
	s.pending = true
	s.state.Unconfirmed = true
	if err := s.submit(ctx, wire.OpMove, wire.EncodeMoveTx(s.sessionID, payload)); err != nil {
		s.pending = false
		s.state.Unconfirmed = false
		s.state.Message = "Move not delivered, try again"
		s.log.Warn("move for session %d failed: %v", s.sessionID, err)
		return fmt.Errorf("submit move: %w", err)
	}
	return nil
}

// ClearSession abandons local tracking of the active session without telling
// the engine. The next resync adopts whatever the engine still holds.
func (s *Service) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearSessionLocked()
}

func (s *Service) clearSessionLocked() {
	s.sessionID = 0
	s.pending = false
	s.contArmed = false
	s.contLive = false
	s.state.Unconfirmed = false
}

// ToggleShield flips the loss-shield modifier. Activation requires at least
// one shield in reserve; the engine settles the count on round completion.
func (s *Service) ToggleShield(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.shieldActive && s.shields == 0 {
		return ErrNoShields
	}
	if err := s.submit(ctx, wire.OpToggleShield, nil); err != nil {
		return fmt.Errorf("toggle shield: %w", err)
	}
	s.shieldActive = !s.shieldActive
	return nil
}

// ToggleDouble flips the double-payout modifier, mirroring ToggleShield.
func (s *Service) ToggleDouble(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doubleActive && s.doubles == 0 {
		return ErrNoDoubles
	}
	if err := s.submit(ctx, wire.OpToggleDouble, nil); err != nil {
		return fmt.Errorf("toggle double: %w", err)
	}
	s.doubleActive = !s.doubleActive
	return nil
}

// PollBalance fetches the player snapshot and adopts it unless a pushed
// balance arrived inside the cooldown window, where the poll may be stale.
func (s *Service) PollBalance(ctx context.Context) error {
	snap, err := s.snap.PlayerState(ctx)
	if err != nil {
		return fmt.Errorf("poll balance: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.now().Sub(s.lastPush) < s.cooldown {
		s.log.Debug("balance poll inside cooldown, keeping pushed value %d", s.chips)
		return nil
	}
	s.adoptPlayerLocked(snap)
	return nil
}

// Resync pulls the authoritative player and session snapshots and rebuilds
// local tracking from them. Call it after connecting, before the event
// stream is live, so a racing event cannot be overwritten.
func (s *Service) Resync(ctx context.Context) error {
	player, err := s.snap.PlayerState(ctx)
	if err != nil {
		return fmt.Errorf("resync: %w", err)
	}
	var sess ports.SessionSnapshot
	if player.ActiveSessionID != 0 {
		if sess, err = s.snap.SessionState(ctx, player.ActiveSessionID); err != nil {
			return fmt.Errorf("resync: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.adoptPlayerLocked(player)
	if player.ActiveSessionID == 0 {
		s.clearSessionLocked()
		return nil
	}
	game := domain.GameType(sess.GameType)
	if !game.Valid() {
		return fmt.Errorf("resync: %w: %d", ErrUnknownGame, sess.GameType)
	}
	if sess.Completed {
		// The round ended while we were away; nothing left to adopt.
		s.clearSessionLocked()
		return nil
	}
	s.resetProjectionLocked(game, sess.Bet)
	s.sessionID = player.ActiveSessionID
	s.pending = false
	if err := s.mergeStateLocked(sess.State); err != nil {
		// Keep the session: it is live on the engine even if this snapshot
		// blob is unreadable. Events will repopulate the projection.
		s.state.Message = "Rejoined, waiting for the table"
		s.log.Warn("resync: dropping undecodable state for session %d: %v", s.sessionID, err)
	}
	return nil
}

// TournamentState passes through the tournament phase snapshot.
func (s *Service) TournamentState(ctx context.Context) (ports.TournamentSnapshot, error) {
	return s.snap.TournamentState(ctx)
}

// RefreshLeaderboard pulls the leaderboard snapshot and caches it.
func (s *Service) RefreshLeaderboard(ctx context.Context) ([]ports.LeaderboardEntry, error) {
	entries, err := s.snap.Leaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh leaderboard: %w", err)
	}
	s.mu.Lock()
	s.leaderboard = entries
	s.mu.Unlock()
	return append([]ports.LeaderboardEntry(nil), entries...), nil
}

// SetInputMode records which auxiliary input the UI is collecting.
func (s *Service) SetInputMode(mode domain.InputMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.InputMode = mode
}

// State returns a deep copy of the table projection.
func (s *Service) State() domain.TableState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// SessionID returns the active session id, or 0 while idle.
func (s *Service) SessionID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Pending reports whether an operation is awaiting its confirming event.
func (s *Service) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Chips returns the last reconciled balance.
func (s *Service) Chips() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chips
}

// Shields returns the shield reserve and whether one is armed.
func (s *Service) Shields() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shields, s.shieldActive
}

// Doubles returns the double reserve and whether one is armed.
func (s *Service) Doubles() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doubles, s.doubleActive
}

// PlayerName returns the registered display name.
func (s *Service) PlayerName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerName
}

// Leaderboard returns the cached leaderboard entries.
func (s *Service) Leaderboard() []ports.LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.LeaderboardEntry(nil), s.leaderboard...)
}

// submit seals the body with the session key and hands it to the engine.
func (s *Service) submit(ctx context.Context, opCode int64, body []byte) error {
	return s.engine.Submit(ctx, opCode, wire.Seal(s.signer, body))
}

// newSessionID draws a non-zero id; zero is the idle sentinel.
func (s *Service) newSessionID() uint64 {
	for {
		if id := s.rng.Uint64(); id != 0 {
			return id
		}
	}
}

// resetProjectionLocked rebuilds the table projection for a fresh session.
// The local bet builder and the last completed round survive only when the
// game stays the same.
func (s *Service) resetProjectionLocked(game domain.GameType, bet uint64) {
	queued, undo, last := s.state.Queued, s.state.UndoStack, s.state.LastRound
	if game != s.state.Game {
		queued, undo, last = nil, nil, nil
	}
	s.state = domain.TableState{
		Game:       game,
		Stage:      domain.StageBetting,
		Bet:        bet,
		Queued:     queued,
		UndoStack:  undo,
		LastRound:  last,
		LastResult: s.state.LastResult,
	}
}

// adoptPlayerLocked applies a player snapshot to the reconciled fields.
func (s *Service) adoptPlayerLocked(snap ports.PlayerSnapshot) {
	s.chips = snap.Chips
	s.shields = snap.Shields
	s.doubles = snap.Doubles
	s.shieldActive = snap.ShieldActive
	s.doubleActive = snap.DoubleActive
	if snap.Name != "" {
		s.playerName = snap.Name
	}
}

// pushBalanceLocked adopts an event-carried balance and stamps the cooldown.
func (s *Service) pushBalanceLocked(chips uint64) {
	s.chips = chips
	s.lastPush = s.now()
}

// Package local is an in-process practice engine. It consumes the same
// sealed transaction frames as the remote engine, simulates deals and rolls
// with an injected rng, and emits the same binary events, so the rest of the
// client cannot tell the two apart. Payout math is a house-rules
// approximation; the remote engine stays authoritative for real play.
package local

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"felt/internal/domain"
	"felt/internal/ports"
	"felt/internal/wire"
)

// First-contact grant for a fresh key.
const (
	startingChips   = 10000
	startingShields = 2
	startingDoubles = 2
)

var (
	ErrNotRegistered     = errors.New("no key registered")
	ErrSessionActive     = errors.New("a session is already active")
	ErrNoSession         = errors.New("no active session")
	ErrWrongSession      = errors.New("transaction names a different session")
	ErrInsufficientChips = errors.New("insufficient chips")
	ErrBadMove           = errors.New("move not available in this state")
	ErrNoBets            = errors.New("no bets placed")
)

// houseRegulars pad the practice leaderboard so the table never looks empty.
var houseRegulars = []ports.LeaderboardEntry{
	{Player: "house-1", Name: "SwiftFalcon", Chips: 18200},
	{Player: "house-2", Name: "CleverOtter", Chips: 11750},
	{Player: "house-3", Name: "MightyPanda", Chips: 9400},
}

type event struct {
	opCode int64
	data   []byte
}

// Engine simulates the table for a single player. All state lives behind mu;
// events are delivered from a dedicated goroutine so a handler may submit
// follow-up transactions without deadlocking.
type Engine struct {
	log ports.Logger
	rng *rand.Rand

	mu      sync.Mutex
	handler ports.EventHandler
	pubKey  []byte
	name    string
	chips   uint64
	shields int
	doubles int

	shieldActive bool
	doubleActive bool
	granted      bool
	sess         *session

	events    chan event
	done      chan struct{}
	closeOnce sync.Once
}

// NewEngine builds the practice engine. log may be nil for silence; rng may
// be nil to use a time-seeded default.
func NewEngine(log ports.Logger, rng *rand.Rand) *Engine {
	if log == nil {
		log = ports.NopLogger{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		log:    log,
		rng:    rng,
		events: make(chan event, 64),
		done:   make(chan struct{}),
	}
	go e.pump()
	return e
}

// SetEventHandler installs the event sink. Must be set before transactions
// are submitted; events raised with no handler installed are dropped.
func (e *Engine) SetEventHandler(h ports.EventHandler) {
	e.mu.Lock()
	e.handler = h
	e.mu.Unlock()
}

// Close stops event delivery. Pending events are discarded.
func (e *Engine) Close() {
	e.closeOnce.Do(func() { close(e.done) })
}

func (e *Engine) pump() {
	for {
		select {
		case ev := <-e.events:
			e.mu.Lock()
			h := e.handler
			e.mu.Unlock()
			if h != nil {
				h(ev.opCode, ev.data)
			}
		case <-e.done:
			return
		}
	}
}

// Submit verifies and applies one sealed transaction. Events raised by the
// transaction are enqueued after the state lock is released, because the
// handler may reenter Submit.
func (e *Engine) Submit(ctx context.Context, opCode int64, data []byte) error {
	e.mu.Lock()
	events, err := e.dispatch(opCode, data)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	for _, ev := range events {
		select {
		case e.events <- ev:
		case <-e.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (e *Engine) dispatch(opCode int64, data []byte) ([]event, error) {
	if opCode == wire.OpRegister {
		return e.handleRegister(data)
	}
	if e.pubKey == nil {
		return nil, ErrNotRegistered
	}
	body, err := wire.Open(e.pubKey, data)
	if err != nil {
		return nil, err
	}
	switch opCode {
	case wire.OpStartGame:
		return e.handleStart(body)
	case wire.OpMove:
		return e.handleMove(body)
	case wire.OpToggleShield:
		return nil, e.toggleShield()
	case wire.OpToggleDouble:
		return nil, e.toggleDouble()
	default:
		e.log.Warn("unknown opcode %d, dropping", opCode)
		return nil, nil
	}
}

// handleRegister is self-certifying: the frame verifies against the public
// key it carries. The grant happens once per engine, not once per Register,
// so a reconnect replay cannot farm chips.
func (e *Engine) handleRegister(data []byte) ([]event, error) {
	if len(data) < wire.SignatureSize {
		return nil, fmt.Errorf("register: frame shorter than signature")
	}
	reg, err := wire.DecodeRegister(data[:len(data)-wire.SignatureSize])
	if err != nil {
		return nil, err
	}
	if _, err := wire.Open(reg.PublicKey, data); err != nil {
		return nil, err
	}
	e.pubKey = reg.PublicKey
	e.name = reg.Name
	if !e.granted {
		e.granted = true
		e.chips = startingChips
		e.shields = startingShields
		e.doubles = startingDoubles
		e.log.Info("registered %s, granted %d chips", e.name, e.chips)
	}
	return e.leaderboardEvents(), nil
}

func (e *Engine) handleStart(body []byte) ([]event, error) {
	st, err := wire.DecodeStartGame(body)
	if err != nil {
		return nil, err
	}
	if st.SessionID == 0 {
		return nil, fmt.Errorf("start: session id is zero")
	}
	if e.sess != nil && !e.sess.completed {
		return nil, ErrSessionActive
	}
	if st.Bet == 0 {
		return nil, fmt.Errorf("start: bet is zero")
	}
	if st.Bet > e.chips {
		return nil, ErrInsufficientChips
	}
	e.sess = &session{
		id:   st.SessionID,
		game: st.Game,
		bet:  st.Bet,
		shoe: newShoe(e.rng),
	}
	e.log.Debug("session %d started: %v for %d", st.SessionID, st.Game, st.Bet)
	return e.dealOpening(e.sess), nil
}

func (e *Engine) handleMove(body []byte) ([]event, error) {
	sid, payload, err := wire.DecodeMoveTx(body)
	if err != nil {
		return nil, err
	}
	if e.sess == nil || e.sess.completed {
		return nil, ErrNoSession
	}
	if sid != e.sess.id {
		return nil, ErrWrongSession
	}
	mv, err := wire.ParseMove(e.sess.game, payload)
	if err != nil {
		return nil, err
	}
	return e.dispatchMove(e.sess, mv)
}

// toggleShield arms or disarms the loss shield. Arming needs a shield in
// reserve; the reserve is only consumed when a loss is absorbed.
func (e *Engine) toggleShield() error {
	if e.shieldActive {
		e.shieldActive = false
		return nil
	}
	if e.shields <= 0 {
		return fmt.Errorf("no shields in reserve")
	}
	e.shieldActive = true
	return nil
}

func (e *Engine) toggleDouble() error {
	if e.doubleActive {
		e.doubleActive = false
		return nil
	}
	if e.doubles <= 0 {
		return fmt.Errorf("no doubles in reserve")
	}
	e.doubleActive = true
	return nil
}

func (e *Engine) checkStake(placed, amount uint64) error {
	if amount == 0 {
		return ErrBadMove
	}
	if placed+amount > e.chips {
		return ErrInsufficientChips
	}
	return nil
}

func (e *Engine) die() uint8 {
	return uint8(e.rng.Intn(6)) + 1
}

// settle closes the session: applies an armed double to a win or an armed
// shield to a loss, clamps the loss to the balance, and emits Completed plus
// a leaderboard refresh.
func (e *Engine) settle(s *session, payout int64) []event {
	doubled, shielded := false, false
	if payout > 0 && e.doubleActive {
		payout *= 2
		e.doubles--
		e.doubleActive = false
		doubled = true
	}
	if payout < 0 && e.shieldActive {
		payout = 0
		e.shields--
		e.shieldActive = false
		shielded = true
	}
	if payout < 0 && uint64(-payout) > e.chips {
		payout = -int64(e.chips)
	}
	if payout >= 0 {
		e.chips += uint64(payout)
	} else {
		e.chips -= uint64(-payout)
	}
	s.completed = true
	e.log.Debug("session %d settled: payout %d, chips %d", s.id, payout, e.chips)
	evs := []event{{wire.OpGameCompleted, wire.EncodeCompleted(s.id, payout, e.chips, shielded, doubled)}}
	return append(evs, e.leaderboardEvents()...)
}

func startedEvent(s *session) event {
	return event{wire.OpGameStarted, wire.EncodeStarted(s.id, s.game, s.encode())}
}

func movedEvent(s *session) event {
	return event{wire.OpGameMoved, wire.EncodeMoved(s.id, s.encode())}
}

func (e *Engine) leaderboardEvents() []event {
	data, err := wire.EncodeLeaderboard(e.standings())
	if err != nil {
		e.log.Error("leaderboard encode failed: %v", err)
		return nil
	}
	return []event{{wire.OpLeaderboardUpdated, data}}
}

func (e *Engine) standings() []ports.LeaderboardEntry {
	entries := make([]ports.LeaderboardEntry, 0, len(houseRegulars)+1)
	entries = append(entries, houseRegulars...)
	name := e.name
	if name == "" {
		name = "You"
	}
	entries = append(entries, ports.LeaderboardEntry{Player: "local", Name: name, Chips: e.chips})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Chips > entries[j].Chips })
	return entries
}

// PlayerState reports the engine's authoritative view of the player.
func (e *Engine) PlayerState(ctx context.Context) (ports.PlayerSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pubKey == nil {
		return ports.PlayerSnapshot{}, ErrNotRegistered
	}
	snap := ports.PlayerSnapshot{
		Name:         e.name,
		Chips:        e.chips,
		Shields:      e.shields,
		Doubles:      e.doubles,
		ShieldActive: e.shieldActive,
		DoubleActive: e.doubleActive,
	}
	if e.sess != nil && !e.sess.completed {
		snap.ActiveSessionID = e.sess.id
	}
	return snap, nil
}

// SessionState reports the named session. Only the latest session is
// retained; older ids are gone.
func (e *Engine) SessionState(ctx context.Context, sessionID uint64) (ports.SessionSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil || e.sess.id != sessionID {
		return ports.SessionSnapshot{}, fmt.Errorf("unknown session %d", sessionID)
	}
	return ports.SessionSnapshot{
		GameType:  uint8(e.sess.game),
		Bet:       e.sess.bet,
		State:     e.sess.encode(),
		Completed: e.sess.completed,
	}, nil
}

// TournamentState reports a permanent practice phase; the local table has no
// clock.
func (e *Engine) TournamentState(ctx context.Context) (ports.TournamentSnapshot, error) {
	return ports.TournamentSnapshot{Phase: "practice"}, nil
}

// Leaderboard reports the current standings.
func (e *Engine) Leaderboard(ctx context.Context) ([]ports.LeaderboardEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.standings(), nil
}

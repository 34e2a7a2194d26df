package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/sethvargo/go-retry"

	"felt/internal/ports"
)

var ErrNotJoined = errors.New("not joined to a table")

// Engine adapts the remote table engine behind ports.EnginePort and
// ports.SnapshotPort. Signed transactions ride the realtime match; snapshot
// reads ride the unary RPCs.
type Engine struct {
	log    ports.Logger
	client *Client
	socket *Socket

	mu          sync.Mutex
	deviceID    string
	username    string
	session     *Session
	matchID     string
	handler     ports.EventHandler
	onReconnect func()
}

// NewEngine wires a client and socket into an Engine for the given device
// identity. Call Connect before submitting anything.
func NewEngine(log ports.Logger, client *Client, socket *Socket, deviceID, username string) *Engine {
	if log == nil {
		log = ports.NopLogger{}
	}
	e := &Engine{
		log:      log,
		client:   client,
		socket:   socket,
		deviceID: deviceID,
		username: username,
	}
	socket.SetOnMatchData(func(md *rtapi.MatchData) {
		e.mu.Lock()
		h := e.handler
		e.mu.Unlock()
		if h != nil {
			h(md.OpCode, md.Data)
		}
	})
	socket.SetOnDisconnect(e.scheduleReconnect)
	return e
}

// SetEventHandler registers the dispatcher receiving match events.
func (e *Engine) SetEventHandler(h ports.EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handler = h
}

// SetOnReconnect registers a callback fired after an automatic reconnect has
// rejoined the table, so the caller can resync its session tracking.
func (e *Engine) SetOnReconnect(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onReconnect = fn
}

// Connect authenticates, opens the realtime socket and joins the table match.
func (e *Engine) Connect(ctx context.Context) error {
	session, err := e.ensureSession(ctx)
	if err != nil {
		return err
	}
	if err := e.socket.Connect(ctx, e.client.SocketURL(session)); err != nil {
		return err
	}
	return e.joinTable(ctx, session)
}

// Submit implements ports.EnginePort over the joined match.
func (e *Engine) Submit(ctx context.Context, opCode int64, data []byte) error {
	e.mu.Lock()
	matchID := e.matchID
	e.mu.Unlock()
	if matchID == "" {
		return ErrNotJoined
	}
	return e.socket.SendMatchData(ctx, matchID, opCode, data)
}

type findTableResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

func (e *Engine) joinTable(ctx context.Context, session *Session) error {
	payload, err := e.client.Rpc(ctx, session, RpcFindTable, "{}")
	if err != nil {
		return fmt.Errorf("find table: %w", err)
	}
	var resp findTableResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return fmt.Errorf("find table: decode response: %w", err)
	}
	if resp.MatchID == "" {
		return errors.New("find table: empty match id")
	}
	if _, err := e.socket.JoinMatch(ctx, resp.MatchID); err != nil {
		return err
	}
	e.mu.Lock()
	e.matchID = resp.MatchID
	e.mu.Unlock()
	e.log.Info("joined table %s", resp.MatchID)
	return nil
}

// ensureSession returns a live session, re-authenticating when the cached
// token is missing or near expiry. Device auth is idempotent, so renewal
// lands on the same account.
func (e *Engine) ensureSession(ctx context.Context) (*Session, error) {
	e.mu.Lock()
	session := e.session
	e.mu.Unlock()
	if session != nil && !session.Expired(time.Now()) {
		return session, nil
	}

	var fresh *Session
	backoff := retry.WithMaxRetries(4, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		s, err := e.client.AuthenticateDevice(ctx, e.deviceID, e.username)
		if err != nil {
			e.log.Warn("authenticate attempt failed: %v", err)
			return retry.RetryableError(err)
		}
		fresh = s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	e.mu.Lock()
	e.session = fresh
	e.mu.Unlock()
	return fresh, nil
}

// scheduleReconnect runs the reconnect loop after an unexpected disconnect.
func (e *Engine) scheduleReconnect(cause error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		backoff := retry.WithMaxRetries(8, retry.NewFibonacci(time.Second))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			if err := e.Connect(ctx); err != nil {
				e.log.Warn("reconnect attempt failed: %v", err)
				return retry.RetryableError(err)
			}
			return nil
		})
		if err != nil {
			e.log.Error("giving up on reconnect: %v", err)
			return
		}
		e.mu.Lock()
		fn := e.onReconnect
		e.mu.Unlock()
		if fn != nil {
			fn()
		}
	}()
}

// rpc runs one snapshot RPC under a live session.
func (e *Engine) rpc(ctx context.Context, id, payload string) (string, error) {
	session, err := e.ensureSession(ctx)
	if err != nil {
		return "", err
	}
	return e.client.Rpc(ctx, session, id, payload)
}

type playerStateResponse struct {
	Name         string `json:"name"`
	Chips        uint64 `json:"chips"`
	Shields      int    `json:"shields"`
	Doubles      int    `json:"doubles"`
	ShieldActive bool   `json:"shield_active"`
	DoubleActive bool   `json:"double_active"`
	SessionID    string `json:"session_id"`
}

// PlayerState implements ports.SnapshotPort. Session ids travel as decimal
// strings because they exceed what JSON numbers carry safely.
func (e *Engine) PlayerState(ctx context.Context) (ports.PlayerSnapshot, error) {
	payload, err := e.rpc(ctx, RpcPlayerState, "{}")
	if err != nil {
		return ports.PlayerSnapshot{}, err
	}
	var resp playerStateResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return ports.PlayerSnapshot{}, fmt.Errorf("player state: decode response: %w", err)
	}
	snap := ports.PlayerSnapshot{
		Name:         resp.Name,
		Chips:        resp.Chips,
		Shields:      resp.Shields,
		Doubles:      resp.Doubles,
		ShieldActive: resp.ShieldActive,
		DoubleActive: resp.DoubleActive,
	}
	if resp.SessionID != "" && resp.SessionID != "0" {
		sid, err := strconv.ParseUint(resp.SessionID, 10, 64)
		if err != nil {
			return ports.PlayerSnapshot{}, fmt.Errorf("player state: session id %q: %w", resp.SessionID, err)
		}
		snap.ActiveSessionID = sid
	}
	return snap, nil
}

type sessionStateResponse struct {
	GameType  uint8  `json:"game_type"`
	Bet       uint64 `json:"bet"`
	State     []byte `json:"state"`
	Completed bool   `json:"completed"`
}

// SessionState implements ports.SnapshotPort.
func (e *Engine) SessionState(ctx context.Context, sessionID uint64) (ports.SessionSnapshot, error) {
	req, err := json.Marshal(map[string]string{"session_id": strconv.FormatUint(sessionID, 10)})
	if err != nil {
		return ports.SessionSnapshot{}, fmt.Errorf("session state: %w", err)
	}
	payload, err := e.rpc(ctx, RpcSessionState, string(req))
	if err != nil {
		return ports.SessionSnapshot{}, err
	}
	var resp sessionStateResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return ports.SessionSnapshot{}, fmt.Errorf("session state: decode response: %w", err)
	}
	return ports.SessionSnapshot{
		GameType:  resp.GameType,
		Bet:       resp.Bet,
		State:     resp.State,
		Completed: resp.Completed,
	}, nil
}

type tournamentStateResponse struct {
	Phase  string    `json:"phase"`
	EndsAt time.Time `json:"ends_at"`
}

// TournamentState implements ports.SnapshotPort.
func (e *Engine) TournamentState(ctx context.Context) (ports.TournamentSnapshot, error) {
	payload, err := e.rpc(ctx, RpcTournamentState, "{}")
	if err != nil {
		return ports.TournamentSnapshot{}, err
	}
	var resp tournamentStateResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return ports.TournamentSnapshot{}, fmt.Errorf("tournament state: decode response: %w", err)
	}
	return ports.TournamentSnapshot{Phase: resp.Phase, EndsAt: resp.EndsAt}, nil
}

// Leaderboard implements ports.SnapshotPort.
func (e *Engine) Leaderboard(ctx context.Context) ([]ports.LeaderboardEntry, error) {
	payload, err := e.rpc(ctx, RpcLeaderboard, "{}")
	if err != nil {
		return nil, err
	}
	var entries []ports.LeaderboardEntry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, fmt.Errorf("leaderboard: decode response: %w", err)
	}
	return entries, nil
}

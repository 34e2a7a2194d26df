package wire

import (
	"encoding/json"
	"fmt"

	"felt/internal/domain"
	"felt/internal/ports"
)

// Completed event flag bits.
const (
	flagShielded byte = 1 << 0
	flagDoubled  byte = 1 << 1
)

// Started is the GameStarted event payload:
// [sessionID u64][gameType u8][state blob].
type Started struct {
	SessionID uint64
	Game      domain.GameType
	State     []byte
}

// EncodeStarted builds a GameStarted payload.
func EncodeStarted(sessionID uint64, game domain.GameType, state []byte) []byte {
	out := make([]byte, 0, 9+len(state))
	out = appendU64(out, sessionID)
	out = append(out, byte(game))
	return append(out, state...)
}

// DecodeStarted parses a GameStarted payload.
func DecodeStarted(data []byte) (Started, error) {
	c := newCursor(data)
	sid, err := c.u64()
	if err != nil {
		return Started{}, shortErr("started", err)
	}
	g, err := c.u8()
	if err != nil {
		return Started{}, shortErr("started", err)
	}
	game := domain.GameType(g)
	if !game.Valid() {
		return Started{}, fmt.Errorf("started: unknown game type %d", g)
	}
	return Started{SessionID: sid, Game: game, State: data[c.off:]}, nil
}

// Moved is the GameMoved event payload: [sessionID u64][state blob].
type Moved struct {
	SessionID uint64
	State     []byte
}

// EncodeMoved builds a GameMoved payload.
func EncodeMoved(sessionID uint64, state []byte) []byte {
	out := make([]byte, 0, 8+len(state))
	out = appendU64(out, sessionID)
	return append(out, state...)
}

// DecodeMoved parses a GameMoved payload.
func DecodeMoved(data []byte) (Moved, error) {
	c := newCursor(data)
	sid, err := c.u64()
	if err != nil {
		return Moved{}, shortErr("moved", err)
	}
	return Moved{SessionID: sid, State: data[c.off:]}, nil
}

// Completed is the GameCompleted event payload:
// [sessionID u64][payout i64][finalChips u64][flags u8].
type Completed struct {
	SessionID  uint64
	Payout     int64
	FinalChips uint64
	Shielded   bool
	Doubled    bool
}

// EncodeCompleted builds a GameCompleted payload.
func EncodeCompleted(sessionID uint64, payout int64, finalChips uint64, shielded, doubled bool) []byte {
	out := make([]byte, 0, 25)
	out = appendU64(out, sessionID)
	out = appendI64(out, payout)
	out = appendU64(out, finalChips)
	var flags byte
	if shielded {
		flags |= flagShielded
	}
	if doubled {
		flags |= flagDoubled
	}
	return append(out, flags)
}

// DecodeCompleted parses a GameCompleted payload.
func DecodeCompleted(data []byte) (Completed, error) {
	c := newCursor(data)
	sid, err := c.u64()
	if err != nil {
		return Completed{}, shortErr("completed", err)
	}
	payout, err := c.i64()
	if err != nil {
		return Completed{}, shortErr("completed", err)
	}
	chips, err := c.u64()
	if err != nil {
		return Completed{}, shortErr("completed", err)
	}
	flags, err := c.u8()
	if err != nil {
		return Completed{}, shortErr("completed", err)
	}
	return Completed{
		SessionID:  sid,
		Payout:     payout,
		FinalChips: chips,
		Shielded:   flags&flagShielded != 0,
		Doubled:    flags&flagDoubled != 0,
	}, nil
}

// EncodeLeaderboard builds the LeaderboardUpdated payload. Unlike the game
// events this one is JSON; the engine emits it to every client and the
// entries are display data, not protocol state.
func EncodeLeaderboard(entries []ports.LeaderboardEntry) ([]byte, error) {
	return json.Marshal(entries)
}

// DecodeLeaderboard parses a LeaderboardUpdated payload.
func DecodeLeaderboard(data []byte) ([]ports.LeaderboardEntry, error) {
	var entries []ports.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return entries, nil
}

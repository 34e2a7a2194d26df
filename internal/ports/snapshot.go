package ports

import (
	"context"
	"time"
)

// PlayerSnapshot is the engine's authoritative view of the player, used for
// balance polling and post-restart recovery.
type PlayerSnapshot struct {
	Name            string
	Chips           uint64
	Shields         int
	Doubles         int
	ShieldActive    bool
	DoubleActive    bool
	ActiveSessionID uint64
}

// SessionSnapshot describes one session as the engine last saw it.
// State is the opaque game-state blob for the session's game type.
type SessionSnapshot struct {
	GameType  uint8
	Bet       uint64
	State     []byte
	Completed bool
}

// TournamentSnapshot is the coarse tournament status the engine exposes.
type TournamentSnapshot struct {
	Phase  string
	EndsAt time.Time
}

// LeaderboardEntry is one row of the chip leaderboard. Name may be empty
// when the player never registered a display name.
type LeaderboardEntry struct {
	Player string `json:"player"`
	Name   string `json:"name,omitempty"`
	Chips  uint64 `json:"chips"`
}

// SnapshotPort defines the pull side of the engine: queryable state used
// for reconnect and recovery. All reads are eventually consistent with the
// event stream.
type SnapshotPort interface {
	PlayerState(ctx context.Context) (PlayerSnapshot, error)
	SessionState(ctx context.Context, sessionID uint64) (SessionSnapshot, error)
	TournamentState(ctx context.Context) (TournamentSnapshot, error)
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
}

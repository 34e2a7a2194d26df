package nakama

import "time"

const (
	// RpcFindTable is the RPC id clients call to find or create the shared
	// casino table match.
	RpcFindTable = "find_table"

	// Snapshot RPC ids. All of them take and return JSON payloads.
	RpcPlayerState     = "player_state"
	RpcSessionState    = "session_state"
	RpcTournamentState = "tournament_state"
	RpcLeaderboard     = "leaderboard"
)

const (
	// writeWait bounds a single websocket write.
	writeWait = 10 * time.Second

	// pingPeriod keeps idle connections alive through NATs.
	pingPeriod = 25 * time.Second

	// callTimeout bounds a cid-correlated socket request when the caller's
	// context has no earlier deadline.
	callTimeout = 15 * time.Second

	// sendBuffer is the outbound frame queue size.
	sendBuffer = 64
)

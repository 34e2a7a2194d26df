package wire

// Op codes for client transactions and engine events.
const (
	// Client -> Engine
	OpRegister     int64 = 1
	OpStartGame    int64 = 2
	OpMove         int64 = 3
	OpToggleShield int64 = 4
	OpToggleDouble int64 = 5

	// Engine -> Client events
	OpGameStarted        int64 = 101
	OpGameMoved          int64 = 102
	OpGameCompleted      int64 = 103
	OpLeaderboardUpdated int64 = 104
)

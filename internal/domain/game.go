package domain

// GameType enumerates the ten table games the engine hosts. The numeric
// values are the wire encoding and must never be reordered.
type GameType uint8

const (
	Blackjack GameType = iota
	VideoPoker
	HiLo
	Baccarat
	CasinoWar
	ThreeCard
	UltimateHoldem
	Craps
	Roulette
	SicBo
)

var gameNames = [...]string{
	Blackjack:      "Blackjack",
	VideoPoker:     "Video Poker",
	HiLo:           "Hi-Lo",
	Baccarat:       "Baccarat",
	CasinoWar:      "Casino War",
	ThreeCard:      "Three Card Poker",
	UltimateHoldem: "Ultimate Hold'em",
	Craps:          "Craps",
	Roulette:       "Roulette",
	SicBo:          "Sic Bo",
}

func (g GameType) String() string {
	if int(g) < len(gameNames) {
		return gameNames[g]
	}
	return "Unknown"
}

// Valid reports whether g is one of the ten known games. Decoders use it to
// reject game bytes from a newer engine rather than dispatch blindly.
func (g GameType) Valid() bool {
	return g <= SicBo
}

// BetDriven reports whether the game collects a bet list before a
// deal/spin/roll trigger. These games start with a placeholder bet and rely
// on the post-start continuation to place the real bets.
func (g GameType) BetDriven() bool {
	switch g {
	case Baccarat, Craps, Roulette, SicBo:
		return true
	}
	return false
}

// Stage is the coarse phase of an active session, used to gate which user
// actions are legal and which cards are revealed.
type Stage uint8

const (
	StageBetting Stage = iota
	StagePlaying
	StageResult
)

func (s Stage) String() string {
	switch s {
	case StageBetting:
		return "betting"
	case StagePlaying:
		return "playing"
	case StageResult:
		return "result"
	}
	return "unknown"
}

// InputMode tells the surrounding app which numeric input, if any, the bet
// builder is currently collecting. Purely advisory; the core never blocks on it.
type InputMode uint8

const (
	InputNone InputMode = iota
	InputRoulettePocket
	InputSicBoNumber
	InputCrapsTarget
)

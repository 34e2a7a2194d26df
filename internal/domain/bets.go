package domain

// Bet is one wager inside a bet-driven game's list. Kind values are
// per-game codes (see the Baccarat/Craps/Roulette/SicBo constant blocks);
// Target keys the bets that need a number (a roulette pocket, a craps
// point, a sic bo face). Odds and Status are only meaningful for Craps,
// where the engine reports riders and per-bet resolution inside the blob.
type Bet struct {
	Kind   uint8
	Target uint8
	Amount uint64
	Odds   uint64
	Status uint8
}

// Baccarat bet kinds.
const (
	BaccaratPlayer uint8 = iota
	BaccaratBanker
	BaccaratTie
	BaccaratPlayerPair
	BaccaratBankerPair
)

// Craps bet kinds. Place, Hardway and ComeOdds carry a Target.
const (
	CrapsPass uint8 = iota
	CrapsDontPass
	CrapsCome
	CrapsDontCome
	CrapsField
	CrapsPlace
	CrapsHardway
	CrapsPassOdds
	CrapsComeOdds
)

// Craps per-bet status bytes as reported by the engine.
const (
	CrapsBetWorking uint8 = iota
	CrapsBetWon
	CrapsBetLost
	CrapsBetPushed
)

// Roulette bet kinds. Straight carries the pocket number as Target.
const (
	RouletteStraight uint8 = iota
	RouletteRed
	RouletteBlack
	RouletteOdd
	RouletteEven
	RouletteLow
	RouletteHigh
	RouletteDozen1
	RouletteDozen2
	RouletteDozen3
	RouletteColumn1
	RouletteColumn2
	RouletteColumn3
)

// Sic Bo bet kinds. Triple, Double, Total and Single carry a Target.
const (
	SicBoSmall uint8 = iota
	SicBoBig
	SicBoAnyTriple
	SicBoTriple
	SicBoDouble
	SicBoTotal
	SicBoSingle
)

var redPockets = map[uint8]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// RedPocket reports whether a roulette pocket is red. Zero is green, every
// other non-red pocket is black.
func RedPocket(pocket uint8) bool {
	return redPockets[pocket]
}

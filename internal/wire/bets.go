package wire

import (
	"fmt"

	"felt/internal/domain"
)

// Per-game bet kind tables. These are closed: the name lookup doubles as the
// validity check on both sides of the wire. Encoding an unmapped kind is a
// client bug and panics; decoding one is malformed remote data and errors.

var baccaratKinds = map[uint8]string{
	domain.BaccaratPlayer:     "Player",
	domain.BaccaratBanker:     "Banker",
	domain.BaccaratTie:        "Tie",
	domain.BaccaratPlayerPair: "Player Pair",
	domain.BaccaratBankerPair: "Banker Pair",
}

var crapsKinds = map[uint8]string{
	domain.CrapsPass:     "Pass",
	domain.CrapsDontPass: "Don't Pass",
	domain.CrapsCome:     "Come",
	domain.CrapsDontCome: "Don't Come",
	domain.CrapsField:    "Field",
	domain.CrapsPlace:    "Place",
	domain.CrapsHardway:  "Hardway",
	domain.CrapsPassOdds: "Pass Odds",
	domain.CrapsComeOdds: "Come Odds",
}

var rouletteKinds = map[uint8]string{
	domain.RouletteStraight: "Straight",
	domain.RouletteRed:      "Red",
	domain.RouletteBlack:    "Black",
	domain.RouletteOdd:      "Odd",
	domain.RouletteEven:     "Even",
	domain.RouletteLow:      "Low",
	domain.RouletteHigh:     "High",
	domain.RouletteDozen1:   "1st Dozen",
	domain.RouletteDozen2:   "2nd Dozen",
	domain.RouletteDozen3:   "3rd Dozen",
	domain.RouletteColumn1:  "1st Column",
	domain.RouletteColumn2:  "2nd Column",
	domain.RouletteColumn3:  "3rd Column",
}

var sicBoKinds = map[uint8]string{
	domain.SicBoSmall:     "Small",
	domain.SicBoBig:       "Big",
	domain.SicBoAnyTriple: "Any Triple",
	domain.SicBoTriple:    "Triple",
	domain.SicBoDouble:    "Double",
	domain.SicBoTotal:     "Total",
	domain.SicBoSingle:    "Single",
}

func kindTable(game domain.GameType) map[uint8]string {
	switch game {
	case domain.Baccarat:
		return baccaratKinds
	case domain.Craps:
		return crapsKinds
	case domain.Roulette:
		return rouletteKinds
	case domain.SicBo:
		return sicBoKinds
	default:
		panic(fmt.Sprintf("wire: %v has no bet kinds", game))
	}
}

// BetKindName resolves a bet kind to its display name. ok is false for kinds
// the table does not know, which decoders treat as malformed data.
func BetKindName(game domain.GameType, kind uint8) (string, bool) {
	name, ok := kindTable(game)[kind]
	return name, ok
}

// mustKind validates a kind on the encode path, where an unmapped value can
// only be a programming error.
func mustKind(game domain.GameType, kind uint8) {
	if _, ok := kindTable(game)[kind]; !ok {
		panic(fmt.Sprintf("wire: unmapped %v bet kind %d", game, kind))
	}
}

// MustBetKind panics if kind is not mapped for game. Intent builders call it
// before queueing a bet that will only hit an encoder later.
func MustBetKind(game domain.GameType, kind uint8) {
	mustKind(game, kind)
}

// Bet entry layouts inside state blobs. Baccarat entries have no target;
// craps entries carry the engine's status byte and the odds rider.
const (
	baccaratEntrySize = 9  // [kind][amount u64]
	targetEntrySize   = 10 // [kind][target][amount u64]
	crapsEntrySize    = 19 // [kind][target][status][amount u64][odds u64]
)

// AppendBaccaratEntry encodes one baccarat bet entry. Panics on an unmapped kind.
func AppendBaccaratEntry(dst []byte, b domain.Bet) []byte {
	mustKind(domain.Baccarat, b.Kind)
	dst = append(dst, b.Kind)
	return appendU64(dst, b.Amount)
}

// DecodeBaccaratEntry decodes one baccarat bet entry.
func DecodeBaccaratEntry(buf []byte) (domain.Bet, error) {
	c := newCursor(buf)
	return readBaccaratEntry(c)
}

func readBaccaratEntry(c *cursor) (domain.Bet, error) {
	kind, err := c.u8()
	if err != nil {
		return domain.Bet{}, err
	}
	if _, ok := baccaratKinds[kind]; !ok {
		return domain.Bet{}, fmt.Errorf("baccarat: unknown bet kind %d", kind)
	}
	amount, err := c.u64()
	if err != nil {
		return domain.Bet{}, err
	}
	return domain.Bet{Kind: kind, Amount: amount}, nil
}

// AppendRouletteEntry encodes one roulette bet entry. Panics on an unmapped kind.
func AppendRouletteEntry(dst []byte, b domain.Bet) []byte {
	mustKind(domain.Roulette, b.Kind)
	return appendTargetEntry(dst, b)
}

// DecodeRouletteEntry decodes one roulette bet entry.
func DecodeRouletteEntry(buf []byte) (domain.Bet, error) {
	return readTargetEntry(newCursor(buf), domain.Roulette)
}

// AppendSicBoEntry encodes one sic bo bet entry. Panics on an unmapped kind.
func AppendSicBoEntry(dst []byte, b domain.Bet) []byte {
	mustKind(domain.SicBo, b.Kind)
	return appendTargetEntry(dst, b)
}

// DecodeSicBoEntry decodes one sic bo bet entry.
func DecodeSicBoEntry(buf []byte) (domain.Bet, error) {
	return readTargetEntry(newCursor(buf), domain.SicBo)
}

func appendTargetEntry(dst []byte, b domain.Bet) []byte {
	dst = append(dst, b.Kind, b.Target)
	return appendU64(dst, b.Amount)
}

func readTargetEntry(c *cursor, game domain.GameType) (domain.Bet, error) {
	kind, err := c.u8()
	if err != nil {
		return domain.Bet{}, err
	}
	if _, ok := kindTable(game)[kind]; !ok {
		return domain.Bet{}, fmt.Errorf("%v: unknown bet kind %d", game, kind)
	}
	target, err := c.u8()
	if err != nil {
		return domain.Bet{}, err
	}
	amount, err := c.u64()
	if err != nil {
		return domain.Bet{}, err
	}
	return domain.Bet{Kind: kind, Target: target, Amount: amount}, nil
}

// AppendCrapsEntry encodes one craps bet entry. Panics on an unmapped kind.
func AppendCrapsEntry(dst []byte, b domain.Bet) []byte {
	mustKind(domain.Craps, b.Kind)
	dst = append(dst, b.Kind, b.Target, b.Status)
	dst = appendU64(dst, b.Amount)
	return appendU64(dst, b.Odds)
}

// DecodeCrapsEntry decodes one craps bet entry.
func DecodeCrapsEntry(buf []byte) (domain.Bet, error) {
	return readCrapsEntry(newCursor(buf))
}

func readCrapsEntry(c *cursor) (domain.Bet, error) {
	kind, err := c.u8()
	if err != nil {
		return domain.Bet{}, err
	}
	if _, ok := crapsKinds[kind]; !ok {
		return domain.Bet{}, fmt.Errorf("craps: unknown bet kind %d", kind)
	}
	target, err := c.u8()
	if err != nil {
		return domain.Bet{}, err
	}
	status, err := c.u8()
	if err != nil {
		return domain.Bet{}, err
	}
	if status > domain.CrapsBetPushed {
		return domain.Bet{}, fmt.Errorf("craps: unknown bet status %d", status)
	}
	amount, err := c.u64()
	if err != nil {
		return domain.Bet{}, err
	}
	odds, err := c.u64()
	if err != nil {
		return domain.Bet{}, err
	}
	return domain.Bet{Kind: kind, Target: target, Status: status, Amount: amount, Odds: odds}, nil
}

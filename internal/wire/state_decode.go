package wire

import (
	"fmt"

	"felt/internal/domain"
	"felt/internal/ports"
)

// Blackjack blob format discriminants. Legacy blobs start directly with the
// player hand length, and a dealt hand is never shorter than two cards, so
// the values 0 and 1 are free to tag formats: 1 is the versioned layout,
// 0 stays reserved. New formats must pick a discriminant outside both ranges.
const blackjackFormatV1 = 1

func readCard(log ports.Logger, c *cursor) (domain.Card, error) {
	v, err := c.u8()
	if err != nil {
		return domain.Card{}, err
	}
	card, ok := domain.DecodeCard(v)
	if !ok {
		log.Warn("card byte %d out of range, substituting sentinel", v)
	}
	return card, nil
}

func readCards(log ports.Logger, c *cursor, n int) ([]domain.Card, error) {
	cards := make([]domain.Card, 0, n)
	for i := 0; i < n; i++ {
		card, err := readCard(log, c)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// hideHole hides every dealer card after the first. The protocol delivers
// hole cards face up; concealment is a client-side display contract.
func hideHole(cards []domain.Card) {
	for i := 1; i < len(cards); i++ {
		cards[i].Hidden = true
	}
}

func hideAll(cards []domain.Card) {
	for i := range cards {
		cards[i].Hidden = true
	}
}

// DecodeBlackjack decodes either blackjack blob format. The two formats are
// selected by the first byte: 1 is the versioned multi-hand layout, 2 and up
// is the legacy single-hand layout where the byte is the hand length itself.
func DecodeBlackjack(log ports.Logger, blob []byte) (domain.BlackjackTable, error) {
	var zero domain.BlackjackTable
	if len(blob) == 0 {
		return zero, shortErr("blackjack", ErrShortBlob)
	}
	switch {
	case blob[0] == blackjackFormatV1:
		return decodeBlackjackV1(log, blob[1:])
	case blob[0] >= 2:
		return decodeBlackjackLegacy(log, blob)
	default:
		return zero, fmt.Errorf("blackjack: reserved format tag %d", blob[0])
	}
}

// Versioned layout: [activeHandIndex][handCount] then per hand
// [betMultiplier][status][cardCount][cards...], then an optional dealer
// section [dealerCount][cards...] and an optional trailing stage byte.
// The engine's earliest v1 frames end right after the hands; those decode
// with an empty dealer hand and a playing stage.
func decodeBlackjackV1(log ports.Logger, buf []byte) (domain.BlackjackTable, error) {
	var zero domain.BlackjackTable
	c := newCursor(buf)

	active, err := c.u8()
	if err != nil {
		return zero, shortErr("blackjack", err)
	}
	handCount, err := c.u8()
	if err != nil {
		return zero, shortErr("blackjack", err)
	}

	hands := make([]domain.BlackjackHand, 0, handCount)
	for i := 0; i < int(handCount); i++ {
		mult, err := c.u8()
		if err != nil {
			return zero, shortErr("blackjack", err)
		}
		status, err := c.u8()
		if err != nil {
			return zero, shortErr("blackjack", err)
		}
		if status > byte(domain.HandBlackjack) {
			return zero, fmt.Errorf("blackjack: unknown hand status %d", status)
		}
		n, err := c.u8()
		if err != nil {
			return zero, shortErr("blackjack", err)
		}
		cards, err := readCards(log, c, int(n))
		if err != nil {
			return zero, shortErr("blackjack", err)
		}
		hands = append(hands, domain.BlackjackHand{
			Cards:      cards,
			Status:     domain.HandStatus(status),
			Multiplier: mult,
		})
	}

	t := domain.BlackjackTable{Hands: hands, ActiveHand: int(active), Stage: domain.StagePlaying}
	if c.remaining() == 0 {
		return t, nil
	}

	dn, err := c.u8()
	if err != nil {
		return zero, shortErr("blackjack", err)
	}
	dealer, err := readCards(log, c, int(dn))
	if err != nil {
		return zero, shortErr("blackjack", err)
	}
	if c.remaining() > 0 {
		st, err := c.u8()
		if err != nil {
			return zero, shortErr("blackjack", err)
		}
		if st > byte(domain.StageResult) {
			return zero, fmt.Errorf("blackjack: unknown stage %d", st)
		}
		t.Stage = domain.Stage(st)
	}
	if t.Stage != domain.StageResult {
		hideHole(dealer)
	}
	t.Dealer = dealer
	return t, nil
}

// Legacy layout: [playerCount][playerCards...][dealerCount][dealerCards...][stage].
func decodeBlackjackLegacy(log ports.Logger, blob []byte) (domain.BlackjackTable, error) {
	var zero domain.BlackjackTable
	c := newCursor(blob)

	pn, err := c.u8()
	if err != nil {
		return zero, shortErr("blackjack", err)
	}
	player, err := readCards(log, c, int(pn))
	if err != nil {
		return zero, shortErr("blackjack", err)
	}
	dn, err := c.u8()
	if err != nil {
		return zero, shortErr("blackjack", err)
	}
	dealer, err := readCards(log, c, int(dn))
	if err != nil {
		return zero, shortErr("blackjack", err)
	}
	st, err := c.u8()
	if err != nil {
		return zero, shortErr("blackjack", err)
	}
	if st > byte(domain.StageResult) {
		return zero, fmt.Errorf("blackjack: unknown stage %d", st)
	}
	if domain.Stage(st) != domain.StageResult {
		hideHole(dealer)
	}
	return domain.BlackjackTable{
		Hands:      []domain.BlackjackHand{{Cards: player, Status: domain.HandPlaying, Multiplier: 1}},
		ActiveHand: 0,
		Dealer:     dealer,
		Stage:      domain.Stage(st),
	}, nil
}

// DecodeHiLo decodes the hi-lo blob: [currentCard][accumulator i64].
// History maintenance is the dispatcher's job, not the decoder's.
func DecodeHiLo(log ports.Logger, blob []byte) (domain.HiLoTable, error) {
	c := newCursor(blob)
	card, err := readCard(log, c)
	if err != nil {
		return domain.HiLoTable{}, shortErr("hi-lo", err)
	}
	acc, err := c.i64()
	if err != nil {
		return domain.HiLoTable{}, shortErr("hi-lo", err)
	}
	return domain.HiLoTable{Current: card, Accumulator: acc}, nil
}

// DecodeBaccarat decodes the baccarat blob: the bet section, then the two
// hands once dealt. A blob ending right after the bets is the betting
// sub-stage.
func DecodeBaccarat(log ports.Logger, blob []byte) (domain.BaccaratTable, error) {
	var zero domain.BaccaratTable
	c := newCursor(blob)

	n, err := c.u8()
	if err != nil {
		return zero, shortErr("baccarat", err)
	}
	bets := make([]domain.Bet, 0, n)
	for i := 0; i < int(n); i++ {
		b, err := readBaccaratEntry(c)
		if err != nil {
			return zero, shortErr("baccarat", err)
		}
		bets = append(bets, b)
	}

	t := domain.BaccaratTable{Bets: bets}
	if c.remaining() == 0 {
		return t, nil
	}

	pn, err := c.u8()
	if err != nil {
		return zero, shortErr("baccarat", err)
	}
	player, err := readCards(log, c, int(pn))
	if err != nil {
		return zero, shortErr("baccarat", err)
	}
	bn, err := c.u8()
	if err != nil {
		return zero, shortErr("baccarat", err)
	}
	banker, err := readCards(log, c, int(bn))
	if err != nil {
		return zero, shortErr("baccarat", err)
	}
	t.Player, t.Banker, t.Dealt = player, banker, true
	return t, nil
}

// DecodeVideoPoker decodes the video poker blob: [stage][5 cards].
func DecodeVideoPoker(log ports.Logger, blob []byte) (domain.VideoPokerTable, error) {
	var zero domain.VideoPokerTable
	c := newCursor(blob)
	st, err := c.u8()
	if err != nil {
		return zero, shortErr("video poker", err)
	}
	if st > 1 {
		return zero, fmt.Errorf("video poker: unknown stage %d", st)
	}
	cards, err := readCards(log, c, 5)
	if err != nil {
		return zero, shortErr("video poker", err)
	}
	return domain.VideoPokerTable{Cards: cards, Resolved: st == 1}, nil
}

// DecodeWar decodes the casino war blob: [playerCard][dealerCard][stage].
// Stage 1 means a tie needing the war-or-surrender decision; completion is
// signaled only by the Completed event.
func DecodeWar(log ports.Logger, blob []byte) (domain.WarTable, error) {
	var zero domain.WarTable
	c := newCursor(blob)
	player, err := readCard(log, c)
	if err != nil {
		return zero, shortErr("war", err)
	}
	dealer, err := readCard(log, c)
	if err != nil {
		return zero, shortErr("war", err)
	}
	st, err := c.u8()
	if err != nil {
		return zero, shortErr("war", err)
	}
	if st > 1 {
		return zero, fmt.Errorf("war: unknown stage %d", st)
	}
	return domain.WarTable{Player: player, Dealer: dealer, TieWar: st == 1}, nil
}

// DecodeCraps decodes the craps blob:
// [phase][point][die1][die2][betCount][entries...].
// Roll history is the dispatcher's job.
func DecodeCraps(log ports.Logger, blob []byte) (domain.CrapsTable, error) {
	var zero domain.CrapsTable
	c := newCursor(blob)

	phase, err := c.u8()
	if err != nil {
		return zero, shortErr("craps", err)
	}
	if phase > 1 {
		return zero, fmt.Errorf("craps: unknown phase %d", phase)
	}
	point, err := c.u8()
	if err != nil {
		return zero, shortErr("craps", err)
	}
	var dice [2]uint8
	for i := range dice {
		d, err := c.u8()
		if err != nil {
			return zero, shortErr("craps", err)
		}
		if d > 6 {
			return zero, fmt.Errorf("craps: die value %d out of range", d)
		}
		dice[i] = d
	}
	n, err := c.u8()
	if err != nil {
		return zero, shortErr("craps", err)
	}
	bets := make([]domain.Bet, 0, n)
	for i := 0; i < int(n); i++ {
		b, err := readCrapsEntry(c)
		if err != nil {
			return zero, shortErr("craps", err)
		}
		bets = append(bets, b)
	}
	return domain.CrapsTable{OnPoint: phase == 1, Point: point, Dice: dice, Bets: bets}, nil
}

// DecodeRoulette decodes the roulette blob: the bet section plus, once spun,
// a single trailing pocket byte. The trailing byte's presence is itself the
// signal that a result exists.
func DecodeRoulette(log ports.Logger, blob []byte) (domain.RouletteTable, error) {
	var zero domain.RouletteTable
	c := newCursor(blob)

	n, err := c.u8()
	if err != nil {
		return zero, shortErr("roulette", err)
	}
	bets := make([]domain.Bet, 0, n)
	for i := 0; i < int(n); i++ {
		b, err := readTargetEntry(c, domain.Roulette)
		if err != nil {
			return zero, shortErr("roulette", err)
		}
		bets = append(bets, b)
	}

	t := domain.RouletteTable{Bets: bets}
	switch c.remaining() {
	case 0:
	case 1:
		pocket, _ := c.u8()
		if pocket > 36 {
			return zero, fmt.Errorf("roulette: pocket %d out of range", pocket)
		}
		t.Pocket, t.HasResult = pocket, true
	default:
		return zero, fmt.Errorf("roulette: %d trailing bytes after bet section", c.remaining())
	}
	return t, nil
}

// DecodeSicBo decodes the sic bo blob: the bet section plus, once rolled,
// three trailing dice bytes.
func DecodeSicBo(log ports.Logger, blob []byte) (domain.SicBoTable, error) {
	var zero domain.SicBoTable
	c := newCursor(blob)

	n, err := c.u8()
	if err != nil {
		return zero, shortErr("sic bo", err)
	}
	bets := make([]domain.Bet, 0, n)
	for i := 0; i < int(n); i++ {
		b, err := readTargetEntry(c, domain.SicBo)
		if err != nil {
			return zero, shortErr("sic bo", err)
		}
		bets = append(bets, b)
	}

	t := domain.SicBoTable{Bets: bets}
	switch c.remaining() {
	case 0:
	case 3:
		for i := range t.Dice {
			d, _ := c.u8()
			if d < 1 || d > 6 {
				return zero, fmt.Errorf("sic bo: die value %d out of range", d)
			}
			t.Dice[i] = d
		}
		t.Rolled = true
	default:
		return zero, fmt.Errorf("sic bo: %d trailing bytes after bet section", c.remaining())
	}
	return t, nil
}

// DecodeThreeCard decodes the three card poker blob:
// [stage][3 player cards][3 dealer cards]. Dealer cards stay hidden until
// showdown (stage 2).
func DecodeThreeCard(log ports.Logger, blob []byte) (domain.ThreeCardTable, error) {
	var zero domain.ThreeCardTable
	c := newCursor(blob)
	st, err := c.u8()
	if err != nil {
		return zero, shortErr("three card", err)
	}
	if st > 2 {
		return zero, fmt.Errorf("three card: unknown stage %d", st)
	}
	player, err := readCards(log, c, 3)
	if err != nil {
		return zero, shortErr("three card", err)
	}
	dealer, err := readCards(log, c, 3)
	if err != nil {
		return zero, shortErr("three card", err)
	}
	showdown := st == 2
	if !showdown {
		hideAll(dealer)
	}
	return domain.ThreeCardTable{Player: player, Dealer: dealer, Showdown: showdown}, nil
}

// DecodeHoldem decodes the ultimate hold'em blob:
// [street][2 player cards][2 dealer cards][5 community cards].
// The street gates what is revealed: community cards beyond the street's
// reveal count and, before showdown, the dealer's cards arrive face down.
func DecodeHoldem(log ports.Logger, blob []byte) (domain.HoldemTable, error) {
	var zero domain.HoldemTable
	c := newCursor(blob)
	street, err := c.u8()
	if err != nil {
		return zero, shortErr("hold'em", err)
	}
	if street > 3 {
		return zero, fmt.Errorf("hold'em: unknown street %d", street)
	}
	player, err := readCards(log, c, 2)
	if err != nil {
		return zero, shortErr("hold'em", err)
	}
	dealer, err := readCards(log, c, 2)
	if err != nil {
		return zero, shortErr("hold'em", err)
	}
	community, err := readCards(log, c, 5)
	if err != nil {
		return zero, shortErr("hold'em", err)
	}
	if street < 3 {
		hideAll(dealer)
	}
	for i := revealedCommunity(street); i < len(community); i++ {
		community[i].Hidden = true
	}
	return domain.HoldemTable{Street: street, Player: player, Dealer: dealer, Community: community}, nil
}

// revealedCommunity maps a street to how many community cards are face up:
// preflop none, flop three, river and showdown all five.
func revealedCommunity(street uint8) int {
	switch street {
	case 0:
		return 0
	case 1:
		return 3
	default:
		return 5
	}
}

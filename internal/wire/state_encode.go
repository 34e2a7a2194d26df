package wire

import "felt/internal/domain"

// State encoders, the inverse of the decoders in state_decode.go. The remote
// engine produces these blobs server-side; the client only encodes them for
// the in-process fallback engine and for tests, which keeps the layouts
// honest through round-trips.

// EncodeBlackjackState encodes the versioned blackjack layout, dealer
// section and stage byte included.
func EncodeBlackjackState(t domain.BlackjackTable) []byte {
	out := []byte{blackjackFormatV1, byte(t.ActiveHand), byte(len(t.Hands))}
	for _, h := range t.Hands {
		out = append(out, h.Multiplier, byte(h.Status), byte(len(h.Cards)))
		out = appendCards(out, h.Cards)
	}
	out = append(out, byte(len(t.Dealer)))
	out = appendCards(out, t.Dealer)
	return append(out, byte(t.Stage))
}

// EncodeBlackjackLegacy encodes the legacy single-hand blackjack layout.
func EncodeBlackjackLegacy(player, dealer []domain.Card, stage domain.Stage) []byte {
	out := []byte{byte(len(player))}
	out = appendCards(out, player)
	out = append(out, byte(len(dealer)))
	out = appendCards(out, dealer)
	return append(out, byte(stage))
}

// EncodeHiLoState encodes the hi-lo layout.
func EncodeHiLoState(t domain.HiLoTable) []byte {
	out := []byte{domain.EncodeCard(t.Current)}
	return appendI64(out, t.Accumulator)
}

// EncodeBaccaratState encodes the baccarat layout. The hands are omitted
// entirely until dealt.
func EncodeBaccaratState(t domain.BaccaratTable) []byte {
	out := []byte{byte(len(t.Bets))}
	for _, b := range t.Bets {
		out = AppendBaccaratEntry(out, b)
	}
	if !t.Dealt {
		return out
	}
	out = append(out, byte(len(t.Player)))
	out = appendCards(out, t.Player)
	out = append(out, byte(len(t.Banker)))
	return appendCards(out, t.Banker)
}

// EncodeVideoPokerState encodes the video poker layout.
func EncodeVideoPokerState(t domain.VideoPokerTable) []byte {
	st := byte(0)
	if t.Resolved {
		st = 1
	}
	return appendCards([]byte{st}, t.Cards)
}

// EncodeWarState encodes the casino war layout.
func EncodeWarState(t domain.WarTable) []byte {
	st := byte(0)
	if t.TieWar {
		st = 1
	}
	return []byte{domain.EncodeCard(t.Player), domain.EncodeCard(t.Dealer), st}
}

// EncodeCrapsState encodes the craps layout.
func EncodeCrapsState(t domain.CrapsTable) []byte {
	phase := byte(0)
	if t.OnPoint {
		phase = 1
	}
	out := []byte{phase, t.Point, t.Dice[0], t.Dice[1], byte(len(t.Bets))}
	for _, b := range t.Bets {
		out = AppendCrapsEntry(out, b)
	}
	return out
}

// EncodeRouletteState encodes the roulette layout. The pocket byte is only
// appended once a result exists.
func EncodeRouletteState(t domain.RouletteTable) []byte {
	out := []byte{byte(len(t.Bets))}
	for _, b := range t.Bets {
		out = AppendRouletteEntry(out, b)
	}
	if t.HasResult {
		out = append(out, t.Pocket)
	}
	return out
}

// EncodeSicBoState encodes the sic bo layout. The dice bytes are only
// appended once rolled.
func EncodeSicBoState(t domain.SicBoTable) []byte {
	out := []byte{byte(len(t.Bets))}
	for _, b := range t.Bets {
		out = AppendSicBoEntry(out, b)
	}
	if t.Rolled {
		out = append(out, t.Dice[0], t.Dice[1], t.Dice[2])
	}
	return out
}

// EncodeThreeCardState encodes the three card poker layout.
func EncodeThreeCardState(t domain.ThreeCardTable) []byte {
	st := byte(1)
	if t.Showdown {
		st = 2
	}
	out := []byte{st}
	out = appendCards(out, t.Player)
	return appendCards(out, t.Dealer)
}

// EncodeHoldemState encodes the ultimate hold'em layout.
func EncodeHoldemState(t domain.HoldemTable) []byte {
	out := []byte{t.Street}
	out = appendCards(out, t.Player)
	out = appendCards(out, t.Dealer)
	return appendCards(out, t.Community)
}

func appendCards(dst []byte, cards []domain.Card) []byte {
	for _, c := range cards {
		dst = append(dst, domain.EncodeCard(c))
	}
	return dst
}

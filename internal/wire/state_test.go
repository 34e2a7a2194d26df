package wire

import (
	"errors"
	"reflect"
	"testing"

	"felt/internal/domain"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func card(v byte) domain.Card {
	c, _ := domain.DecodeCard(v)
	return c
}

func hidden(v byte) domain.Card {
	c := card(v)
	c.Hidden = true
	return c
}

func TestDecodeBlackjackV1InitialDeal(t *testing.T) {
	// Started blob for one fresh hand: version 1, active hand 0, one hand
	// with base multiplier, in play, holding two cards. The engine's first
	// v1 frame ends right after the hands.
	blob := []byte{1, 0, 1, 0, 1, 2, 5, 18}

	got, err := DecodeBlackjack(noopLogger{}, blob)
	if err != nil {
		t.Fatalf("DecodeBlackjack() error = %v", err)
	}
	if len(got.Hands) != 1 {
		t.Fatalf("hands = %d, want 1", len(got.Hands))
	}
	wantCards := []domain.Card{card(5), card(18)}
	if !reflect.DeepEqual(got.Hands[0].Cards, wantCards) {
		t.Errorf("hand cards = %v, want %v", got.Hands[0].Cards, wantCards)
	}
	if got.Hands[0].Status != domain.HandPlaying {
		t.Errorf("hand status = %v, want playing", got.Hands[0].Status)
	}
	if got.Stage != domain.StagePlaying {
		t.Errorf("stage = %v, want playing", got.Stage)
	}
	if len(got.Dealer) != 0 {
		t.Errorf("dealer = %v, want empty", got.Dealer)
	}
}

func TestDecodeBlackjackV1DealerVisibility(t *testing.T) {
	table := domain.BlackjackTable{
		Hands: []domain.BlackjackHand{
			{Cards: []domain.Card{card(9), card(22)}, Status: domain.HandPlaying, Multiplier: 1},
		},
		ActiveHand: 0,
		Dealer:     []domain.Card{card(30), card(44)},
		Stage:      domain.StagePlaying,
	}
	blob := EncodeBlackjackState(table)

	got, err := DecodeBlackjack(noopLogger{}, blob)
	if err != nil {
		t.Fatalf("DecodeBlackjack() error = %v", err)
	}
	if got.Dealer[0].Hidden {
		t.Error("dealer up card is hidden")
	}
	if !got.Dealer[1].Hidden {
		t.Error("dealer hole card is visible before the result stage")
	}

	// Result stage reveals everything.
	table.Stage = domain.StageResult
	got, err = DecodeBlackjack(noopLogger{}, EncodeBlackjackState(table))
	if err != nil {
		t.Fatalf("DecodeBlackjack() error = %v", err)
	}
	for i, c := range got.Dealer {
		if c.Hidden {
			t.Errorf("dealer card %d still hidden at result stage", i)
		}
	}
	if got.Stage != domain.StageResult {
		t.Errorf("stage = %v, want result", got.Stage)
	}
}

func TestDecodeBlackjackSplitHands(t *testing.T) {
	table := domain.BlackjackTable{
		Hands: []domain.BlackjackHand{
			{Cards: []domain.Card{card(1), card(2), card(3)}, Status: domain.HandBust, Multiplier: 1},
			{Cards: []domain.Card{card(4), card(5)}, Status: domain.HandPlaying, Multiplier: 2},
			{Cards: []domain.Card{card(6)}, Status: domain.HandPending, Multiplier: 1},
		},
		ActiveHand: 1,
		Dealer:     []domain.Card{card(7), card(8)},
		Stage:      domain.StagePlaying,
	}

	got, err := DecodeBlackjack(noopLogger{}, EncodeBlackjackState(table))
	if err != nil {
		t.Fatalf("DecodeBlackjack() error = %v", err)
	}
	if len(got.Hands) != 3 {
		t.Fatalf("hands = %d, want 3", len(got.Hands))
	}
	if got.ActiveHand != 1 {
		t.Errorf("active hand = %d, want 1", got.ActiveHand)
	}
	if got.Hands[0].Status != domain.HandBust || got.Hands[2].Status != domain.HandPending {
		t.Errorf("statuses = %v/%v, want bust/pending", got.Hands[0].Status, got.Hands[2].Status)
	}
	if got.Hands[1].Multiplier != 2 {
		t.Errorf("doubled hand multiplier = %d, want 2", got.Hands[1].Multiplier)
	}
}

func TestDecodeBlackjackLegacy(t *testing.T) {
	blob := EncodeBlackjackLegacy(
		[]domain.Card{card(0), card(22)},
		[]domain.Card{card(30), card(44)},
		domain.StagePlaying,
	)
	got, err := DecodeBlackjack(noopLogger{}, blob)
	if err != nil {
		t.Fatalf("DecodeBlackjack() error = %v", err)
	}
	if len(got.Hands) != 1 || len(got.Hands[0].Cards) != 2 {
		t.Fatalf("legacy decode produced %+v", got.Hands)
	}
	if got.Hands[0].Status != domain.HandPlaying {
		t.Errorf("legacy hand status = %v, want playing", got.Hands[0].Status)
	}
	if !got.Dealer[1].Hidden {
		t.Error("legacy dealer hole card is visible before the result stage")
	}
}

func TestDecodeBlackjackRejects(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{"Empty", nil},
		{"ReservedTag", []byte{0, 1, 2}},
		{"TruncatedHand", []byte{1, 0, 1, 1, 1, 2, 5}},
		{"UnknownHandStatus", []byte{1, 0, 1, 1, 9, 1, 5}},
		{"TruncatedDealer", []byte{1, 0, 1, 1, 1, 2, 5, 18, 2, 30}},
		{"UnknownStage", []byte{1, 0, 1, 1, 1, 2, 5, 18, 1, 30, 7}},
		{"LegacyMissingStage", []byte{2, 5, 18, 1, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeBlackjack(noopLogger{}, tt.blob); err == nil {
				t.Error("DecodeBlackjack() accepted a malformed blob")
			}
		})
	}
}

func TestDecodeBlackjackSentinelCard(t *testing.T) {
	// An out-of-range card byte degrades to the sentinel instead of
	// aborting the update.
	blob := []byte{1, 0, 1, 0, 1, 2, 200, 18}
	got, err := DecodeBlackjack(noopLogger{}, blob)
	if err != nil {
		t.Fatalf("DecodeBlackjack() error = %v", err)
	}
	want := domain.Card{Rank: 1, Suit: domain.Spades}
	if got.Hands[0].Cards[0] != want {
		t.Errorf("sentinel card = %v, want %v", got.Hands[0].Cards[0], want)
	}
}

func TestDecodeHiLo(t *testing.T) {
	table := domain.HiLoTable{Current: card(25), Accumulator: 24500}
	got, err := DecodeHiLo(noopLogger{}, EncodeHiLoState(table))
	if err != nil {
		t.Fatalf("DecodeHiLo() error = %v", err)
	}
	if got.Current != table.Current || got.Accumulator != table.Accumulator {
		t.Errorf("round trip = %+v, want %+v", got, table)
	}

	if _, err := DecodeHiLo(noopLogger{}, []byte{25, 0, 0}); !errors.Is(err, ErrShortBlob) {
		t.Errorf("short blob error = %v, want ErrShortBlob", err)
	}
}

func TestDecodeHiLoNegativeAccumulator(t *testing.T) {
	got, err := DecodeHiLo(noopLogger{}, EncodeHiLoState(domain.HiLoTable{Current: card(3), Accumulator: -10000}))
	if err != nil {
		t.Fatalf("DecodeHiLo() error = %v", err)
	}
	if got.Accumulator != -10000 {
		t.Errorf("accumulator = %d, want -10000", got.Accumulator)
	}
}

func TestDecodeBaccarat(t *testing.T) {
	betting := domain.BaccaratTable{
		Bets: []domain.Bet{
			{Kind: domain.BaccaratPlayer, Amount: 100},
			{Kind: domain.BaccaratBankerPair, Amount: 25},
		},
	}
	got, err := DecodeBaccarat(noopLogger{}, EncodeBaccaratState(betting))
	if err != nil {
		t.Fatalf("DecodeBaccarat() error = %v", err)
	}
	if got.Dealt {
		t.Error("blob without hands decoded as dealt")
	}
	if !reflect.DeepEqual(got.Bets, betting.Bets) {
		t.Errorf("bets = %+v, want %+v", got.Bets, betting.Bets)
	}

	dealt := betting
	dealt.Player = []domain.Card{card(1), card(14), card(27)}
	dealt.Banker = []domain.Card{card(2), card(15)}
	dealt.Dealt = true
	got, err = DecodeBaccarat(noopLogger{}, EncodeBaccaratState(dealt))
	if err != nil {
		t.Fatalf("DecodeBaccarat() error = %v", err)
	}
	if !got.Dealt || len(got.Player) != 3 || len(got.Banker) != 2 {
		t.Errorf("dealt decode = %+v", got)
	}

	// Truncation inside the banker hand aborts the whole update.
	blob := EncodeBaccaratState(dealt)
	if _, err := DecodeBaccarat(noopLogger{}, blob[:len(blob)-1]); err == nil {
		t.Error("DecodeBaccarat() accepted a truncated hand section")
	}
}

func TestDecodeVideoPoker(t *testing.T) {
	table := domain.VideoPokerTable{
		Cards: []domain.Card{card(0), card(13), card(26), card(39), card(12)},
	}
	got, err := DecodeVideoPoker(noopLogger{}, EncodeVideoPokerState(table))
	if err != nil {
		t.Fatalf("DecodeVideoPoker() error = %v", err)
	}
	if got.Resolved {
		t.Error("stage 0 decoded as resolved")
	}
	if !reflect.DeepEqual(got.Cards, table.Cards) {
		t.Errorf("cards = %v, want %v", got.Cards, table.Cards)
	}

	if _, err := DecodeVideoPoker(noopLogger{}, []byte{2, 0, 1, 2, 3, 4}); err == nil {
		t.Error("DecodeVideoPoker() accepted an unknown stage")
	}
	if _, err := DecodeVideoPoker(noopLogger{}, []byte{0, 1, 2}); !errors.Is(err, ErrShortBlob) {
		t.Errorf("short blob error = %v, want ErrShortBlob", err)
	}
}

func TestDecodeWar(t *testing.T) {
	got, err := DecodeWar(noopLogger{}, EncodeWarState(domain.WarTable{Player: card(12), Dealer: card(25), TieWar: true}))
	if err != nil {
		t.Fatalf("DecodeWar() error = %v", err)
	}
	if !got.TieWar {
		t.Error("tie stage lost in round trip")
	}
	if got.Player != card(12) || got.Dealer != card(25) {
		t.Errorf("cards = %v/%v, want %v/%v", got.Player, got.Dealer, card(12), card(25))
	}
}

func TestDecodeCraps(t *testing.T) {
	table := domain.CrapsTable{
		OnPoint: true,
		Point:   6,
		Dice:    [2]uint8{4, 2},
		Bets: []domain.Bet{
			{Kind: domain.CrapsPass, Status: domain.CrapsBetWorking, Amount: 10},
			{Kind: domain.CrapsPlace, Target: 8, Status: domain.CrapsBetWon, Amount: 30, Odds: 15},
		},
	}
	got, err := DecodeCraps(noopLogger{}, EncodeCrapsState(table))
	if err != nil {
		t.Fatalf("DecodeCraps() error = %v", err)
	}
	table.RollHistory = nil
	if !reflect.DeepEqual(got, table) {
		t.Errorf("round trip = %+v, want %+v", got, table)
	}
}

func TestDecodeCrapsRejects(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{"PhaseOutOfRange", []byte{2, 0, 0, 0, 0}},
		{"DieOutOfRange", []byte{0, 0, 7, 1, 0}},
		{"TruncatedEntries", []byte{1, 6, 4, 2, 1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeCraps(noopLogger{}, tt.blob); err == nil {
				t.Error("DecodeCraps() accepted a malformed blob")
			}
		})
	}
}

func TestDecodeRoulette(t *testing.T) {
	table := domain.RouletteTable{
		Bets: []domain.Bet{
			{Kind: domain.RouletteRed, Amount: 50},
			{Kind: domain.RouletteStraight, Target: 17, Amount: 5},
		},
	}
	got, err := DecodeRoulette(noopLogger{}, EncodeRouletteState(table))
	if err != nil {
		t.Fatalf("DecodeRoulette() error = %v", err)
	}
	if got.HasResult {
		t.Error("bet-section-only blob decoded with a result")
	}

	table.Pocket, table.HasResult = 0, true
	got, err = DecodeRoulette(noopLogger{}, EncodeRouletteState(table))
	if err != nil {
		t.Fatalf("DecodeRoulette() error = %v", err)
	}
	if !got.HasResult || got.Pocket != 0 {
		t.Errorf("result decode = %+v, want pocket 0", got)
	}
}

func TestDecodeRouletteRejects(t *testing.T) {
	base := EncodeRouletteState(domain.RouletteTable{
		Bets: []domain.Bet{{Kind: domain.RouletteRed, Amount: 50}},
	})
	if _, err := DecodeRoulette(noopLogger{}, append(base, 37)); err == nil {
		t.Error("DecodeRoulette() accepted pocket 37")
	}
	if _, err := DecodeRoulette(noopLogger{}, append(base, 1, 2)); err == nil {
		t.Error("DecodeRoulette() accepted two trailing bytes")
	}
}

func TestDecodeSicBo(t *testing.T) {
	table := domain.SicBoTable{
		Bets:   []domain.Bet{{Kind: domain.SicBoBig, Amount: 20}},
		Dice:   [3]uint8{2, 4, 6},
		Rolled: true,
	}
	got, err := DecodeSicBo(noopLogger{}, EncodeSicBoState(table))
	if err != nil {
		t.Fatalf("DecodeSicBo() error = %v", err)
	}
	if !reflect.DeepEqual(got, table) {
		t.Errorf("round trip = %+v, want %+v", got, table)
	}

	blob := EncodeSicBoState(table)
	blob[len(blob)-1] = 0
	if _, err := DecodeSicBo(noopLogger{}, blob); err == nil {
		t.Error("DecodeSicBo() accepted die value 0")
	}
	if _, err := DecodeSicBo(noopLogger{}, blob[:len(blob)-1]); err == nil {
		t.Error("DecodeSicBo() accepted two trailing dice bytes")
	}
}

func TestDecodeThreeCard(t *testing.T) {
	table := domain.ThreeCardTable{
		Player: []domain.Card{card(10), card(23), card(36)},
		Dealer: []domain.Card{card(11), card(24), card(37)},
	}
	got, err := DecodeThreeCard(noopLogger{}, EncodeThreeCardState(table))
	if err != nil {
		t.Fatalf("DecodeThreeCard() error = %v", err)
	}
	if got.Showdown {
		t.Error("decision stage decoded as showdown")
	}
	for i, c := range got.Dealer {
		if !c.Hidden {
			t.Errorf("dealer card %d visible before showdown", i)
		}
	}

	table.Showdown = true
	got, err = DecodeThreeCard(noopLogger{}, EncodeThreeCardState(table))
	if err != nil {
		t.Fatalf("DecodeThreeCard() error = %v", err)
	}
	if !got.Showdown || got.Dealer[0].Hidden {
		t.Error("showdown did not reveal the dealer hand")
	}
}

func TestDecodeHoldem(t *testing.T) {
	table := domain.HoldemTable{
		Street:    0,
		Player:    []domain.Card{card(0), card(13)},
		Dealer:    []domain.Card{card(1), card(14)},
		Community: []domain.Card{card(2), card(15), card(28), card(41), card(3)},
	}

	tests := []struct {
		street       uint8
		wantRevealed int
		wantDealer   bool
	}{
		{0, 0, false},
		{1, 3, false},
		{2, 5, false},
		{3, 5, true},
	}
	for _, tt := range tests {
		table.Street = tt.street
		got, err := DecodeHoldem(noopLogger{}, EncodeHoldemState(table))
		if err != nil {
			t.Fatalf("street %d: DecodeHoldem() error = %v", tt.street, err)
		}
		revealed := 0
		for _, c := range got.Community {
			if !c.Hidden {
				revealed++
			}
		}
		if revealed != tt.wantRevealed {
			t.Errorf("street %d: %d community cards revealed, want %d", tt.street, revealed, tt.wantRevealed)
		}
		if dealerVisible := !got.Dealer[0].Hidden; dealerVisible != tt.wantDealer {
			t.Errorf("street %d: dealer visible = %v, want %v", tt.street, dealerVisible, tt.wantDealer)
		}
	}

	if _, err := DecodeHoldem(noopLogger{}, []byte{4, 0, 1, 2, 3, 4, 5, 6, 7, 8}); err == nil {
		t.Error("DecodeHoldem() accepted an unknown street")
	}
}

package wire

import (
	"math"
	"testing"

	"felt/internal/domain"
)

func TestBaccaratEntryRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		bet  domain.Bet
	}{
		{"Player", domain.Bet{Kind: domain.BaccaratPlayer, Amount: 100}},
		{"Tie", domain.Bet{Kind: domain.BaccaratTie, Amount: 1}},
		{"BankerPairMax", domain.Bet{Kind: domain.BaccaratBankerPair, Amount: math.MaxUint64}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := AppendBaccaratEntry(nil, tt.bet)
			if len(buf) != baccaratEntrySize {
				t.Fatalf("entry size = %d, want %d", len(buf), baccaratEntrySize)
			}
			got, err := DecodeBaccaratEntry(buf)
			if err != nil {
				t.Fatalf("DecodeBaccaratEntry() error = %v", err)
			}
			if got != tt.bet {
				t.Errorf("round trip = %+v, want %+v", got, tt.bet)
			}
		})
	}
}

func TestRouletteEntryRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		bet  domain.Bet
	}{
		{"StraightSeventeen", domain.Bet{Kind: domain.RouletteStraight, Target: 17, Amount: 25}},
		{"Red", domain.Bet{Kind: domain.RouletteRed, Amount: 50}},
		{"ColumnMax", domain.Bet{Kind: domain.RouletteColumn3, Amount: math.MaxUint64}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := AppendRouletteEntry(nil, tt.bet)
			if len(buf) != targetEntrySize {
				t.Fatalf("entry size = %d, want %d", len(buf), targetEntrySize)
			}
			got, err := DecodeRouletteEntry(buf)
			if err != nil {
				t.Fatalf("DecodeRouletteEntry() error = %v", err)
			}
			if got != tt.bet {
				t.Errorf("round trip = %+v, want %+v", got, tt.bet)
			}
		})
	}
}

func TestSicBoEntryRoundTrip(t *testing.T) {
	bet := domain.Bet{Kind: domain.SicBoTotal, Target: 11, Amount: 777}
	buf := AppendSicBoEntry(nil, bet)
	got, err := DecodeSicBoEntry(buf)
	if err != nil {
		t.Fatalf("DecodeSicBoEntry() error = %v", err)
	}
	if got != bet {
		t.Errorf("round trip = %+v, want %+v", got, bet)
	}
}

func TestCrapsEntryRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		bet  domain.Bet
	}{
		{"Pass", domain.Bet{Kind: domain.CrapsPass, Amount: 10}},
		{"PlaceSix", domain.Bet{Kind: domain.CrapsPlace, Target: 6, Status: domain.CrapsBetWon, Amount: 30}},
		{"OddsRider", domain.Bet{Kind: domain.CrapsPassOdds, Amount: 10, Odds: math.MaxUint64}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := AppendCrapsEntry(nil, tt.bet)
			if len(buf) != crapsEntrySize {
				t.Fatalf("entry size = %d, want %d", len(buf), crapsEntrySize)
			}
			got, err := DecodeCrapsEntry(buf)
			if err != nil {
				t.Fatalf("DecodeCrapsEntry() error = %v", err)
			}
			if got != tt.bet {
				t.Errorf("round trip = %+v, want %+v", got, tt.bet)
			}
		})
	}
}

func TestDecodeEntryUnknownKind(t *testing.T) {
	buf := AppendBaccaratEntry(nil, domain.Bet{Kind: domain.BaccaratPlayer, Amount: 5})
	buf[0] = 200
	if _, err := DecodeBaccaratEntry(buf); err == nil {
		t.Error("DecodeBaccaratEntry() accepted an unknown kind")
	}

	buf = AppendCrapsEntry(nil, domain.Bet{Kind: domain.CrapsField, Amount: 5})
	buf[2] = 200 // status byte
	if _, err := DecodeCrapsEntry(buf); err == nil {
		t.Error("DecodeCrapsEntry() accepted an unknown status")
	}
}

func TestEncodeUnmappedKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("AppendRouletteEntry did not panic on an unmapped kind")
		}
	}()
	AppendRouletteEntry(nil, domain.Bet{Kind: 99, Amount: 1})
}

func TestBetKindName(t *testing.T) {
	if name, ok := BetKindName(domain.Craps, domain.CrapsDontPass); !ok || name != "Don't Pass" {
		t.Errorf("BetKindName(craps, dont pass) = %q, %v", name, ok)
	}
	if _, ok := BetKindName(domain.Roulette, 99); ok {
		t.Error("BetKindName accepted an unmapped roulette kind")
	}
}

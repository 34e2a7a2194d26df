package wire

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"testing"

	"felt/internal/domain"
	"felt/internal/ports"
)

func TestStartedRoundTrip(t *testing.T) {
	state := []byte{1, 0, 1, 0, 1, 2, 5, 18}
	data := EncodeStarted(12345, domain.Blackjack, state)

	got, err := DecodeStarted(data)
	if err != nil {
		t.Fatalf("DecodeStarted() error = %v", err)
	}
	if got.SessionID != 12345 || got.Game != domain.Blackjack {
		t.Errorf("header = %d/%v, want 12345/blackjack", got.SessionID, got.Game)
	}
	if !bytes.Equal(got.State, state) {
		t.Errorf("state = %v, want %v", got.State, state)
	}

	data[8] = 99 // game type byte
	if _, err := DecodeStarted(data); err == nil {
		t.Error("DecodeStarted() accepted an unknown game type")
	}
	if _, err := DecodeStarted(data[:8]); !errors.Is(err, ErrShortBlob) {
		t.Errorf("short payload error = %v, want ErrShortBlob", err)
	}
}

func TestMovedRoundTrip(t *testing.T) {
	state := EncodeHiLoState(domain.HiLoTable{Current: card(9), Accumulator: 12500})
	data := EncodeMoved(math.MaxUint64, state)

	got, err := DecodeMoved(data)
	if err != nil {
		t.Fatalf("DecodeMoved() error = %v", err)
	}
	if got.SessionID != math.MaxUint64 {
		t.Errorf("session id = %d, want MaxUint64", got.SessionID)
	}
	if !bytes.Equal(got.State, state) {
		t.Errorf("state = %v, want %v", got.State, state)
	}
}

func TestCompletedRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		evt  Completed
	}{
		{"Loss", Completed{SessionID: 5, Payout: -50, FinalChips: 950}},
		{"ShieldedLoss", Completed{SessionID: 6, Payout: 0, FinalChips: 1000, Shielded: true}},
		{"DoubledWin", Completed{SessionID: 7, Payout: 400, FinalChips: 1400, Doubled: true}},
		{"BothFlags", Completed{SessionID: 8, Payout: math.MaxInt64, FinalChips: math.MaxUint64, Shielded: true, Doubled: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := EncodeCompleted(tt.evt.SessionID, tt.evt.Payout, tt.evt.FinalChips, tt.evt.Shielded, tt.evt.Doubled)
			if len(data) != 25 {
				t.Fatalf("payload length = %d, want 25", len(data))
			}
			got, err := DecodeCompleted(data)
			if err != nil {
				t.Fatalf("DecodeCompleted() error = %v", err)
			}
			if got != tt.evt {
				t.Errorf("round trip = %+v, want %+v", got, tt.evt)
			}
		})
	}

	if _, err := DecodeCompleted(make([]byte, 24)); !errors.Is(err, ErrShortBlob) {
		t.Errorf("short payload error = %v, want ErrShortBlob", err)
	}
}

func TestLeaderboardRoundTrip(t *testing.T) {
	entries := []ports.LeaderboardEntry{
		{Player: "p1", Name: "Ada", Chips: 5000},
		{Player: "p2", Chips: 100},
	}
	data, err := EncodeLeaderboard(entries)
	if err != nil {
		t.Fatalf("EncodeLeaderboard() error = %v", err)
	}
	got, err := DecodeLeaderboard(data)
	if err != nil {
		t.Fatalf("DecodeLeaderboard() error = %v", err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Errorf("round trip = %+v, want %+v", got, entries)
	}

	if _, err := DecodeLeaderboard([]byte("{not json")); err == nil {
		t.Error("DecodeLeaderboard() accepted malformed JSON")
	}
}

package domain

import "testing"

func TestDecodeCardBijection(t *testing.T) {
	seen := make(map[Card]byte, 52)
	for v := byte(0); v <= 51; v++ {
		c, ok := DecodeCard(v)
		if !ok {
			t.Fatalf("DecodeCard(%d) reported invalid for an in-range byte", v)
		}
		if prev, dup := seen[c]; dup {
			t.Fatalf("bytes %d and %d decode to the same card %v", prev, v, c)
		}
		seen[c] = v
		if got := EncodeCard(c); got != v {
			t.Fatalf("EncodeCard(DecodeCard(%d)) = %d, want %d", v, got, v)
		}
	}
}

func TestDecodeCardOutOfRange(t *testing.T) {
	for _, v := range []byte{52, 53, 100, 255} {
		c, ok := DecodeCard(v)
		if ok {
			t.Errorf("DecodeCard(%d) ok = true, want false", v)
		}
		if c != sentinelCard {
			t.Errorf("DecodeCard(%d) = %v, want sentinel %v", v, c, sentinelCard)
		}
	}
}

func TestRankValue(t *testing.T) {
	tests := []struct {
		name string
		rank Rank
		want int
	}{
		{"Ace", 0, 11},
		{"Two", 1, 2},
		{"Nine", 8, 9},
		{"Ten", 9, 10},
		{"Jack", 10, 10},
		{"Queen", 11, 10},
		{"King", 12, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rank.Value(); got != tt.want {
				t.Errorf("Value() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCardString(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{Card{Rank: 0, Suit: Spades}, "AS"},
		{Card{Rank: 9, Suit: Hearts}, "10H"},
		{Card{Rank: 12, Suit: Clubs}, "KC"},
		{Card{Rank: 12, Suit: Clubs, Hidden: true}, "??"},
	}
	for _, tt := range tests {
		if got := tt.card.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

package wire

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"math"
	"testing"

	"felt/internal/domain"
	"felt/internal/ports"
)

func testSigner(t *testing.T) *ports.Ed25519Signer {
	t.Helper()
	seed := bytes.Repeat([]byte{7}, ed25519.SeedSize)
	s, err := ports.NewEd25519SignerFromSeed(seed)
	if err != nil {
		t.Fatalf("NewEd25519SignerFromSeed() error = %v", err)
	}
	return s
}

func TestSealOpen(t *testing.T) {
	signer := testSigner(t)
	body := EncodeStartGame(42, domain.Blackjack, 100)

	sealed := Seal(signer, append([]byte(nil), body...))
	if len(sealed) != len(body)+SignatureSize {
		t.Fatalf("sealed length = %d, want %d", len(sealed), len(body)+SignatureSize)
	}

	opened, err := Open(signer.PublicKey(), sealed)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !bytes.Equal(opened, body) {
		t.Errorf("opened body = %v, want %v", opened, body)
	}

	// A flipped body byte must fail verification.
	tampered := append([]byte(nil), sealed...)
	tampered[0] ^= 0xff
	if _, err := Open(signer.PublicKey(), tampered); !errors.Is(err, ErrBadSignature) {
		t.Errorf("tampered Open() error = %v, want ErrBadSignature", err)
	}

	if _, err := Open(signer.PublicKey(), sealed[:SignatureSize-1]); !errors.Is(err, ErrShortBlob) {
		t.Errorf("short frame Open() error = %v, want ErrShortBlob", err)
	}
}

func TestRegisterRoundTrip(t *testing.T) {
	signer := testSigner(t)
	body, err := EncodeRegister("Ada", signer.PublicKey())
	if err != nil {
		t.Fatalf("EncodeRegister() error = %v", err)
	}
	got, err := DecodeRegister(body)
	if err != nil {
		t.Fatalf("DecodeRegister() error = %v", err)
	}
	if got.Name != "Ada" {
		t.Errorf("name = %q, want %q", got.Name, "Ada")
	}
	if !bytes.Equal(got.PublicKey, signer.PublicKey()) {
		t.Error("public key did not survive the round trip")
	}
}

func TestEncodeRegisterRejects(t *testing.T) {
	pub := make([]byte, PublicKeySize)
	if _, err := EncodeRegister("", pub); err == nil {
		t.Error("EncodeRegister() accepted an empty name")
	}
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := EncodeRegister(string(long), pub); err == nil {
		t.Error("EncodeRegister() accepted a 256-byte name")
	}
	if _, err := EncodeRegister("Ada", pub[:16]); err == nil {
		t.Error("EncodeRegister() accepted a short public key")
	}
}

func TestStartGameRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		sid  uint64
		game domain.GameType
		bet  uint64
	}{
		{"Blackjack", 1, domain.Blackjack, 100},
		{"PlaceholderBet", 7, domain.Roulette, 1},
		{"MaxValues", math.MaxUint64, domain.SicBo, math.MaxUint64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := EncodeStartGame(tt.sid, tt.game, tt.bet)
			if len(body) != 17 {
				t.Fatalf("body length = %d, want 17", len(body))
			}
			got, err := DecodeStartGame(body)
			if err != nil {
				t.Fatalf("DecodeStartGame() error = %v", err)
			}
			want := StartGame{SessionID: tt.sid, Game: tt.game, Bet: tt.bet}
			if got != want {
				t.Errorf("round trip = %+v, want %+v", got, want)
			}
		})
	}

	bad := EncodeStartGame(1, domain.Blackjack, 1)
	bad[8] = 99 // game type byte
	if _, err := DecodeStartGame(bad); err == nil {
		t.Error("DecodeStartGame() accepted an unknown game type")
	}
}

func TestMoveTxRoundTrip(t *testing.T) {
	payload := EncodeBlackjackMove(MoveHit)
	body := EncodeMoveTx(99, payload)

	sid, got, err := DecodeMoveTx(body)
	if err != nil {
		t.Fatalf("DecodeMoveTx() error = %v", err)
	}
	if sid != 99 {
		t.Errorf("session id = %d, want 99", sid)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload = %v, want %v", got, payload)
	}

	if _, _, err := DecodeMoveTx(body[:4]); !errors.Is(err, ErrShortBlob) {
		t.Errorf("short body error = %v, want ErrShortBlob", err)
	}
}

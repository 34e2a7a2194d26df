package wire

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"felt/internal/domain"
	"felt/internal/ports"
)

// SignatureSize is the length of the detached signature trailing every
// sealed transaction.
const SignatureSize = ed25519.SignatureSize

// PublicKeySize is the length of the verification key carried by Register.
const PublicKeySize = ed25519.PublicKeySize

// ErrBadSignature reports a sealed frame whose trailer does not verify.
var ErrBadSignature = errors.New("bad transaction signature")

// Seal appends the signature trailer to a transaction body.
func Seal(signer ports.Signer, body []byte) []byte {
	return append(body, signer.Sign(body)...)
}

// Open verifies a sealed frame against the sender's public key and returns
// the body.
func Open(pub, data []byte) ([]byte, error) {
	if len(data) < SignatureSize {
		return nil, shortErr("tx", ErrShortBlob)
	}
	body, sig := data[:len(data)-SignatureSize], data[len(data)-SignatureSize:]
	if !ed25519.Verify(ed25519.PublicKey(pub), body, sig) {
		return nil, ErrBadSignature
	}
	return body, nil
}

// EncodeRegister builds the Register body: [nameLen][name][pubkey].
// The engine may still override the requested name; the authoritative copy
// comes back in the player snapshot.
func EncodeRegister(name string, pub []byte) ([]byte, error) {
	if len(name) == 0 || len(name) > 255 {
		return nil, fmt.Errorf("player name must be 1..255 bytes, got %d", len(name))
	}
	if len(pub) != PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", PublicKeySize, len(pub))
	}
	body := make([]byte, 0, 1+len(name)+PublicKeySize)
	body = append(body, byte(len(name)))
	body = append(body, name...)
	return append(body, pub...), nil
}

// Register is a decoded Register body.
type Register struct {
	Name      string
	PublicKey []byte
}

// DecodeRegister parses a Register body.
func DecodeRegister(body []byte) (Register, error) {
	c := newCursor(body)
	n, err := c.u8()
	if err != nil {
		return Register{}, shortErr("register", err)
	}
	name, err := c.bytes(int(n))
	if err != nil {
		return Register{}, shortErr("register", err)
	}
	pub, err := c.bytes(PublicKeySize)
	if err != nil {
		return Register{}, shortErr("register", err)
	}
	return Register{Name: string(name), PublicKey: append([]byte(nil), pub...)}, nil
}

// EncodeStartGame builds the StartGame body:
// [sessionID u64][gameType u8][initialBet u64].
func EncodeStartGame(sessionID uint64, game domain.GameType, bet uint64) []byte {
	body := make([]byte, 0, 17)
	body = appendU64(body, sessionID)
	body = append(body, byte(game))
	return appendU64(body, bet)
}

// StartGame is a decoded StartGame body.
type StartGame struct {
	SessionID uint64
	Game      domain.GameType
	Bet       uint64
}

// DecodeStartGame parses a StartGame body.
func DecodeStartGame(body []byte) (StartGame, error) {
	c := newCursor(body)
	sid, err := c.u64()
	if err != nil {
		return StartGame{}, shortErr("start", err)
	}
	g, err := c.u8()
	if err != nil {
		return StartGame{}, shortErr("start", err)
	}
	game := domain.GameType(g)
	if !game.Valid() {
		return StartGame{}, fmt.Errorf("start: unknown game type %d", g)
	}
	bet, err := c.u64()
	if err != nil {
		return StartGame{}, shortErr("start", err)
	}
	return StartGame{SessionID: sid, Game: game, Bet: bet}, nil
}

// EncodeMoveTx builds the Move body: [sessionID u64][move payload].
func EncodeMoveTx(sessionID uint64, payload []byte) []byte {
	body := make([]byte, 0, 8+len(payload))
	body = appendU64(body, sessionID)
	return append(body, payload...)
}

// DecodeMoveTx parses a Move body into the session id and the raw move
// payload. The payload is interpreted per game by ParseMove.
func DecodeMoveTx(body []byte) (uint64, []byte, error) {
	c := newCursor(body)
	sid, err := c.u64()
	if err != nil {
		return 0, nil, shortErr("move", err)
	}
	return sid, body[c.off:], nil
}

package ports

import (
	"crypto/ed25519"
	"fmt"
)

// Signer seals outbound transaction bodies. Key custody is the surrounding
// app's concern; the core only ever asks for a signature and the public key
// it registers with the engine.
type Signer interface {
	// Sign returns the detached signature for body.
	Sign(body []byte) []byte
	// PublicKey returns the verification key sent in the Register transaction.
	PublicKey() []byte
}

// Ed25519Signer is the default Signer over a raw ed25519 private key.
type Ed25519Signer struct {
	priv ed25519.PrivateKey
}

// NewEd25519Signer builds a signer from an ed25519 private key.
func NewEd25519Signer(priv ed25519.PrivateKey) (*Ed25519Signer, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("ed25519 private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(priv))
	}
	return &Ed25519Signer{priv: priv}, nil
}

// NewEd25519SignerFromSeed builds a signer from a 32-byte seed.
func NewEd25519SignerFromSeed(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Ed25519Signer{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

func (s *Ed25519Signer) Sign(body []byte) []byte {
	return ed25519.Sign(s.priv, body)
}

func (s *Ed25519Signer) PublicKey() []byte {
	return []byte(s.priv.Public().(ed25519.PublicKey))
}

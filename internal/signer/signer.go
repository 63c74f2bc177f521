// Package signer wraps the trading key.
package signer

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
)

// Signer holds the private key used to sign every submitted transaction.
type Signer struct {
	key solana.PrivateKey
}

// FromBase58 parses a base58-encoded private key and verifies that the
// derived public key is a valid curve point. A malformed key is a
// configuration error and must stop startup before any trade goes out.
func FromBase58(encoded string) (*Signer, error) {
	key, err := solana.PrivateKeyFromBase58(encoded)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	pub := key.PublicKey()
	if _, err := new(edwards25519.Point).SetBytes(pub[:]); err != nil {
		return nil, fmt.Errorf("public key %s is not on the curve: %w", pub, err)
	}

	return &Signer{key: key}, nil
}

// PublicKey returns the trading key's public key.
func (s *Signer) PublicKey() solana.PublicKey {
	return s.key.PublicKey()
}

// Sign signs tx with the trading key.
func (s *Signer) Sign(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.key.PublicKey()) {
			return &s.key
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}
	return nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package wallet provides an in-memory Ed25519 key store implementing the
// signing and verification capabilities used by the proof module. Keys are
// addressed by their base58-encoded public key (verkey).
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btcutil/base58"
)

// ErrKeyNotFound is returned when no signing key exists for a verkey.
var ErrKeyNotFound = errors.New("signing key not found")

// didLength is the byte length of the verkey prefix forming a public DID.
const didLength = 16

// Wallet is an in-memory key store. It is safe for concurrent use.
type Wallet struct {
	mu        sync.RWMutex
	keys      map[string]ed25519.PrivateKey
	publicDID string
	publicKey string
}

// New returns an empty wallet.
func New() *Wallet {
	return &Wallet{keys: make(map[string]ed25519.PrivateKey)}
}

// CreateSigningKey mints a fresh Ed25519 key pair and returns its verkey.
func (w *Wallet) CreateSigningKey() (string, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("create signing key: %w", err)
	}

	verkey := base58.Encode(pub)

	w.mu.Lock()
	w.keys[verkey] = priv
	w.mu.Unlock()

	return verkey, nil
}

// CreatePublicDID mints a key pair and registers it as the wallet's public
// identity. The DID is derived from the leading bytes of the public key.
func (w *Wallet) CreatePublicDID() (string, error) {
	verkey, err := w.CreateSigningKey()
	if err != nil {
		return "", fmt.Errorf("create public DID: %w", err)
	}

	did := base58.Encode(base58.Decode(verkey)[:didLength])

	w.mu.Lock()
	w.publicDID = did
	w.publicKey = verkey
	w.mu.Unlock()

	return did, nil
}

// PublicDID returns the wallet's public identity and its verkey. ok is
// false when no public DID has been registered.
func (w *Wallet) PublicDID() (did, verkey string, ok bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.publicDID, w.publicKey, w.publicDID != ""
}

// SignMessage signs the message with the key addressed by verkey.
func (w *Wallet) SignMessage(message []byte, verkey string) ([]byte, error) {
	w.mu.RLock()
	priv, ok := w.keys[verkey]
	w.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("sign message: %w: %s", ErrKeyNotFound, verkey)
	}

	return ed25519.Sign(priv, message), nil
}

// VerifyMessage checks the signature of a message against a verkey. The
// verkey itself decodes to the public key, so signatures of foreign agents
// verify without their key being held in this wallet.
func (w *Wallet) VerifyMessage(message, signature []byte, verkey string) error {
	pub := base58.Decode(verkey)
	if len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("verify message: invalid verification key %q", verkey)
	}

	if !ed25519.Verify(ed25519.PublicKey(pub), message, signature) {
		return errors.New("verify message: signature does not match")
	}

	return nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package wallet

import (
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/btcsuite/btcutil/base58"
	"github.com/stretchr/testify/require"
)

func TestCreateSigningKey(t *testing.T) {
	w := New()

	verkey, err := w.CreateSigningKey()
	require.NoError(t, err)
	require.Len(t, base58.Decode(verkey), ed25519.PublicKeySize)

	other, err := w.CreateSigningKey()
	require.NoError(t, err)
	require.NotEqual(t, verkey, other)
}

func TestSignAndVerify(t *testing.T) {
	w := New()

	verkey, err := w.CreateSigningKey()
	require.NoError(t, err)

	msg := []byte("message to sign")

	sig, err := w.SignMessage(msg, verkey)
	require.NoError(t, err)
	require.NoError(t, w.VerifyMessage(msg, sig, verkey))

	// verification only needs the verkey, not the held private key
	require.NoError(t, New().VerifyMessage(msg, sig, verkey))

	require.Error(t, w.VerifyMessage([]byte("other message"), sig, verkey))
}

func TestSignUnknownKey(t *testing.T) {
	w := New()

	_, err := w.SignMessage([]byte("msg"), "nonexistent")
	require.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestVerifyInvalidVerkey(t *testing.T) {
	require.Error(t, New().VerifyMessage([]byte("msg"), []byte("sig"), "tooshort"))
}

func TestPublicDID(t *testing.T) {
	w := New()

	_, _, ok := w.PublicDID()
	require.False(t, ok)

	did, err := w.CreatePublicDID()
	require.NoError(t, err)
	require.NotEmpty(t, did)
	require.Len(t, base58.Decode(did), didLength)

	gotDID, verkey, ok := w.PublicDID()
	require.True(t, ok)
	require.Equal(t, did, gotDID)

	// the registered identity key signs
	sig, err := w.SignMessage([]byte("msg"), verkey)
	require.NoError(t, err)
	require.NoError(t, w.VerifyMessage([]byte("msg"), sig, verkey))
}

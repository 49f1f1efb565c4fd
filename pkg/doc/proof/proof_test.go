/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package proof_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pds-project/identity-agent-go/pkg/doc/proof"
	"github.com/pds-project/identity-agent-go/pkg/wallet"
)

type testDoc struct {
	Subject string       `json:"subject"`
	Value   int          `json:"value"`
	Proof   *proof.Proof `json:"proof,omitempty"`
}

func (d *testDoc) WithoutProof() interface{} {
	cp := *d
	cp.Proof = nil

	return &cp
}

func (d *testDoc) DocumentProof() *proof.Proof {
	return d.Proof
}

func signedDoc(t *testing.T, w *wallet.Wallet) *testDoc {
	t.Helper()

	verkey, err := w.CreateSigningKey()
	require.NoError(t, err)

	doc := &testDoc{Subject: "test subject", Value: 7}

	p, err := proof.Create(doc, w, verkey)
	require.NoError(t, err)

	doc.Proof = p

	return doc
}

func TestCreateAndVerify(t *testing.T) {
	w := wallet.New()
	doc := signedDoc(t, w)

	require.Equal(t, proof.SignatureType, doc.Proof.Type)
	require.Equal(t, proof.AssertionMethod, doc.Proof.ProofPurpose)
	require.NotEmpty(t, doc.Proof.JWS)
	require.NotEmpty(t, doc.Proof.Created)
	require.NotEmpty(t, doc.Proof.VerificationMethod)

	require.True(t, proof.Verify(doc, w))

	// a wallet without the key still verifies, the verkey is the public key
	require.True(t, proof.Verify(doc, wallet.New()))
}

func TestCreateWithNewKey(t *testing.T) {
	w := wallet.New()
	doc := &testDoc{Subject: "fresh key"}

	p, err := proof.CreateWithNewKey(doc, w)
	require.NoError(t, err)

	doc.Proof = p
	require.True(t, proof.Verify(doc, w))
}

func TestCreateUnknownKey(t *testing.T) {
	w := wallet.New()

	_, err := proof.Create(&testDoc{Subject: "x"}, w, "missing-verkey")
	require.Error(t, err)
}

func TestVerifyFailsClosed(t *testing.T) {
	w := wallet.New()

	t.Run("no proof", func(t *testing.T) {
		require.False(t, proof.Verify(&testDoc{Subject: "unsigned"}, w))
	})

	t.Run("unknown suite", func(t *testing.T) {
		doc := signedDoc(t, w)
		doc.Proof.Type = "RsaSignature2018"
		require.False(t, proof.Verify(doc, w))
	})

	t.Run("malformed jws", func(t *testing.T) {
		doc := signedDoc(t, w)
		doc.Proof.JWS = "!!not-base64!!"
		require.False(t, proof.Verify(doc, w))
	})

	t.Run("tampered document", func(t *testing.T) {
		doc := signedDoc(t, w)
		doc.Subject = "tampered"
		require.False(t, proof.Verify(doc, w))
	})

	t.Run("wrong verkey", func(t *testing.T) {
		doc := signedDoc(t, w)

		other, err := w.CreateSigningKey()
		require.NoError(t, err)

		doc.Proof.VerificationMethod = other
		require.False(t, proof.Verify(doc, w))
	})

	t.Run("invalid verkey encoding", func(t *testing.T) {
		doc := signedDoc(t, w)
		doc.Proof.VerificationMethod = "short"
		require.False(t, proof.Verify(doc, w))
	})
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package proof implements creation and verification of the detached
// signature ("proof") embedded in credential and presentation documents.
// The only supported signature suite is Ed25519Signature2018.
package proof

import (
	"fmt"
	"time"

	"github.com/pds-project/identity-agent-go/pkg/common/log"
	"github.com/pds-project/identity-agent-go/pkg/doc/canonical"
)

const (
	// SignatureType is the signature suite of every proof produced here.
	// Any other suite fails verification.
	SignatureType = "Ed25519Signature2018"
	// AssertionMethod is the fixed proof purpose.
	AssertionMethod = "assertionMethod"
)

var logger = log.New("identity-agent/doc/proof")

// Proof is the detached signature plus metadata attached to a credential or
// presentation. The field order is the document serialization order.
type Proof struct {
	JWS                string `json:"jws"`
	Type               string `json:"type"`
	Created            string `json:"created"`
	ProofPurpose       string `json:"proofPurpose"`
	VerificationMethod string `json:"verificationMethod"`
}

// Document is a signable document: it can present itself with the embedded
// proof excluded, which is the form the signature covers.
type Document interface {
	// WithoutProof returns a copy of the document with the proof field removed.
	WithoutProof() interface{}
	// DocumentProof returns the embedded proof, nil if the document is unsigned.
	DocumentProof() *Proof
}

// Signer is the abstract signing capability, resolved by verification key.
type Signer interface {
	SignMessage(message []byte, verkey string) ([]byte, error)
}

// KeyCreatingSigner is a Signer that can also mint a fresh signing key.
type KeyCreatingSigner interface {
	Signer
	CreateSigningKey() (string, error)
}

// Verifier is the abstract signature verification capability. A nil return
// means the signature is valid.
type Verifier interface {
	VerifyMessage(message, signature []byte, verkey string) error
}

// Create signs the canonicalized document (proof excluded) with the given
// verification key and returns the resulting proof.
func Create(doc Document, signer Signer, verkey string) (*Proof, error) {
	payload, err := canonical.Canonicalize(doc.WithoutProof())
	if err != nil {
		return nil, fmt.Errorf("create proof: %w", err)
	}

	signature, err := signer.SignMessage(payload, verkey)
	if err != nil {
		return nil, fmt.Errorf("create proof: sign: %w", err)
	}

	return &Proof{
		JWS:                canonical.EncodeBase64URL(signature),
		Type:               SignatureType,
		Created:            time.Now().UTC().Format(time.RFC3339),
		ProofPurpose:       AssertionMethod,
		VerificationMethod: verkey,
	}, nil
}

// CreateWithNewKey signs the document with a freshly created signing key.
// Callers holding a configured identity key should prefer Create with an
// explicit verkey.
func CreateWithNewKey(doc Document, signer KeyCreatingSigner) (*Proof, error) {
	verkey, err := signer.CreateSigningKey()
	if err != nil {
		return nil, fmt.Errorf("create proof: new signing key: %w", err)
	}

	return Create(doc, signer, verkey)
}

// Verify checks the document's embedded proof against the canonicalized
// document with the proof excluded. Verification fails closed: an unknown
// signature suite, a malformed signature or any underlying capability error
// yields false, never an error.
func Verify(doc Document, verifier Verifier) bool {
	p := doc.DocumentProof()
	if p == nil {
		logger.Debugf("proof verification failed: document has no proof")
		return false
	}

	if p.Type != SignatureType {
		logger.Debugf("proof verification failed: suite %q is not implemented", p.Type)
		return false
	}

	signature, err := canonical.DecodeBase64URL(p.JWS)
	if err != nil {
		logger.Debugf("proof verification failed: malformed jws: %v", err)
		return false
	}

	payload, err := canonical.Canonicalize(doc.WithoutProof())
	if err != nil {
		logger.Debugf("proof verification failed: canonicalize: %v", err)
		return false
	}

	if err := verifier.VerifyMessage(payload, signature, p.VerificationMethod); err != nil {
		logger.Debugf("proof verification failed: %v", err)
		return false
	}

	return true
}

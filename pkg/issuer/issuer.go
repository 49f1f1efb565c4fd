/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package issuer builds signed, schema-valid verifiable credentials.
package issuer

import (
	"fmt"
	"time"

	"github.com/pds-project/identity-agent-go/pkg/common/log"
	"github.com/pds-project/identity-agent-go/pkg/doc/credential"
	"github.com/pds-project/identity-agent-go/pkg/doc/proof"
)

var logger = log.New("identity-agent/issuer")

// Error is a typed issuer failure.
type Error struct {
	msg string
}

func (e *Error) Error() string {
	return e.msg
}

func newError(format string, args ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Wallet is the identity and signing capability the issuer requires.
type Wallet interface {
	proof.Signer
	PublicDID() (did, verkey string, ok bool)
}

// Issuer issues verifiable credentials signed with the wallet's public
// identity key.
type Issuer struct {
	wallet Wallet
}

// New returns an issuer over the given wallet.
func New(w Wallet) *Issuer {
	return &Issuer{wallet: w}
}

// PublicDID returns the wallet's registered public identity.
func (i *Issuer) PublicDID() (did, verkey string, ok bool) {
	return i.wallet.PublicDID()
}

// CreateCredential builds a credential document over the subject values,
// attaches a proof and validates the result against the credential schema.
// The wallet must hold a registered public DID and values must be non-empty.
// When subjectDID is provided it is merged into the subject as "subject_id".
func (i *Issuer) CreateCredential(values map[string]interface{}, types []string,
	subjectDID string) (*credential.Credential, error) {
	did, verkey, ok := i.wallet.PublicDID()
	if !ok {
		return nil, newError("public DID is not registered")
	}

	if len(values) == 0 {
		return nil, newError("credential values are empty, they need to be filled out")
	}

	subject := make(map[string]interface{}, len(values)+1)
	for k, v := range values {
		subject[k] = v
	}

	if subjectDID != "" {
		subject[credential.SubjectIDKey] = subjectDID
	} else {
		logger.Debugf("no subject public DID provided, issuing without subject_id")
	}

	cred := &credential.Credential{
		Context:           []string{credential.ContextCredentials, credential.ContextSchemaOrg},
		Type:              append([]string{credential.VerifiableCredentialType}, types...),
		Issuer:            did,
		IssuanceDate:      time.Now().UTC().Format(time.RFC3339),
		CredentialSubject: subject,
	}

	credProof, err := proof.Create(cred, i.wallet, verkey)
	if err != nil {
		return nil, newError("create credential: %v", err)
	}

	cred.Proof = credProof

	// Self-check: the complete document must conform to the credential
	// schema before it leaves the issuer.
	if err := credential.ValidateCredential(cred); err != nil {
		return nil, newError("create credential: %v", err)
	}

	return cred, nil
}

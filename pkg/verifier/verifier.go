/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package verifier validates credential presentations against a
// presentation request.
package verifier

import (
	"github.com/pds-project/identity-agent-go/pkg/common/log"
	"github.com/pds-project/identity-agent-go/pkg/doc/credential"
	"github.com/pds-project/identity-agent-go/pkg/doc/proof"
)

var logger = log.New("identity-agent/verifier")

// Verifier validates presentations. All failures resolve to false; an
// adversarial peer must not be able to crash the agent with a malformed
// presentation.
type Verifier struct {
	wallet proof.Verifier
}

// New returns a verifier using the given signature verification capability.
func New(w proof.Verifier) *Verifier {
	return &Verifier{wallet: w}
}

// VerifyPresentation reports whether the presentation is structurally valid,
// answers the request and carries a correct outer proof.
//
// The embedded credentials' own proofs are not independently verified here;
// only the outer presentation proof is checked.
func (v *Verifier) VerifyPresentation(request *credential.PresentationRequest,
	presentation *credential.Presentation) bool {
	if request == nil || presentation == nil {
		logger.Debugf("presentation verification failed: empty request or presentation")
		return false
	}

	if err := credential.ValidateRequest(request); err != nil {
		logger.Debugf("presentation verification failed: %v", err)
		return false
	}

	if err := credential.ValidatePresentation(presentation); err != nil {
		logger.Debugf("presentation verification failed: %v", err)
		return false
	}

	if !proof.Verify(presentation, v.wallet) {
		logger.Debugf("presentation verification failed: proof does not verify")
		return false
	}

	return true
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof

import (
	"github.com/pds-project/identity-agent-go/pkg/doc/credential"
)

const (
	// Name defines the protocol name.
	Name = "present-proof"
	// Spec defines the protocol spec.
	Spec = "https://didcomm.org/present-proof/1.1/"
	// RequestProofMsgType defines the protocol request-proof message type.
	RequestProofMsgType = Spec + "request-proof"
	// PresentProofMsgType defines the protocol present-proof message type.
	PresentProofMsgType = Spec + "present-proof"
	// AcknowledgeProofMsgType defines the protocol acknowledge-proof message type.
	AcknowledgeProofMsgType = Spec + "acknowledge-proof"
)

// RequestProofMsg asks the peer to prove possession of attributes backed by
// a credential of the requested schema.
type RequestProofMsg struct {
	Type                string                          `json:"@type,omitempty"`
	ID                  string                          `json:"@id,omitempty"`
	PresentationRequest *credential.PresentationRequest `json:"presentation_request,omitempty"`
	UsagePolicy         string                          `json:"usage_policy,omitempty"`
}

// PresentProofMsg answers a request-proof message. An empty
// CredentialPresentation means the prover denied the request.
type PresentProofMsg struct {
	Type                   string `json:"@type,omitempty"`
	ID                     string `json:"@id,omitempty"`
	CredentialPresentation string `json:"credential_presentation,omitempty"`
	ProverPublicDID        string `json:"prover_public_did,omitempty"`
}

// AcknowledgeProofMsg closes the exchange on the verifier's side. Status
// reports the verification outcome; on success Credential carries the
// acknowledgment credential minted for the prover.
type AcknowledgeProofMsg struct {
	Type       string `json:"@type,omitempty"`
	ID         string `json:"@id,omitempty"`
	Status     bool   `json:"status"`
	Credential string `json:"credential,omitempty"`
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof

import (
	"fmt"

	"github.com/pds-project/identity-agent-go/pkg/doc/credential"
)

// Exchange roles.
const (
	RoleProver   = "prover"
	RoleVerifier = "verifier"
)

// Exchange initiators.
const (
	InitiatorSelf     = "self"
	InitiatorExternal = "external"
)

// Exchange states. The proposal states are reserved for the
// propose-presentation extension and are not produced by this service.
const (
	StateProposalSent         = "proposal_sent"
	StateProposalReceived     = "proposal_received"
	StateRequestSent          = "request_sent"
	StateRequestReceived      = "request_received"
	StateRequestDenied        = "request_denied"
	StatePresentationSent     = "presentation_sent"
	StatePresentationReceived = "presentation_received"
	StatePresentationAcked    = "presentation_acked"
	StateRejected             = "rejected"
	StateAcknowledged         = "acknowledged"
)

// Verified values of an exchange record (tri-state).
const (
	VerifiedUnknown = ""
	VerifiedTrue    = "true"
	VerifiedFalse   = "false"
)

// HandlerError is a protocol precondition violation: an unresolvable
// exchange lookup or a transition attempted with the wrong role or state.
// The triggering message is dropped and the record left untouched.
type HandlerError struct {
	msg string
}

func (e *HandlerError) Error() string {
	return e.msg
}

func newHandlerError(format string, args ...interface{}) *HandlerError {
	return &HandlerError{msg: fmt.Sprintf(format, args...)}
}

// Exchange is the persistent record of one run of the presentation
// exchange protocol, correlated across messages by (connection id,
// thread id).
type Exchange struct {
	ExchangeID                  string                          `json:"presentation_exchange_id"`
	ConnectionID                string                          `json:"connection_id"`
	ThreadID                    string                          `json:"thread_id"`
	Initiator                   string                          `json:"initiator"`
	Role                        string                          `json:"role"`
	State                       string                          `json:"state"`
	PresentationRequest         *credential.PresentationRequest `json:"presentation_request,omitempty"`
	ProverPublicDID             string                          `json:"prover_public_did,omitempty"`
	PresentationDRI             string                          `json:"presentation_dri,omitempty"`
	AcknowledgmentCredentialDRI string                          `json:"acknowledgment_credential_dri,omitempty"`
	RequesterUsagePolicy        string                          `json:"requester_usage_policy,omitempty"`
	Verified                    string                          `json:"verified,omitempty"`
	ErrorMsg                    string                          `json:"error_msg,omitempty"`
	Version                     int                             `json:"version"`
}

// requireRoleAndState gates every transition: both the role and the current
// state must match before the record may be mutated. Out-of-order or
// duplicated messages fail here without side effects.
func (e *Exchange) requireRoleAndState(role, state string) error {
	if e.Role != role {
		return newHandlerError("invalid exchange role: expected %s, currently %s", role, e.Role)
	}

	if e.State != state {
		return newHandlerError("invalid exchange state: expected %s, currently %s", state, e.State)
	}

	return nil
}

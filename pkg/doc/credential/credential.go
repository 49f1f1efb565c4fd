/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package credential defines the verifiable credential and presentation
// document model, their wire (JSON) form and schema validation.
package credential

import (
	"encoding/json"
	"fmt"

	"github.com/pds-project/identity-agent-go/pkg/doc/proof"
)

const (
	// VerifiableCredentialType is the fixed first entry of a credential's type list.
	VerifiableCredentialType = "VerifiableCredential"
	// VerifiablePresentationType is the type tag of a presentation.
	VerifiablePresentationType = "VerifiablePresentation"

	// ContextCredentials is the base W3C credentials context.
	ContextCredentials = "https://www.w3.org/2018/credentials/v1"
	// ContextSchemaOrg establishes the semantic context of subject fields.
	ContextSchemaOrg = "https://www.schema.org"

	// SubjectIDKey is the subject map key carrying the subject's public identity.
	SubjectIDKey = "subject_id"
)

// Credential is an issued verifiable credential document. Struct order is
// the wire serialization order; the internal "context" field is named
// "@context" on the wire.
type Credential struct {
	Context           []string               `json:"@context"`
	Type              []string               `json:"type"`
	Issuer            string                 `json:"issuer"`
	IssuanceDate      string                 `json:"issuanceDate"`
	CredentialSubject map[string]interface{} `json:"credentialSubject"`
	ID                string                 `json:"id,omitempty"`
	Proof             *proof.Proof           `json:"proof,omitempty"`
}

// WithoutProof returns a copy of the credential with the proof excluded,
// the form covered by the signature.
func (c *Credential) WithoutProof() interface{} {
	cp := *c
	cp.Proof = nil

	return &cp
}

// DocumentProof returns the embedded proof.
func (c *Credential) DocumentProof() *proof.Proof {
	return c.Proof
}

// MarshalJSON is the standard wire form of the credential.
func (c *Credential) MarshalJSON() ([]byte, error) {
	type alias Credential

	return json.Marshal((*alias)(c))
}

// ParseCredential decodes a credential from its wire form. Documents using
// the internal "context" key instead of "@context" are accepted.
func ParseCredential(raw []byte) (*Credential, error) {
	raw, err := normalizeContextKey(raw)
	if err != nil {
		return nil, fmt.Errorf("parse credential: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return nil, fmt.Errorf("parse credential: %w", err)
	}

	return &cred, nil
}

// normalizeContextKey renames a top-level "context" key to "@context" so
// both spellings validate and decode identically.
func normalizeContextKey(raw []byte) ([]byte, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	ctx, ok := doc["context"]
	if !ok {
		return raw, nil
	}

	if _, ok := doc["@context"]; !ok {
		doc["@context"] = ctx
	}

	delete(doc, "context")

	return json.Marshal(doc)
}

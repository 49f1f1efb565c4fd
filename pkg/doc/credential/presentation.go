/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package credential

import (
	"encoding/json"
	"fmt"

	"github.com/pds-project/identity-agent-go/pkg/doc/proof"
)

// ContextExamples is the second context entry of a presentation.
const ContextExamples = "https://www.w3.org/2018/credentials/examples/v1"

// IDPrefix is the conventional prefix of a presentation id.
const IDPrefix = "urn:uuid:"

// Presentation bundles one or more credentials for sharing. The embedded
// credentials are keyed by their content-derived identifier (DRI).
type Presentation struct {
	Context              []string               `json:"@context"`
	ID                   string                 `json:"id,omitempty"`
	Type                 []string               `json:"type"`
	VerifiableCredential map[string]*Credential `json:"verifiableCredential"`
	Proof                *proof.Proof           `json:"proof,omitempty"`
}

// WithoutProof returns a copy of the presentation with the outer proof
// excluded, the form covered by the signature.
func (p *Presentation) WithoutProof() interface{} {
	cp := *p
	cp.Proof = nil

	return &cp
}

// DocumentProof returns the embedded outer proof.
func (p *Presentation) DocumentProof() *proof.Proof {
	return p.Proof
}

// ParsePresentation decodes a presentation from its wire form, accepting
// both the "@context" and "context" spellings.
func ParsePresentation(raw []byte) (*Presentation, error) {
	raw, err := normalizeContextKey(raw)
	if err != nil {
		return nil, fmt.Errorf("parse presentation: %w", err)
	}

	var pres Presentation
	if err := json.Unmarshal(raw, &pres); err != nil {
		return nil, fmt.Errorf("parse presentation: %w", err)
	}

	return &pres, nil
}

// PresentationRequest names the attributes a verifier wants proven and the
// schema the backing credential must conform to.
type PresentationRequest struct {
	RequestedAttributes []string `json:"requested_attributes"`
	SchemaBaseDRI       string   `json:"schema_base_dri"`
	IssuerDID           string   `json:"issuer_did,omitempty"`
}

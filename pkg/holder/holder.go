/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package holder persists received credentials and constructs presentations
// in response to presentation requests.
package holder

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pds-project/identity-agent-go/pkg/common/log"
	"github.com/pds-project/identity-agent-go/pkg/doc/credential"
	"github.com/pds-project/identity-agent-go/pkg/doc/proof"
	"github.com/pds-project/identity-agent-go/pkg/pds"
)

// CredentialsNamespace is the schema namespace credentials are saved under.
const CredentialsNamespace = "credentials"

var logger = log.New("identity-agent/holder")

// Error is a typed holder failure.
type Error struct {
	msg string
}

func (e *Error) Error() string {
	return e.msg
}

func newError(format string, args ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Wallet is the signing and verification capability the holder requires.
type Wallet interface {
	proof.KeyCreatingSigner
	proof.Verifier
}

// Holder stores credentials in the personal data store and builds signed
// presentations from them.
type Holder struct {
	wallet Wallet
	store  pds.Store
}

// New returns a holder over the given wallet and document store.
func New(w Wallet, store pds.Store) *Holder {
	return &Holder{wallet: w, store: store}
}

// Stored is a credential record held by this agent.
type Stored struct {
	DRI        string
	Credential *credential.Credential
}

// requiredFields are the top-level credential fields a holder refuses to
// store without, with the JSON kind each must have.
var requiredFields = []struct {
	name string
	kind string
}{
	{"issuer", "string"},
	{"proof", "object"},
	{"type", "array"},
	{"credentialSubject", "object"},
	{"@context", "array"},
	{"issuanceDate", "string"},
}

// StoreCredential validates the raw credential document, verifies its proof
// and persists it, returning the document's DRI. A credential whose proof
// does not verify is never persisted.
func (h *Holder) StoreCredential(raw []byte) (string, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", newError("credential is not a valid document: %v", err)
	}

	if ctx, ok := doc["context"]; ok {
		if _, present := doc["@context"]; !present {
			doc["@context"] = ctx
		}
	}

	for _, field := range requiredFields {
		if err := checkField(doc, field.name, field.kind); err != nil {
			return "", err
		}
	}

	cred, err := credential.ParseCredential(raw)
	if err != nil {
		return "", newError("%v", err)
	}

	if !proof.Verify(cred, h.wallet) {
		return "", newError("proof is incorrect, could not verify")
	}

	content, err := json.Marshal(cred)
	if err != nil {
		return "", newError("store credential: %v", err)
	}

	dri, err := h.store.Save(content, pds.Metadata{SchemaDRI: CredentialsNamespace})
	if err != nil {
		return "", newError("store credential: %v", err)
	}

	logger.Debugf("credential stored under %s", dri)

	return dri, nil
}

func checkField(doc map[string]interface{}, name, kind string) error {
	value, ok := doc[name]
	if !ok || value == nil || isEmpty(value) {
		return newError("%s field of credential is empty, it needs to be filled in", name)
	}

	var matches bool

	switch kind {
	case "string":
		_, matches = value.(string)
	case "object":
		_, matches = value.(map[string]interface{})
	case "array":
		_, matches = value.([]interface{})
	}

	if !matches {
		return newError("%s field of credential is of incorrect type", name)
	}

	return nil
}

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case string:
		return v == ""
	case map[string]interface{}:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	}

	return false
}

// GetCredential returns the stored credential under dri.
func (h *Holder) GetCredential(dri string) (*credential.Credential, error) {
	content, err := h.store.Load(dri)
	if err != nil {
		if errors.Is(err, pds.ErrDataNotFound) {
			return nil, newError("credential %s not found", dri)
		}

		return nil, newError("get credential: %v", err)
	}

	cred, err := credential.ParseCredential(content)
	if err != nil {
		return nil, newError("get credential: %v", err)
	}

	return cred, nil
}

// DeleteCredential removes the stored credential under dri.
func (h *Holder) DeleteCredential(dri string) error {
	if err := h.store.Delete(dri); err != nil {
		if errors.Is(err, pds.ErrDataNotFound) {
			return newError("credential %s not found", dri)
		}

		return newError("delete credential: %v", err)
	}

	return nil
}

// ListCredentials returns every credential held by this agent.
func (h *Holder) ListCredentials() ([]Stored, error) {
	records, err := h.store.QueryBySchema(CredentialsNamespace)
	if err != nil {
		return nil, newError("list credentials: %v", err)
	}

	stored := make([]Stored, 0, len(records))

	for _, rec := range records {
		cred, err := credential.ParseCredential(rec.Content)
		if err != nil {
			logger.Warnf("skipping unparsable credential %s: %v", rec.DRI, err)
			continue
		}

		stored = append(stored, Stored{DRI: rec.DRI, Credential: cred})
	}

	return stored, nil
}

// MatchingCredentials returns the DRIs of held credentials satisfying the
// request's schema and optional issuer constraints.
func (h *Holder) MatchingCredentials(request *credential.PresentationRequest) ([]string, error) {
	stored, err := h.ListCredentials()
	if err != nil {
		return nil, err
	}

	var matches []string

	for _, rec := range stored {
		schemaDRI, _ := rec.Credential.CredentialSubject["oca_schema_dri"].(string)
		if schemaDRI != request.SchemaBaseDRI {
			continue
		}

		if request.IssuerDID != "" && rec.Credential.Issuer != request.IssuerDID {
			continue
		}

		matches = append(matches, rec.DRI)
	}

	return matches, nil
}

// CreatePresentation bundles the referenced stored credentials into a signed
// presentation answering the request.
func (h *Holder) CreatePresentation(request *credential.PresentationRequest,
	credentialDRIs []string) (*credential.Presentation, error) {
	if request == nil || len(request.RequestedAttributes) == 0 {
		return nil, newError("presentation request is missing requested_attributes")
	}

	if len(credentialDRIs) == 0 {
		return nil, newError("no credential matching the request was provided")
	}

	creds := make(map[string]*credential.Credential, len(credentialDRIs))

	for _, dri := range credentialDRIs {
		cred, err := h.GetCredential(dri)
		if err != nil {
			return nil, err
		}

		creds[dri] = cred
	}

	pres := &credential.Presentation{
		Context:              []string{credential.ContextCredentials, credential.ContextExamples},
		ID:                   credential.IDPrefix + uuid.New().String(),
		Type:                 []string{credential.VerifiablePresentationType},
		VerifiableCredential: creds,
	}

	presProof, err := proof.CreateWithNewKey(pres, h.wallet)
	if err != nil {
		return nil, newError("create presentation: %v", err)
	}

	pres.Proof = presProof

	return pres, nil
}

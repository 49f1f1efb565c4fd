/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package holder_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pds-project/identity-agent-go/pkg/doc/credential"
	"github.com/pds-project/identity-agent-go/pkg/doc/proof"
	"github.com/pds-project/identity-agent-go/pkg/holder"
	"github.com/pds-project/identity-agent-go/pkg/issuer"
	"github.com/pds-project/identity-agent-go/pkg/pds/mem"
	"github.com/pds-project/identity-agent-go/pkg/wallet"
)

const schemaDRI = "zQmTestSchemaBaseDRI"

// issueCredential mints a credential from a fresh issuer wallet, the way a
// peer agent would.
func issueCredential(t *testing.T, values map[string]interface{}) (*credential.Credential, string) {
	t.Helper()

	w := wallet.New()

	did, err := w.CreatePublicDID()
	require.NoError(t, err)

	cred, err := issuer.New(w).CreateCredential(values, nil, "HoldersPublicDID")
	require.NoError(t, err)

	return cred, did
}

func newHolder(t *testing.T) *holder.Holder {
	t.Helper()

	return holder.New(wallet.New(), mem.New())
}

func TestStoreCredential(t *testing.T) {
	h := newHolder(t)

	cred, _ := issueCredential(t, map[string]interface{}{"first_name": "Karol"})

	raw, err := json.Marshal(cred)
	require.NoError(t, err)

	dri, err := h.StoreCredential(raw)
	require.NoError(t, err)
	require.NotEmpty(t, dri)

	stored, err := h.GetCredential(dri)
	require.NoError(t, err)
	require.Equal(t, cred.Issuer, stored.Issuer)
	require.Equal(t, "Karol", stored.CredentialSubject["first_name"])
}

func TestStoreCredentialContextAlias(t *testing.T) {
	h := newHolder(t)

	cred, _ := issueCredential(t, map[string]interface{}{"first_name": "Karol"})

	raw, err := json.Marshal(cred)
	require.NoError(t, err)

	aliased := strings.Replace(string(raw), `"@context":`, `"context":`, 1)

	_, err = h.StoreCredential([]byte(aliased))
	require.NoError(t, err)
}

func TestStoreCredentialFieldValidation(t *testing.T) {
	h := newHolder(t)

	cred, _ := issueCredential(t, map[string]interface{}{"first_name": "Karol"})

	base, err := json.Marshal(cred)
	require.NoError(t, err)

	erase := func(t *testing.T, field string) []byte {
		t.Helper()

		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(base, &doc))
		delete(doc, field)

		raw, err := json.Marshal(doc)
		require.NoError(t, err)

		return raw
	}

	for _, field := range []string{
		"issuer", "proof", "type", "credentialSubject", "@context", "issuanceDate",
	} {
		t.Run("missing "+field, func(t *testing.T) {
			_, err := h.StoreCredential(erase(t, field))
			require.Error(t, err)
			require.IsType(t, &holder.Error{}, err)
			require.Contains(t, err.Error(),
				field+" field of credential is empty, it needs to be filled in")
		})
	}

	t.Run("wrong type", func(t *testing.T) {
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(base, &doc))
		doc["issuer"] = 42

		raw, err := json.Marshal(doc)
		require.NoError(t, err)

		_, err = h.StoreCredential(raw)
		require.Error(t, err)
		require.Contains(t, err.Error(), "issuer field of credential is of incorrect type")
	})

	t.Run("not a document", func(t *testing.T) {
		_, err := h.StoreCredential([]byte("not json"))
		require.Error(t, err)
	})
}

func TestStoreCredentialBadProof(t *testing.T) {
	h := newHolder(t)

	cred, _ := issueCredential(t, map[string]interface{}{"first_name": "Karol"})
	cred.CredentialSubject["first_name"] = "Tampered"

	raw, err := json.Marshal(cred)
	require.NoError(t, err)

	_, err = h.StoreCredential(raw)
	require.Error(t, err)
	require.Contains(t, err.Error(), "proof is incorrect, could not verify")
}

func TestGetDeleteNotFound(t *testing.T) {
	h := newHolder(t)

	_, err := h.GetCredential("zMissing")
	require.Error(t, err)
	require.IsType(t, &holder.Error{}, err)

	err = h.DeleteCredential("zMissing")
	require.Error(t, err)
	require.IsType(t, &holder.Error{}, err)
}

func TestListAndDelete(t *testing.T) {
	h := newHolder(t)

	cred, _ := issueCredential(t, map[string]interface{}{"first_name": "Karol"})

	raw, err := json.Marshal(cred)
	require.NoError(t, err)

	dri, err := h.StoreCredential(raw)
	require.NoError(t, err)

	stored, err := h.ListCredentials()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, dri, stored[0].DRI)

	require.NoError(t, h.DeleteCredential(dri))

	stored, err = h.ListCredentials()
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestMatchingCredentials(t *testing.T) {
	h := newHolder(t)

	matching, issuerDID := issueCredential(t, map[string]interface{}{
		"first_name":     "Karol",
		"oca_schema_dri": schemaDRI,
	})
	other, _ := issueCredential(t, map[string]interface{}{
		"first_name":     "Karol",
		"oca_schema_dri": "zQmOtherSchema",
	})

	var matchingDRI string

	for _, cred := range []*credential.Credential{matching, other} {
		raw, err := json.Marshal(cred)
		require.NoError(t, err)

		dri, err := h.StoreCredential(raw)
		require.NoError(t, err)

		if cred == matching {
			matchingDRI = dri
		}
	}

	dris, err := h.MatchingCredentials(&credential.PresentationRequest{
		RequestedAttributes: []string{"first_name"},
		SchemaBaseDRI:       schemaDRI,
	})
	require.NoError(t, err)
	require.Equal(t, []string{matchingDRI}, dris)

	t.Run("issuer constraint", func(t *testing.T) {
		dris, err := h.MatchingCredentials(&credential.PresentationRequest{
			RequestedAttributes: []string{"first_name"},
			SchemaBaseDRI:       schemaDRI,
			IssuerDID:           issuerDID,
		})
		require.NoError(t, err)
		require.Equal(t, []string{matchingDRI}, dris)

		dris, err = h.MatchingCredentials(&credential.PresentationRequest{
			RequestedAttributes: []string{"first_name"},
			SchemaBaseDRI:       schemaDRI,
			IssuerDID:           "someone else",
		})
		require.NoError(t, err)
		require.Empty(t, dris)
	})
}

func TestCreatePresentation(t *testing.T) {
	w := wallet.New()
	h := holder.New(w, mem.New())

	cred, _ := issueCredential(t, map[string]interface{}{
		"first_name":     "Karol",
		"oca_schema_dri": schemaDRI,
	})

	raw, err := json.Marshal(cred)
	require.NoError(t, err)

	dri, err := h.StoreCredential(raw)
	require.NoError(t, err)

	request := &credential.PresentationRequest{
		RequestedAttributes: []string{"first_name"},
		SchemaBaseDRI:       schemaDRI,
	}

	pres, err := h.CreatePresentation(request, []string{dri})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(pres.ID, credential.IDPrefix))
	require.Equal(t, []string{credential.ContextCredentials, credential.ContextExamples}, pres.Context)
	require.Equal(t, []string{credential.VerifiablePresentationType}, pres.Type)
	require.Contains(t, pres.VerifiableCredential, dri)

	require.NotNil(t, pres.Proof)
	require.True(t, proof.Verify(pres, w))
	require.NoError(t, credential.ValidatePresentation(pres))
}

func TestCreatePresentationErrors(t *testing.T) {
	h := newHolder(t)

	request := &credential.PresentationRequest{
		RequestedAttributes: []string{"first_name"},
		SchemaBaseDRI:       schemaDRI,
	}

	t.Run("no requested attributes", func(t *testing.T) {
		_, err := h.CreatePresentation(&credential.PresentationRequest{SchemaBaseDRI: schemaDRI}, []string{"zD"})
		require.Error(t, err)
	})

	t.Run("no credentials", func(t *testing.T) {
		_, err := h.CreatePresentation(request, nil)
		require.Error(t, err)
	})

	t.Run("unknown credential", func(t *testing.T) {
		_, err := h.CreatePresentation(request, []string{"zMissing"})
		require.Error(t, err)
	})
}

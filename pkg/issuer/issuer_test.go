/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pds-project/identity-agent-go/pkg/doc/credential"
	"github.com/pds-project/identity-agent-go/pkg/doc/proof"
	"github.com/pds-project/identity-agent-go/pkg/issuer"
	"github.com/pds-project/identity-agent-go/pkg/wallet"
)

func TestCreateCredential(t *testing.T) {
	w := wallet.New()

	did, err := w.CreatePublicDID()
	require.NoError(t, err)

	i := issuer.New(w)

	cred, err := i.CreateCredential(
		map[string]interface{}{"first_name": "Karol"},
		[]string{"ConsentCredential"},
		"HoldersPublicDID",
	)
	require.NoError(t, err)

	require.Equal(t, did, cred.Issuer)
	require.Equal(t, []string{credential.VerifiableCredentialType, "ConsentCredential"}, cred.Type)
	require.Equal(t, []string{credential.ContextCredentials, credential.ContextSchemaOrg}, cred.Context)
	require.Equal(t, "Karol", cred.CredentialSubject["first_name"])
	require.Equal(t, "HoldersPublicDID", cred.CredentialSubject[credential.SubjectIDKey])
	require.NotEmpty(t, cred.IssuanceDate)

	require.NotNil(t, cred.Proof)
	require.Equal(t, proof.SignatureType, cred.Proof.Type)
	require.True(t, proof.Verify(cred, w))

	require.NoError(t, credential.ValidateCredential(cred))
}

func TestCreateCredentialNoSubjectDID(t *testing.T) {
	w := wallet.New()

	_, err := w.CreatePublicDID()
	require.NoError(t, err)

	cred, err := issuer.New(w).CreateCredential(
		map[string]interface{}{"first_name": "Karol"}, nil, "")
	require.NoError(t, err)

	_, ok := cred.CredentialSubject[credential.SubjectIDKey]
	require.False(t, ok)
	require.Equal(t, []string{credential.VerifiableCredentialType}, cred.Type)
}

func TestCreateCredentialNoPublicDID(t *testing.T) {
	_, err := issuer.New(wallet.New()).CreateCredential(
		map[string]interface{}{"first_name": "Karol"}, nil, "")
	require.Error(t, err)
	require.IsType(t, &issuer.Error{}, err)
	require.Contains(t, err.Error(), "public DID is not registered")
}

func TestCreateCredentialEmptyValues(t *testing.T) {
	w := wallet.New()

	_, err := w.CreatePublicDID()
	require.NoError(t, err)

	_, err = issuer.New(w).CreateCredential(nil, nil, "")
	require.Error(t, err)
	require.IsType(t, &issuer.Error{}, err)
}

func TestCreateCredentialDoesNotMutateValues(t *testing.T) {
	w := wallet.New()

	_, err := w.CreatePublicDID()
	require.NoError(t, err)

	values := map[string]interface{}{"first_name": "Karol"}

	_, err = issuer.New(w).CreateCredential(values, nil, "HoldersPublicDID")
	require.NoError(t, err)

	_, ok := values[credential.SubjectIDKey]
	require.False(t, ok)
}

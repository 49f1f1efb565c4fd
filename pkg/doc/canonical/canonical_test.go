/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package canonical

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalizeDeterministic(t *testing.T) {
	doc := map[string]interface{}{
		"zeta":  "last",
		"alpha": "first",
		"mid":   map[string]interface{}{"b": 2, "a": 1},
	}

	first, err := Canonicalize(doc)
	require.NoError(t, err)

	second, err := Canonicalize(doc)
	require.NoError(t, err)

	require.Equal(t, first, second)

	// same logical content built in a different insertion order
	other := map[string]interface{}{
		"mid":   map[string]interface{}{"a": 1, "b": 2},
		"alpha": "first",
		"zeta":  "last",
	}

	third, err := Canonicalize(other)
	require.NoError(t, err)
	require.Equal(t, first, third)
}

func TestCanonicalizeStruct(t *testing.T) {
	type doc struct {
		B string `json:"b"`
		A string `json:"a"`
	}

	enc, err := Canonicalize(&doc{B: "two", A: "one"})
	require.NoError(t, err)

	raw, err := DecodeBase64URL(string(enc))
	require.NoError(t, err)
	// struct fields serialize in declaration order
	require.JSONEq(t, `{"b":"two","a":"one"}`, string(raw))
	require.Equal(t, `{"b":"two","a":"one"}`, string(raw))
}

func TestCanonicalizeNotADocument(t *testing.T) {
	for _, doc := range []interface{}{nil, 42, "text", []string{"a"}, (*struct{})(nil)} {
		_, err := Canonicalize(doc)
		require.Error(t, err)
		require.IsType(t, &EncodingError{}, err)
	}
}

func TestBase64URLDecodePaddedAndUnpadded(t *testing.T) {
	raw := []byte("hello")
	enc := EncodeBase64URL(raw)
	require.NotContains(t, enc, "=")

	decoded, err := DecodeBase64URL(enc)
	require.NoError(t, err)
	require.Equal(t, raw, decoded)

	decoded, err = DecodeBase64URL(enc + "=")
	require.NoError(t, err)
	require.Equal(t, raw, decoded)

	_, err = DecodeBase64URL("!!not-base64!!")
	require.Error(t, err)
}

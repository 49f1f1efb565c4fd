/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package canonical implements the deterministic document serialization used
// as the signing input for credential and presentation proofs. A document is
// serialized to JSON with a fixed field order (struct declaration order for
// typed documents, lexicographic key order for generic maps) and then encoded
// as unpadded base64url. The resulting text bytes are the exact byte sequence
// that gets signed and verified.
package canonical

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
)

// EncodingError is returned when a value cannot be canonicalized because it
// is not a document (a mapping or a struct-backed document type).
type EncodingError struct {
	msg string
}

func (e *EncodingError) Error() string {
	return e.msg
}

// NewEncodingError returns a formatted EncodingError.
func NewEncodingError(msg string, args ...interface{}) *EncodingError {
	return &EncodingError{msg: fmt.Sprintf(msg, args...)}
}

// Canonicalize serializes the given document deterministically and returns
// the base64url-encoded form. Identical logical content always yields
// byte-identical output: struct documents serialize in declaration order and
// map documents in sorted key order (both are stable under encoding/json).
func Canonicalize(doc interface{}) ([]byte, error) {
	if !isDocument(doc) {
		return nil, NewEncodingError("canonicalize: not a document: %T", doc)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, NewEncodingError("canonicalize: %v", err)
	}

	return []byte(EncodeBase64URL(raw)), nil
}

// EncodeBase64URL encodes raw bytes as unpadded base64url text.
func EncodeBase64URL(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeBase64URL decodes base64url text, with or without padding.
func DecodeBase64URL(enc string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(enc)
	if err == nil {
		return raw, nil
	}

	raw, err = base64.URLEncoding.DecodeString(enc)
	if err != nil {
		return nil, fmt.Errorf("decode base64url: %w", err)
	}

	return raw, nil
}

func isDocument(doc interface{}) bool {
	if doc == nil {
		return false
	}

	v := reflect.ValueOf(doc)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return false
		}

		v = v.Elem()
	}

	return v.Kind() == reflect.Map || v.Kind() == reflect.Struct
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package credential

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const proofSchemaDef = `{
	"type": "object",
	"required": ["type", "created", "proofPurpose", "verificationMethod", "jws"],
	"properties": {
		"type": {"type": "string", "minLength": 1},
		"created": {"type": "string", "minLength": 1},
		"proofPurpose": {"type": "string", "minLength": 1},
		"verificationMethod": {"type": "string", "minLength": 1},
		"jws": {"type": "string", "minLength": 1}
	}
}`

const credentialSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "Credential",
	"type": "object",
	"required": ["@context", "type", "issuer", "issuanceDate", "credentialSubject", "proof"],
	"properties": {
		"@context": {"type": "array", "minItems": 1, "items": {"type": "string"}},
		"type": {"type": "array", "minItems": 1, "items": {"type": "string"}},
		"issuer": {"type": "string", "minLength": 1},
		"issuanceDate": {"type": "string", "minLength": 1},
		"credentialSubject": {"type": "object", "minProperties": 1},
		"id": {"type": "string"},
		"proof": ` + proofSchemaDef + `
	}
}`

const presentationSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "Presentation",
	"type": "object",
	"required": ["@context", "type", "verifiableCredential", "proof"],
	"properties": {
		"@context": {"type": "array", "minItems": 1, "items": {"type": "string"}},
		"id": {"type": "string"},
		"type": {"type": "array", "minItems": 1, "items": {"type": "string"}},
		"verifiableCredential": {"type": "object", "minProperties": 1},
		"proof": ` + proofSchemaDef + `
	}
}`

const presentationRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "PresentationRequest",
	"type": "object",
	"required": ["schema_base_dri"],
	"properties": {
		"requested_attributes": {"type": "array", "items": {"type": "string"}},
		"schema_base_dri": {"type": "string", "minLength": 1},
		"issuer_did": {"type": "string"}
	}
}`

// ValidateCredential checks the credential document against the credential
// schema. The document may be the typed form or raw wire JSON.
func ValidateCredential(doc interface{}) error {
	return validate(credentialSchema, doc)
}

// ValidatePresentation checks the presentation document against the
// presentation schema.
func ValidatePresentation(doc interface{}) error {
	return validate(presentationSchema, doc)
}

// ValidateRequest checks a presentation request against the request schema.
func ValidateRequest(doc interface{}) error {
	return validate(presentationRequestSchema, doc)
}

func validate(schema string, doc interface{}) error {
	raw, ok := doc.([]byte)
	if !ok {
		var err error

		raw, err = json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("schema validation: %w", err)
		}
	}

	raw, err := normalizeContextKey(raw)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if !result.Valid() {
		descriptions := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			descriptions[i] = desc.String()
		}

		return fmt.Errorf("invalid schema: %s", strings.Join(descriptions, "; "))
	}

	return nil
}

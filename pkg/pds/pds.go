/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package pds defines the personal data store collaborator interface.
// Documents are addressed by a content-derived identifier (DRI): the
// base58btc multibase encoding of the sha2-256 multihash of the content.
package pds

import (
	"crypto/sha256"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
)

// ErrDataNotFound is returned when no document exists under a DRI.
var ErrDataNotFound = errors.New("data not found")

// Metadata accompanies a document on save.
type Metadata struct {
	// SchemaDRI identifies the schema namespace the document belongs to.
	SchemaDRI string
}

// Record is a stored document returned by queries.
type Record struct {
	DRI       string
	SchemaDRI string
	Content   []byte
}

// Store is the pluggable personal data store.
type Store interface {
	// Save persists the document and returns its DRI.
	Save(content []byte, meta Metadata) (string, error)
	// Load returns the document stored under dri.
	Load(dri string) ([]byte, error)
	// QueryBySchema returns all documents saved under the schema namespace.
	QueryBySchema(schemaDRI string) ([]Record, error)
	// Delete removes the document stored under dri.
	Delete(dri string) error
	// Ping reports whether the backing service responds.
	Ping() error
}

// Linkable is the optional capability of stores that can relate two stored
// documents. Callers check for it with a type assertion at wiring time.
type Linkable interface {
	Link(dri, targetDRI string) error
}

// EncodeDRI derives the document reference identifier for the content.
func EncodeDRI(content []byte) string {
	digest := sha256.Sum256(content)

	mh, err := multihash.Encode(digest[:], multihash.SHA2_256)
	if err != nil {
		// sha2-256 is a registered multihash code, Encode cannot fail on it.
		panic(err)
	}

	enc, err := multibase.Encode(multibase.Base58BTC, mh)
	if err != nil {
		panic(err)
	}

	return enc
}

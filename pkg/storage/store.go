/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package storage defines the record storage used for protocol state.
// Unlike the personal data store, records here are mutable and addressed
// by caller-chosen keys.
package storage

import "errors"

// ErrDataNotFound is returned when data is not found.
var ErrDataNotFound = errors.New("data not found")

// Provider is a storage provider.
type Provider interface {
	// OpenStore opens a store with the given namespace and returns the handle.
	OpenStore(name string) (Store, error)

	// Close closes all stores created under this provider.
	Close() error
}

// Store is the record storage interface.
type Store interface {
	// Put stores the record under the key.
	Put(k string, v []byte) error

	// Get fetches the record based on key.
	Get(k string) ([]byte, error)

	// Delete removes the record based on key.
	Delete(k string) error

	// Query returns all records whose key starts with the prefix.
	Query(prefix string) (map[string][]byte, error)
}

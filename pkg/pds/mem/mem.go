/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mem provides an in-memory personal data store, used as the
// default backend in tests and single-process agents.
package mem

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/pds-project/identity-agent-go/pkg/pds"
)

// Store is an in-memory pds.Store with link support.
type Store struct {
	mu       sync.RWMutex
	docs     map[string]record
	bySchema map[string][]string
	links    map[string][]string
}

type record struct {
	content   []byte
	schemaDRI string
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		docs:     make(map[string]record),
		bySchema: make(map[string][]string),
		links:    make(map[string][]string),
	}
}

// Save persists the document under its content-derived DRI. Saving the same
// content twice yields the same DRI.
func (s *Store) Save(content []byte, meta pds.Metadata) (string, error) {
	if len(content) == 0 {
		return "", errors.New("content is mandatory")
	}

	dri := pds.EncodeDRI(content)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[dri]; !exists {
		s.docs[dri] = record{content: append([]byte(nil), content...), schemaDRI: meta.SchemaDRI}
		if meta.SchemaDRI != "" {
			s.bySchema[meta.SchemaDRI] = append(s.bySchema[meta.SchemaDRI], dri)
		}
	}

	return dri, nil
}

// Load returns the document stored under dri.
func (s *Store) Load(dri string) ([]byte, error) {
	s.mu.RLock()
	rec, ok := s.docs[dri]
	s.mu.RUnlock()

	if !ok {
		return nil, errors.Wrap(pds.ErrDataNotFound, dri)
	}

	return append([]byte(nil), rec.content...), nil
}

// QueryBySchema returns all documents saved under the schema namespace.
func (s *Store) QueryBySchema(schemaDRI string) ([]pds.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dris := s.bySchema[schemaDRI]
	records := make([]pds.Record, 0, len(dris))

	for _, dri := range dris {
		rec, ok := s.docs[dri]
		if !ok {
			continue
		}

		records = append(records, pds.Record{
			DRI:       dri,
			SchemaDRI: rec.schemaDRI,
			Content:   append([]byte(nil), rec.content...),
		})
	}

	return records, nil
}

// Delete removes the document stored under dri.
func (s *Store) Delete(dri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.docs[dri]
	if !ok {
		return errors.Wrap(pds.ErrDataNotFound, dri)
	}

	delete(s.docs, dri)

	if rec.schemaDRI != "" {
		dris := s.bySchema[rec.schemaDRI]
		for i, d := range dris {
			if d == dri {
				s.bySchema[rec.schemaDRI] = append(dris[:i], dris[i+1:]...)
				break
			}
		}
	}

	return nil
}

// Ping always succeeds for the in-memory store.
func (s *Store) Ping() error {
	return nil
}

// Link relates two stored documents. Both ends must exist.
func (s *Store) Link(dri, targetDRI string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[dri]; !ok {
		return errors.Wrap(pds.ErrDataNotFound, dri)
	}

	if _, ok := s.docs[targetDRI]; !ok {
		return errors.Wrap(pds.ErrDataNotFound, targetDRI)
	}

	s.links[dri] = append(s.links[dri], targetDRI)

	return nil
}

// Links returns the DRIs linked from dri.
func (s *Store) Links(dri string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.links[dri]...)
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mem provides an in-memory implementation of the record storage.
package mem

import (
	"errors"
	"strings"
	"sync"

	"github.com/pds-project/identity-agent-go/pkg/storage"
)

// Provider is an in-memory implementation of the storage.Provider interface.
type Provider struct {
	dbs  map[string]*memStore
	lock sync.RWMutex
}

// NewProvider instantiates a Provider.
func NewProvider() *Provider {
	return &Provider{dbs: make(map[string]*memStore)}
}

// OpenStore opens and returns a store for the given namespace.
func (p *Provider) OpenStore(name string) (storage.Store, error) {
	if name == "" {
		return nil, errors.New("store name is mandatory")
	}

	store := p.getMemStore(name)
	if store == nil {
		return p.newMemStore(name), nil
	}

	return store, nil
}

func (p *Provider) getMemStore(name string) *memStore {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.dbs[strings.ToLower(name)]
}

func (p *Provider) newMemStore(name string) *memStore {
	p.lock.Lock()
	defer p.lock.Unlock()

	store := &memStore{db: make(map[string][]byte)}
	p.dbs[strings.ToLower(name)] = store

	return store
}

// Close closes all stores created under this store provider.
func (p *Provider) Close() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.dbs = make(map[string]*memStore)

	return nil
}

type memStore struct {
	db map[string][]byte
	sync.RWMutex
}

// Put stores the key and the record.
func (s *memStore) Put(k string, v []byte) error {
	if k == "" || v == nil {
		return errors.New("key and value are mandatory")
	}

	s.Lock()
	s.db[k] = v
	s.Unlock()

	return nil
}

// Get fetches the record based on key.
func (s *memStore) Get(k string) ([]byte, error) {
	if k == "" {
		return nil, errors.New("key is mandatory")
	}

	s.RLock()
	data, ok := s.db[k]
	s.RUnlock()

	if !ok {
		return nil, storage.ErrDataNotFound
	}

	return data, nil
}

// Delete removes the record based on key.
func (s *memStore) Delete(k string) error {
	if k == "" {
		return errors.New("key is mandatory")
	}

	s.Lock()
	delete(s.db, k)
	s.Unlock()

	return nil
}

// Query returns all records whose key starts with the prefix.
func (s *memStore) Query(prefix string) (map[string][]byte, error) {
	s.RLock()
	defer s.RUnlock()

	result := make(map[string][]byte)

	for k, v := range s.db {
		if strings.HasPrefix(k, prefix) {
			result[k] = v
		}
	}

	return result, nil
}

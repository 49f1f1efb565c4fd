/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/pds-project/identity-agent-go/pkg/storage"
)

const (
	namespace     = "presentproof"
	exKeyPrefix   = "ex"
	ctIndexPrefix = "ctidx"
	keySeparator  = "_"
)

// ErrExchangeNotFound signals that no exchange record resolves for the
// given identifier or (connection id, thread id) pair.
var ErrExchangeNotFound = errors.New("exchange record not found")

// ErrConcurrentUpdate signals that the record changed underneath an update.
var ErrConcurrentUpdate = errors.New("exchange record was modified concurrently")

// Store persists exchange records. Records are addressed by exchange id and
// indexed by (connection id, thread id); that pair resolves to at most one
// record for the lifetime of the exchange.
type Store struct {
	store   storage.Store
	cacheMu sync.RWMutex
	cache   map[string]string
}

// NewStore opens the exchange record store.
func NewStore(p storage.Provider) (*Store, error) {
	store, err := p.OpenStore(namespace)
	if err != nil {
		return nil, fmt.Errorf("open exchange store: %w", err)
	}

	return &Store{store: store, cache: make(map[string]string)}, nil
}

func exKey(exchangeID string) string {
	return exKeyPrefix + keySeparator + exchangeID
}

func ctKey(connectionID, threadID string) string {
	return ctIndexPrefix + keySeparator + connectionID + keySeparator + threadID
}

// Save persists a newly created exchange record. It fails when a record
// already exists for the record's (connection id, thread id) pair.
func (s *Store) Save(rec *Exchange) error {
	if rec.ExchangeID == "" || rec.ThreadID == "" {
		return errors.New("save exchange: exchange id and thread id are mandatory")
	}

	if _, err := s.store.Get(ctKey(rec.ConnectionID, rec.ThreadID)); err == nil {
		return fmt.Errorf("save exchange: record already exists for connection %s thread %s",
			rec.ConnectionID, rec.ThreadID)
	}

	rec.Version = 1

	if err := s.put(rec); err != nil {
		return err
	}

	return s.store.Put(ctKey(rec.ConnectionID, rec.ThreadID), []byte(rec.ExchangeID))
}

// Update persists a mutated exchange record. The stored version must match
// the version the mutation was based on; otherwise the record was updated
// concurrently and the caller must retry from a fresh read.
func (s *Store) Update(rec *Exchange) error {
	current, err := s.GetByID(rec.ExchangeID)
	if err != nil {
		return err
	}

	if current.Version != rec.Version {
		return ErrConcurrentUpdate
	}

	rec.Version++

	return s.put(rec)
}

func (s *Store) put(rec *Exchange) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal exchange: %w", err)
	}

	return s.store.Put(exKey(rec.ExchangeID), value)
}

// GetByID returns the exchange record with the given exchange id.
func (s *Store) GetByID(exchangeID string) (*Exchange, error) {
	value, err := s.store.Get(exKey(exchangeID))
	if err != nil {
		if errors.Is(err, storage.ErrDataNotFound) {
			return nil, fmt.Errorf("%w: id %s", ErrExchangeNotFound, exchangeID)
		}

		return nil, fmt.Errorf("get exchange: %w", err)
	}

	return unmarshalExchange(value)
}

// GetByConnectionAndThread returns the exchange record correlated with the
// (connection id, thread id) pair. Repeated calls with the same pair return
// the same record. A small in-memory cache fronts the index lookup; a cache
// miss falls through to the index silently.
func (s *Store) GetByConnectionAndThread(connectionID, threadID string) (*Exchange, error) {
	key := ctKey(connectionID, threadID)

	s.cacheMu.RLock()
	exchangeID, cached := s.cache[key]
	s.cacheMu.RUnlock()

	if !cached {
		value, err := s.store.Get(key)
		if err != nil {
			if errors.Is(err, storage.ErrDataNotFound) {
				return nil, fmt.Errorf("%w: connection %s thread %s",
					ErrExchangeNotFound, connectionID, threadID)
			}

			return nil, fmt.Errorf("get exchange by thread: %w", err)
		}

		exchangeID = string(value)

		s.cacheMu.Lock()
		s.cache[key] = exchangeID
		s.cacheMu.Unlock()
	}

	return s.GetByID(exchangeID)
}

// List returns all exchange records.
func (s *Store) List() ([]*Exchange, error) {
	values, err := s.store.Query(exKeyPrefix + keySeparator)
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}

	records := make([]*Exchange, 0, len(values))

	for _, value := range values {
		rec, err := unmarshalExchange(value)
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, nil
}

func unmarshalExchange(value []byte) (*Exchange, error) {
	var rec Exchange
	if err := json.Unmarshal(value, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal exchange: %w", err)
	}

	return &rec, nil
}

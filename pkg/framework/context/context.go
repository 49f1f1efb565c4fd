/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package context assembles an agent's collaborators into a framework
// Provider and exposes simple accessor methods to those same services.
package context

import (
	"errors"

	"github.com/pds-project/identity-agent-go/pkg/didcomm/protocol/presentproof"
	"github.com/pds-project/identity-agent-go/pkg/didcomm/service"
	"github.com/pds-project/identity-agent-go/pkg/holder"
	"github.com/pds-project/identity-agent-go/pkg/issuer"
	"github.com/pds-project/identity-agent-go/pkg/pds"
	memdoc "github.com/pds-project/identity-agent-go/pkg/pds/mem"
	"github.com/pds-project/identity-agent-go/pkg/storage"
	memstore "github.com/pds-project/identity-agent-go/pkg/storage/mem"
	"github.com/pds-project/identity-agent-go/pkg/verifier"
	"github.com/pds-project/identity-agent-go/pkg/wallet"
)

// Provider supplies the agent configuration to client objects.
type Provider struct {
	label           string
	wallet          *wallet.Wallet
	docStore        pds.Store
	storageProvider storage.Provider
	messenger       service.Messenger
	policyMatcher   presentproof.PolicyMatcher
	holder          *holder.Holder
	issuer          *issuer.Issuer
	verifier        *verifier.Verifier
}

// ProviderOption configures the provider.
type ProviderOption func(*Provider) error

// WithLabel sets the agent's display label.
func WithLabel(label string) ProviderOption {
	return func(p *Provider) error {
		p.label = label
		return nil
	}
}

// WithWallet sets the agent's key store.
func WithWallet(w *wallet.Wallet) ProviderOption {
	return func(p *Provider) error {
		p.wallet = w
		return nil
	}
}

// WithDocStore sets the personal data store backing document storage.
func WithDocStore(store pds.Store) ProviderOption {
	return func(p *Provider) error {
		p.docStore = store
		return nil
	}
}

// WithStorageProvider sets the provider backing protocol record storage.
func WithStorageProvider(sp storage.Provider) ProviderOption {
	return func(p *Provider) error {
		p.storageProvider = sp
		return nil
	}
}

// WithMessenger sets the outbound message transport.
func WithMessenger(m service.Messenger) ProviderOption {
	return func(p *Provider) error {
		p.messenger = m
		return nil
	}
}

// WithPolicyMatcher sets the usage policy matcher consulted in exchange
// listings.
func WithPolicyMatcher(pm presentproof.PolicyMatcher) ProviderOption {
	return func(p *Provider) error {
		p.policyMatcher = pm
		return nil
	}
}

// New instantiates a new context provider. A messenger is mandatory; the
// wallet and both stores default to in-memory implementations.
func New(opts ...ProviderOption) (*Provider, error) {
	p := &Provider{}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	if p.messenger == nil {
		return nil, errors.New("context provider: messenger is mandatory")
	}

	if p.wallet == nil {
		p.wallet = wallet.New()
	}

	if p.docStore == nil {
		p.docStore = memdoc.New()
	}

	if p.storageProvider == nil {
		p.storageProvider = memstore.NewProvider()
	}

	p.holder = holder.New(p.wallet, p.docStore)
	p.issuer = issuer.New(p.wallet)
	p.verifier = verifier.New(p.wallet)

	return p, nil
}

// Label returns the agent's display label.
func (p *Provider) Label() string {
	return p.label
}

// Wallet returns the agent's key store.
func (p *Provider) Wallet() *wallet.Wallet {
	return p.wallet
}

// DocStore returns the personal data store.
func (p *Provider) DocStore() pds.Store {
	return p.docStore
}

// StorageProvider returns the protocol record storage provider.
func (p *Provider) StorageProvider() storage.Provider {
	return p.storageProvider
}

// Messenger returns the outbound message transport.
func (p *Provider) Messenger() service.Messenger {
	return p.messenger
}

// PolicyMatcher returns the usage policy matcher, nil when unset.
func (p *Provider) PolicyMatcher() presentproof.PolicyMatcher {
	return p.policyMatcher
}

// Holder returns the agent's credential holder.
func (p *Provider) Holder() *holder.Holder {
	return p.holder
}

// Issuer returns the agent's credential issuer.
func (p *Provider) Issuer() *issuer.Issuer {
	return p.issuer
}

// Verifier returns the agent's presentation verifier.
func (p *Provider) Verifier() *verifier.Verifier {
	return p.verifier
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof

import (
	"encoding/json"
	"fmt"
)

// Filter narrows an exchange listing. Zero fields match everything.
type Filter struct {
	ConnectionID string
	ThreadID     string
	Initiator    string
	Role         string
	State        string
}

func (f *Filter) matches(rec *Exchange) bool {
	if f == nil {
		return true
	}

	match := func(want, got string) bool { return want == "" || want == got }

	return match(f.ConnectionID, rec.ConnectionID) &&
		match(f.ThreadID, rec.ThreadID) &&
		match(f.Initiator, rec.Initiator) &&
		match(f.Role, rec.Role) &&
		match(f.State, rec.State)
}

// ExchangeInfo is an exchange record decorated for listing: the stored
// presentation content, the advisory usage policy verdict and the DRIs of
// held credentials able to answer the record's request.
type ExchangeInfo struct {
	*Exchange
	Presentation        json.RawMessage `json:"presentation,omitempty"`
	UsagePoliciesMatch  *bool           `json:"usage_policies_match,omitempty"`
	MatchingCredentials []string        `json:"list_of_matching_credentials"`
}

// ListExchanges returns the exchange records passing the filter, decorated
// with their stored presentation, the policy matcher's verdict on the
// requester's usage policy and the matching held credentials. Decoration
// failures degrade to an undecorated record; they never fail the listing.
func (s *Service) ListExchanges(filter *Filter) ([]ExchangeInfo, error) {
	records, err := s.exchanges.List()
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}

	infos := make([]ExchangeInfo, 0, len(records))

	for _, rec := range records {
		if !filter.matches(rec) {
			continue
		}

		info := ExchangeInfo{Exchange: rec, MatchingCredentials: []string{}}

		if rec.PresentationDRI != "" {
			content, err := s.docs.Load(rec.PresentationDRI)
			if err != nil {
				logger.Warnf("loading presentation %s failed: %v", rec.PresentationDRI, err)
			} else {
				info.Presentation = content
			}
		}

		if s.policy != nil && rec.RequesterUsagePolicy != "" {
			ok, err := s.policy.Match(rec.RequesterUsagePolicy)
			if err != nil {
				logger.Warnf("usage policy match for exchange %s failed: %v", rec.ExchangeID, err)
			} else {
				info.UsagePoliciesMatch = &ok
			}
		}

		if rec.PresentationRequest != nil {
			dris, err := s.holder.MatchingCredentials(rec.PresentationRequest)
			if err != nil {
				logger.Warnf("matching credentials for exchange %s failed: %v", rec.ExchangeID, err)
			} else if dris != nil {
				info.MatchingCredentials = dris
			}
		}

		infos = append(infos, info)
	}

	return infos, nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package presentproof implements the presentation exchange protocol: a
// verifier requests proof of attributes, a prover answers with a signed
// credential presentation (or a denial), and the verifier closes the
// exchange with an acknowledgment credential.
package presentproof

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pds-project/identity-agent-go/pkg/common/log"
	"github.com/pds-project/identity-agent-go/pkg/didcomm/service"
	"github.com/pds-project/identity-agent-go/pkg/doc/credential"
	"github.com/pds-project/identity-agent-go/pkg/holder"
	"github.com/pds-project/identity-agent-go/pkg/issuer"
	"github.com/pds-project/identity-agent-go/pkg/pds"
	"github.com/pds-project/identity-agent-go/pkg/storage"
	"github.com/pds-project/identity-agent-go/pkg/verifier"
)

var logger = log.New("identity-agent/presentproof")

// PDS schema namespaces for documents produced by the exchange.
const (
	PresentationsNamespace   = "presentation_given"
	AcknowledgmentsNamespace = "ack"
)

// AckCredentialType is the credential type of the acknowledgment credential
// minted for the prover when a presentation is accepted.
const AckCredentialType = "ProofAcknowledgment"

// ackSchemaDRI identifies the overlay schema of the acknowledgment
// credential's subject data.
const ackSchemaDRI = "dL37iDvZBXE4Jj8G94CcFYU48T6Nk3Ak1usjSgnPE8K1"

// PolicyMatcher reports whether a requester's usage policy is compatible
// with this agent's. The predicate is advisory; it decorates exchange
// listings and never blocks a protocol transition.
type PolicyMatcher interface {
	Match(requesterUsagePolicy string) (bool, error)
}

// Provider supplies the collaborators the service depends on.
type Provider interface {
	Messenger() service.Messenger
	DocStore() pds.Store
	StorageProvider() storage.Provider
	Holder() *holder.Holder
	Issuer() *issuer.Issuer
	Verifier() *verifier.Verifier
	Label() string
	PolicyMatcher() PolicyMatcher
}

// Service runs the presentation exchange protocol for one agent, in both
// the prover and the verifier role.
type Service struct {
	messenger service.Messenger
	docs      pds.Store
	exchanges *Store
	holder    *holder.Holder
	issuer    *issuer.Issuer
	verifier  *verifier.Verifier
	label     string
	policy    PolicyMatcher
}

// New returns a presentation exchange service over the provider.
func New(p Provider) (*Service, error) {
	exchanges, err := NewStore(p.StorageProvider())
	if err != nil {
		return nil, fmt.Errorf("presentproof service: %w", err)
	}

	return &Service{
		messenger: p.Messenger(),
		docs:      p.DocStore(),
		exchanges: exchanges,
		holder:    p.Holder(),
		issuer:    p.Issuer(),
		verifier:  p.Verifier(),
		label:     p.Label(),
		policy:    p.PolicyMatcher(),
	}, nil
}

// Exchanges exposes the exchange record store.
func (s *Service) Exchanges() *Store {
	return s.exchanges
}

// SendRequestProof starts an exchange in the verifier role: the request is
// sent to the peer and a request_sent record is created. usagePolicy, when
// non-empty, travels with the request so the prover can evaluate it.
func (s *Service) SendRequestProof(connectionID string,
	request *credential.PresentationRequest, usagePolicy string) (*Exchange, error) {
	if err := credential.ValidateRequest(request); err != nil {
		return nil, fmt.Errorf("send request proof: %w", err)
	}

	msg := RequestProofMsg{
		Type:                RequestProofMsgType,
		ID:                  uuid.New().String(),
		PresentationRequest: request,
		UsagePolicy:         usagePolicy,
	}

	if err := s.messenger.Send(service.NewMsgMap(msg), connectionID); err != nil {
		return nil, fmt.Errorf("send request proof: %w", err)
	}

	rec := &Exchange{
		ExchangeID:          uuid.New().String(),
		ConnectionID:        connectionID,
		ThreadID:            msg.ID,
		Initiator:           InitiatorSelf,
		Role:                RoleVerifier,
		State:               StateRequestSent,
		PresentationRequest: request,
	}

	if err := s.exchanges.Save(rec); err != nil {
		return nil, fmt.Errorf("send request proof: %w", err)
	}

	logger.Debugf("request proof sent, exchange %s thread %s", rec.ExchangeID, rec.ThreadID)

	return rec, nil
}

// HandleRequestProof processes an inbound request-proof message and creates
// a request_received record in the prover role. A second request on the
// same thread is rejected.
func (s *Service) HandleRequestProof(connectionID string, msg service.MsgMap) (*Exchange, error) {
	var request RequestProofMsg
	if err := msg.Decode(&request); err != nil {
		return nil, newHandlerError("handle request proof: %v", err)
	}

	thid, err := msg.ThreadID()
	if err != nil {
		return nil, newHandlerError("handle request proof: %v", err)
	}

	if err := credential.ValidateRequest(request.PresentationRequest); err != nil {
		return nil, newHandlerError("handle request proof: %v", err)
	}

	rec := &Exchange{
		ExchangeID:           uuid.New().String(),
		ConnectionID:         connectionID,
		ThreadID:             thid,
		Initiator:            InitiatorExternal,
		Role:                 RoleProver,
		State:                StateRequestReceived,
		PresentationRequest:  request.PresentationRequest,
		RequesterUsagePolicy: request.UsagePolicy,
	}

	if err := s.exchanges.Save(rec); err != nil {
		return nil, newHandlerError("handle request proof: %v", err)
	}

	logger.Infof("request proof received, exchange %s", rec.ExchangeID)

	return rec, nil
}

// AcceptRequest answers a received request in the prover role: the
// referenced stored credentials are bundled into a signed presentation,
// sent to the verifier and saved to the document store.
func (s *Service) AcceptRequest(exchangeID string, credentialDRIs []string) (*Exchange, error) {
	rec, err := s.exchanges.GetByID(exchangeID)
	if err != nil {
		return nil, asHandlerError(err)
	}

	if err := rec.requireRoleAndState(RoleProver, StateRequestReceived); err != nil {
		return nil, err
	}

	presentation, err := s.holder.CreatePresentation(rec.PresentationRequest, credentialDRIs)
	if err != nil {
		return nil, fmt.Errorf("accept request: %w", err)
	}

	content, err := json.Marshal(presentation)
	if err != nil {
		return nil, fmt.Errorf("accept request: %w", err)
	}

	msg := PresentProofMsg{
		Type:                   PresentProofMsgType,
		ID:                     uuid.New().String(),
		CredentialPresentation: string(content),
	}

	if did, _, ok := s.issuer.PublicDID(); ok {
		msg.ProverPublicDID = did
	}

	wire := service.NewMsgMap(msg)
	wire.SetThreadID(rec.ThreadID)

	if err := s.messenger.Send(wire, rec.ConnectionID); err != nil {
		return nil, fmt.Errorf("accept request: %w", err)
	}

	dri, err := s.docs.Save(content, pds.Metadata{SchemaDRI: PresentationsNamespace})
	if err != nil {
		return nil, fmt.Errorf("accept request: %w", err)
	}

	rec.PresentationDRI = dri
	rec.State = StatePresentationSent

	if err := s.exchanges.Update(rec); err != nil {
		return nil, fmt.Errorf("accept request: %w", err)
	}

	return rec, nil
}

// RejectRequest denies a received request in the prover role: a
// present-proof message without a presentation is sent back.
func (s *Service) RejectRequest(exchangeID string) (*Exchange, error) {
	rec, err := s.exchanges.GetByID(exchangeID)
	if err != nil {
		return nil, asHandlerError(err)
	}

	if err := rec.requireRoleAndState(RoleProver, StateRequestReceived); err != nil {
		return nil, err
	}

	msg := PresentProofMsg{Type: PresentProofMsgType, ID: uuid.New().String()}

	wire := service.NewMsgMap(msg)
	wire.SetThreadID(rec.ThreadID)

	if err := s.messenger.Send(wire, rec.ConnectionID); err != nil {
		return nil, fmt.Errorf("reject request: %w", err)
	}

	rec.State = StateRequestDenied

	if err := s.exchanges.Update(rec); err != nil {
		return nil, fmt.Errorf("reject request: %w", err)
	}

	return rec, nil
}

// HandlePresentProof processes an inbound present-proof message in the
// verifier role. A missing presentation records the prover's denial. A
// presentation that does not verify aborts the handler without touching
// the record; a verified presentation is saved to the document store and
// the exchange moves to presentation_received.
func (s *Service) HandlePresentProof(connectionID string, msg service.MsgMap) (*Exchange, error) {
	thid, err := msg.ThreadID()
	if err != nil {
		return nil, newHandlerError("handle present proof: %v", err)
	}

	rec, err := s.exchanges.GetByConnectionAndThread(connectionID, thid)
	if err != nil {
		return nil, asHandlerError(err)
	}

	if err := rec.requireRoleAndState(RoleVerifier, StateRequestSent); err != nil {
		return nil, err
	}

	var present PresentProofMsg
	if err := msg.Decode(&present); err != nil {
		return nil, newHandlerError("handle present proof: %v", err)
	}

	if present.CredentialPresentation == "" {
		rec.State = StateRequestDenied

		if err := s.exchanges.Update(rec); err != nil {
			return nil, fmt.Errorf("handle present proof: %w", err)
		}

		logger.Infof("proof request denied by prover, exchange %s", rec.ExchangeID)

		return rec, nil
	}

	content := []byte(present.CredentialPresentation)

	presentation, err := credential.ParsePresentation(content)
	if err != nil {
		return nil, newHandlerError("handle present proof: %v", err)
	}

	if !s.verifier.VerifyPresentation(rec.PresentationRequest, presentation) {
		return nil, newHandlerError("presentation could not be verified")
	}

	dri, err := s.docs.Save(content, pds.Metadata{SchemaDRI: PresentationsNamespace})
	if err != nil {
		return nil, fmt.Errorf("handle present proof: %w", err)
	}

	rec.PresentationDRI = dri
	rec.ProverPublicDID = present.ProverPublicDID
	rec.Verified = VerifiedTrue
	rec.State = StatePresentationReceived

	if err := s.exchanges.Update(rec); err != nil {
		return nil, fmt.Errorf("handle present proof: %w", err)
	}

	logger.Infof("presentation received and verified, exchange %s", rec.ExchangeID)

	return rec, nil
}

// AcceptPresentation closes the exchange in the verifier role: an
// acknowledgment credential referencing the presentation is minted for the
// prover, sent, saved to the document store and linked to the presentation
// when the store supports linking. issuerName defaults to the agent label.
func (s *Service) AcceptPresentation(exchangeID, personID, issuerName string) (*Exchange, error) {
	rec, err := s.exchanges.GetByID(exchangeID)
	if err != nil {
		return nil, asHandlerError(err)
	}

	if err := rec.requireRoleAndState(RoleVerifier, StatePresentationReceived); err != nil {
		return nil, err
	}

	if issuerName == "" {
		issuerName = s.label
	}

	values := map[string]interface{}{
		"oca_data": map[string]interface{}{
			"verified":         rec.Verified,
			"presentation_dri": rec.PresentationDRI,
			"person_id":        personID,
			"issuer_name":      issuerName,
		},
		"oca_schema_dri": ackSchemaDRI,
	}

	ackCred, err := s.issuer.CreateCredential(values, []string{AckCredentialType}, rec.ProverPublicDID)
	if err != nil {
		return nil, fmt.Errorf("accept presentation: %w", err)
	}

	content, err := json.Marshal(ackCred)
	if err != nil {
		return nil, fmt.Errorf("accept presentation: %w", err)
	}

	msg := AcknowledgeProofMsg{
		Type:       AcknowledgeProofMsgType,
		ID:         uuid.New().String(),
		Status:     true,
		Credential: string(content),
	}

	wire := service.NewMsgMap(msg)
	wire.SetThreadID(rec.ThreadID)

	if err := s.messenger.Send(wire, rec.ConnectionID); err != nil {
		return nil, fmt.Errorf("accept presentation: %w", err)
	}

	ackDRI, err := s.docs.Save(content, pds.Metadata{SchemaDRI: AcknowledgmentsNamespace})
	if err != nil {
		return nil, fmt.Errorf("accept presentation: %w", err)
	}

	if linkable, ok := s.docs.(pds.Linkable); ok {
		if err := linkable.Link(rec.PresentationDRI, ackDRI); err != nil {
			logger.Warnf("linking presentation %s to acknowledgment %s failed: %v",
				rec.PresentationDRI, ackDRI, err)
		}
	}

	rec.AcknowledgmentCredentialDRI = ackDRI
	rec.State = StateAcknowledged

	if err := s.exchanges.Update(rec); err != nil {
		return nil, fmt.Errorf("accept presentation: %w", err)
	}

	return rec, nil
}

// RejectPresentation closes the exchange in the verifier role without
// acknowledging the presentation.
func (s *Service) RejectPresentation(exchangeID string) (*Exchange, error) {
	rec, err := s.exchanges.GetByID(exchangeID)
	if err != nil {
		return nil, asHandlerError(err)
	}

	if err := rec.requireRoleAndState(RoleVerifier, StatePresentationReceived); err != nil {
		return nil, err
	}

	msg := AcknowledgeProofMsg{
		Type:   AcknowledgeProofMsgType,
		ID:     uuid.New().String(),
		Status: false,
	}

	wire := service.NewMsgMap(msg)
	wire.SetThreadID(rec.ThreadID)

	if err := s.messenger.Send(wire, rec.ConnectionID); err != nil {
		return nil, fmt.Errorf("reject presentation: %w", err)
	}

	rec.Verified = VerifiedFalse
	rec.State = StateRejected

	if err := s.exchanges.Update(rec); err != nil {
		return nil, fmt.Errorf("reject presentation: %w", err)
	}

	return rec, nil
}

// HandleAcknowledgeProof processes an inbound acknowledge-proof message in
// the prover role. On a positive acknowledgment the delivered credential is
// stored with the holder and the exchange completes as presentation_acked;
// otherwise it closes as rejected.
func (s *Service) HandleAcknowledgeProof(connectionID string, msg service.MsgMap) (*Exchange, error) {
	thid, err := msg.ThreadID()
	if err != nil {
		return nil, newHandlerError("handle acknowledge proof: %v", err)
	}

	rec, err := s.exchanges.GetByConnectionAndThread(connectionID, thid)
	if err != nil {
		return nil, asHandlerError(err)
	}

	if err := rec.requireRoleAndState(RoleProver, StatePresentationSent); err != nil {
		return nil, err
	}

	var ack AcknowledgeProofMsg
	if err := msg.Decode(&ack); err != nil {
		return nil, newHandlerError("handle acknowledge proof: %v", err)
	}

	if !ack.Status {
		rec.Verified = VerifiedFalse
		rec.State = StateRejected

		if err := s.exchanges.Update(rec); err != nil {
			return nil, fmt.Errorf("handle acknowledge proof: %w", err)
		}

		return rec, nil
	}

	dri, err := s.holder.StoreCredential([]byte(ack.Credential))
	if err != nil {
		return nil, newHandlerError("handle acknowledge proof: %v", err)
	}

	rec.AcknowledgmentCredentialDRI = dri
	rec.Verified = VerifiedTrue
	rec.State = StatePresentationAcked

	if err := s.exchanges.Update(rec); err != nil {
		return nil, fmt.Errorf("handle acknowledge proof: %w", err)
	}

	logger.Infof("proof acknowledged, exchange %s", rec.ExchangeID)

	return rec, nil
}

// HandleInbound dispatches an inbound wire message to its handler by
// message type.
func (s *Service) HandleInbound(connectionID string, msg service.MsgMap) (*Exchange, error) {
	switch msg.Type() {
	case RequestProofMsgType:
		return s.HandleRequestProof(connectionID, msg)
	case PresentProofMsgType:
		return s.HandlePresentProof(connectionID, msg)
	case AcknowledgeProofMsgType:
		return s.HandleAcknowledgeProof(connectionID, msg)
	default:
		return nil, newHandlerError("unsupported message type %s", msg.Type())
	}
}

// Accept reports whether the service handles the message type.
func (s *Service) Accept(msgType string) bool {
	switch msgType {
	case RequestProofMsgType, PresentProofMsgType, AcknowledgeProofMsgType:
		return true
	}

	return false
}

// asHandlerError converts a failed exchange lookup into a protocol
// precondition violation; other storage faults pass through unchanged.
func asHandlerError(err error) error {
	if errors.Is(err, ErrExchangeNotFound) {
		return newHandlerError("%v", err)
	}

	return err
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package service holds the messaging primitives shared by protocol
// implementations: the generic wire message map and the outbound messenger
// collaborator.
package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

const (
	jsonIDKey    = "@id"
	jsonTypeKey  = "@type"
	jsonThread   = "~thread"
	jsonThreadID = "thid"
)

// ErrThreadIDNotFound is returned when a message carries no thread
// correlation at all.
var ErrThreadIDNotFound = errors.New("threadID not found")

// ErrInvalidMessage is returned when a wire payload is not a message map.
var ErrInvalidMessage = errors.New("invalid message")

// MsgMap is a wire message in generic map form.
type MsgMap map[string]interface{}

// NewMsgMap converts a typed message into its generic map form.
func NewMsgMap(v interface{}) MsgMap {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}

	var msg MsgMap
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil
	}

	return msg
}

// ParseMsgMap decodes a wire payload into a message map.
func ParseMsgMap(payload []byte) (MsgMap, error) {
	var msg MsgMap
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	return msg, nil
}

// ID returns the message id.
func (m MsgMap) ID() string {
	id, _ := m[jsonIDKey].(string)
	return id
}

// Type returns the message type.
func (m MsgMap) Type() string {
	t, _ := m[jsonTypeKey].(string)
	return t
}

// ThreadID returns the thread id correlating all messages of one exchange:
// the ~thread.thid decorator when present, otherwise the message id of the
// thread-opening message.
func (m MsgMap) ThreadID() (string, error) {
	if thread, ok := m[jsonThread].(map[string]interface{}); ok {
		if thid, ok := thread[jsonThreadID].(string); ok && thid != "" {
			return thid, nil
		}
	}

	if id := m.ID(); id != "" {
		return id, nil
	}

	return "", ErrThreadIDNotFound
}

// SetThreadID assigns the ~thread.thid decorator.
func (m MsgMap) SetThreadID(thid string) {
	m[jsonThread] = map[string]interface{}{jsonThreadID: thid}
}

// Decode converts the message map into a typed message.
func (m MsgMap) Decode(v interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           v,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(map[string]interface{}(m))
}

// Messenger delivers a message to the peer behind a connection. Transport,
// packing and peer discovery are collaborator concerns.
type Messenger interface {
	Send(msg MsgMap, connectionID string) error
}

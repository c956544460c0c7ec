package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	// Client to Server
	MessageTypeSubscribe   MessageType = "SUBSCRIBE"
	MessageTypeUnsubscribe MessageType = "UNSUBSCRIBE"

	// Server to Client
	MessageTypeSubscribed   MessageType = "SUBSCRIBED"
	MessageTypeScopeChanged MessageType = "SCOPE_CHANGED"
	MessageTypeError        MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type ScopePayload struct {
	Scope string `json:"scope"`
}

// Server to Client payloads

// ScopeChangedPayload tells subscribers to refetch a scope. Revision is 0
// when the hub is fed without a revision store.
type ScopeChangedPayload struct {
	Scope    string `json:"scope"`
	Revision int64  `json:"revision"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

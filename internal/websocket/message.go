package websocket

import (
	"encoding/json"
	"time"

	"github.com/abarros/contact-sync/internal/domain"
)

type MessageType string

const (
	// Client to Server
	MessageTypeSubscribe MessageType = "SUBSCRIBE"

	// Server to Client
	MessageTypeSnapshot MessageType = "SNAPSHOT"
	MessageTypeError    MessageType = "ERROR"
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

// Server to Client payloads

// SnapshotPayload carries the complete contact set for the subscriber's
// owner filter. Order is unspecified; clients sort for display.
type SnapshotPayload struct {
	Contacts []domain.Contact `json:"contacts"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

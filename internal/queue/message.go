package queue

import (
	"context"
	"encoding/json"
)

// MessageVersion is the current payload version.
const MessageVersion = 1

// Client hands scan jobs to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Message asks the worker to run a queued firm scan. ScanID names the audit
// log row created when the scan was enqueued.
type Message struct {
	ScanID     string `json:"scanId"`
	FirmID     string `json:"firmId"`
	RequestID  string `json:"requestId,omitempty"`
	EnqueuedAt string `json:"enqueuedAt"`
	Version    int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

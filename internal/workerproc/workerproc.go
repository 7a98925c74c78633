// Package workerproc consumes queued firm scans from SQS.
package workerproc

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"legal-file-auditor/internal/queue"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrMissingID indicates a message without a scan or firm id.
type ErrMissingID struct {
	Meta      MessageMeta
	Field     string
	RequestID string
}

func (e ErrMissingID) Error() string { return "missing " + e.Field }

// ErrProcess indicates the scan failed after the message parsed.
type ErrProcess struct {
	ScanID    string
	FirmID    string
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process scan"
	}
	return "process scan: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.ScanID) == "" {
		return msg, meta, ErrMissingID{Meta: meta, Field: "scanId", RequestID: msg.RequestID}
	}
	if strings.TrimSpace(msg.FirmID) == "" {
		return msg, meta, ErrMissingID{Meta: meta, Field: "firmId", RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

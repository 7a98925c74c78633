package queue

import (
	"strings"
	"testing"
)

func TestEncodeMessageFieldNames(t *testing.T) {
	payload, err := EncodeMessage(Message{
		ScanID:     "scan-1",
		FirmID:     "firm-1",
		EnqueuedAt: "2026-03-01T02:00:00Z",
		Version:    MessageVersion,
	})
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}
	body := string(payload)
	for _, want := range []string{`"scanId":"scan-1"`, `"firmId":"firm-1"`, `"version":1`} {
		if !strings.Contains(body, want) {
			t.Fatalf("payload %s missing %s", body, want)
		}
	}
	if strings.Contains(body, "requestId") {
		t.Fatalf("expected empty requestId to be omitted: %s", body)
	}
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	if _, err := DecodeMessage([]byte("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

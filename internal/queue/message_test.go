package queue

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestNewMessageRoundTrip(t *testing.T) {
	msg := NewMessage("doc-123", "user-1", "request-456", time.Date(2026, 1, 30, 22, 0, 0, 0, time.FixedZone("IST", 19800)))
	if msg.EnqueuedAt != "2026-01-30T16:30:00Z" || msg.Version != MessageVersion {
		t.Fatalf("unexpected message %+v", msg)
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}
	var wire map[string]any
	if err := json.Unmarshal(payload, &wire); err != nil {
		t.Fatalf("unmarshal wire: %v", err)
	}
	if wire["documentId"] != "doc-123" || wire["userId"] != "user-1" {
		t.Fatalf("unexpected wire keys %v", wire)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if !reflect.DeepEqual(got, msg) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	if _, err := DecodeMessage([]byte("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

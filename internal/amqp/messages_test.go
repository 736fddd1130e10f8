package amqp

import (
	"strings"
	"testing"
	"time"
)

func TestChangeMessageRoundTrip(t *testing.T) {
	msg := NewChangeMessage("budget", "created", 42, "2024-06")
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := ChangeMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Entity != "budget" || got.Action != "created" || got.ID != 42 || got.Month != "2024-06" {
		t.Fatalf("got %+v", got)
	}
	if got.Timestamp.IsZero() || time.Since(got.Timestamp) > time.Minute {
		t.Fatalf("timestamp = %v", got.Timestamp)
	}
}

func TestChangeMessageOmitsEmptyMonth(t *testing.T) {
	msg := NewChangeMessage("transaction", "deleted", 7, "")
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(body), `"month"`) {
		t.Fatalf("body = %s", body)
	}
}

func TestChangeMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := ChangeMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}
}

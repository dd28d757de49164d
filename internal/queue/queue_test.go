package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	evt := CheckInEvent{ID: "abc", Name: "Alice", Timestamp: time.Now(), Status: "present"}
	msg, err := NewCheckInMessage(evt)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if err := q.Publish(ctx, msg); err != nil {
		t.Fatalf("publish: %v", err)
	}

	out, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	select {
	case got := <-out:
		if got.Type != "checkin" {
			t.Errorf("expected type checkin, got %q", got.Type)
		}
		var decoded CheckInEvent
		if err := json.Unmarshal(got.Body, &decoded); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if decoded.Name != "Alice" {
			t.Errorf("expected Alice, got %q", decoded.Name)
		}
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	msg := Message{Type: "checkin", Body: []byte(`{"name":"Bob|Jr"}`)}
	got, err := deserialize(serialize(msg))
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if got.Type != msg.Type || string(got.Body) != string(msg.Body) {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

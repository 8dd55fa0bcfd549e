package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewEvent(t *testing.T) {
	event := NewEvent(SubmissionUploaded, &SubmissionEvent{SubmissionID: 7, Email: "s@example.com"})

	if event.ID == "" {
		t.Error("expected a generated ID")
	}
	if event.Type != SubmissionUploaded {
		t.Errorf("unexpected type %q", event.Type)
	}
	if event.Source != Source {
		t.Errorf("unexpected source %q", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("unexpected version %q", event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}
}

func TestMockEventPublisher(t *testing.T) {
	publisher := NewMockEventPublisher(testLogger())
	ctx := context.Background()

	if err := publisher.Publish(ctx, NewEvent(SubmissionFlagged, nil)); err != nil {
		t.Fatal(err)
	}
	if err := publisher.Publish(ctx, NewEvent(SubmissionDeleted, nil)); err != nil {
		t.Fatal(err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 2 {
		t.Fatalf("expected 2 events, got %d", len(published))
	}
	if published[0].Type != SubmissionFlagged || published[1].Type != SubmissionDeleted {
		t.Errorf("unexpected event order: %s, %s", published[0].Type, published[1].Type)
	}

	publisher.ClearEvents()
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Error("expected no events after clear")
	}
}

func TestMockEventPublisher_FailNext(t *testing.T) {
	publisher := NewMockEventPublisher(testLogger())
	publisher.FailNext = errors.New("broker unavailable")

	if err := publisher.Publish(context.Background(), NewEvent(UserRegistered, nil)); err == nil {
		t.Fatal("expected the injected failure")
	}
	// The failure is consumed; the next publish succeeds.
	if err := publisher.Publish(context.Background(), NewEvent(UserRegistered, nil)); err != nil {
		t.Fatalf("expected success after consumed failure, got %v", err)
	}
}

func TestGoChannelEventPublisher_RoundTrip(t *testing.T) {
	publisher := NewGoChannelEventPublisher("test-events", testLogger())
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := publisher.Subscribe(ctx)
	if err != nil {
		t.Fatal(err)
	}

	sent := NewEvent(PasswordRecovered, &UserEvent{Email: "u@example.com", Role: "student"})
	if err := publisher.Publish(ctx, sent); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-messages:
		msg.Ack()
		if msg.UUID != sent.ID {
			t.Errorf("message UUID %q does not match event ID %q", msg.UUID, sent.ID)
		}
		if got := msg.Metadata.Get("event_type"); got != PasswordRecovered {
			t.Errorf("unexpected event_type metadata %q", got)
		}
		var received Event
		if err := json.Unmarshal(msg.Payload, &received); err != nil {
			t.Fatalf("payload is not a valid event: %v", err)
		}
		if received.Type != PasswordRecovered || received.Source != Source {
			t.Errorf("unexpected envelope: %+v", received)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for the event")
	}
}

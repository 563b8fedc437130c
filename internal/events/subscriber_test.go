package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestDispatchDecodesEnvelope(t *testing.T) {
	var got Event
	sub := NewSubscriber(nil, SubscriberConfig{
		Stream: AccountEventsStream,
		Group:  "test",
		Handler: func(ctx context.Context, event Event) error {
			got = event
			return nil
		},
	})

	event := Event{
		Type:      BalanceUpdated,
		Timestamp: time.Now().UTC(),
		Data:      BalanceUpdatedEvent{AccountID: 7, NewBalance: 700, Change: -300},
	}
	raw, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	message := redis.XMessage{
		ID:     "1-0",
		Values: map[string]any{"event": string(raw)},
	}
	if err := sub.dispatch(context.Background(), message); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if got.Type != BalanceUpdated {
		t.Errorf("expected %s, got %s", BalanceUpdated, got.Type)
	}

	var payload BalanceUpdatedEvent
	if err := DecodeData(got, &payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload.AccountID != 7 || payload.NewBalance != 700 {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestDispatchRejectsMalformedMessages(t *testing.T) {
	sub := NewSubscriber(nil, SubscriberConfig{
		Stream:  AccountEventsStream,
		Group:   "test",
		Handler: func(ctx context.Context, event Event) error { return nil },
	})

	noPayload := redis.XMessage{ID: "1-0", Values: map[string]any{}}
	if err := sub.dispatch(context.Background(), noPayload); err == nil {
		t.Error("message without an event payload should fail")
	}

	badJSON := redis.XMessage{ID: "2-0", Values: map[string]any{"event": "{"}}
	if err := sub.dispatch(context.Background(), badJSON); err == nil {
		t.Error("undecodable payload should fail")
	}
}

// Package kafka publishes audit events to a Kafka topic. Events are keyed by
// case ID so a case's trail stays ordered within one partition.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "verifyflow/pkg/platform/audit"
)

// Producer is the slice of *kgo.Client the store needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Store implements audit.Store by synchronously producing each event.
type Store struct {
	producer Producer
	topic    string
}

// New creates a Kafka audit store. An empty topic uses the client's
// default produce topic.
func New(producer Producer, topic string) *Store {
	return &Store{producer: producer, topic: topic}
}

// Append produces the event and waits for the broker acknowledgement.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(partitionKey(event)),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(event.Action)},
			{Key: "category", Value: []byte(event.Category)},
		},
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

func partitionKey(e audit.Event) string {
	if e.CaseID != "" {
		return e.CaseID
	}
	if !e.UserID.IsNil() {
		return e.UserID.String()
	}
	return e.ID
}

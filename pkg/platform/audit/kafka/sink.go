// Package kafka ships audit events to a Kafka topic for downstream
// compliance and ops consumers.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"chorale/pkg/domain"
	audit "chorale/pkg/platform/audit"
)

// Sink publishes audit events to a Kafka topic, keyed by organization ID so
// one organization's trail stays ordered within a partition.
type Sink struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// New connects to the given brokers and ensures the audit topic exists.
func New(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*Sink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	if err := ensureTopic(ctx, client, topic); err != nil {
		client.Close()
		return nil, err
	}
	return &Sink{client: client, topic: topic, logger: logger}, nil
}

func ensureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopic(ctx, 3, 1, nil, topic)
	if err != nil {
		return fmt.Errorf("ensure topic %q: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("ensure topic %q: %w", topic, resp.Err)
	}
	return nil
}

// Append serializes the event and produces it asynchronously. Delivery
// failures are logged; the audit trail over Kafka is best-effort and must not
// fail the emitting operation.
func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.OrganizationID.String()),
		Value: payload,
	}
	s.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			s.logger.Error("audit produce failed", "action", event.Action, "error", err)
		}
	})
	return nil
}

// ListByOrganization is not supported over Kafka; reads belong to downstream
// consumers. Satisfies the publisher.Store interface with an empty result.
func (s *Sink) ListByOrganization(context.Context, domain.OrganizationID) ([]audit.Event, error) {
	return nil, nil
}

// Close flushes buffered records and releases the client.
func (s *Sink) Close() {
	if err := s.client.Flush(context.Background()); err != nil {
		s.logger.Warn("kafka flush on close", "error", err)
	}
	s.client.Close()
}

package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/deepfakebank/transfer-authorization/internal/models"
)

// StateChangeEvent is emitted on every pipeline state transition, keyed by the
// source account so per-account ordering is preserved.
type StateChangeEvent struct {
	AccountID       string                    `json:"account_id"`
	TransactionCode string                    `json:"transaction_code,omitempty"`
	PreviousState   models.AuthorizationState `json:"previous_state"`
	State           models.AuthorizationState `json:"state"`
	Timestamp       time.Time                 `json:"timestamp"`
}

// Publisher is best-effort: the pipeline logs failures and proceeds, the
// event stream never gates an authorization outcome.
type Publisher interface {
	PublishStateChange(ctx context.Context, event StateChangeEvent) error
}

// KafkaPublisher writes state changes to the transfer.state.changed topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers),
			Topic:    "transfer.state.changed",
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) PublishStateChange(ctx context.Context, event StateChangeEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AccountID),
		Value: value,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events; used in tests and broker-less deployments.
type NopPublisher struct{}

func (NopPublisher) PublishStateChange(ctx context.Context, event StateChangeEvent) error {
	return nil
}

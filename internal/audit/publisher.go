package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MonkyMars/mamabloemetjes-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const mismatchTopic = "price-mismatch-audit"

// MessageWriter is the slice of kafka.Writer the publisher needs; tests
// inject a recording fake.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher emits an audit event whenever the pricing authority rejects a
// cart's expected prices. A mismatch either means stale client state or a
// tampered cart, so the trail is kept outside the request path.
type Publisher struct {
	writer MessageWriter
	logger *zap.Logger
}

func NewPublisher(brokers []string, logger *zap.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  mismatchTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, logger: logger}
}

// NewPublisherWithWriter is used by tests.
func NewPublisherWithWriter(w MessageWriter, logger *zap.Logger) *Publisher {
	return &Publisher{writer: w, logger: logger}
}

// MismatchEvent is the audit payload.
type MismatchEvent struct {
	EventID            string                      `json:"event_id"`
	UserID             string                      `json:"user_id"`
	MismatchedItems    []domain.ValidatedPriceItem `json:"mismatched_items"`
	TotalExpectedCents int64                       `json:"total_expected_cents"`
	TotalActualCents   int64                       `json:"total_actual_cents"`
	OccurredAt         time.Time                   `json:"occurred_at"`
}

// PublishMismatch writes one event per rejected validation. Valid responses
// are ignored.
func (p *Publisher) PublishMismatch(ctx context.Context, userID string, resp *domain.PriceValidationResponse) error {
	if resp == nil || resp.IsValid {
		return nil
	}

	event := MismatchEvent{
		EventID:          uuid.NewString(),
		UserID:           userID,
		MismatchedItems:  resp.MismatchedItems(),
		TotalActualCents: resp.TotalDiscountedPriceCents,
		OccurredAt:       time.Now().UTC(),
	}
	for _, it := range resp.Items {
		// What the client expected to pay is not in the response; the closest
		// audit figure is the authority's original price sum.
		event.TotalExpectedCents += it.OriginalUnitPriceCents * int64(it.Quantity)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal mismatch event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(userID), // per-user ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("price_mismatch")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish mismatch event: %w", err)
	}

	p.logger.Info("published price mismatch audit event",
		zap.String("event_id", event.EventID),
		zap.String("user_id", userID),
		zap.Int("mismatched_items", len(event.MismatchedItems)),
	)
	return nil
}

// Close flushes and closes the underlying writer when one is owned.
func (p *Publisher) Close() error {
	if w, ok := p.writer.(*kafka.Writer); ok {
		return w.Close()
	}
	return nil
}

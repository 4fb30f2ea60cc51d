package kafkat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/entity"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/logger"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/metric"

	"github.com/segmentio/kafka-go"
)

const (
	_reasonMarshal = "marshal"
	_reasonWrite   = "write"

	_headerEventID   = "event_id"
	_headerRequestID = "request_id"
	_headerOutcome   = "outcome"
)

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OutcomePublisher emits one event per processed pickup order. Events are
// informational; a failed write is reported to the caller and never retried.
type OutcomePublisher struct {
	writer  Writer
	topic   string
	metrics metric.Publisher
	log     logger.Logger
}

func NewOutcomePublisher(
	writer Writer,
	topic string,
	metrics metric.Publisher,
	log logger.Logger,
) (*OutcomePublisher, error) {
	const op = "transport.kafka.NewOutcomePublisher"

	switch {
	case writer == nil:
		return nil, fmt.Errorf("%s: writer is required", op)
	case topic == "":
		return nil, fmt.Errorf("%s: topic is required", op)
	case metrics == nil:
		return nil, fmt.Errorf("%s: metrics are required", op)
	case log == nil:
		return nil, fmt.Errorf("%s: logger is required", op)
	}

	return &OutcomePublisher{
		writer:  writer,
		topic:   topic,
		metrics: metrics,
		log:     log,
	}, nil
}

func (p *OutcomePublisher) Publish(ctx context.Context, event *entity.OutcomeEvent) error {
	const op = "transport.kafka.OutcomePublisher.Publish"

	if event == nil {
		return fmt.Errorf("%s: %w", op, errors.Join(entity.ErrInvalidData, errors.New("nil event")))
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.metrics.EventFailed(p.topic, _reasonMarshal)
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: _headerEventID, Value: []byte(event.EventID)},
			{Key: _headerRequestID, Value: []byte(event.RequestID)},
			{Key: _headerOutcome, Value: []byte(event.Outcome)},
		},
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.EventFailed(p.topic, _reasonWrite)
		return fmt.Errorf("%s: write: %w", op, err)
	}

	p.metrics.EventPublished(p.topic)
	p.log.LogAttrs(ctx, logger.DebugLevel, "outcome event published",
		logger.String("event_id", event.EventID),
		logger.String("order_id", event.OrderID),
		logger.String("outcome", string(event.Outcome)),
	)
	return nil
}

func (p *OutcomePublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("transport.kafka.OutcomePublisher.Close: %w", err)
	}
	return nil
}

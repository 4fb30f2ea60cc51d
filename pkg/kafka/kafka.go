package kafka

import (
	"context"
	"fmt"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/config"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// NewWriter returns a synchronous writer for cfg.Topic. Messages with the same
// key land on the same partition.
func NewWriter(cfg config.Kafka, log logger.Logger) (*kafka.Writer, error) {
	const op = "kafka.NewWriter"

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Logger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.LogAttrs(context.Background(), logger.DebugLevel, "kafka writer info",
				logger.String("topic", cfg.Topic),
				logger.String("message", fmt.Sprintf(msg, args...)),
			)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.LogAttrs(context.Background(), logger.ErrorLevel, "kafka writer error",
				logger.String("topic", cfg.Topic),
				logger.String("error", fmt.Sprintf(msg, args...)),
			)
		}),
	}

	if err := checkKafkaConnection(cfg.Brokers, log); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return writer, nil
}

func checkKafkaConnection(brokers []string, log logger.Logger) error {
	const op = "kafka.checkKafkaConnection"

	dialer := &kafka.Dialer{}
	for _, broker := range brokers {
		conn, err := dialer.Dial("tcp", broker)
		if err != nil {
			return fmt.Errorf("%s: connect to %s: %w", op, broker, err)
		}

		if err = conn.Close(); err != nil {
			log.Warnw("failed to close connection",
				"operation", op,
				"broker", broker,
				"error", err)
		}
	}
	return nil
}

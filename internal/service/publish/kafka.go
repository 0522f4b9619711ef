package publish

import (
	"context"
	"fmt"
	"time"

	"ConfluenceBoard/internal/domain/models"
	xkafka "ConfluenceBoard/pkg/kafka"
	applogger "ConfluenceBoard/pkg/logger"
)

// scanEnvelope is the message body written per scan.
type scanEnvelope struct {
	ScannedAt time.Time                 `json:"scanned_at"`
	Pairs     int                       `json:"pairs"`
	Results   []models.ConfluenceResult `json:"results"`
}

// KafkaPublisher writes completed scan tables to a Kafka topic so other
// systems (alerting, journaling) can consume them.
type KafkaPublisher struct {
	producer *xkafka.Producer
	topic    string
	logger   *applogger.Logger
}

func NewKafkaPublisher(producer *xkafka.Producer, topic string, logger *applogger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

func (p *KafkaPublisher) PublishScan(ctx context.Context, results []models.ConfluenceResult) error {
	env := scanEnvelope{
		ScannedAt: time.Now().UTC(),
		Pairs:     len(results),
		Results:   results,
	}

	if err := p.producer.Publish(ctx, p.topic, []byte("scan"), env); err != nil {
		return fmt.Errorf("publish scan: %w", err)
	}

	if p.logger != nil {
		p.logger.Debug("scan published",
			applogger.String("topic", p.topic),
			applogger.Int("pairs", len(results)),
		)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher satisfies the publisher contract when publication is
// disabled in configuration.
type NoopPublisher struct{}

func (NoopPublisher) PublishScan(context.Context, []models.ConfluenceResult) error { return nil }
func (NoopPublisher) Close() error                                                 { return nil }

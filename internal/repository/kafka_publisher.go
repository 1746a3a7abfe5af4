package repository

import (
	"context"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/pkg/kafka"
)

// KafkaPredictionPublisher emits every newly generated prediction to a Kafka
// topic, keyed by symbol so per-symbol ordering holds across partitions.
type KafkaPredictionPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaPredictionPublisher wraps a producer for the given topic.
func NewKafkaPredictionPublisher(producer *kafka.Producer, topic string) *KafkaPredictionPublisher {
	if topic == "" {
		topic = "stockpulse.predictions"
	}
	return &KafkaPredictionPublisher{producer: producer, topic: topic}
}

// Publish sends a prediction event.
func (p *KafkaPredictionPublisher) Publish(ctx context.Context, pred *models.Prediction) error {
	return p.producer.Publish(ctx, p.topic, []byte(pred.Symbol), pred)
}

// Close flushes and closes the underlying producer.
func (p *KafkaPredictionPublisher) Close() error {
	return p.producer.Close()
}

var _ domrepo.PredictionPublisher = (*KafkaPredictionPublisher)(nil)

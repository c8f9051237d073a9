package events

import (
	"context"
	"time"

	"SwingPull/internal/domain/models"
	drepo "SwingPull/internal/domain/repository"
	"SwingPull/pkg/config"
	"SwingPull/pkg/kafka"
	"SwingPull/pkg/logger"
)

// KafkaPublisher emits each published snapshot onto the configured topic,
// keyed by generation time so replays stay ordered per partition.
type KafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafka(cfg *config.Config, log *logger.Logger) (*KafkaPublisher, error) {
	producer, err := kafka.NewProducer(
		kafka.WithBrokers(cfg.Events.Brokers),
		kafka.WithTopic(cfg.Events.Topic),
		kafka.WithCompression(cfg.Events.Compression),
		kafka.WithRequiredAcks(cfg.Events.RequiredAcks),
		kafka.WithMaxAttempts(cfg.Events.MaxAttempts),
		kafka.WithTimeouts(cfg.Events.WriteTimeout, cfg.Events.ReadTimeout),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaPublisher{producer: producer, log: log}, nil
}

func (p *KafkaPublisher) PublishSnapshot(ctx context.Context, snap *models.MarketSnapshot) error {
	key := []byte(snap.GeneratedAt.UTC().Format(time.RFC3339))
	if err := p.producer.Publish(ctx, key, snap); err != nil {
		return err
	}
	p.log.Debug("snapshot event published",
		logger.Int("instruments", len(snap.Instruments)))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

var _ drepo.SnapshotPublisher = (*KafkaPublisher)(nil)

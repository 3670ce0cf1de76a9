package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"whoami/internal/names/models"
	"whoami/internal/platform/config"
)

const messageIDHeader = "message_id"

// KafkaPublisher produces envelopes to a single topic, keyed by token id so
// messages for one name stay ordered within a partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher connects to the brokers and ensures the topic exists.
func NewKafkaPublisher(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	p := &KafkaPublisher{client: client, topic: cfg.Topic, logger: logger}
	if err := p.ensureTopic(ctx, cfg.Partitions, cfg.ReplicationFactor); err != nil {
		client.Close()
		return nil, err
	}
	return p, nil
}

func (p *KafkaPublisher) ensureTopic(ctx context.Context, partitions int32, replication int16) error {
	if partitions <= 0 {
		partitions = 1
	}
	if replication <= 0 {
		replication = 1
	}
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, partitions, replication, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	p.logger.InfoContext(ctx, "settlement topic ready", "topic", p.topic, "partitions", partitions)
	return nil
}

// Publish produces the batch synchronously and returns the first failure.
func (p *KafkaPublisher) Publish(ctx context.Context, entries []*models.OutboxEntry) error {
	if len(entries) == 0 {
		return nil
	}
	records := make([]*kgo.Record, 0, len(entries))
	for _, e := range entries {
		env := NewEnvelope(e)
		body, err := env.Encode()
		if err != nil {
			return err
		}
		records = append(records, &kgo.Record{
			Key:   []byte(e.TokenID),
			Value: body,
			Headers: []kgo.RecordHeader{
				{Key: messageIDHeader, Value: []byte(env.MessageID.String())},
			},
		})
	}
	if err := p.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce settlement messages: %w", err)
	}
	return nil
}

// Ping checks broker connectivity for health reporting.
func (p *KafkaPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}

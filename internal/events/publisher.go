package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

const TopicOrderPlaced = "storefront.order-placed"

// Producer is the part of *kgo.Client the publisher needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

type kafkaPublisher struct {
	producer Producer
	topic    string
}

func NewKafkaPublisher(producer Producer, topic string) port.EventPublisher {
	if topic == "" {
		topic = TopicOrderPlaced
	}

	return &kafkaPublisher{
		producer: producer,
		topic:    topic,
	}
}

// NewClient connects to the given seed brokers. The caller closes the client.
func NewClient(brokers []string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("kgo.NewClient: %w", err)
	}

	return client, nil
}

// PublishOrderPlaced writes the event keyed by order id so all events of one order share a partition.
func (p *kafkaPublisher) PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.OrderID),
		Value: value,
	}

	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("producer.ProduceSync: %w", err)
	}

	return nil
}

type nopPublisher struct{}

// NewNopPublisher drops every event. It is used when no brokers are configured.
func NewNopPublisher() port.EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) PublishOrderPlaced(context.Context, domain.OrderPlaced) error {
	return nil
}

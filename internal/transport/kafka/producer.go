package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/IBM/sarama"

	"deligo-fulfillment/internal/domain"
	"deligo-fulfillment/internal/logx"
)

var newSyncProducer = sarama.NewSyncProducer

// Producer publishes order status events to Kafka. A nil *Producer publishes nothing.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   logx.Logger
}

// NewProducer creates a new Kafka producer
func NewProducer(logger logx.Logger, brokers []string, topic string) (*Producer, error) {
	// без брокеров публикация выключена
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true

	p, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return newProducer(p, topic, logger), nil
}

func newProducer(p sarama.SyncProducer, topic string, logger logx.Logger) *Producer {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Producer{producer: p, topic: topic, logger: logger}
}

// PublishOrderEvent sends the event keyed by order id, so events of one order keep their order.
func (p *Producer) PublishOrderEvent(ctx context.Context, e domain.OrderEvent) error {
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(FromDomain(e))
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(e.OrderID, 10)),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("send order event %d: %w", e.OrderID, err)
	}

	p.logger.Debug("order event published",
		logx.Int64("order_id", e.OrderID),
		logx.String("status", e.Status.String()),
		logx.Any("partition", partition),
		logx.Int64("offset", offset),
	)
	return nil
}

// Close flushes and closes the producer
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}

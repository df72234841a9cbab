package publish

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/tradinglab/marketsim/internal/model"
)

// Publisher emits one message per market tick.
type Publisher interface {
	PublishTick(ctx context.Context, snap model.Snapshot) error
	Close() error
}

// tickMessage is the wire format of one tick.
type tickMessage struct {
	Tick        int64              `json:"tick"`
	Status      string             `json:"status"`
	Prices      map[string]float64 `json:"prices"`
	PublishedAt time.Time          `json:"published_at"`
}

// KafkaPublisher writes tick messages to a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
		},
	}
}

// PublishTick emits one tick message keyed by tick number.
func (p *KafkaPublisher) PublishTick(ctx context.Context, snap model.Snapshot) error {
	msg := tickMessage{
		Tick:        snap.Tick,
		Status:      string(snap.Status),
		Prices:      make(map[string]float64, len(snap.Instruments)),
		PublishedAt: snap.PublishedAt,
	}
	for sym, in := range snap.Instruments {
		msg.Prices[sym] = in.Price
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(snap.Tick, 10)),
		Value: data,
	})
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

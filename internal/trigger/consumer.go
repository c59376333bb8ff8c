// Package trigger consumes board task events and dispatches agent runs.
// Events arrive on a Kafka topic; an in-process channel consumer backs the
// same interface for tests and single-node setups.
package trigger

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/segmentio/kafka-go"
)

// Consumer reads raw task events.
type Consumer interface {
	// Start begins consuming from the configured topic.
	Start(ctx context.Context) error
	// Messages returns a channel of raw messages.
	Messages() <-chan Message
	// Close stops the consumer.
	Close() error
}

// Message is a raw event off the wire.
type Message struct {
	Key   []byte
	Value []byte
}

// KafkaConsumer implements Consumer using segmentio/kafka-go.
type KafkaConsumer struct {
	brokers       string
	consumerGroup string
	topic         string
	reader        *kafka.Reader
	messages      chan Message
	mu            sync.Mutex
}

// NewKafkaConsumer creates a Kafka consumer for the task-event topic.
func NewKafkaConsumer(brokers, consumerGroup, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		brokers:       brokers,
		consumerGroup: consumerGroup,
		topic:         topic,
		messages:      make(chan Message, 100),
	}
}

// Start begins reading from the topic.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  strings.Split(c.brokers, ","),
		Topic:    c.topic,
		GroupID:  c.consumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	c.mu.Lock()
	c.reader = reader
	c.mu.Unlock()

	go func() {
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Warn("trigger: read error", "topic", c.topic, "error", err)
				continue
			}
			c.messages <- Message{Key: msg.Key, Value: msg.Value}
		}
	}()
	return nil
}

// Messages returns the channel of consumed messages.
func (c *KafkaConsumer) Messages() <-chan Message { return c.messages }

// Close stops the reader.
func (c *KafkaConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reader != nil {
		c.reader.Close()
	}
	close(c.messages)
	return nil
}

// ChannelConsumer is an in-process Consumer backed by a Go channel.
type ChannelConsumer struct {
	ch chan Message
}

// NewChannelConsumer creates an in-process consumer.
func NewChannelConsumer() *ChannelConsumer {
	return &ChannelConsumer{ch: make(chan Message, 100)}
}

// Start is a no-op for the channel consumer.
func (c *ChannelConsumer) Start(ctx context.Context) error { return nil }

// Messages returns the message channel.
func (c *ChannelConsumer) Messages() <-chan Message { return c.ch }

// Close closes the channel.
func (c *ChannelConsumer) Close() error {
	close(c.ch)
	return nil
}

// Send pushes a message into the channel consumer.
func (c *ChannelConsumer) Send(msg Message) {
	c.ch <- msg
}

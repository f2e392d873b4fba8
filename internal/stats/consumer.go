package stats

import (
	"encoding/json"
	"sync"

	"github.com/readshelf/library-service/pkg/kafka"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Collector aggregates circulation counters from the audit topic.
type Collector struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewCollector() *Collector {
	return &Collector{counts: make(map[string]int)}
}

func (c *Collector) Observe(action string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[action]++
}

func (c *Collector) Count(action string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[action]
}

type Consumer struct {
	collector *Collector
	log       *zap.Logger
}

func NewConsumer(collector *Collector, log *zap.Logger) *Consumer {
	return &Consumer{
		collector: collector,
		log:       log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event kafka.AuditEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				consumer.log.Error("unmarshal audit event", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			consumer.collector.Observe(event.Action)

			consumer.log.Debug("audit event",
				zap.String("action", event.Action),
				zap.String("username", event.Username),
				zap.String("bookId", event.BookID),
				zap.Time("timestamp", event.Timestamp))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

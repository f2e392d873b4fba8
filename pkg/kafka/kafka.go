package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const (
	AuditTopic         = "library-audit"
	AuditConsumerGroup = "library-audit-group"
)

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS"`
}

// Enabled reports whether audit publishing is configured at all.
func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

// AuditEvent is one circulation event: a registration, borrow, return,
// discontinue or delete, attributed to the user that caused it.
type AuditEvent struct {
	Action    string    `json:"action"`
	Username  string    `json:"username"`
	BookID    string    `json:"bookId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	ActionMemberRegistered    = "MEMBER_REGISTERED"
	ActionLibrarianRegistered = "LIBRARIAN_REGISTERED"
	ActionBookBorrowed        = "BOOK_BORROWED"
	ActionBookReturned        = "BOOK_RETURNED"
	ActionBookDiscontinued    = "BOOK_DISCONTINUED"
	ActionBookDeleted         = "BOOK_DELETED"
)

func NewAsyncProducer(cfg Config) (sarama.AsyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForLocal
	defaultCfg.Producer.Return.Successes = false

	return sarama.NewAsyncProducer(cfg.Addrs, defaultCfg)
}

// DrainErrors consumes delivery failures from the async producer. The
// producer deadlocks if the Errors channel is never read; run this in a
// goroutine for the producer's whole lifetime. Returns when the producer
// is closed.
func DrainErrors(producer sarama.AsyncProducer, log *zap.Logger) {
	for err := range producer.Errors() {
		log.Error("kafka produce", zap.Error(err))
	}
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume runs the consumer group loop until the context is cancelled.
func Consume(ctx context.Context, consumer sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, topic string, log *zap.Logger) {
	for {
		if err := consumer.Consume(ctx, []string{topic}, handler); err != nil {
			log.Error("kafka consume", zap.Error(err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}

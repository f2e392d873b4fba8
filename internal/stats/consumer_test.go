package stats_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/readshelf/library-service/internal/stats"
	"github.com/readshelf/library-service/pkg/kafka"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSession struct {
	ctx    context.Context
	marked int
}

func (s *stubSession) Claims() map[string][]int32                                               { return nil }
func (s *stubSession) MemberID() string                                                         { return "stub" }
func (s *stubSession) GenerationID() int32                                                      { return 0 }
func (s *stubSession) MarkOffset(topic string, partition int32, offset int64, metadata string)  {}
func (s *stubSession) Commit()                                                                  {}
func (s *stubSession) ResetOffset(topic string, partition int32, offset int64, metadata string) {}
func (s *stubSession) MarkMessage(msg *sarama.ConsumerMessage, metadata string)                 { s.marked++ }
func (s *stubSession) Context() context.Context                                                 { return s.ctx }

type stubClaim struct {
	messages chan *sarama.ConsumerMessage
}

func (c *stubClaim) Topic() string                               { return kafka.AuditTopic }
func (c *stubClaim) Partition() int32                            { return 0 }
func (c *stubClaim) InitialOffset() int64                        { return 0 }
func (c *stubClaim) HighWaterMarkOffset() int64                  { return 0 }
func (c *stubClaim) Messages() <-chan *sarama.ConsumerMessage    { return c.messages }

func message(t *testing.T, event kafka.AuditEvent) *sarama.ConsumerMessage {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Topic: kafka.AuditTopic, Value: data}
}

func TestConsumer_ConsumeClaim(t *testing.T) {
	t.Parallel()

	collector := stats.NewCollector()
	consumer := stats.NewConsumer(collector, zap.NewExample())

	claim := &stubClaim{messages: make(chan *sarama.ConsumerMessage, 4)}
	claim.messages <- message(t, kafka.AuditEvent{Action: kafka.ActionBookBorrowed, Username: "thor", BookID: "b1", Timestamp: time.Now().UTC()})
	claim.messages <- message(t, kafka.AuditEvent{Action: kafka.ActionBookBorrowed, Username: "loki", BookID: "b2", Timestamp: time.Now().UTC()})
	claim.messages <- message(t, kafka.AuditEvent{Action: kafka.ActionBookReturned, Username: "thor", BookID: "b1", Timestamp: time.Now().UTC()})
	claim.messages <- &sarama.ConsumerMessage{Topic: kafka.AuditTopic, Value: []byte("not json")}
	close(claim.messages)

	session := &stubSession{ctx: context.Background()}
	require.NoError(t, consumer.ConsumeClaim(session, claim))

	require.Equal(t, 2, collector.Count(kafka.ActionBookBorrowed))
	require.Equal(t, 1, collector.Count(kafka.ActionBookReturned))
	require.Equal(t, 0, collector.Count(kafka.ActionBookDeleted))
	// the malformed message is still marked so the group does not re-deliver it
	require.Equal(t, 4, session.marked)
}

package kafka_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/readshelf/library-service/pkg/kafka"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDrainErrors(t *testing.T) {
	producer := mocks.NewAsyncProducer(t, nil)
	producer.ExpectInputAndFail(errors.New("broker down"))

	core, logs := observer.New(zap.ErrorLevel)
	done := make(chan struct{})
	go func() {
		kafka.DrainErrors(producer, zap.New(core))
		close(done)
	}()

	event, err := json.Marshal(kafka.AuditEvent{
		Action:    kafka.ActionBookBorrowed,
		Username:  "thor",
		BookID:    "b1",
		Timestamp: time.Now().UTC(),
	})
	require.NoError(t, err)
	producer.Input() <- &sarama.ProducerMessage{Topic: kafka.AuditTopic, Value: sarama.ByteEncoder(event)}

	require.NoError(t, producer.Close())
	<-done
	require.Equal(t, 1, logs.FilterMessage("kafka produce").Len())
}

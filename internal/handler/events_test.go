package handler_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/readshelf/library-service/internal/handler"
	"github.com/readshelf/library-service/pkg/kafka"

	saramamocks "github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"
)

func TestAuditLog_Log(t *testing.T) {
	producer := saramamocks.NewAsyncProducer(t, nil)
	sent := kafka.AuditEvent{
		Action:    kafka.ActionBookReturned,
		Username:  "thor",
		BookID:    "b1",
		Timestamp: time.Now().UTC(),
	}
	producer.ExpectInputWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got kafka.AuditEvent
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		require.Equal(t, sent.Action, got.Action)
		require.Equal(t, sent.Username, got.Username)
		require.Equal(t, sent.BookID, got.BookID)
		return nil
	})

	audit := handler.NewAuditLog(producer, kafka.AuditTopic)
	require.NoError(t, audit.Log(sent))
	require.NoError(t, producer.Close())
}

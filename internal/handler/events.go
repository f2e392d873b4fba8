package handler

import (
	"encoding/json"

	"github.com/readshelf/library-service/pkg/kafka"

	"github.com/IBM/sarama"
)

// AuditLog records circulation events for out-of-band processing.
type AuditLog interface {
	Log(event kafka.AuditEvent) error
}

type auditLog struct {
	producer sarama.AsyncProducer
	topic    string
}

func NewAuditLog(producer sarama.AsyncProducer, topic string) *auditLog {
	return &auditLog{
		producer: producer,
		topic:    topic,
	}
}

func (l *auditLog) Log(event kafka.AuditEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: l.topic, Value: sarama.StringEncoder(data)}
	l.producer.Input() <- msg
	return nil
}

// NopAuditLog is used when no brokers are configured.
type NopAuditLog struct{}

func (NopAuditLog) Log(kafka.AuditEvent) error { return nil }

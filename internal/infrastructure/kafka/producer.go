package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/cfg"
	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

const (
	auditPartitions        = 1
	auditReplicationFactor = 1
)

// AuditProducer публикует события аудита в топик Kafka.
// Запись асинхронная: ошибки доставки только логируются.
type AuditProducer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewAuditProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *AuditProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.AuditTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: cfg.WriteTimeout,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("audit delivery failed for %d messages: %s", len(messages), err.Error())
			}
		},
	}

	return &AuditProducer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

// PublishAudit ставит событие в очередь на отправку. Ключ сообщения — имя метода,
// чтобы события одной операции попадали в одну партицию.
func (p *AuditProducer) PublishAudit(ctx context.Context, event *usecase.AuditEvent) error {
	msg, err := NewAuditMessage(event)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// NewAuditMessage сериализует событие аудита в JSON-сообщение Kafka.
func NewAuditMessage(event *usecase.AuditEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(event.Method),
		Value: value,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(event.EventID)},
			{Key: "status", Value: []byte(event.Status)},
		},
	}, nil
}

// EnsureTopic создаёт топик аудита, если брокер его ещё не знает.
func (p *AuditProducer) EnsureTopic(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(p.cfg.AuditTopic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.AuditTopic,
			NumPartitions:     auditPartitions,
			ReplicationFactor: auditReplicationFactor,
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.AuditTopic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.AuditTopic))
	}
}

func (p *AuditProducer) Close() error {
	return p.writer.Close()
}

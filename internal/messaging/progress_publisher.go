// Package messaging publishes game progress events to RabbitMQ.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"branching-novel/internal/interfaces"
	"branching-novel/internal/models"
)

const (
	publishAttempts = 3
	publishTimeout  = 10 * time.Second
	appID           = "branching-novel"
)

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

var _ interfaces.ProgressPublisher = (*rabbitMQProgressPublisher)(nil)

type rabbitMQProgressPublisher struct {
	channel   Channel
	queueName string
	backoff   time.Duration
	logger    *zap.Logger
}

// NewRabbitMQProgressPublisher opens a channel on conn and declares the
// durable events queue.
func NewRabbitMQProgressPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (interfaces.ProgressPublisher, *amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("progress publisher: open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("progress publisher: declare queue %q: %w", queueName, err)
	}
	logger.Info("Progress events queue declared", zap.String("queue", queueName))
	return NewProgressPublisher(ch, queueName, logger), ch, nil
}

// NewProgressPublisher publishes on an already prepared channel.
func NewProgressPublisher(ch Channel, queueName string, logger *zap.Logger) interfaces.ProgressPublisher {
	return &rabbitMQProgressPublisher{
		channel:   ch,
		queueName: queueName,
		backoff:   100 * time.Millisecond,
		logger:    logger.Named("ProgressPublisher"),
	}
}

func (p *rabbitMQProgressPublisher) PublishProgress(ctx context.Context, event models.GameProgressEvent) error {
	if p.channel == nil {
		return errors.New("progress publisher: channel is not initialized")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode progress event %s: %w", event.EventID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	log := p.logger.With(zap.Stringer("eventID", event.EventID), zap.Int64("saveID", event.SaveID))
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		err = p.channel.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID.String(),
			Type:         string(event.Kind),
			Timestamp:    event.OccurredAt,
			AppId:        appID,
			Body:         body,
		})
		if err == nil {
			log.Debug("Progress event published", zap.Int("attempt", attempt))
			return nil
		}
		log.Warn("Progress event publish failed", zap.Int("attempt", attempt), zap.Error(err))

		select {
		case <-ctx.Done():
			return fmt.Errorf("publish progress event %s: %w", event.EventID, ctx.Err())
		case <-time.After(time.Duration(attempt) * p.backoff):
		}
	}
	return fmt.Errorf("publish progress event %s after %d attempts: %w", event.EventID, publishAttempts, err)
}

type noopProgressPublisher struct {
	logger *zap.Logger
}

// NewNoopProgressPublisher drops events. Used when RabbitMQ is not configured.
func NewNoopProgressPublisher(logger *zap.Logger) interfaces.ProgressPublisher {
	return &noopProgressPublisher{logger: logger.Named("NoopProgressPublisher")}
}

func (p *noopProgressPublisher) PublishProgress(_ context.Context, event models.GameProgressEvent) error {
	p.logger.Debug("Progress event dropped", zap.Stringer("eventID", event.EventID), zap.String("kind", string(event.Kind)))
	return nil
}

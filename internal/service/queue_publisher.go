// Package queue_publisher publishes rental domain events to RabbitMQ.
// Publishing is best effort: errors are logged and returned so callers
// can ignore broker outages without failing the request.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	q "github.com/ayoub-kd/costume-rental/internal/queue"
)

// PublishRentalRequested publishes a RentalRequestedEvent to the
// rental.requested queue.
func PublishRentalRequested(ctx context.Context, log *zap.Logger, event q.RentalRequestedEvent) error {
	return publish(ctx, log, q.RentalRequestedQueue, event)
}

// PublishRentalStatusChanged publishes a RentalStatusChangedEvent to
// the rental.status_changed queue.
func PublishRentalStatusChanged(ctx context.Context, log *zap.Logger, event q.RentalStatusChangedEvent) error {
	return publish(ctx, log, q.RentalStatusChangedQueue, event)
}

func publish(ctx context.Context, log *zap.Logger, queueName string, event any) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Warn("rabbitmq: marshal event failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Warn("rabbitmq: publish failed", zap.Error(err))
		return err
	}
	return nil
}

package mq

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

const (
	DLQExchangeName = "events.dlq"
)

// DeclareDLQExchange declares the dead letter exchange.
func DeclareDLQExchange(ch *amqp091.Channel) error {
	return ch.ExchangeDeclare(
		DLQExchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
}

// DeclareDLQQueue declares <queue>.dlq bound to the dead letter exchange
// with bindingKey.
func DeclareDLQQueue(ch *amqp091.Channel, queue, bindingKey string) (amqp091.Queue, error) {
	queueName := fmt.Sprintf("%s.dlq", queue)

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to declare DLQ queue: %w", err)
	}

	err = ch.QueueBind(
		q.Name,
		bindingKey,
		DLQExchangeName,
		false,
		nil,
	)
	if err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to bind DLQ queue: %w", err)
	}

	return q, nil
}

// DeclareDeadLetterQueue declares the parking queue for a consumer queue on
// the publisher's channel.
func (p *Publisher) DeclareDeadLetterQueue(queue, bindingKey string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := DeclareDLQQueue(p.channel, queue, bindingKey)
	return err
}

// PublishToDLQ publishes a message to the dead letter queue.
func (p *Publisher) PublishToDLQ(routingKey string, payload []byte, originalError string) error {
	headers := amqp091.Table{
		"x-original-error": originalError,
		"x-failed-at":      "activity-worker",
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.channel.Publish(
		DLQExchangeName,
		routingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp091.Persistent,
			Headers:      headers,
		},
	)
}

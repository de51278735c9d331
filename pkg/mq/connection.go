package mq

import (
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the topic exchange activity events are published to.
const ExchangeName = "events"

const heartbeat = 10 * time.Second

// NewConnection dials RabbitMQ with a heartbeat and a client connection name.
func NewConnection(url string) (*amqp091.Connection, error) {
	props := amqp091.NewConnectionProperties()
	props.SetClientConnectionName("skincare-tracker")

	conn, err := amqp091.DialConfig(url, amqp091.Config{
		Heartbeat:  heartbeat,
		Locale:     "en_US",
		Properties: props,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// DeclareExchange declares the durable events topic exchange.
func DeclareExchange(ch *amqp091.Channel) error {
	return ch.ExchangeDeclare(
		ExchangeName,
		amqp091.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
}

package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"skincare-tracker/pkg/metrics"
)

type MessageHandler func(ctx context.Context, data json.RawMessage) error

const consumerTag = "activity-worker"

type Consumer struct {
	channel    *amqp091.Channel
	queue      amqp091.Queue
	bindingKey string
	handler    MessageHandler
	conn       *amqp091.Connection
	logger     *zap.Logger
}

// NewConsumer creates a consumer whose queue is bound with the given key
// (topic patterns such as "activity.#" are allowed).
func NewConsumer(url, queueName, bindingKey string, logger *zap.Logger) (*Consumer, error) {
	conn, err := NewConnection(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := DeclareExchange(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, bindingKey, ExchangeName, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	logger.Info("Consumer initialized",
		zap.String("binding_key", bindingKey),
		zap.String("queue", queueName),
		zap.String("exchange", ExchangeName),
	)

	return &Consumer{
		conn:       conn,
		channel:    ch,
		queue:      q,
		bindingKey: bindingKey,
		logger:     logger,
	}, nil
}

func (c *Consumer) SetHandler(h MessageHandler) {
	c.handler = h
}

func (c *Consumer) IsConnected() bool {
	return c.conn != nil && !c.conn.IsClosed()
}

// Stop cancels delivery; StartConsuming returns once in-flight messages drain.
func (c *Consumer) Stop() {
	if c.channel != nil {
		_ = c.channel.Cancel(consumerTag, false)
	}
}

func (c *Consumer) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// StartConsuming starts consuming messages. This method blocks and should be called in a goroutine.
func (c *Consumer) StartConsuming() error {
	if c.handler == nil {
		return fmt.Errorf("consumer handler not set")
	}

	deliveries, err := c.channel.Consume(
		c.queue.Name,
		consumerTag,
		false, // 手动ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Consumer started consuming messages",
		zap.String("binding_key", c.bindingKey),
		zap.String("queue", c.queue.Name),
	)

	// 保证每条消息都会被 ack 或 nack
	for msg := range deliveries {
		c.process(msg)
	}

	return nil
}

func (c *Consumer) process(msg amqp091.Delivery) {
	ctx := context.Background()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Handler panic recovered",
				zap.String("routing_key", msg.RoutingKey),
				zap.Any("panic", r),
			)
			if err := msg.Nack(false, true); err != nil {
				c.logger.Error("Failed to nack message after panic", zap.Error(err))
			}
		}
	}()

	if err := c.handler(ctx, msg.Body); err != nil {
		c.logger.Error("Handler error",
			zap.String("routing_key", msg.RoutingKey),
			zap.String("queue", c.queue.Name),
			zap.Error(err),
		)
		// 业务失败 → 重新入队，让 MQ 重试
		if err := msg.Nack(false, true); err != nil {
			c.logger.Error("Failed to nack message", zap.Error(err))
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		c.logger.Error("Failed to ack message", zap.Error(err))
		return
	}
	metrics.RecordMQConsumeLatency(msg.RoutingKey, c.queue.Name, time.Since(start))
}

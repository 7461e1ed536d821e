package queue

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Options names the topology the publisher declares on Dial.
type Options struct {
	URL        string
	Exchange   string
	Queue      string
	RoutingKey string
}

// RabbitMQ publishes delivery envelopes to a durable direct exchange.
type RabbitMQ struct {
	mu         sync.Mutex
	Channel    *amqp.Channel
	Connection *amqp.Connection
	opts       Options
}

func NewRabbitMQ(opts Options) *RabbitMQ {
	return &RabbitMQ{opts: opts}
}

func (rmq *RabbitMQ) Dial() error {
	connection, err := amqp.Dial(rmq.opts.URL)
	if err != nil {
		return fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	rmq.Connection = connection

	channel, err := rmq.Connection.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	rmq.Channel = channel

	// Declare exchange, queue and binding
	if err := rmq.Setup(); err != nil {
		return fmt.Errorf("failed to set up RabbitMQ: %w", err)
	}

	log.Printf("[RABBITMQ] - Connection established")
	return nil
}

func (rmq *RabbitMQ) Setup() error {
	if err := rmq.Channel.ExchangeDeclare(rmq.opts.Exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", rmq.opts.Exchange, err)
	}
	if _, err := rmq.Channel.QueueDeclare(rmq.opts.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", rmq.opts.Queue, err)
	}
	if err := rmq.Channel.QueueBind(rmq.opts.Queue, rmq.opts.RoutingKey, rmq.opts.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s to exchange %s: %w", rmq.opts.Queue, rmq.opts.Exchange, err)
	}

	log.Printf("[RABBITMQ] - Setup completed (exchange=%s queue=%s key=%s)", rmq.opts.Exchange, rmq.opts.Queue, rmq.opts.RoutingKey)
	return nil
}

// Publish sends body as a persistent JSON message. Attributes become headers.
func (rmq *RabbitMQ) Publish(ctx context.Context, body []byte, attributes map[string]string) error {
	rmq.mu.Lock()
	defer rmq.mu.Unlock()

	if rmq.Channel == nil {
		return fmt.Errorf("rabbitmq channel is not open")
	}

	headers := amqp.Table{}
	for k, v := range attributes {
		headers[k] = v
	}

	err := rmq.Channel.PublishWithContext(ctx,
		rmq.opts.Exchange,
		rmq.opts.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    attributes["itemId"],
			Timestamp:    time.Now().UTC(),
			Headers:      headers,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (rmq *RabbitMQ) Close() error {
	rmq.mu.Lock()
	defer rmq.mu.Unlock()

	if rmq.Channel != nil {
		if err := rmq.Channel.Close(); err != nil {
			return fmt.Errorf("failed to close channel: %w", err)
		}
		rmq.Channel = nil
	}
	if rmq.Connection != nil {
		if err := rmq.Connection.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
		rmq.Connection = nil
	}
	return nil
}

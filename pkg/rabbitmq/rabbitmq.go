package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	amqp "github.com/streadway/amqp"
)

const ratingQueue = "rating_events"

// Client holds the RabbitMQ connection and channel used for the rating
// event stream.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the rating
// event queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		ratingQueue, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", ratingQueue, err)
	}

	log.Info().Str("queue", ratingQueue).Msg("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishRatingEvent publishes a rating lifecycle event (submitted,
// updated, deleted) to the rating queue as JSON.
func (c *Client) PublishRatingEvent(event map[string]interface{}) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal rating event: %w", err)
	}

	err = c.channel.Publish(
		"",          // exchange: default
		ratingQueue, // routing key: the queue name
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish rating event: %w", err)
	}

	log.Debug().RawJSON("event", body).Msg("published rating event")
	return nil
}

// ConsumeRatingEvents delivers rating events to messageHandler. A nil
// handler error acks the message; anything else nacks and requeues it.
func (c *Client) ConsumeRatingEvents(messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	msgs, err := c.channel.Consume(
		ratingQueue, // queue
		"",          // consumer tag
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for msg := range msgs {
		if err := messageHandler(msg); err != nil {
			log.Warn().Err(err).Msg("rating event handler failed, requeueing")
			if nackErr := msg.Nack(false, true); nackErr != nil {
				log.Error().Err(nackErr).Msg("failed to nack message")
			}
			continue
		}
		if ackErr := msg.Ack(false); ackErr != nil {
			log.Error().Err(ackErr).Msg("failed to ack message")
		}
	}
	return nil
}

package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	RoutingPostSaved   = "post.saved"
	RoutingPostDeleted = "post.deleted"
	RoutingTermSaved   = "term.saved"
	RoutingTermDeleted = "term.deleted"

	queueName = "theatre-listing.content"
	dlxName   = "theatre-listing.dlx"
	dlqName   = "theatre-listing.content.dlq"
)

var routingKeys = []string{RoutingPostSaved, RoutingPostDeleted, RoutingTermSaved, RoutingTermDeleted}

// ContentMessage is published by the WordPress side whenever a post or term
// changes.
type ContentMessage struct {
	PostID   int64  `json:"post_id,omitempty"`
	PostType string `json:"post_type,omitempty"`
	TermID   int64  `json:"term_id,omitempty"`
	Taxonomy string `json:"taxonomy,omitempty"`
}

type Invalidator interface {
	Invalidate(ctx context.Context) (int, error)
}

var errMalformed = errors.New("malformed content message")

// Consumer purges the shared listing cache when listed content changes.
type Consumer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    string
	exchange string

	inv       Invalidator
	postTypes []string
}

func NewConsumer(rabbitURL, exchange string, inv Invalidator, postTypes ...string) (*Consumer, error) {
	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	c := &Consumer{conn: conn, channel: ch, exchange: exchange, inv: inv, postTypes: postTypes}
	if err := c.declare(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Consumer) declare() error {
	ch := c.channel
	if err := ch.ExchangeDeclare(c.exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := ch.ExchangeDeclare(dlxName, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dlx: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dlq: %w", err)
	}
	if err := ch.QueueBind(dlqName, "", dlxName, false, nil); err != nil {
		return fmt.Errorf("failed to bind dlq: %w", err)
	}

	q, err := ch.QueueDeclare(queueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange": dlxName,
	})
	if err != nil {
		return fmt.Errorf("failed to declare main queue: %w", err)
	}
	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, c.exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue to %s: %w", key, err)
		}
	}
	c.queue = q.Name
	return nil
}

// Start consumes in the background until ctx is done.
func (c *Consumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("content consumer shutting down")
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Warn().Msg("content consumer channel closed")
					return
				}
				c.handleMessage(ctx, msg)
			}
		}
	}()

	log.Info().
		Str("queue", c.queue).
		Str("exchange", c.exchange).
		Msg("content consumer started")
	return nil
}

func (c *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	purge, err := c.affectsListing(msg.RoutingKey, msg.Body)
	if err != nil {
		log.Error().Err(err).Str("routing_key", msg.RoutingKey).Msg("dropping content message")
		_ = msg.Nack(false, false)
		return
	}
	if !purge {
		_ = msg.Ack(false)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := c.inv.Invalidate(ctx)
	if err != nil {
		// one requeue, then the DLQ
		requeue := !msg.Redelivered
		log.Warn().Err(err).Bool("requeue", requeue).Msg("listing cache purge failed")
		_ = msg.Nack(false, requeue)
		return
	}

	log.Info().
		Str("routing_key", msg.RoutingKey).
		Int("keys", n).
		Msg("listing cache purged")
	_ = msg.Ack(false)
}

// affectsListing reports whether a content change can alter a listing. Any
// term change counts since categories are rendered; post changes only count
// for the listed post types.
func (c *Consumer) affectsListing(routingKey string, body []byte) (bool, error) {
	var m ContentMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return false, fmt.Errorf("%w: %v", errMalformed, err)
	}

	switch routingKey {
	case RoutingPostSaved, RoutingPostDeleted:
		if m.PostID <= 0 {
			return false, fmt.Errorf("%w: missing post_id", errMalformed)
		}
		return slices.Contains(c.postTypes, m.PostType), nil
	case RoutingTermSaved, RoutingTermDeleted:
		return true, nil
	default:
		log.Warn().Str("routing_key", routingKey).Msg("unknown routing key")
		return false, nil
	}
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

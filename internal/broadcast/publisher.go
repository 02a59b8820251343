package broadcast

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/slog"
)

// Sender should publish a message to an exchange.
type Sender interface {
	// Publish should publish the message with the routing key.
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
}

// Publisher publishes broadcast messages. Publishing is fire-and-forget:
// nothing waits for a consumer to receive the message.
type Publisher struct {
	log *slog.Logger

	sender Sender
	obs    Observer
}

// NewPublisher creates a new publisher.
func NewPublisher(log *slog.Logger, sender Sender, obs Observer) *Publisher {
	return &Publisher{
		log:    log.With("job", "broadcast-publisher"),
		sender: sender,
		obs:    obs,
	}
}

// Publish publishes a message with the given content to the broadcast
// exchange.
func (p *Publisher) Publish(ctx context.Context, content string) error {
	msg := Message{Content: content}

	body, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	err = p.sender.Publish(ctx, Exchange, "", amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publishing %s message: %w", msg.Kind(), err)
	}

	p.log.Info(
		"published broadcast message",
		slog.String("exchange", Exchange),
		slog.String("kind", msg.Kind()),
	)

	p.obs.Published(msg.Kind())

	return nil
}

// RequestAd publishes an ad request.
func (p *Publisher) RequestAd(ctx context.Context) error {
	return p.Publish(ctx, RequestContent)
}

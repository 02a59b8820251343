package broadcast

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/slog"
)

// _maxTrackedPayloads limits the number of malformed payloads whose
// delivery attempts are remembered.
const _maxTrackedPayloads = 1024

const (
	// OutcomeAck means that the message was processed and removed from
	// the queue.
	OutcomeAck = "ack"

	// OutcomeRequeue means that the message was returned to the queue for
	// redelivery.
	OutcomeRequeue = "requeue"

	// OutcomeDrop means that the message was removed from the queue
	// without being processed.
	OutcomeDrop = "drop"
)

// Config holds the broadcast consumption settings.
type Config struct {
	// MaxDeliveryAttempts is the number of times a malformed message is
	// delivered before it is dropped.
	MaxDeliveryAttempts int `default:"3" env:"MAX_DELIVERY_ATTEMPTS"`
}

// Handler should handle decoded broadcast messages. A returned error
// causes the message to be redelivered.
type Handler interface {
	// Handle should handle a single message.
	Handle(ctx context.Context, msg Message) error
}

// Observer should be notified about broadcast traffic.
type Observer interface {
	// Published should record a published message.
	Published(kind string)

	// Delivered should record a settled delivery.
	Delivered(kind, outcome string)
}

// NoopObserver is a no-op observer.
type NoopObserver struct{}

// Published is a no-op.
func (NoopObserver) Published(_ string) {}

// Delivered is a no-op.
func (NoopObserver) Delivered(_, _ string) {}

// Subscriber consumes the process' own queue bound to the broadcast
// exchange and dispatches every delivery to a handler.
type Subscriber struct {
	log *slog.Logger

	handler Handler
	obs     Observer
	cfg     Config

	mu       sync.Mutex
	attempts map[string]int

	wg sync.WaitGroup
}

// NewSubscriber creates a new subscriber.
func NewSubscriber(log *slog.Logger, handler Handler, obs Observer, cfg Config) *Subscriber {
	if cfg.MaxDeliveryAttempts < 1 {
		cfg.MaxDeliveryAttempts = 1
	}

	return &Subscriber{
		log:      log.With("job", "broadcast-subscriber"),
		handler:  handler,
		obs:      obs,
		cfg:      cfg,
		attempts: make(map[string]int),
	}
}

// Setup declares the topology on the channel and starts consuming from
// the freshly declared queue. Consumption stops when the channel is closed
// or the context is done.
func (s *Subscriber) Setup(ctx context.Context, ch Channel) error {
	queue, err := Declare(ch)
	if err != nil {
		return err
	}

	deliveries, err := ch.Consume(
		queue,
		"",    // broker assigned consumer tag
		false, // auto-ack
		true,  // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consuming from %q queue: %w", queue, err)
	}

	s.log.Info(
		"consuming broadcast messages",
		slog.String("queue", queue),
		slog.String("exchange", Exchange),
	)

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		s.consume(ctx, deliveries)
	}()

	return nil
}

// Wait blocks until every consumption routine has returned.
func (s *Subscriber) Wait() {
	s.wg.Wait()
}

// consume dispatches deliveries until the channel is closed or the
// context is done.
func (s *Subscriber) consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				s.log.Debug("deliveries channel closed")
				return
			}

			s.Deliver(ctx, d)
		}
	}
}

// Deliver handles a single delivery and settles it with the broker.
func (s *Subscriber) Deliver(ctx context.Context, d amqp.Delivery) {
	msg, err := Decode(d.Body)
	if err != nil {
		s.rejectMalformed(d, err)
		return
	}

	if err := s.handler.Handle(ctx, msg); err != nil {
		s.log.Error(
			"handling broadcast message",
			slog.String("kind", msg.Kind()),
			slog.String("error", err.Error()),
		)

		s.settle(msg.Kind(), OutcomeRequeue, d.Nack(false, true))

		return
	}

	s.settle(msg.Kind(), OutcomeAck, d.Ack(false))
}

// rejectMalformed requeues a malformed delivery until it has been
// delivered the configured number of times, then drops it.
func (s *Subscriber) rejectMalformed(d amqp.Delivery, cause error) {
	key := string(d.Body)

	s.mu.Lock()

	if len(s.attempts) >= _maxTrackedPayloads {
		s.attempts = make(map[string]int)
	}

	s.attempts[key]++
	attempts := s.attempts[key]

	if attempts >= s.cfg.MaxDeliveryAttempts {
		delete(s.attempts, key)
	}

	s.mu.Unlock()

	log := s.log.With(
		slog.Int("attempts", attempts),
		slog.String("error", cause.Error()),
	)

	if attempts < s.cfg.MaxDeliveryAttempts {
		log.Warn("requeueing malformed broadcast message")
		s.settle(KindMalformed, OutcomeRequeue, d.Nack(false, true))

		return
	}

	log.Error("dropping malformed broadcast message")
	s.settle(KindMalformed, OutcomeDrop, d.Nack(false, false))
}

// settle records the delivery outcome, unless settling has failed.
func (s *Subscriber) settle(kind, outcome string, err error) {
	if err != nil {
		s.log.Error(
			"settling broadcast message",
			slog.String("outcome", outcome),
			slog.String("error", err.Error()),
		)

		return
	}

	s.obs.Delivered(kind, outcome)
}

// acknowledger is a delivery acknowledger type. We redefine it here to mock
// it in the tests.
type acknowledger amqp.Acknowledger

package broadcast

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the subset of broker channel operations required to declare
// the topology and consume from it.
type Channel interface {
	// ExchangeDeclare should declare an exchange.
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error

	// QueueDeclare should declare a queue.
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)

	// QueueBind should bind a queue to an exchange.
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error

	// Consume should start delivering queued messages.
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Declare declares the fanout exchange and a fresh anonymous, exclusive
// queue bound to it. The queue name is assigned by the broker and
// returned. Exchange declaration is idempotent, so Declare is safe to call
// on every (re)connection.
func Declare(ch Channel) (string, error) {
	err := ch.ExchangeDeclare(
		Exchange,
		amqp.ExchangeFanout,
		false, // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("declaring %q exchange: %w", Exchange, err)
	}

	q, err := ch.QueueDeclare(
		"",    // broker assigned name
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("declaring queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", Exchange, false, nil); err != nil {
		return "", fmt.Errorf("binding %q queue to %q exchange: %w", q.Name, Exchange, err)
	}

	return q.Name, nil
}

package broker

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connection is a broker connection. It mirrors the subset of
// *amqp.Connection used by the broker.
type Connection interface {
	// Channel should open a new channel over the connection.
	Channel() (Channel, error)

	// NotifyClose should register a listener for the connection closure.
	NotifyClose(receiver chan *amqp.Error) chan *amqp.Error

	// Close should close the connection.
	Close() error
}

// Channel is a broker channel. *amqp.Channel satisfies it.
type Channel interface {
	// ExchangeDeclare should declare an exchange.
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error

	// QueueDeclare should declare a queue.
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)

	// QueueBind should bind a queue to an exchange.
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error

	// Consume should start delivering queued messages.
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)

	// PublishWithContext should publish a message to an exchange.
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error

	// NotifyClose should register a listener for the channel closure.
	NotifyClose(receiver chan *amqp.Error) chan *amqp.Error

	// Close should close the channel.
	Close() error
}

// Dialer opens a new broker connection.
type Dialer func(addr string) (Connection, error)

// DialAMQP dials an AMQP 0-9-1 broker.
func DialAMQP(addr string) (Connection, error) {
	conn, err := amqp.DialConfig(addr, amqp.Config{
		Heartbeat: _heartbeat,
		Locale:    "en_US",
		Properties: amqp.Table{
			"connection_name": "adgateway",
		},
	})
	if err != nil {
		return nil, err
	}

	return &amqpConnection{Connection: conn}, nil
}

// amqpConnection adapts *amqp.Connection to the Connection interface.
type amqpConnection struct {
	*amqp.Connection
}

// Channel opens a new AMQP channel.
func (c *amqpConnection) Channel() (Channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}

	return ch, nil
}

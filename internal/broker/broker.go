// package broker manages the single long-lived message broker connection
// and channel of the process. It owns the startup retry policy and the
// reconnection state machine.
//
//go:generate moq --stub -out 0moq_test.go . Connection:ConnectionMock Channel:ChannelMock
package broker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/slog"
)

// _heartbeat is the AMQP heartbeat interval.
const _heartbeat = 10 * time.Second

var (
	// ErrUnavailable is returned when an operation is attempted while the
	// broker is not connected.
	ErrUnavailable = errors.New("broker is unavailable")

	// ErrClosed is returned when the broker has been closed.
	ErrClosed = errors.New("broker is closed")
)

// Config holds the broker connection settings.
type Config struct {
	// ConnectAttempts is the number of dial attempts made at startup
	// before giving up.
	ConnectAttempts uint64 `default:"5" env:"CONNECT_ATTEMPTS"`

	// InitialInterval is the first retry interval.
	InitialInterval time.Duration `default:"500ms" env:"INITIAL_INTERVAL"`

	// MaxInterval caps the retry interval.
	MaxInterval time.Duration `default:"5s" env:"MAX_INTERVAL"`

	// OperationTimeout bounds a single publish.
	OperationTimeout time.Duration `default:"5s" env:"OPERATION_TIMEOUT"`
}

// SetupFunc prepares a freshly opened channel, e.g. declares the topology
// and starts consuming. The context lives until the broker is closed.
type SetupFunc func(ctx context.Context, ch Channel) error

// Broker holds the broker connection and its only channel.
type Broker struct {
	log *slog.Logger

	addr string
	cfg  Config
	dial Dialer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	state atomic.Int32

	// NOTE: The mutex serializes every channel operation, as the channel
	// is shared between the HTTP handlers and the setup hooks.
	mu    sync.Mutex
	conn  Connection
	ch    Channel
	hooks []SetupFunc

	listeners []func(State)
}

// New creates a new disconnected broker.
func New(log *slog.Logger, addr string, cfg Config, dial Dialer) *Broker {
	ctx, cancel := context.WithCancel(context.Background())

	b := &Broker{
		log:    log.With("job", "broker"),
		addr:   addr,
		cfg:    cfg,
		dial:   dial,
		ctx:    ctx,
		cancel: cancel,
	}

	uri, err := amqp.ParseURI(addr)
	if err == nil {
		b.log = b.log.With("host", uri.Host+":"+strconv.Itoa(uri.Port))
	}

	return b
}

// OnSetup registers a hook that is run on every newly opened channel,
// both on the initial connection and on every reconnection. Hooks must be
// registered before Connect is called.
func (b *Broker) OnSetup(fn SetupFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.hooks = append(b.hooks, fn)
}

// OnStateChange registers a state change listener. Listeners must be
// registered before Connect is called and must not call back into the
// broker, except for State.
func (b *Broker) OnStateChange(fn func(State)) {
	b.listeners = append(b.listeners, fn)
}

// State returns the current connection state.
func (b *Broker) State() State {
	return State(b.state.Load())
}

// Connect establishes the connection, opens the channel and runs the setup
// hooks. It retries with an exponential backoff up to the configured number
// of attempts and returns an error if none of them succeeded.
func (b *Broker) Connect(ctx context.Context) error {
	b.setState(StateConnecting)

	attempts := b.cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	strategy := backoff.WithContext(
		backoff.WithMaxRetries(b.newBackOff(), attempts-1),
		ctx,
	)

	err := backoff.RetryNotify(b.establish, strategy, func(err error, d time.Duration) {
		b.log.Warn(
			"retrying broker connection",
			slog.String("error", err.Error()),
			slog.Duration("next_attempt", d),
		)
	})
	if err != nil {
		b.setState(StateDisconnected)
		return fmt.Errorf("connecting to broker: %w", err)
	}

	return nil
}

// Publish publishes a message. It fails fast with ErrUnavailable if the
// broker is not connected.
func (b *Broker) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.State() != StateConnected || b.ch == nil {
		return ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.OperationTimeout)
	defer cancel()

	if err := b.ch.PublishWithContext(ctx, exchange, key, false, false, msg); err != nil {
		return fmt.Errorf("publishing to %q exchange: %w", exchange, err)
	}

	return nil
}

// Close closes the connection and stops any reconnection attempts.
func (b *Broker) Close() error {
	b.cancel()

	b.mu.Lock()
	conn := b.conn
	b.conn, b.ch = nil, nil
	b.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}

	b.wg.Wait()
	b.setState(StateDisconnected)

	if err != nil && !errors.Is(err, amqp.ErrClosed) {
		return fmt.Errorf("closing connection: %w", err)
	}

	return nil
}

// establish dials the broker and prepares the channel.
func (b *Broker) establish() error {
	if b.ctx.Err() != nil {
		return backoff.Permanent(ErrClosed)
	}

	conn, err := b.dial(b.addr)
	if err != nil {
		return fmt.Errorf("dialing: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		b.closeConn(conn)
		return fmt.Errorf("opening channel: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctx.Err() != nil {
		b.closeConn(conn)
		return backoff.Permanent(ErrClosed)
	}

	for _, hook := range b.hooks {
		if err := hook(b.ctx, ch); err != nil {
			b.closeConn(conn)
			return fmt.Errorf("setting up channel: %w", err)
		}
	}

	connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
	chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))

	b.conn, b.ch = conn, ch
	b.setState(StateConnected)

	b.wg.Add(1)

	go func() {
		defer b.wg.Done()

		b.watch(connClosed, chClosed)
	}()

	return nil
}

// watch waits for the connection or channel closure and starts the
// reconnection.
func (b *Broker) watch(connClosed, chClosed <-chan *amqp.Error) {
	var reason *amqp.Error

	select {
	case <-b.ctx.Done():
		return
	case reason = <-connClosed:
	case reason = <-chClosed:
	}

	if b.ctx.Err() != nil {
		return
	}

	b.mu.Lock()
	b.setState(StateDegraded)
	conn := b.conn
	b.conn, b.ch = nil, nil
	b.mu.Unlock()

	if conn != nil {
		b.closeConn(conn)
	}

	log := b.log
	if reason != nil {
		log = log.With("reason", reason.Error())
	}

	log.Warn("broker connection lost, reconnecting")

	err := backoff.RetryNotify(
		b.establish,
		backoff.WithContext(b.newBackOff(), b.ctx),
		func(err error, d time.Duration) {
			b.log.Warn(
				"retrying broker reconnection",
				slog.String("error", err.Error()),
				slog.Duration("next_attempt", d),
			)
		},
	)
	if err != nil {
		b.log.Debug("reconnection stopped", slog.String("error", err.Error()))
	}
}

// setState changes the state and notifies the listeners.
func (b *Broker) setState(s State) {
	prev := State(b.state.Swap(int32(s)))
	if prev == s {
		return
	}

	b.log.Info(
		"broker state changed",
		slog.String("from", prev.String()),
		slog.String("to", s.String()),
	)

	for _, fn := range b.listeners {
		fn(s)
	}
}

// newBackOff creates a new exponential backoff without an elapsed time
// limit.
func (b *Broker) newBackOff() *backoff.ExponentialBackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(b.cfg.InitialInterval),
		backoff.WithMaxInterval(b.cfg.MaxInterval),
		backoff.WithMaxElapsedTime(0),
	)
}

// closeConn closes the connection, logging unexpected errors.
func (b *Broker) closeConn(conn Connection) {
	err := conn.Close()
	if err != nil && !errors.Is(err, amqp.ErrClosed) {
		b.log.Debug("closing connection", slog.String("error", err.Error()))
	}
}

// package intercept provides a way to intercept the read and write calls
// to the accepted connections and meter the bytes passing through them.
//
//go:generate moq --stub -out 0moq_test.go . Meter:MeterMock conn:connMock listener:listenerMock
package intercept

import (
	"net"
	"sync"

	"golang.org/x/exp/slog"
)

// Listener is an intercepted listener. It intercepts the accept call.
type Listener struct {
	listener

	log   *slog.Logger
	meter Meter
}

// NewListener intercepts the listen call.
func NewListener(log *slog.Logger, addr string, meter Meter) (*Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	return WrapListener(log, l, meter), nil
}

// WrapListener intercepts an already opened listener.
func WrapListener(log *slog.Logger, l net.Listener, meter Meter) *Listener {
	return &Listener{
		listener: l,
		log:      log.With("job", "intercept-listener"),
		meter:    meter,
	}
}

// Accept waits for and returns the next connection to the listener. It
// intercepts the accept call.
func (l *Listener) Accept() (net.Conn, error) {
	conn, err := l.listener.Accept()
	if err != nil {
		return nil, err
	}

	l.meter.Opened()
	l.log.Debug("connection accepted", slog.Any("remote_addr", conn.RemoteAddr()))

	return &Conn{
		conn:  conn,
		meter: l.meter,
	}, nil
}

// Conn is an intercepted connection. It meters the bytes written to and
// read from the connection.
type Conn struct {
	conn

	meter Meter
	once  sync.Once
}

// Read reads data from the connection. It intercepts the read call.
func (c *Conn) Read(b []byte) (int, error) {
	n, err := c.conn.Read(b)
	if n > 0 {
		c.meter.Read(int64(n))
	}

	return n, err
}

// Write writes data to the connection. It intercepts the write call.
func (c *Conn) Write(b []byte) (int, error) {
	n, err := c.conn.Write(b)
	if n > 0 {
		c.meter.Written(int64(n))
	}

	return n, err
}

// Close closes the connection. The meter is notified on the first call
// only.
func (c *Conn) Close() error {
	c.once.Do(c.meter.Closed)

	return c.conn.Close()
}

// Meter should be used to meter the connections traffic.
type Meter interface {
	// Opened should record a newly accepted connection.
	Opened()

	// Closed should record a closed connection.
	Closed()

	// Read should add bytes read from a connection.
	Read(n int64)

	// Written should add bytes written to a connection.
	Written(n int64)
}

// NoopMeter is a no-op meter.
type NoopMeter struct{}

// Opened is a no-op.
func (NoopMeter) Opened() {}

// Closed is a no-op.
func (NoopMeter) Closed() {}

// Read is a no-op.
func (NoopMeter) Read(_ int64) {}

// Written is a no-op.
func (NoopMeter) Written(_ int64) {}

// conn is an intercepted connection type. We redefine it here to mock it
// in the tests.
type conn net.Conn

// listener is an intercepted listener type. We redefine it here to mock it
// in the tests.
type listener net.Listener

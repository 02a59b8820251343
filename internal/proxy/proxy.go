// package proxy forwards gateway requests to backend services. Bodies are
// streamed in both directions and never buffered as a whole.
//
//go:generate moq --stub -out 0moq_test.go . Recorder:RecorderMock Meter:MeterMock
package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
	"time"

	"github.com/davseby/adgateway/internal/request"
	"golang.org/x/exp/slog"
)

const (
	// _maxIdleConnsPerHost is the number of idle connections kept per
	// backend host.
	_maxIdleConnsPerHost = 16

	// _idleConnTimeout is the time after which an idle backend connection
	// is closed.
	_idleConnTimeout = 90 * time.Second
)

const (
	// DirectionUpstream labels bytes streamed from the client to a
	// backend.
	DirectionUpstream = "upstream"

	// DirectionDownstream labels bytes streamed from a backend to the
	// client.
	DirectionDownstream = "downstream"
)

// HeaderRequestID is the header carrying the request identifier.
const HeaderRequestID = "X-Request-ID"

// Config holds the settings for the backend communication.
type Config struct {
	// DialTimeout is the timeout for dialing a backend.
	DialTimeout time.Duration `default:"10s" env:"DIAL_TIMEOUT"`

	// ResponseHeaderTimeout is the time to wait for the backend response
	// headers after the request has been written.
	ResponseHeaderTimeout time.Duration `default:"30s" env:"RESPONSE_HEADER_TIMEOUT"`

	// BackendTimeout bounds a whole JSON backend call.
	BackendTimeout time.Duration `default:"10s" env:"BACKEND_TIMEOUT"`

	// StreamTimeout bounds a whole streamed exchange.
	StreamTimeout time.Duration `default:"2h" env:"STREAM_TIMEOUT"`
}

// Route describes a single forwarding operation.
type Route struct {
	// Name identifies the route in logs, records and metrics.
	Name string

	// Host is the backend host, optionally with a port.
	Host string

	// Path is the backend request path.
	Path string

	// Method is the backend request method.
	Method string

	// Query lists the inbound query parameters copied to the backend
	// request. Every other parameter is dropped.
	Query []string

	// ForwardHeaders enables copying of the inbound end-to-end headers.
	ForwardHeaders bool

	// ForwardBody enables streaming of the inbound body.
	ForwardBody bool
}

// Proxy forwards requests to backend services.
type Proxy struct {
	log *slog.Logger

	client *http.Client

	rec   Recorder
	meter Meter

	cfg Config
}

// NewProxy creates a new proxy.
func NewProxy(log *slog.Logger, rec Recorder, meter Meter, cfg Config) *Proxy {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.DialTimeout,
		}).DialContext,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		MaxIdleConnsPerHost:   _maxIdleConnsPerHost,
		IdleConnTimeout:       _idleConnTimeout,

		// NOTE: Compressed backend responses must reach the client
		// untouched, so the transport must not negotiate compression on
		// its own.
		DisableCompression: true,
	}

	return &Proxy{
		log: log.With("job", "proxy"),
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		rec:   rec,
		meter: meter,
		cfg:   cfg,
	}
}

// Config returns the proxy settings.
func (p *Proxy) Config() Config {
	return p.cfg
}

// Open sends the backend request described by the route and returns the
// backend response. The inbound request provides the forwarded query
// parameters, headers and body. The caller must close the response body.
func (p *Proxy) Open(ctx context.Context, route Route, r *http.Request) (*http.Response, error) {
	req, err := p.backendRequest(ctx, route, r)
	if err != nil {
		return nil, err
	}

	rec := request.NewRecord(
		r.Header.Get(HeaderRequestID),
		route.Name,
		route.Method,
		route.Host,
		route.Path,
	)

	req.Header.Set(HeaderRequestID, rec.ID.String())

	// NOTE: Records are informational, a failing recorder must not
	// prevent the request from being forwarded.
	if err := p.rec.Handle(rec); err != nil {
		p.log.Error(
			"handling request record",
			slog.String("route", route.Name),
			slog.String("error", err.Error()),
		)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s backend: %w", route.Name, err)
	}

	return resp, nil
}

// backendRequest builds a backend request from the route and the inbound
// request.
func (p *Proxy) backendRequest(ctx context.Context, route Route, r *http.Request) (*http.Request, error) {
	target := url.URL{
		Scheme: "http",
		Host:   route.Host,
		Path:   route.Path,
	}

	if len(route.Query) > 0 {
		inbound := r.URL.Query()
		query := make(url.Values)

		for _, name := range route.Query {
			if values, ok := inbound[name]; ok {
				query[name] = values
			}
		}

		target.RawQuery = query.Encode()
	}

	var body io.Reader = http.NoBody

	if route.ForwardBody && r.Body != nil && r.ContentLength != 0 {
		body = r.Body
	}

	req, err := http.NewRequestWithContext(ctx, route.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating %s backend request: %w", route.Name, err)
	}

	if body != http.NoBody {
		// NOTE: Unknown length (-1) makes the transport use chunked
		// encoding, so the body is streamed as it arrives.
		req.ContentLength = r.ContentLength
	}

	if route.ForwardHeaders {
		copyHeader(req.Header, r.Header)
	}

	return req, nil
}

// silentError logs the error, benign network closures are logged at debug
// level.
func (p *Proxy) silentError(err error, msg string, attrs ...any) {
	fn := p.log.Error

	if errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) {
		fn = p.log.Debug
	}

	fn(msg, append(attrs, slog.String("error", err.Error()))...)
}

// IsTimeout reports whether the backend request failed because a deadline
// was exceeded.
func IsTimeout(err error) bool {
	var nerr net.Error

	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		(errors.As(err, &nerr) && nerr.Timeout())
}

// StatusFor returns the response status code for a failed backend
// request: 504 on timeouts, 502 otherwise.
func StatusFor(err error) int {
	if IsTimeout(err) {
		return http.StatusGatewayTimeout
	}

	return http.StatusBadGateway
}

// Recorder should be used to record forwarded requests.
type Recorder interface {
	// Handle should handle a new record.
	Handle(rec request.Record) error
}

// Meter should count bytes streamed through the proxy.
type Meter interface {
	// Streamed should add streamed bytes of the route in the direction.
	Streamed(route, direction string, n int64)
}

// NoopMeter is a no-op meter.
type NoopMeter struct{}

// Streamed is a no-op.
func (NoopMeter) Streamed(_, _ string, _ int64) {}

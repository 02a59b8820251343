// package server provides the HTTP front door of the gateway and the
// status surface shared with the advertising service.
//
//go:generate moq --stub -out 0moq_test.go . AdRequester:AdRequesterMock AdSource:AdSourceMock Backend:BackendMock Forwarder:ForwarderMock RecordSource:RecordSourceMock StateSource:StateSourceMock
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/davseby/adgateway/internal/server/internal/intercept"
	"golang.org/x/exp/slog"
)

const (
	// _closeTimeout is the timeout for closing the server.
	_closeTimeout = 5 * time.Second

	// _readHeaderTimeout is the timeout for reading the request header.
	_readHeaderTimeout = 5 * time.Second
)

// Server is an HTTP server serving a single handler on a metered
// listener.
type Server struct {
	log *slog.Logger

	srv   *http.Server
	meter intercept.Meter

	ln net.Listener
}

// NewServer creates a new server. The meter receives the traffic of every
// accepted connection.
func NewServer(log *slog.Logger, addr string, handler http.Handler, meter intercept.Meter) *Server {
	return &Server{
		log:   log.With("job", "server"),
		meter: meter,
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: _readHeaderTimeout,
		},
	}
}

// Listen opens the server listener. It must be called before
// ListenAndServe when the caller needs to know whether the address
// could be bound.
func (s *Server) Listen() error {
	if s.ln != nil {
		return nil
	}

	ln, err := intercept.NewListener(s.log, s.srv.Addr, s.meter)
	if err != nil {
		return err
	}

	s.ln = ln

	s.log.Info("listening", slog.String("addr", ln.Addr().String()))

	return nil
}

// Addr returns the listener address or nil if the server is not
// listening.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}

	return s.ln.Addr()
}

// ListenAndServe listens for and serves connections. It blocks until the
// context is done or server listening procedure returns an error.
func (s *Server) ListenAndServe(ctx context.Context) {
	s.log.Info("starting serving")

	// NOTE: The stop channel is closed once Serve has returned, so that
	// an early listener failure unblocks the caller too.
	stopCh := make(chan struct{})

	go func() {
		defer close(stopCh)

		if err := s.Listen(); err != nil {
			s.silentError(err, "creating listener")

			return
		}

		err := s.srv.Serve(s.ln)
		if err != nil {
			s.silentError(err, "listening and serving")
		}
	}()

	select {
	case <-stopCh:
	case <-ctx.Done():
		closureCtx, closureCancel := context.WithTimeout(context.Background(), _closeTimeout)
		defer closureCancel()

		err := s.srv.Shutdown(closureCtx) //nolint: contextcheck // we cannot use base context here as it is already cancelled and we want to give time for a shutdown.
		if err != nil {
			s.silentError(err, "shutting server down")
		}

		<-stopCh
	}
}

// silentError logs the error, benign network closures are logged at debug
// level.
func (s *Server) silentError(err error, msg string) {
	fn := s.log.Error

	if errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, http.ErrServerClosed) {
		fn = s.log.Debug
	}

	fn(msg, slog.String("error", err.Error()))
}

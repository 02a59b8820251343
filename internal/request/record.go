// package request contains necessary types and functions to handle
// forwarded backend requests logging and processing.
package request

import (
	"errors"
	"net"
	"time"

	"github.com/rs/xid"
)

// Record contains relevant information about a request forwarded to a
// backend service.
type Record struct {
	// ID is the unique identifier of the request. It is sent to the
	// backend as the X-Request-ID header.
	ID xid.ID `json:"id"`

	// Route is the name of the forwarding route.
	Route string `json:"route"`

	// Method is the HTTP method used for the backend request.
	Method string `json:"method"`

	// Host is the backend host, without the port.
	Host string `json:"host"`

	// Path is the backend request path.
	Path string `json:"path"`

	// CreatedAt is the time when the request was created.
	CreatedAt time.Time `json:"created_at"`
}

// NewRecord creates a new request record. An existing request id is
// reused when it can be parsed, otherwise a new one is generated.
func NewRecord(id, route, method, host, path string) Record {
	rid, err := xid.FromString(id)
	if err != nil {
		rid = xid.New()
	}

	return Record{
		ID:        rid,
		Route:     route,
		Method:    method,
		Host:      hostname(host),
		Path:      path,
		CreatedAt: time.Now(),
	}
}

// hostname strips the port from the host. A host without a port is
// returned unchanged.
func hostname(host string) string {
	name, _, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}

	return name
}

// Processor should process request records.
type Processor interface {
	// Handle should handle a new record.
	Handle(rec Record) error
}

// Processors passes every record to each of its processors.
type Processors []Processor

// Handle passes the record to every processor, even if some of them
// fail. The errors are joined.
func (ps Processors) Handle(rec Record) error {
	var errs []error

	for _, p := range ps {
		if err := p.Handle(rec); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

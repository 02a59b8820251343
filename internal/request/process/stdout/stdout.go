// package stdout provides a request records processor writing every record
// to the log.
package stdout

import (
	"github.com/davseby/adgateway/internal/request"
	"golang.org/x/exp/slog"
)

// Processor is a requests processor that uses standard output to log
// requests.
type Processor struct {
	log *slog.Logger
}

// NewProcessor creates a new request processor.
func NewProcessor(log *slog.Logger) *Processor {
	return &Processor{
		log: log.With("job", "requests-stdout-processor"),
	}
}

// Handle handles a new record.
func (p *Processor) Handle(rec request.Record) error {
	p.log.Info(
		"forwarding backend request",
		slog.String("id", rec.ID.String()),
		slog.String("route", rec.Route),
		slog.String("method", rec.Method),
		slog.String("host", rec.Host),
		slog.String("path", rec.Path),
	)

	return nil
}

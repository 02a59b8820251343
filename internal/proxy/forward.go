package proxy

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"golang.org/x/exp/slog"
)

// _chunkSize is the size of a single streamed body chunk.
const _chunkSize = 32 * 1024

// hopHeaders are meaningful for a single connection only and are never
// forwarded.
var hopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Forward forwards the inbound request to the route's backend and streams
// the backend response back. Failures before the response headers are
// written yield 502 or 504. A failure while streaming the response body
// aborts the client connection, as the already sent bytes cannot be
// taken back.
func (p *Proxy) Forward(w http.ResponseWriter, r *http.Request, route Route) {
	ctx, cancel := context.WithTimeout(r.Context(), p.cfg.StreamTimeout)
	defer cancel()

	upstream := &countingReader{r: r.Body}
	if r.Body != nil {
		r.Body = upstream
	}

	resp, err := p.Open(ctx, route, r)
	if err != nil {
		p.silentError(err, "opening backend stream", slog.String("route", route.Name))

		status := StatusFor(err)
		http.Error(w, http.StatusText(status), status)

		return
	}
	defer resp.Body.Close()

	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)

	rc := http.NewResponseController(w)

	if deadline, ok := ctx.Deadline(); ok {
		if err := rc.SetWriteDeadline(deadline); err != nil {
			p.log.Warn(
				"setting response write deadline",
				slog.String("route", route.Name),
				slog.String("error", err.Error()),
			)
		}
	}

	n, err := stream(w, rc, resp.Body)

	p.meter.Streamed(route.Name, DirectionUpstream, upstream.Count())
	p.meter.Streamed(route.Name, DirectionDownstream, n)

	if err == nil {
		return
	}

	var cerr *clientError
	if errors.As(err, &cerr) {
		p.silentError(cerr.err, "writing backend stream", slog.String("route", route.Name))
		return
	}

	p.silentError(err, "reading backend stream", slog.String("route", route.Name))

	// NOTE: Returning normally would terminate the response as if it was
	// complete.
	panic(http.ErrAbortHandler)
}

// stream copies the body to the writer chunk by chunk and flushes every
// chunk. Failures on the writer side are returned as *clientError.
func stream(w io.Writer, rc *http.ResponseController, body io.Reader) (int64, error) {
	buf := make([]byte, _chunkSize)

	var total int64

	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			written, werr := w.Write(buf[:n])
			total += int64(written)

			if werr != nil {
				return total, &clientError{err: werr}
			}

			if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
				return total, &clientError{err: err}
			}
		}

		if errors.Is(rerr, io.EOF) {
			return total, nil
		}

		if rerr != nil {
			return total, rerr
		}
	}
}

// clientError wraps a failure to deliver bytes to the client.
type clientError struct {
	err error
}

// Error implements error.
func (e *clientError) Error() string {
	return "writing to client: " + e.err.Error()
}

// Unwrap returns the underlying error.
func (e *clientError) Unwrap() error {
	return e.err
}

// copyHeader copies end-to-end headers from src to dst, replacing the
// values dst already holds for the same keys.
func copyHeader(dst, src http.Header) {
	skip := make(map[string]struct{}, len(hopHeaders))

	for _, h := range hopHeaders {
		skip[h] = struct{}{}
	}

	for _, v := range src.Values("Connection") {
		for _, h := range strings.Split(v, ",") {
			if h = strings.TrimSpace(h); h != "" {
				skip[http.CanonicalHeaderKey(h)] = struct{}{}
			}
		}
	}

	for key, values := range src {
		if _, ok := skip[http.CanonicalHeaderKey(key)]; ok {
			continue
		}

		dst.Del(key)

		for _, value := range values {
			dst.Add(key, value)
		}
	}
}

// countingReader counts bytes read from the underlying body.
type countingReader struct {
	r io.ReadCloser
	n atomic.Int64
}

// Read implements io.Reader.
func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))

	return n, err
}

// Close implements io.Closer.
func (c *countingReader) Close() error {
	return c.r.Close()
}

// Count returns the number of bytes read so far.
func (c *countingReader) Count() int64 {
	return c.n.Load()
}

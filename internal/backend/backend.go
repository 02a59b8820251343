// package backend provides access to the backend services behind the
// gateway: JSON calls to the metadata and history services and the
// streaming routes of the video-streaming and video-upload services.
//
//go:generate moq --stub -out 0moq_test.go . Opener:OpenerMock
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/davseby/adgateway/internal/proxy"
)

// _maxDrainBytes limits the amount of an unsuccessful response body read
// before the connection is reused.
const _maxDrainBytes = 4 * 1024

// ErrStatus is returned when a backend responds with a non 2xx status.
var ErrStatus = errors.New("unexpected backend response status")

// Config holds the backend service hosts.
type Config struct {
	// Metadata is the host of the video metadata service.
	Metadata string `default:"metadata" env:"METADATA"`

	// History is the host of the viewing history service.
	History string `default:"history" env:"HISTORY"`

	// Streaming is the host of the video streaming service.
	Streaming string `default:"video-streaming" env:"STREAMING"`

	// Upload is the host of the video upload service.
	Upload string `default:"video-upload" env:"UPLOAD"`
}

// Video is a single video entry.
type Video struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Opener should open a backend request described by the route.
type Opener interface {
	// Open should send the backend request and return its response.
	Open(ctx context.Context, route proxy.Route, r *http.Request) (*http.Response, error)
}

// Client calls the backend services.
type Client struct {
	opener  Opener
	cfg     Config
	timeout time.Duration
}

// NewClient creates a new backend client. Every JSON call is bounded by
// the timeout.
func NewClient(opener Opener, cfg Config, timeout time.Duration) *Client {
	return &Client{
		opener:  opener,
		cfg:     cfg,
		timeout: timeout,
	}
}

// Videos returns the list of videos from the metadata service.
func (c *Client) Videos(r *http.Request) ([]Video, error) {
	var resp struct {
		Videos []Video `json:"videos"`
	}

	if err := c.getJSON(r, c.VideosRoute(), &resp); err != nil {
		return nil, err
	}

	return resp.Videos, nil
}

// Video returns a single video from the metadata service. The video id
// is taken from the inbound request's id query parameter.
func (c *Client) Video(r *http.Request) (Video, error) {
	var resp struct {
		Video Video `json:"video"`
	}

	if err := c.getJSON(r, c.VideoRoute(), &resp); err != nil {
		return Video{}, err
	}

	return resp.Video, nil
}

// History returns the viewing history from the history service.
func (c *Client) History(r *http.Request) ([]Video, error) {
	var resp struct {
		Videos []Video `json:"videos"`
	}

	if err := c.getJSON(r, c.HistoryRoute(), &resp); err != nil {
		return nil, err
	}

	return resp.Videos, nil
}

// VideosRoute returns the metadata service's video list route.
func (c *Client) VideosRoute() proxy.Route {
	return proxy.Route{
		Name:   "metadata-videos",
		Host:   c.cfg.Metadata,
		Path:   "/videos",
		Method: http.MethodGet,
	}
}

// VideoRoute returns the metadata service's single video route.
func (c *Client) VideoRoute() proxy.Route {
	return proxy.Route{
		Name:   "metadata-video",
		Host:   c.cfg.Metadata,
		Path:   "/video",
		Method: http.MethodGet,
		Query:  []string{"id"},
	}
}

// HistoryRoute returns the history service's video list route.
func (c *Client) HistoryRoute() proxy.Route {
	return proxy.Route{
		Name:   "history-videos",
		Host:   c.cfg.History,
		Path:   "/videos",
		Method: http.MethodGet,
	}
}

// StreamRoute returns the video streaming route.
func (c *Client) StreamRoute() proxy.Route {
	return proxy.Route{
		Name:   "video-stream",
		Host:   c.cfg.Streaming,
		Path:   "/video",
		Method: http.MethodGet,
		Query:  []string{"id"},
	}
}

// UploadRoute returns the video upload route. Every inbound header and
// the body are forwarded.
func (c *Client) UploadRoute() proxy.Route {
	return proxy.Route{
		Name:           "video-upload",
		Host:           c.cfg.Upload,
		Path:           "/upload",
		Method:         http.MethodPost,
		ForwardHeaders: true,
		ForwardBody:    true,
	}
}

// getJSON performs the route's request and decodes the JSON response
// body into v.
func (c *Client) getJSON(r *http.Request, route proxy.Route, v interface{}) error {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	resp, err := c.opener.Open(ctx, route, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, _maxDrainBytes))

		return fmt.Errorf("%w: %s responded with %d", ErrStatus, route.Name, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s response: %w", route.Name, err)
	}

	return nil
}

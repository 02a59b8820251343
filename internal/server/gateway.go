package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"

	"github.com/davseby/adgateway/internal/backend"
	"github.com/davseby/adgateway/internal/proxy"
	"github.com/davseby/adgateway/internal/request"
	"golang.org/x/exp/slog"
)

//go:embed views/*.html
var viewsFS embed.FS

// views holds the parsed page templates.
var views = template.Must(template.ParseFS(viewsFS, "views/*.html"))

// AdRequester should broadcast an ad request.
type AdRequester interface {
	// RequestAd should publish an ad request without waiting for a
	// reply.
	RequestAd(ctx context.Context) error
}

// AdSource should provide the last received ad.
type AdSource interface {
	// Get should return the cached ad or an empty string.
	Get() string
}

// Backend should provide access to the backend services.
type Backend interface {
	// Videos should return the video list.
	Videos(r *http.Request) ([]backend.Video, error)

	// Video should return the video requested by the id query parameter.
	Video(r *http.Request) (backend.Video, error)

	// History should return the viewing history.
	History(r *http.Request) ([]backend.Video, error)

	// StreamRoute should return the video streaming route.
	StreamRoute() proxy.Route

	// UploadRoute should return the video upload route.
	UploadRoute() proxy.Route
}

// Forwarder should stream the request to a backend and the response back.
type Forwarder interface {
	// Forward should forward the request using the route.
	Forward(w http.ResponseWriter, r *http.Request, route proxy.Route)
}

// RecordSource should provide the recently forwarded backend requests.
type RecordSource interface {
	// Recent should return the stored records, newest first.
	Recent() []request.Record
}

// Instrumenter should wrap handlers with request metrics.
type Instrumenter interface {
	// Instrument should wrap the named handler.
	Instrument(name string, h http.Handler) http.Handler
}

// NoopInstrumenter returns the handlers unchanged.
type NoopInstrumenter struct{}

// Instrument returns the handler unchanged.
func (NoopInstrumenter) Instrument(_ string, h http.Handler) http.Handler {
	return h
}

// GatewayDeps holds the gateway handler dependencies.
type GatewayDeps struct {
	Ads          AdRequester
	Cache        AdSource
	Backend      Backend
	Forwarder    Forwarder
	State        StateSource
	Records      RecordSource
	Metrics      http.Handler
	Instrumenter Instrumenter
}

// gateway serves the gateway pages and APIs.
type gateway struct {
	log *slog.Logger

	deps GatewayDeps
}

// NewGatewayHandler creates the gateway HTTP handler.
func NewGatewayHandler(log *slog.Logger, deps GatewayDeps) http.Handler {
	if deps.Instrumenter == nil {
		deps.Instrumenter = NoopInstrumenter{}
	}

	g := &gateway{
		log:  log.With("job", "gateway"),
		deps: deps,
	}

	mux := http.NewServeMux()

	handle := func(pattern, name string, fn http.HandlerFunc) {
		mux.Handle(pattern, deps.Instrumenter.Instrument(name, fn))
	}

	handle("GET /{$}", "index", g.index)
	handle("GET /video", "video", g.video)
	handle("GET /upload", "upload", g.upload)
	handle("GET /history", "history", g.history)
	handle("GET /api/video", "api-video", g.streamVideo)
	handle("POST /api/upload", "api-upload", g.uploadVideo)

	if deps.Records != nil {
		handle("GET /api/requests", "api-requests", g.requests)
	}

	registerStatus(mux, g.log, deps.State, deps.Metrics)

	return requestID(mux)
}

// page holds the data rendered by the page templates.
type page struct {
	Ad     string
	Videos []backend.Video
	Video  backend.Video
	URL    string
}

// index renders the video list.
func (g *gateway) index(w http.ResponseWriter, r *http.Request) {
	videos, err := g.deps.Backend.Videos(r)
	if err != nil {
		g.backendError(w, err, "fetching video list")
		return
	}

	g.requestAd(r)

	g.render(w, "video-list.html", page{
		Ad:     g.deps.Cache.Get(),
		Videos: videos,
	})
}

// video renders the video player page.
func (g *gateway) video(w http.ResponseWriter, r *http.Request) {
	video, err := g.deps.Backend.Video(r)
	if err != nil {
		g.backendError(w, err, "fetching video details")
		return
	}

	g.render(w, "play-video.html", page{
		Video: video,
		URL:   "/api/video?" + url.Values{"id": {r.URL.Query().Get("id")}}.Encode(),
	})
}

// upload renders the upload form.
func (g *gateway) upload(w http.ResponseWriter, r *http.Request) {
	g.requestAd(r)

	g.render(w, "upload-video.html", page{
		Ad: g.deps.Cache.Get(),
	})
}

// history renders the viewing history.
func (g *gateway) history(w http.ResponseWriter, r *http.Request) {
	videos, err := g.deps.Backend.History(r)
	if err != nil {
		g.backendError(w, err, "fetching history")
		return
	}

	g.requestAd(r)

	g.render(w, "history.html", page{
		Ad:     g.deps.Cache.Get(),
		Videos: videos,
	})
}

// streamVideo streams a video from the streaming service.
func (g *gateway) streamVideo(w http.ResponseWriter, r *http.Request) {
	g.deps.Forwarder.Forward(w, r, g.deps.Backend.StreamRoute())
}

// uploadVideo streams an uploaded video to the upload service.
func (g *gateway) uploadVideo(w http.ResponseWriter, r *http.Request) {
	g.deps.Forwarder.Forward(w, r, g.deps.Backend.UploadRoute())
}

// requests lists the recently forwarded backend requests.
func (g *gateway) requests(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(g.deps.Records.Recent()); err != nil {
		g.log.Debug("writing request records", slog.String("error", err.Error()))
	}
}

// requestAd broadcasts an ad request. The page is rendered with the
// currently cached ad whether the request was published or not.
func (g *gateway) requestAd(r *http.Request) {
	if err := g.deps.Ads.RequestAd(r.Context()); err != nil {
		g.log.Warn(
			"requesting ad",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}

// backendError responds with 504 on backend timeouts and 500 otherwise.
func (g *gateway) backendError(w http.ResponseWriter, err error, msg string) {
	g.log.Error(msg, slog.String("error", err.Error()))

	status := http.StatusInternalServerError
	if proxy.IsTimeout(err) {
		status = http.StatusGatewayTimeout
	}

	http.Error(w, http.StatusText(status), status)
}

// render executes the page template. The page is buffered so that a
// template failure can still be reported with a 500.
func (g *gateway) render(w http.ResponseWriter, name string, data page) {
	var buf bytes.Buffer

	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		g.log.Error(
			"rendering page",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)

		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		g.log.Debug("writing page", slog.String("error", err.Error()))
	}
}

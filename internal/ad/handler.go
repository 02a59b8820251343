package ad

import (
	"context"
	"fmt"

	"github.com/davseby/adgateway/internal/broadcast"
	"golang.org/x/exp/slog"
)

//go:generate moq --stub -out 0moq_test.go . Publisher:PublisherMock

// Publisher should publish broadcast message content.
type Publisher interface {
	// Publish should publish a message with the provided content.
	Publish(ctx context.Context, content string) error
}

// ReplyHandler stores every ad reply in the cache. Ad requests, including
// the ones published by this process, are ignored.
type ReplyHandler struct {
	log   *slog.Logger
	cache *Cache
}

// NewReplyHandler creates a new reply handler.
func NewReplyHandler(log *slog.Logger, cache *Cache) *ReplyHandler {
	return &ReplyHandler{
		log:   log.With("job", "ad-reply-handler"),
		cache: cache,
	}
}

// Handle implements broadcast.Handler.
func (h *ReplyHandler) Handle(_ context.Context, msg broadcast.Message) error {
	if msg.IsRequest() {
		return nil
	}

	h.cache.Set(msg.Content)
	h.log.Debug("ad reply cached", slog.Int("length", len(msg.Content)))

	return nil
}

// Responder answers every ad request with a single ad reply. Replies,
// including its own, are ignored.
type Responder struct {
	log *slog.Logger

	pub     Publisher
	message string
}

// NewResponder creates a new responder replying with the provided ad
// message.
func NewResponder(log *slog.Logger, pub Publisher, message string) *Responder {
	return &Responder{
		log:     log.With("job", "ad-responder"),
		pub:     pub,
		message: message,
	}
}

// Handle implements broadcast.Handler.
func (r *Responder) Handle(ctx context.Context, msg broadcast.Message) error {
	if !msg.IsRequest() {
		return nil
	}

	r.log.Info("received ad request")

	if err := r.pub.Publish(ctx, r.message); err != nil {
		return fmt.Errorf("replying to ad request: %w", err)
	}

	return nil
}

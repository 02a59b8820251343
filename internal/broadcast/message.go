// package broadcast implements a request/response style interaction on top
// of a single fanout exchange. Every process binds its own anonymous,
// exclusive queue to the shared exchange, so every process receives every
// message, including the ones it has published itself.
//
//go:generate moq --stub -out 0moq_test.go . Channel:ChannelMock Handler:HandlerMock Sender:SenderMock Observer:ObserverMock acknowledger:acknowledgerMock
package broadcast

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// Exchange is the name of the shared broadcast exchange.
	Exchange = "ad"

	// RequestContent is the message content of an ad request. Any other
	// content is an ad reply.
	RequestContent = "request"
)

const (
	// KindRequest labels ad request messages.
	KindRequest = "request"

	// KindReply labels ad reply messages.
	KindReply = "reply"

	// KindMalformed labels messages that could not be decoded.
	KindMalformed = "malformed"
)

// Message is the broadcast wire message. It carries no correlation
// identifier: requests and replies are told apart by content only.
type Message struct {
	Content string `json:"content"`
}

// IsRequest reports whether the message is an ad request.
func (m Message) IsRequest() bool {
	return m.Content == RequestContent
}

// Kind returns the message kind label.
func (m Message) Kind() string {
	if m.IsRequest() {
		return KindRequest
	}

	return KindReply
}

// Encode encodes the message as JSON.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// ErrMissingContent is returned when a decoded message has no content
// field.
var ErrMissingContent = errors.New("message content is missing")

// Decode decodes a JSON message.
func Decode(body []byte) (Message, error) {
	var raw struct {
		Content *string `json:"content"`
	}

	if err := json.Unmarshal(body, &raw); err != nil {
		return Message{}, fmt.Errorf("decoding message: %w", err)
	}

	if raw.Content == nil {
		return Message{}, ErrMissingContent
	}

	return Message{Content: *raw.Content}, nil
}

package notify

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/target/mmk-alert-notify/internal/domain/model"
)

// ErrorKind classifies why a delivery attempt failed.
type ErrorKind string

const (
	KindRendering          ErrorKind = "rendering"
	KindEncoding           ErrorKind = "encoding"
	KindTransport          ErrorKind = "transport"
	KindHTTPStatus         ErrorKind = "http_status"
	KindProviderRejection  ErrorKind = "provider_rejection"
	KindMalformedResponse  ErrorKind = "malformed_response"
	KindUnsupportedChannel ErrorKind = "unsupported_channel"
	KindInvalidRequest     ErrorKind = "invalid_request"
)

// DeliveryError is the single error type every strategy returns from Send.
type DeliveryError struct {
	// Channel is the human-readable channel tag, e.g. "WeWork".
	Channel string
	Kind    ErrorKind
	Message string
	// StatusCode is the HTTP status returned by the provider, when one was received.
	StatusCode int
	// ProviderCode is the provider's own error code for rejections.
	ProviderCode int
	Cause        error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(e.Channel)
	b.WriteString(" Notify Error] ")
	b.WriteString(e.Message)
	if e.Kind == KindProviderRejection && e.ProviderCode != 0 {
		b.WriteString(" (errcode ")
		b.WriteString(strconv.Itoa(e.ProviderCode))
		b.WriteByte(')')
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

// AsDeliveryError extracts a *DeliveryError from err's chain.
func AsDeliveryError(err error) (*DeliveryError, bool) {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf returns the delivery error kind of err, or "" when err is nil or foreign.
func KindOf(err error) ErrorKind {
	if de, ok := AsDeliveryError(err); ok {
		return de.Kind
	}
	return ""
}

// Tag builds DeliveryErrors labelled with one channel name.
type Tag string

// ChannelTag returns the Tag for ct, so every error for a channel carries the
// same label whichever layer produced it.
func ChannelTag(ct model.ChannelType) Tag {
	return Tag(ct.DisplayName())
}

// Rendering reports a template failure.
func (t Tag) Rendering(cause error) *DeliveryError {
	return t.newError(KindRendering, "render message", cause)
}

// Encoding reports a payload serialization failure.
func (t Tag) Encoding(cause error) *DeliveryError {
	return t.newError(KindEncoding, "encode payload", cause)
}

// Transport reports a connection, DNS, timeout or cancellation failure.
func (t Tag) Transport(cause error) *DeliveryError {
	return t.newError(KindTransport, "request failed", cause)
}

// Status reports a provider response whose HTTP status was not the expected one.
func (t Tag) Status(code int) *DeliveryError {
	msg := "http status code " + strconv.Itoa(code)
	if text := http.StatusText(code); text != "" {
		msg += " " + text
	}
	return &DeliveryError{Channel: string(t), Kind: KindHTTPStatus, Message: msg, StatusCode: code}
}

// Rejected reports a provider-level error carried inside an accepted HTTP response.
func (t Tag) Rejected(code int, message string) *DeliveryError {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "provider rejected message"
	}
	return &DeliveryError{
		Channel:      string(t),
		Kind:         KindProviderRejection,
		Message:      message,
		StatusCode:   http.StatusOK,
		ProviderCode: code,
	}
}

// Malformed reports a response body that could not be interpreted.
func (t Tag) Malformed(cause error) *DeliveryError {
	return t.newError(KindMalformedResponse, "malformed response", cause)
}

// Invalid reports a receiver or alert the channel cannot deliver to.
func (t Tag) Invalid(message string) *DeliveryError {
	return &DeliveryError{Channel: string(t), Kind: KindInvalidRequest, Message: message}
}

// Unsupported reports a receiver whose channel has no registered strategy.
func (t Tag) Unsupported() *DeliveryError {
	return &DeliveryError{
		Channel: string(t),
		Kind:    KindUnsupportedChannel,
		Message: "no strategy registered for channel",
	}
}

// Wrap normalizes any error into a *DeliveryError tagged with this channel.
// Errors that already are delivery errors are returned unchanged.
func (t Tag) Wrap(err error) error {
	if err == nil {
		return nil
	}
	if de, ok := AsDeliveryError(err); ok {
		return de
	}
	return t.newError(KindTransport, "unexpected failure", err)
}

func (t Tag) newError(kind ErrorKind, msg string, cause error) *DeliveryError {
	return &DeliveryError{Channel: string(t), Kind: kind, Message: msg, Cause: cause}
}

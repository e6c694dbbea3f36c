package domain

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	KindConfig ErrorKind = iota
	KindValidation
	KindUpstream
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// RelayError is the single error shape surfaced to callers of the relay.
type RelayError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Detail  string
	Err     error
}

func (e *RelayError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

func NewConfigError(message string) *RelayError {
	return &RelayError{Kind: KindConfig, Status: http.StatusInternalServerError, Message: message}
}

func NewValidationError(message string) *RelayError {
	return &RelayError{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

func NewPayloadTooLargeError(message string) *RelayError {
	return &RelayError{Kind: KindValidation, Status: http.StatusRequestEntityTooLarge, Message: message}
}

// NewUpstreamError keeps the upstream status and body verbatim.
func NewUpstreamError(status int, body []byte) *RelayError {
	msg := string(body)
	if msg == "" {
		msg = fmt.Sprintf("upstream returned status %d", status)
	}
	return &RelayError{Kind: KindUpstream, Status: status, Message: msg}
}

func NewTransportError(message string, err error) *RelayError {
	e := &RelayError{Kind: KindTransport, Status: http.StatusBadGateway, Message: message, Err: err}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// AsRelayError reports whether err carries a *RelayError.
func AsRelayError(err error) (*RelayError, bool) {
	var re *RelayError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

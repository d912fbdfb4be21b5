package types

import (
	"net/http"
	"time"
)

var _ Response = (*ResponseMeta)(nil)

// Response interface contains general methods for retrieving response info.
type Response interface {
	// GetStatusCode returns response status code.
	GetStatusCode() int

	// GetReason return response status message
	// corresponding to the HTTP status code.
	GetReason() string

	// GetHeaders returns response headers.
	GetHeaders() http.Header

	// GetContent returns response content body.
	GetContent() []byte

	// GetElapsed returns the time between sending the request and
	// receiving the response headers.
	GetElapsed() time.Duration
}

// ResponseMeta is a fully read response of the API under test.
type ResponseMeta struct {
	StatusCode   int
	StatusReason string
	Headers      http.Header
	Content      []byte
	Elapsed      time.Duration
}

func (r *ResponseMeta) GetStatusCode() int {
	return r.StatusCode
}

func (r *ResponseMeta) GetReason() string {
	return r.StatusReason
}

func (r *ResponseMeta) GetHeaders() http.Header {
	return r.Headers
}

func (r *ResponseMeta) GetContent() []byte {
	return r.Content
}

func (r *ResponseMeta) GetElapsed() time.Duration {
	return r.Elapsed
}

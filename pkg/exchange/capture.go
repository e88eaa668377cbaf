package exchange

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync/atomic"
)

// DefaultMaxCaptureSize is the largest request or response body kept in a
// snapshot (10MB). The exchange itself is never truncated.
const DefaultMaxCaptureSize = 10 << 20

type matchKey struct{}

type matchState struct {
	matched atomic.Bool
}

// MarkMatched records that a stub matched the request carried by ctx.
// It is a no-op for contexts not created by Capture.
func MarkMatched(ctx context.Context) {
	if s, ok := ctx.Value(matchKey{}).(*matchState); ok {
		s.matched.Store(true)
	}
}

// Matched reports whether MarkMatched was called for ctx.
func Matched(ctx context.Context) bool {
	s, ok := ctx.Value(matchKey{}).(*matchState)
	return ok && s.matched.Load()
}

// Capture wraps an http.Handler, snapshots every exchange it serves and
// notifies the registry's listeners once the handler has returned.
type Capture struct {
	handler        http.Handler
	registry       *Registry
	maxCaptureSize int
}

// CaptureOption configures a Capture.
type CaptureOption func(*Capture)

// WithMaxCaptureSize limits how many body bytes are kept per snapshot.
func WithMaxCaptureSize(n int) CaptureOption {
	return func(c *Capture) {
		if n > 0 {
			c.maxCaptureSize = n
		}
	}
}

// NewCapture creates a capturing middleware around handler.
func NewCapture(handler http.Handler, registry *Registry, opts ...CaptureOption) *Capture {
	if registry == nil {
		registry = NewRegistry()
	}
	c := &Capture{
		handler:        handler,
		registry:       registry,
		maxCaptureSize: DefaultMaxCaptureSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ServeHTTP implements http.Handler.
func (c *Capture) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var requestBody []byte
	if r.Body != nil && r.Body != http.NoBody {
		limited := io.LimitReader(r.Body, int64(c.maxCaptureSize))
		captured, _ := io.ReadAll(limited)
		requestBody = captured
		// Put the captured prefix back in front of whatever was not read
		r.Body = readCloser{
			Reader: io.MultiReader(bytes.NewReader(captured), r.Body),
			Closer: r.Body,
		}
	}

	state := &matchState{}
	r = r.WithContext(context.WithValue(r.Context(), matchKey{}, state))

	capture := &responseCapture{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		maxCaptureSize: c.maxCaptureSize,
	}

	c.handler.ServeHTTP(capture, r)

	snapshot := &Snapshot{
		WasMatched: Matched(r.Context()),
		Request:    NewRequest(r, requestBody),
		Response: Response{
			Status:    capture.statusCode,
			Headers:   HeadersFromHTTP(capture.Header()),
			Body:      capture.body,
			Truncated: capture.truncated,
		},
	}
	c.registry.Notify(snapshot)
}

type readCloser struct {
	io.Reader
	io.Closer
}

// responseCapture records the status code and body written by the handler.
type responseCapture struct {
	http.ResponseWriter
	statusCode     int
	wroteHeader    bool
	body           []byte
	truncated      bool
	maxCaptureSize int
}

func (rc *responseCapture) WriteHeader(code int) {
	if !rc.wroteHeader {
		rc.statusCode = code
		rc.wroteHeader = true
	}
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.wroteHeader = true
	if rc.body == nil {
		rc.body = []byte{}
	}
	remaining := max(rc.maxCaptureSize-len(rc.body), 0)
	if len(b) <= remaining {
		rc.body = append(rc.body, b...)
	} else {
		rc.body = append(rc.body, b[:remaining]...)
		rc.truncated = true
	}
	return rc.ResponseWriter.Write(b)
}

// Flush forwards to the underlying writer when it supports flushing.
func (rc *responseCapture) Flush() {
	if f, ok := rc.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rc *responseCapture) Unwrap() http.ResponseWriter {
	return rc.ResponseWriter
}

package exchange

import (
	"net"
	"net/http"
	"sort"
	"strings"
)

// Snapshot is a read-only view of one completed HTTP exchange.
type Snapshot struct {
	// WasMatched reports whether a stub matched the request.
	WasMatched bool

	Request  Request
	Response Response
}

// Request is the captured request half of an exchange.
type Request struct {
	Method      string
	AbsoluteURL string
	ClientIP    string
	Headers     Headers
	// Body is the raw request body. Nil when the request carried none.
	Body []byte
}

// Response is the captured response half of an exchange.
type Response struct {
	Status  int
	Headers Headers
	// Body is the raw response body. Nil when the handler wrote nothing.
	Body []byte
	// Truncated is set when the handler wrote more than the capture limit
	// and Body holds only a prefix.
	Truncated bool
}

// Header is a single header name with all of its values.
type Header struct {
	Name   string
	Values []string
}

// Headers is an ordered header list.
type Headers []Header

// HeadersFromHTTP converts an http.Header into Headers ordered by name.
// Returns nil for a nil header map.
func HeadersFromHTTP(h http.Header) Headers {
	if h == nil {
		return nil
	}
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(Headers, 0, len(names))
	for _, name := range names {
		values := make([]string, len(h[name]))
		copy(values, h[name])
		out = append(out, Header{Name: name, Values: values})
	}
	return out
}

// First returns the first value of the named header. Names compare
// case-insensitively.
func (h Headers) First(name string) (string, bool) {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			if len(hdr.Values) == 0 {
				return "", true
			}
			return hdr.Values[0], true
		}
	}
	return "", false
}

// NewRequest builds a Request snapshot from an incoming request and its
// already-read body.
func NewRequest(r *http.Request, body []byte) Request {
	return Request{
		Method:      r.Method,
		AbsoluteURL: absoluteURL(r),
		ClientIP:    clientIP(r),
		Headers:     HeadersFromHTTP(r.Header),
		Body:        body,
	}
}

// absoluteURL reconstructs the URL the client asked for.
func absoluteURL(r *http.Request) string {
	if r.URL == nil {
		return ""
	}
	if r.URL.IsAbs() {
		return r.URL.String()
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}

	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	return scheme + "://" + host + r.URL.RequestURI()
}

// clientIP returns the first X-Forwarded-For hop, or the host part of RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

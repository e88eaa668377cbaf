// Package exchange captures completed HTTP exchanges served by the mock engine
// and hands them to registered listeners.
//
// A Snapshot is an immutable view of one request/response pair: the request
// method, absolute URL, client IP, headers and raw body, whether a stub matched,
// and the response status, headers and raw body.
//
// # Capture
//
// Capture is an http.Handler wrapper. It buffers the request body (restoring it
// for the wrapped handler), records everything the handler writes, and once the
// handler returns it builds a Snapshot and notifies every listener in the
// Registry synchronously, in registration order:
//
//	registry := exchange.NewRegistry()
//	registry.Register(listener)
//	handler := exchange.NewCapture(engineHandler, registry)
//
// The wrapped handler reports its match outcome with MarkMatched.
//
// # Listeners
//
// Listeners identify themselves by Name. The name is only a registration key:
// registering a second listener with the same name replaces the first one in
// place. A panicking listener is recovered and logged; it never affects the
// response or the remaining listeners.
package exchange

// Package engine serves configured stubs over HTTP and reports every served
// exchange to the registered exchange listeners.
//
// The request path is:
//
//	http.Server -> mux -> exchange.Capture -> Handler
//
// Handler picks the best matching stub, marks the exchange as matched and
// writes the stub's response, or answers 404 no_match. Capture snapshots the
// exchange and notifies the listeners (the structured JSON logger and the
// exchange metrics) once the handler has returned. Operational endpoints
// under /__mockd/ bypass capture and are never reported.
package engine

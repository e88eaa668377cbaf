// Package metrics exposes Prometheus collectors for the mock server.
//
// Collectors are registered against a caller-supplied prometheus.Registerer so
// tests and embedded servers never touch the global default registry.
//
//   - mockd_exchanges_total: served exchanges (labels: matched, status)
//   - mockd_jsonlog_records_total: structured log records (labels: result)
//   - mockd_jsonlog_record_bytes_total: bytes written to the log sink
//
// # Usage
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	registry.Register(m.Listener())
//	mux.Handle("/__mockd/metrics", metrics.Handler(reg))
//
// All methods are safe on a nil *Collectors, which records nothing.
package metrics

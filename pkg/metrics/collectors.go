package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Record results used as the "result" label.
const (
	ResultEmitted = "emitted"
	ResultFailed  = "failed"
)

// Collectors holds the mock server's Prometheus collectors.
type Collectors struct {
	exchanges   *prometheus.CounterVec
	records     *prometheus.CounterVec
	recordBytes prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)
	return &Collectors{
		exchanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mockd_exchanges_total",
				Help: "Total number of HTTP exchanges served by the mock engine",
			},
			[]string{"matched", "status"},
		),
		records: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mockd_jsonlog_records_total",
				Help: "Total number of structured log records, by outcome",
			},
			[]string{"result"},
		),
		recordBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mockd_jsonlog_record_bytes_total",
				Help: "Total bytes written to the structured log sink",
			},
		),
	}
}

// ObserveExchange counts one served exchange.
func (c *Collectors) ObserveExchange(matched bool, status int) {
	if c == nil {
		return
	}
	c.exchanges.WithLabelValues(strconv.FormatBool(matched), strconv.Itoa(status)).Inc()
}

// RecordEmitted counts one record of size bytes written to the log sink.
func (c *Collectors) RecordEmitted(size int) {
	if c == nil {
		return
	}
	c.records.WithLabelValues(ResultEmitted).Inc()
	c.recordBytes.Add(float64(size))
}

// RecordFailed counts one record that could not be built or written.
func (c *Collectors) RecordFailed() {
	if c == nil {
		return
	}
	c.records.WithLabelValues(ResultFailed).Inc()
}

// Handler serves the metrics gathered by g in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

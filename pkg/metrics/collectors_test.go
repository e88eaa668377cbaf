package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockd-jsonlog/pkg/exchange"
)

func TestCollectors_ObserveExchange(t *testing.T) {
	t.Parallel()

	c := New(prometheus.NewRegistry())
	c.ObserveExchange(true, 200)
	c.ObserveExchange(true, 200)
	c.ObserveExchange(false, 404)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.exchanges.WithLabelValues("true", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.exchanges.WithLabelValues("false", "404")))
}

func TestCollectors_Records(t *testing.T) {
	t.Parallel()

	c := New(prometheus.NewRegistry())
	c.RecordEmitted(120)
	c.RecordEmitted(30)
	c.RecordFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.records.WithLabelValues(ResultEmitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.records.WithLabelValues(ResultFailed)))
	assert.Equal(t, 150.0, testutil.ToFloat64(c.recordBytes))
}

func TestCollectors_NilIsNoOp(t *testing.T) {
	t.Parallel()

	var c *Collectors
	assert.NotPanics(t, func() {
		c.ObserveExchange(true, 200)
		c.RecordEmitted(10)
		c.RecordFailed()
	})
}

func TestListener_CountsSnapshots(t *testing.T) {
	t.Parallel()

	c := New(prometheus.NewRegistry())
	l := c.Listener()
	assert.Equal(t, ListenerName, l.Name())

	l.OnExchangeComplete(&exchange.Snapshot{WasMatched: true, Response: exchange.Response{Status: 201}})
	l.OnExchangeComplete(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.exchanges.WithLabelValues("true", "201")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := New(reg)
	c.RecordEmitted(42)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `mockd_jsonlog_records_total{result="emitted"} 1`), text)
	assert.True(t, strings.Contains(text, "mockd_jsonlog_record_bytes_total 42"), text)
}

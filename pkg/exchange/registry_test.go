package exchange

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicListener struct{}

func (panicListener) Name() string                  { return "panicker" }
func (panicListener) OnExchangeComplete(*Snapshot) { panic("boom") }

func TestRegistry_RegisterKeepsOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	a := &recordingListener{name: "a"}
	b := &recordingListener{name: "b"}
	r.Register(a)
	r.Register(b)
	r.Register(nil)

	listeners := r.Listeners()
	require.Len(t, listeners, 2)
	assert.Equal(t, "a", listeners[0].Name())
	assert.Equal(t, "b", listeners[1].Name())
}

func TestRegistry_SameNameReplacesInPlace(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	first := &recordingListener{name: "structured-json-logging"}
	other := &recordingListener{name: "other"}
	second := &recordingListener{name: "structured-json-logging"}
	r.Register(first)
	r.Register(other)
	r.Register(second)

	listeners := r.Listeners()
	require.Len(t, listeners, 2)
	assert.Same(t, second, listeners[0])
	assert.Same(t, other, listeners[1])

	r.Notify(&Snapshot{})
	assert.Empty(t, first.Snapshots())
	assert.Len(t, second.Snapshots(), 1)
}

func TestRegistry_PanickingListenerIsIsolated(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	r := NewRegistry()
	r.SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	after := &recordingListener{name: "after"}
	r.Register(panicListener{})
	r.Register(after)

	capture := NewCapture(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("served"))
	}), r)

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		capture.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, "served", rec.Body.String())
	assert.Len(t, after.Snapshots(), 1)
	assert.Contains(t, logs.String(), "exchange listener panicked")
	assert.Contains(t, logs.String(), "listener=panicker")
}

func TestRegistry_SetLoggerNil(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.SetLogger(nil)
	r.Register(panicListener{})
	assert.NotPanics(t, func() { r.Notify(&Snapshot{}) })
}

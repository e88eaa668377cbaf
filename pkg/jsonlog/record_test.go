package jsonlog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockd-jsonlog/pkg/exchange"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.FixedZone("CET", 3600))

func textSnapshot() *exchange.Snapshot {
	return &exchange.Snapshot{
		WasMatched: true,
		Request: exchange.Request{
			Method:      "GET",
			AbsoluteURL: "http://localhost:8080/test",
			ClientIP:    "127.0.0.1",
			Headers:     contentType("application/json"),
			Body:        []byte(`{"key":"value"}`),
		},
		Response: exchange.Response{
			Status:  200,
			Headers: contentType("application/json"),
			Body:    []byte(`{"status":"ok"}`),
		},
	}
}

func TestNewRecord_TextExchange(t *testing.T) {
	t.Parallel()

	rec, err := NewRecord(textSnapshot(), fixedTime, "id-1")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-14T08:26:53.589Z", rec.Timestamp)
	assert.Equal(t, ServiceName, rec.Service)
	assert.True(t, rec.WasMatched)
	assert.Equal(t, "id-1", rec.RequestID)
	assert.Equal(t, "GET", rec.Request.Method)
	assert.Equal(t, "http://localhost:8080/test", rec.Request.URL)
	assert.Equal(t, "127.0.0.1", rec.Request.ClientIP)
	assert.Equal(t, HeaderFields{{Name: "Content-Type", Value: "application/json"}}, rec.Request.Headers)
	assert.Equal(t, `{"key":"value"}`, rec.Request.Body)
	assert.Equal(t, 200, rec.Response.Status)
	require.NotNil(t, rec.Response.Body)
	assert.Equal(t, `{"status":"ok"}`, *rec.Response.Body)
}

func TestNewRecord_NilSnapshot(t *testing.T) {
	t.Parallel()

	rec, err := NewRecord(nil, fixedTime, "id")
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrNilSnapshot)
}

func TestNewRecord_MultiValueHeadersKeepFirst(t *testing.T) {
	t.Parallel()

	snap := textSnapshot()
	snap.Request.Headers = exchange.Headers{
		{Name: "Accept", Values: []string{"text/html", "application/json"}},
		{Name: "X-Empty"},
	}
	rec, err := NewRecord(snap, fixedTime, "id")
	require.NoError(t, err)

	assert.Equal(t, HeaderFields{
		{Name: "Accept", Value: "text/html"},
		{Name: "X-Empty", Value: ""},
	}, rec.Request.Headers)
}

func TestNewRecord_MissingHeadersAreEmptyObjects(t *testing.T) {
	t.Parallel()

	snap := &exchange.Snapshot{
		Request:  exchange.Request{Method: "GET", AbsoluteURL: "http://localhost/test"},
		Response: exchange.Response{Status: 200},
	}
	rec, err := NewRecord(snap, fixedTime, "id")
	require.NoError(t, err)

	line, err := rec.MarshalLine()
	require.NoError(t, err)

	assert.Contains(t, string(line), `"request":{"method":"GET","url":"http://localhost/test","clientIp":"","headers":{},"body":""}`)
	assert.Contains(t, string(line), `"response":{"status":200,"headers":{},"body":null}`)
}

func TestNewRecord_EmptyResponseBodyIsEmptyString(t *testing.T) {
	t.Parallel()

	snap := textSnapshot()
	snap.Response.Body = []byte{}
	rec, err := NewRecord(snap, fixedTime, "id")
	require.NoError(t, err)

	require.NotNil(t, rec.Response.Body)
	assert.Equal(t, "", *rec.Response.Body)
}

func TestRecord_MarshalLine_FieldOrder(t *testing.T) {
	t.Parallel()

	rec, err := NewRecord(textSnapshot(), fixedTime, "f47ac10b-58cc-4372-a567-0e02b2c3d479")
	require.NoError(t, err)

	line, err := rec.MarshalLine()
	require.NoError(t, err)

	want := `{"@timestamp":"2026-03-14T08:26:53.589Z","service":"wiremock","wasMatched":true,` +
		`"requestId":"f47ac10b-58cc-4372-a567-0e02b2c3d479",` +
		`"request":{"method":"GET","url":"http://localhost:8080/test","clientIp":"127.0.0.1",` +
		`"headers":{"Content-Type":"application/json"},"body":"{\"key\":\"value\"}"},` +
		`"response":{"status":200,"headers":{"Content-Type":"application/json"},"body":"{\"status\":\"ok\"}"}}` + "\n"
	assert.Equal(t, want, string(line))
	assert.Equal(t, 1, strings.Count(string(line), "\n"))
}

func TestRecord_MarshalLine_NoHTMLEscaping(t *testing.T) {
	t.Parallel()

	snap := textSnapshot()
	snap.Request.Headers = contentType("image/png")
	rec, err := NewRecord(snap, fixedTime, "id")
	require.NoError(t, err)

	line, err := rec.MarshalLine()
	require.NoError(t, err)
	assert.Contains(t, string(line), `"body":"<binary content not logged>"`)
}

func TestRecord_MarshalLine_HeadersKeepCaptureOrder(t *testing.T) {
	t.Parallel()

	snap := textSnapshot()
	snap.Response.Headers = exchange.Headers{
		{Name: "X-B", Values: []string{"2"}},
		{Name: "X-A", Values: []string{"1"}},
	}
	rec, err := NewRecord(snap, fixedTime, "id")
	require.NoError(t, err)

	line, err := rec.MarshalLine()
	require.NoError(t, err)
	assert.Contains(t, string(line), `"headers":{"X-B":"2","X-A":"1"}`)
}

func TestFlattenHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers exchange.Headers
		want    HeaderFields
		json    string
	}{
		{"nil", nil, HeaderFields{}, `{}`},
		{
			name: "repeated name keeps first position and last value",
			headers: exchange.Headers{
				{Name: "X-A", Values: []string{"1"}},
				{Name: "X-B", Values: []string{"2"}},
				{Name: "X-A", Values: []string{"3", "4"}},
			},
			want: HeaderFields{{Name: "X-A", Value: "3"}, {Name: "X-B", Value: "2"}},
			json: `{"X-A":"3","X-B":"2"}`,
		},
		{
			name:    "no html escaping",
			headers: exchange.Headers{{Name: "Link", Values: []string{"<http://x/a?b=1&c=2>"}}},
			want:    HeaderFields{{Name: "Link", Value: "<http://x/a?b=1&c=2>"}},
			json:    `{"Link":"<http://x/a?b=1&c=2>"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FlattenHeaders(tt.headers)
			assert.Equal(t, tt.want, got)

			encoded, err := got.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.json, string(encoded))
		})
	}

	var nilFields HeaderFields
	encoded, err := nilFields.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(encoded))
}

func TestNewRecord_TruncatedResponseBody(t *testing.T) {
	t.Parallel()

	snap := textSnapshot()
	snap.Response.Body = []byte(`{"doc":"` + longBase64[:50])
	snap.Response.Truncated = true

	rec, err := NewRecord(snap, fixedTime, "id")
	require.NoError(t, err)
	require.NotNil(t, rec.Response.Body)
	assert.Equal(t, TruncatedBodyPlaceholder, *rec.Response.Body)
}

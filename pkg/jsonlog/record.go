package jsonlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/getmockd/mockd-jsonlog/pkg/exchange"
)

// ErrNilSnapshot is returned when a record is requested for a nil snapshot.
var ErrNilSnapshot = errors.New("exchange snapshot is nil")

// Record is one structured log entry. Field order is the serialized order.
type Record struct {
	Timestamp  string          `json:"@timestamp"`
	Service    string          `json:"service"`
	WasMatched bool            `json:"wasMatched"`
	RequestID  string          `json:"requestId"`
	Request    RequestSection  `json:"request"`
	Response   ResponseSection `json:"response"`
}

// RequestSection is the "request" object of a Record.
type RequestSection struct {
	Method   string       `json:"method"`
	URL      string       `json:"url"`
	ClientIP string       `json:"clientIp"`
	Headers  HeaderFields `json:"headers"`
	Body     string       `json:"body"`
}

// ResponseSection is the "response" object of a Record.
type ResponseSection struct {
	Status  int          `json:"status"`
	Headers HeaderFields `json:"headers"`
	// Body is nil when the exchange had no response body at all, which
	// serializes as null rather than "".
	Body *string `json:"body"`
}

// NewRecord assembles the record for snapshot. requestID identifies the log
// entry, not the exchange.
func NewRecord(snapshot *exchange.Snapshot, now time.Time, requestID string) (*Record, error) {
	if snapshot == nil {
		return nil, ErrNilSnapshot
	}
	req := snapshot.Request
	resp := snapshot.Response

	rec := &Record{
		Timestamp:  now.UTC().Format(time.RFC3339Nano),
		Service:    ServiceName,
		WasMatched: snapshot.WasMatched,
		RequestID:  requestID,
		Request: RequestSection{
			Method:   req.Method,
			URL:      req.AbsoluteURL,
			ClientIP: req.ClientIP,
			Headers:  FlattenHeaders(req.Headers),
			Body:     ClassifyRequestBody(req.Headers, req.Body),
		},
		Response: ResponseSection{
			Status:  resp.Status,
			Headers: FlattenHeaders(resp.Headers),
		},
	}
	switch {
	case resp.Truncated:
		body := TruncatedBodyPlaceholder
		rec.Response.Body = &body
	case resp.Body != nil:
		body := SanitizeResponseBody(resp.Body)
		rec.Response.Body = &body
	}
	return rec, nil
}

// MarshalLine encodes the record as compact JSON followed by a newline.
func (r *Record) MarshalLine() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HeaderField is one flattened header.
type HeaderField struct {
	Name  string
	Value string
}

// HeaderFields is a flattened header mapping that serializes as a JSON object
// in capture order.
type HeaderFields []HeaderField

// FlattenHeaders collapses h into name -> first value. A repeated name keeps
// its first position and takes the value of its last entry. Never returns nil.
func FlattenHeaders(h exchange.Headers) HeaderFields {
	out := make(HeaderFields, 0, len(h))
	index := make(map[string]int, len(h))
	for _, hdr := range h {
		value := ""
		if len(hdr.Values) > 0 {
			value = hdr.Values[0]
		}
		if i, ok := index[hdr.Name]; ok {
			out[i].Value = value
			continue
		}
		index[hdr.Name] = len(out)
		out = append(out, HeaderField{Name: hdr.Name, Value: value})
	}
	return out
}

// MarshalJSON implements json.Marshaler. A nil list encodes as {}.
func (f HeaderFields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, field.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, field.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

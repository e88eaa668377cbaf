package jsonlog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/getmockd/mockd-jsonlog/pkg/exchange"
)

func contentType(value string) exchange.Headers {
	return exchange.Headers{{Name: "Content-Type", Values: []string{value}}}
}

func TestClassifyRequestBody(t *testing.T) {
	t.Parallel()

	binary := []byte{1, 2, 3}
	tests := []struct {
		name    string
		headers exchange.Headers
		body    []byte
		want    string
	}{
		{"json is logged verbatim", contentType("application/json"), []byte(`{"key":"value"}`), `{"key":"value"}`},
		{"multipart with boundary", contentType("multipart/form-data; boundary=xyz"), binary, BinaryBodyPlaceholder},
		{"bare multipart", contentType("multipart/form-data"), binary, BinaryBodyPlaceholder},
		{"pdf", contentType("application/pdf"), binary, BinaryBodyPlaceholder},
		{"png", contentType("image/png"), binary, BinaryBodyPlaceholder},
		{"jpeg upper case", contentType("IMAGE/JPEG"), binary, BinaryBodyPlaceholder},
		{"mixed case multipart", contentType("Multipart/Form-Data; boundary=a"), binary, BinaryBodyPlaceholder},
		{"unlisted binary type is logged", contentType("application/octet-stream"), []byte("raw"), "raw"},
		{"text/plain", contentType("text/plain"), []byte("hello"), "hello"},
		{"empty content type", contentType(""), []byte("hello"), "hello"},
		{"no headers", nil, []byte("plain"), "plain"},
		{"no content type header", exchange.Headers{{Name: "Accept", Values: []string{"*/*"}}}, []byte("plain"), "plain"},
		{"nil body", contentType("application/json"), nil, ""},
		{"empty body", nil, []byte{}, ""},
		{"binary placeholder even when empty", contentType("image/gif"), nil, BinaryBodyPlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClassifyRequestBody(tt.headers, tt.body))
		})
	}
}

func TestClassifyRequestBody_LowercaseHeaderName(t *testing.T) {
	t.Parallel()

	headers := exchange.Headers{{Name: "content-type", Values: []string{"application/pdf"}}}
	assert.Equal(t, BinaryBodyPlaceholder, ClassifyRequestBody(headers, []byte("%PDF-1.4")))
}

func TestClassifyRequestBody_UsesFirstValue(t *testing.T) {
	t.Parallel()

	headers := exchange.Headers{{Name: "Content-Type", Values: []string{"application/json", "image/png"}}}
	assert.Equal(t, "{}", ClassifyRequestBody(headers, []byte("{}")))
}

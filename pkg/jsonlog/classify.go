package jsonlog

import (
	"strings"

	"github.com/getmockd/mockd-jsonlog/pkg/exchange"
)

// ClassifyRequestBody returns the text to log for a request body.
//
// Bodies whose Content-Type starts with multipart/form-data, application/pdf
// or image/ are replaced with BinaryBodyPlaceholder. Everything else,
// including requests without headers or without a Content-Type, is logged
// verbatim. Binary types outside that list are logged as-is.
func ClassifyRequestBody(headers exchange.Headers, body []byte) string {
	if contentType, ok := headers.First("Content-Type"); ok && IsBinaryContentType(contentType) {
		return BinaryBodyPlaceholder
	}
	return string(body)
}

// IsBinaryContentType reports whether contentType names a payload that is
// never logged. The comparison is case-insensitive.
func IsBinaryContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	for _, prefix := range binaryContentTypePrefixes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}

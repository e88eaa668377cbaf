package jsonlog

import (
	"bytes"
	"encoding/base64"
	"strings"
)

// SanitizeResponseBody returns the text to log for a response body.
//
// An empty body is returned unchanged, and so is a body that does not start
// with a JSON value. A JSON body has every object field whose value looks like
// a base64 payload replaced with Base64Placeholder, at any depth, and is
// re-serialized compactly with fields in their original order. Bodies holding
// several values (NDJSON, concatenated documents) are sanitized value by
// value; text after the last value that parses is appended unchanged.
func SanitizeResponseBody(body []byte) string {
	if len(body) == 0 {
		return string(body)
	}

	segments, err := parseValues(body)
	if err != nil {
		return string(body)
	}

	var buf bytes.Buffer
	for _, seg := range segments {
		if seg.value == nil {
			buf.Write(seg.raw)
			continue
		}
		redactBase64(seg.value)
		if err := seg.value.writeTo(&buf); err != nil {
			return string(body)
		}
	}
	return buf.String()
}

// redactBase64 replaces base64-looking string fields of objects in place.
// String array elements are left alone.
func redactBase64(n *node) {
	switch n.kind {
	case kindObject:
		for i := range n.fields {
			child := n.fields[i].value
			if child.kind == kindString && LooksLikeBase64(child.text) {
				n.fields[i].value = &node{kind: kindString, text: Base64Placeholder}
				continue
			}
			redactBase64(child)
		}
	case kindArray:
		for _, item := range n.items {
			redactBase64(item)
		}
	}
}

// LooksLikeBase64 reports whether value is at least Base64MinLength long and
// decodes as standard-alphabet base64.
//
// Padding may be omitted when the final group has two or three characters,
// but padding that is present must be correct. Line breaks and any other
// characters outside the alphabet make the value not base64. Long alphanumeric
// tokens that happen to decode are reported as base64.
func LooksLikeBase64(value string) bool {
	if len(value) < Base64MinLength {
		return false
	}
	// The decoder skips CR and LF, which a strict check must reject
	if strings.ContainsAny(value, "\r\n") {
		return false
	}

	enc := base64.StdEncoding
	if !strings.HasSuffix(value, "=") && len(value)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	_, err := enc.DecodeString(value)
	return err == nil
}

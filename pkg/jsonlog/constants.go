package jsonlog

const (
	// ListenerName is the registration key of the listener.
	ListenerName = "structured-json-logging"

	// ServiceName is the constant value of the "service" field.
	ServiceName = "wiremock"

	// ErrorPrefix starts every diagnostic line written to the error sink.
	ErrorPrefix = "Error in StructuredJsonLoggingListener: "

	// BinaryBodyPlaceholder replaces request bodies with a binary content type.
	BinaryBodyPlaceholder = "<binary content not logged>"

	// TruncatedBodyPlaceholder replaces response bodies that were cut off at
	// the capture limit. A partial body cannot be parsed, so it cannot be
	// sanitized either.
	TruncatedBodyPlaceholder = "<truncated_body_omitted>"

	// Base64Placeholder replaces base64-looking string values in response bodies.
	Base64Placeholder = "<base64_data_omitted>"

	// Base64MinLength is the shortest string considered a base64 payload.
	// Shorter strings are tokens, IDs or prose far more often than payloads.
	Base64MinLength = 100
)

// binaryContentTypePrefixes are matched against the lower-cased Content-Type.
var binaryContentTypePrefixes = []string{
	"multipart/form-data",
	"application/pdf",
	"image/",
}

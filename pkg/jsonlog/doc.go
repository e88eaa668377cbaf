// Package jsonlog turns completed mock-server exchanges into one structured,
// privacy-scrubbed JSON line each.
//
// The Listener registers with an exchange.Registry under the name
// "structured-json-logging". For every exchange it:
//
//   - classifies the request body by Content-Type and replaces known binary
//     payloads (multipart uploads, PDFs, images) with a placeholder
//   - parses the response body as JSON, when it is JSON, and replaces every
//     object field holding a long base64-looking string with a placeholder,
//     however deeply nested
//   - assembles a Record and writes it as a single NDJSON line to its Sink
//
// Output shape:
//
//	{"@timestamp":"...","service":"wiremock","wasMatched":true,"requestId":"<uuid>",
//	 "request":{"method":"GET","url":"http://host/path","clientIp":"127.0.0.1","headers":{...},"body":"..."},
//	 "response":{"status":200,"headers":{...},"body":"..."}}
//
// Logging is best effort. Any failure while building, encoding or writing a
// record is reported as a single "Error in StructuredJsonLoggingListener: ..."
// line on a separate error sink and never reaches the code serving the
// exchange.
package jsonlog

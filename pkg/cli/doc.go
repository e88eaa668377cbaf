// Package cli implements the mockd-jsonlog command line.
//
// Commands:
//
//	serve      start the mock server with structured exchange logging
//	validate   check a configuration file
//	sanitize   show how a response body is logged
//	classify   show how a request body is logged
//	version    print build information
package cli

// mockd-jsonlog - mock HTTP server with structured JSON exchange logging
package main

import "github.com/getmockd/mockd-jsonlog/pkg/cli"

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate
	cli.Execute()
}

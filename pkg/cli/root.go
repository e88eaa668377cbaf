package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mockd-jsonlog",
		Short: "Mock HTTP server that logs every exchange as structured JSON",
		Long: `mockd-jsonlog serves stubbed HTTP responses and writes one JSON line per
served exchange: request and response metadata, headers, and bodies with binary
uploads and large base64 payloads replaced by placeholders.

Records go to stdout by default; configure jsonlog.output to write to a file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newValidateCmd(),
		newSanitizeCmd(),
		newClassifyCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockd-jsonlog/pkg/exchange"
	"github.com/getmockd/mockd-jsonlog/pkg/jsonlog"
)

func newSanitizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize [file]",
		Short: "Print a response body as it would appear in the structured log",
		Long: `Sanitize reads a response body from a file, or from stdin when no file or
"-" is given, and prints it the way the structured log records it: JSON bodies
compacted with large base64 fields replaced, anything else unchanged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), jsonlog.SanitizeResponseBody(body))
			return nil
		},
	}
}

func newClassifyCmd() *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Print a request body as it would appear in the structured log",
		Long: `Classify reads a request body from a file or stdin and prints what the
structured log records for it given the request's Content-Type.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var headers exchange.Headers
			if cmd.Flags().Changed("content-type") {
				headers = exchange.Headers{{Name: "Content-Type", Values: []string{contentType}}}
			}
			fmt.Fprintln(cmd.OutOrStdout(), jsonlog.ClassifyRequestBody(headers, body))
			return nil
		},
	}
	cmd.Flags().StringVarP(&contentType, "content-type", "t", "", "Content-Type of the request")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", args[0], err)
	}
	return data, nil
}

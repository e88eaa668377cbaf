package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockd-jsonlog/pkg/config"
	"github.com/getmockd/mockd-jsonlog/pkg/engine"
	"github.com/getmockd/mockd-jsonlog/pkg/logging"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

// serveFlags holds the serve command's flags. Flags that were set override
// the configuration file.
type serveFlags struct {
	configFile         string
	port               int
	readTimeout        time.Duration
	writeTimeout       time.Duration
	logLevel           string
	logFormat          string
	jsonlogOutput      string
	jsonlogErrorOutput string
	tee                []string
	noJSONLog          bool
}

func newServeCmd() *cobra.Command {
	return newServeCmdWith(&serveFlags{})
}

// newServeCmdWith binds the serve command's flags to f.
func newServeCmdWith(f *serveFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the mock server",
		Example: `  # Serve the stubs of mockd.yaml, records on stdout
  mockd-jsonlog serve --config mockd.yaml

  # Write records to a file and keep a copy
  mockd-jsonlog serve -c mockd.yaml --jsonlog-output exchanges.ndjson --tee /tmp/copy.ndjson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadServeConfig(cmd, f)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configFile, "config", "c", "", "Path to the YAML configuration file")
	flags.IntVarP(&f.port, "port", "p", config.DefaultPort, "HTTP server port")
	flags.DurationVar(&f.readTimeout, "read-timeout", config.DefaultReadTimeout, "HTTP read timeout")
	flags.DurationVar(&f.writeTimeout, "write-timeout", config.DefaultWriteTimeout, "HTTP write timeout")
	flags.StringVar(&f.logLevel, "log-level", "info", "Operational log level (debug, info, warn, error)")
	flags.StringVar(&f.logFormat, "log-format", "text", "Operational log format (text, json)")
	flags.StringVar(&f.jsonlogOutput, "jsonlog-output", "stdout", "Structured exchange log destination (stdout, stderr or file path)")
	flags.StringVar(&f.jsonlogErrorOutput, "jsonlog-error-output", "stderr", "Destination of structured logging failures")
	flags.StringSliceVar(&f.tee, "tee", nil, "Extra file paths receiving a copy of every record")
	flags.BoolVar(&f.noJSONLog, "no-jsonlog", false, "Disable structured exchange logging")
	return cmd
}

// loadServeConfig loads the configuration file (if any), applies the flags
// that were explicitly set and validates the result.
func loadServeConfig(cmd *cobra.Command, f *serveFlags) (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Server.Port = f.port
	}
	if flags.Changed("read-timeout") {
		cfg.Server.ReadTimeout = f.readTimeout
	}
	if flags.Changed("write-timeout") {
		cfg.Server.WriteTimeout = f.writeTimeout
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = f.logFormat
	}
	if flags.Changed("jsonlog-output") {
		cfg.JSONLog.Output = f.jsonlogOutput
	}
	if flags.Changed("jsonlog-error-output") {
		cfg.JSONLog.ErrorOutput = f.jsonlogErrorOutput
	}
	if flags.Changed("tee") {
		cfg.JSONLog.Tee = f.tee
	}
	if flags.Changed("no-jsonlog") {
		cfg.JSONLog.Disabled = f.noJSONLog
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the operational logger. cfg must be validated.
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level, _ := logging.ParseLevel(cfg.Level)
	format, _ := logging.ParseFormat(cfg.Format)
	return logging.New(logging.Config{
		Level:  level,
		Format: format,
		Output: os.Stderr,
	})
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := newLogger(cfg.Logging)

	srv, err := engine.NewServer(cfg, engine.WithLogger(log))
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	// Shutdown below is driven by the signal, bounded by shutdownTimeout,
	// so the server must not stop itself when ctx is cancelled.
	if err := srv.Start(context.WithoutCancel(ctx)); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/getmockd/mockd-jsonlog/pkg/config"
	"github.com/getmockd/mockd-jsonlog/pkg/exchange"
	"github.com/getmockd/mockd-jsonlog/pkg/jsonlog"
	"github.com/getmockd/mockd-jsonlog/pkg/logging"
	"github.com/getmockd/mockd-jsonlog/pkg/metrics"
)

// Operational endpoints. They are served outside exchange capture.
const (
	HealthPath  = "/__mockd/health"
	MetricsPath = "/__mockd/metrics"
)

// Server is the mock HTTP server with structured exchange logging.
type Server struct {
	cfg      *config.Config
	handler  *Handler
	registry *exchange.Registry
	metrics  *metrics.Collectors
	gatherer prometheus.Gatherer
	mux      *http.ServeMux
	log      *slog.Logger

	// sinks opened by the server and closed on shutdown
	logSink   jsonlog.Sink
	errorSink jsonlog.Sink
	owned     []jsonlog.Sink

	mu         sync.Mutex
	httpServer *http.Server
	addr       net.Addr
	running    bool
	startTime  time.Time
	// stopped is closed by Shutdown to release the context watcher
	stopped chan struct{}
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithLogSink replaces the configured jsonlog output.
func WithLogSink(sink jsonlog.Sink) ServerOption {
	return func(s *Server) {
		s.logSink = sink
	}
}

// WithErrorSink replaces the configured jsonlog error output.
func WithErrorSink(sink jsonlog.Sink) ServerOption {
	return func(s *Server) {
		s.errorSink = sink
	}
}

// NewServer builds a server for cfg. cfg should already be validated.
func NewServer(cfg *config.Config, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Server{
		cfg:      cfg,
		registry: exchange.NewRegistry(),
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registry.SetLogger(s.log)

	handler, err := NewHandler(cfg.Stubs)
	if err != nil {
		return nil, err
	}
	handler.SetLogger(s.log)
	s.handler = handler

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	s.metrics = metrics.New(reg)
	s.gatherer = reg

	if !cfg.JSONLog.Disabled {
		if err := s.registerJSONLog(); err != nil {
			_ = s.closeSinks()
			return nil, err
		}
	}
	s.registry.Register(s.metrics.Listener())

	capture := exchange.NewCapture(handler, s.registry, exchange.WithMaxCaptureSize(int(cfg.Server.MaxCaptureBytes)))

	s.mux = http.NewServeMux()
	s.mux.HandleFunc(HealthPath, s.handleHealth)
	s.mux.Handle(MetricsPath, metrics.Handler(s.gatherer))
	s.mux.Handle("/", capture)
	return s, nil
}

// registerJSONLog opens the configured sinks and registers the structured
// JSON logging listener.
func (s *Server) registerJSONLog() error {
	out := s.logSink
	if out == nil {
		primary, err := jsonlog.OpenSink(s.cfg.JSONLog.Output, jsonlog.NewStdoutSink())
		if err != nil {
			return fmt.Errorf("opening jsonlog output: %w", err)
		}
		s.own(primary)

		sinks := []jsonlog.Sink{primary}
		for _, path := range s.cfg.JSONLog.Tee {
			tee, err := jsonlog.NewFileSink(path)
			if err != nil {
				return fmt.Errorf("opening jsonlog tee: %w", err)
			}
			s.own(tee)
			sinks = append(sinks, tee)
		}
		out = primary
		if len(sinks) > 1 {
			out = jsonlog.NewMultiSink(sinks...)
		}
	}

	errOut := s.errorSink
	if errOut == nil {
		sink, err := jsonlog.OpenSink(s.cfg.JSONLog.ErrorOutput, jsonlog.NewStderrSink())
		if err != nil {
			return fmt.Errorf("opening jsonlog error output: %w", err)
		}
		s.own(sink)
		errOut = sink
	}

	s.registry.Register(jsonlog.NewListener(out,
		jsonlog.WithErrorSink(errOut),
		jsonlog.WithMetrics(s.metrics),
	))
	return nil
}

func (s *Server) own(sink *jsonlog.WriterSink) {
	s.owned = append(s.owned, sink)
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Registry returns the exchange listener registry.
func (s *Server) Registry() *exchange.Registry {
	return s.registry
}

// Stubs returns the stub handler.
func (s *Server) Stubs() *Handler {
	return s.handler
}

// Start listens on the configured port and serves in the background. The
// server shuts down when ctx is cancelled. If the port cannot be bound, the
// sinks opened by NewServer are closed and the server cannot be started again.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server is already running")
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Server.Port))
	if err != nil {
		err = fmt.Errorf("listening on port %d: %w", s.cfg.Server.Port, err)
		return errors.Join(err, s.closeSinks())
	}

	s.httpServer = &http.Server{
		Handler:      s.mux,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}
	s.addr = ln.Addr()
	s.running = true
	s.startTime = time.Now()
	s.stopped = make(chan struct{})

	srv := s.httpServer
	stopped := s.stopped
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server error", "error", err)
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("shutdown error", "error", err)
		}
	}()

	s.log.Info("mock server started",
		"addr", s.addr.String(),
		"stubs", len(s.cfg.Stubs),
		"jsonlog", !s.cfg.JSONLog.Disabled,
	)
	return nil
}

// Shutdown stops accepting requests, waits for in-flight exchanges (and so
// their log records) to finish, then closes the sinks the server opened.
// Calling it on a stopped server is a no-op.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopped)
	srv := s.httpServer
	s.mu.Unlock()

	var errs []error
	if err := srv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.closeSinks(); err != nil {
		errs = append(errs, err)
	}
	s.log.Info("mock server stopped")
	return errors.Join(errs...)
}

func (s *Server) closeSinks() error {
	var errs []error
	for _, sink := range s.owned {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.owned = nil
	if len(errs) > 0 {
		return &jsonlog.MultiError{Errors: errs}
	}
	return nil
}

// Addr returns the listening address once started.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Uptime returns how long the server has been running.
func (s *Server) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startTime)
}

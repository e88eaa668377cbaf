package jsonlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/mockd-jsonlog/pkg/exchange"
	"github.com/getmockd/mockd-jsonlog/pkg/metrics"
)

// Listener writes one structured record per completed exchange.
// It holds no per-exchange state and is safe for concurrent use.
type Listener struct {
	out     Sink
	errOut  Sink
	now     func() time.Time
	newID   func() string
	metrics *metrics.Collectors
}

// Option configures a Listener.
type Option func(*Listener)

// WithErrorSink sets where diagnostic lines go. Defaults to standard error.
func WithErrorSink(s Sink) Option {
	return func(l *Listener) {
		if s != nil {
			l.errOut = s
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Listener) {
		if now != nil {
			l.now = now
		}
	}
}

// WithIDGenerator overrides the requestId source.
func WithIDGenerator(newID func() string) Option {
	return func(l *Listener) {
		if newID != nil {
			l.newID = newID
		}
	}
}

// WithMetrics counts emitted and failed records.
func WithMetrics(m *metrics.Collectors) Option {
	return func(l *Listener) {
		l.metrics = m
	}
}

// NewListener creates a Listener writing records to out, or to standard
// output when out is nil.
func NewListener(out Sink, opts ...Option) *Listener {
	if out == nil {
		out = NewStdoutSink()
	}
	l := &Listener{
		out:    out,
		errOut: NewStderrSink(),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name implements exchange.Listener.
func (l *Listener) Name() string {
	return ListenerName
}

// OnExchangeComplete implements exchange.Listener. It never panics and never
// returns an error: failures end up on the error sink instead of the log.
func (l *Listener) OnExchangeComplete(snapshot *exchange.Snapshot) {
	defer func() {
		if rec := recover(); rec != nil {
			l.fail(fmt.Errorf("panic: %v", rec))
		}
	}()

	if err := l.emit(snapshot); err != nil {
		l.fail(err)
	}
}

func (l *Listener) emit(snapshot *exchange.Snapshot) error {
	rec, err := NewRecord(snapshot, l.now(), l.newID())
	if err != nil {
		return err
	}
	line, err := rec.MarshalLine()
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := l.out.WriteLine(line); err != nil {
		return err
	}
	l.metrics.RecordEmitted(len(line))
	return nil
}

// lineBreaks folds multi-line error text onto one diagnostic line.
var lineBreaks = strings.NewReplacer("\r\n", "; ", "\n", "; ", "\r", "; ")

// fail reports err on the error sink as a single line. A failing error sink
// is ignored.
func (l *Listener) fail(err error) {
	defer func() { _ = recover() }()
	l.metrics.RecordFailed()
	_ = l.errOut.WriteLine([]byte(ErrorPrefix + lineBreaks.Replace(err.Error())))
}

var _ exchange.Listener = (*Listener)(nil)

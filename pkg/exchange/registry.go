package exchange

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getmockd/mockd-jsonlog/pkg/logging"
)

// Listener is notified once per completed exchange. Implementations are called
// on the request goroutine and must be safe for concurrent use.
type Listener interface {
	// Name identifies the listener for registration purposes.
	Name() string

	// OnExchangeComplete receives the snapshot of a served exchange.
	OnExchangeComplete(snapshot *Snapshot)
}

// Registry holds listeners keyed by name, in registration order.
type Registry struct {
	mu        sync.RWMutex
	listeners []Listener
	log       *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{log: logging.Nop()}
}

// SetLogger sets the operational logger used to report listener panics.
func (r *Registry) SetLogger(log *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if log == nil {
		log = logging.Nop()
	}
	r.log = log
}

// Register adds l. A listener with the same name is replaced in place.
func (r *Registry) Register(l Listener) {
	if l == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.listeners {
		if existing.Name() == l.Name() {
			r.listeners[i] = l
			return
		}
	}
	r.listeners = append(r.listeners, l)
}

// Listeners returns a copy of the registered listeners in order.
func (r *Registry) Listeners() []Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Listener, len(r.listeners))
	copy(out, r.listeners)
	return out
}

// Notify delivers snapshot to every listener. A panicking listener is
// recovered and logged; the remaining listeners still run.
func (r *Registry) Notify(snapshot *Snapshot) {
	r.mu.RLock()
	log := r.log
	r.mu.RUnlock()

	for _, l := range r.Listeners() {
		notifyOne(log, l, snapshot)
	}
}

func notifyOne(log *slog.Logger, l Listener, snapshot *Snapshot) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("exchange listener panicked", "listener", l.Name(), "panic", fmt.Sprint(rec))
		}
	}()
	l.OnExchangeComplete(snapshot)
}

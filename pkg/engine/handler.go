package engine

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/getmockd/mockd-jsonlog/internal/matching"
	"github.com/getmockd/mockd-jsonlog/pkg/config"
	"github.com/getmockd/mockd-jsonlog/pkg/exchange"
	"github.com/getmockd/mockd-jsonlog/pkg/httputil"
	"github.com/getmockd/mockd-jsonlog/pkg/logging"
)

// MaxRequestBodySize bounds the request body read for matching.
const MaxRequestBodySize = 10 << 20

// Handler matches requests against stubs and writes the chosen response.
type Handler struct {
	mu    sync.RWMutex
	stubs []*compiledStub
	log   *slog.Logger
}

type compiledStub struct {
	stub     config.Stub
	criteria matching.Criteria
	body     []byte
}

// NewHandler compiles stubs into a handler.
func NewHandler(stubs []config.Stub) (*Handler, error) {
	h := &Handler{log: logging.Nop()}
	if err := h.SetStubs(stubs); err != nil {
		return nil, err
	}
	return h, nil
}

// SetLogger sets the operational logger.
func (h *Handler) SetLogger(log *slog.Logger) {
	if log == nil {
		log = logging.Nop()
	}
	h.log = log
}

// SetStubs atomically replaces the served stubs.
func (h *Handler) SetStubs(stubs []config.Stub) error {
	compiled := make([]*compiledStub, 0, len(stubs))
	for _, s := range stubs {
		c, err := compile(s)
		if err != nil {
			return fmt.Errorf("stub %q: %w", s.ID, err)
		}
		compiled = append(compiled, c)
	}

	h.mu.Lock()
	h.stubs = compiled
	h.mu.Unlock()
	return nil
}

// Stubs returns the served stubs in declaration order.
func (h *Handler) Stubs() []config.Stub {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]config.Stub, len(h.stubs))
	for i, c := range h.stubs {
		out[i] = c.stub
	}
	return out
}

func compile(s config.Stub) (*compiledStub, error) {
	c := &compiledStub{
		stub: s,
		criteria: matching.Criteria{
			Method:       s.Request.Method,
			Path:         s.Request.Path,
			Headers:      s.Request.Headers,
			BodyJSONPath: s.Request.BodyJSONPath,
		},
	}

	if len(s.Request.BodySchema) > 0 {
		schema, err := matching.CompileBodySchema(s.Request.BodySchema)
		if err != nil {
			return nil, err
		}
		c.criteria.BodySchema = schema
	}
	if s.Request.Expr != "" {
		program, err := matching.CompileExpression(s.Request.Expr)
		if err != nil {
			return nil, err
		}
		c.criteria.Expr = program
	}

	if s.Response.BodyBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(s.Response.BodyBase64)
		if err != nil {
			return nil, fmt.Errorf("decoding bodyBase64: %w", err)
		}
		c.body = decoded
	} else if s.Response.Body != "" {
		c.body = []byte(s.Response.Body)
	}
	return c, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize))
		if err != nil {
			h.log.Warn("failed to read request body", "path", r.URL.Path, "error", err)
		}
	}

	stub := h.match(r, body)
	if stub == nil {
		h.log.Debug("no stub matched", "method", r.Method, "path", r.URL.Path)
		httputil.WriteErrorWithFields(w, http.StatusNotFound, "no_match", "No mock matched the request", map[string]string{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		return
	}

	exchange.MarkMatched(r.Context())
	h.log.Debug("stub matched", "stub", stub.stub.ID, "method", r.Method, "path", r.URL.Path)

	for name, value := range stub.stub.Response.Headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(stub.stub.Response.StatusOrDefault())
	if len(stub.body) > 0 && r.Method != http.MethodHead {
		if _, err := w.Write(stub.body); err != nil {
			h.log.Debug("failed to write response body", "stub", stub.stub.ID, "error", err)
		}
	}
}

// match returns the best stub for r: highest score, then highest priority,
// then earliest declared.
func (h *Handler) match(r *http.Request, body []byte) *compiledStub {
	h.mu.RLock()
	defer h.mu.RUnlock()

	type candidate struct {
		stub  *compiledStub
		score int
	}
	var candidates []candidate
	for _, c := range h.stubs {
		if score, ok := matching.Score(c.criteria, r, body); ok {
			candidates = append(candidates, candidate{stub: c, score: score})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].stub.stub.Priority > candidates[j].stub.stub.Priority
	})
	return candidates[0].stub
}

package engine

import (
	"net/http"
	"time"

	"github.com/getmockd/mockd-jsonlog/pkg/httputil"
)

// handleHealth handles the liveness probe endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, map[string]any{
		"status": "ok",
		"uptime": int(s.Uptime() / time.Second),
		"stubs":  len(s.handler.Stubs()),
	})
}

package config

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/getmockd/mockd-jsonlog/internal/matching"
	"github.com/getmockd/mockd-jsonlog/pkg/logging"
)

// ConfigError describes an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Message)
}

// Validate reports the first invalid value in c.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: fmt.Sprintf("must be between 0 and 65535, got %d", c.Server.Port)}
	}
	if c.Server.ReadTimeout < 0 {
		return &ConfigError{Field: "server.readTimeout", Message: "must not be negative"}
	}
	if c.Server.WriteTimeout < 0 {
		return &ConfigError{Field: "server.writeTimeout", Message: "must not be negative"}
	}
	if c.Server.MaxCaptureBytes < 0 {
		return &ConfigError{Field: "server.maxCaptureBytes", Message: "must not be negative"}
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return &ConfigError{Field: "logging.level", Message: err.Error()}
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return &ConfigError{Field: "logging.format", Message: err.Error()}
	}

	seen := make(map[string]int, len(c.Stubs))
	for i := range c.Stubs {
		stub := &c.Stubs[i]
		if prev, ok := seen[stub.ID]; ok {
			return &ConfigError{
				Field:   fmt.Sprintf("stubs[%d].id", i),
				Message: fmt.Sprintf("duplicate id %q (also stubs[%d])", stub.ID, prev),
			}
		}
		seen[stub.ID] = i

		if err := stub.validate(); err != nil {
			err.Field = fmt.Sprintf("stubs[%d].%s", i, err.Field)
			return err
		}
	}
	return nil
}

func (s *Stub) validate() *ConfigError {
	if s.ID == "" {
		return &ConfigError{Field: "id", Message: "is required"}
	}

	status := s.Response.Status
	if status != 0 && (status < 100 || status > 599) {
		return &ConfigError{Field: "response.status", Message: fmt.Sprintf("invalid HTTP status %d", status)}
	}

	if s.Response.Body != "" && s.Response.BodyBase64 != "" {
		return &ConfigError{Field: "response", Message: "body and bodyBase64 are mutually exclusive"}
	}
	if s.Response.BodyBase64 != "" {
		if _, err := base64.StdEncoding.DecodeString(s.Response.BodyBase64); err != nil {
			return &ConfigError{Field: "response.bodyBase64", Message: err.Error()}
		}
	}

	if m := s.Request.Method; m != "" && !validMethod(m) {
		return &ConfigError{Field: "request.method", Message: fmt.Sprintf("invalid method %q", m)}
	}

	for expr := range s.Request.BodyJSONPath {
		if err := matching.ValidateJSONPathExpression(expr); err != nil {
			return &ConfigError{Field: "request.bodyJsonPath", Message: err.Error()}
		}
	}
	if len(s.Request.BodySchema) > 0 {
		if _, err := matching.CompileBodySchema(s.Request.BodySchema); err != nil {
			return &ConfigError{Field: "request.bodySchema", Message: err.Error()}
		}
	}
	if s.Request.Expr != "" {
		if _, err := matching.CompileExpression(s.Request.Expr); err != nil {
			return &ConfigError{Field: "request.expr", Message: err.Error()}
		}
	}
	return nil
}

// validMethod accepts HTTP token characters only.
func validMethod(m string) bool {
	for i := 0; i < len(m); i++ {
		c := m[i]
		if c <= ' ' || c >= 0x7f || c == '(' || c == ')' || c == '/' || c == ':' || c == '"' {
			return false
		}
	}
	return true
}

// StatusOrDefault returns the configured status, or 200 when unset.
func (r StubResponse) StatusOrDefault() int {
	if r.Status == 0 {
		return http.StatusOK
	}
	return r.Status
}

package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStub(id string) Stub {
	return Stub{
		ID:       id,
		Request:  StubRequest{Method: "GET", Path: "/x"},
		Response: StubResponse{Status: 200, Body: "ok"},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"defaults valid", func(c *Config) {}, ""},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"negative read timeout", func(c *Config) { c.Server.ReadTimeout = -1 }, "server.readTimeout"},
		{"negative write timeout", func(c *Config) { c.Server.WriteTimeout = -1 }, "server.writeTimeout"},
		{"negative capture", func(c *Config) { c.Server.MaxCaptureBytes = -1 }, "server.maxCaptureBytes"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"duplicate ids", func(c *Config) { c.Stubs = []Stub{validStub("a"), validStub("a")} }, "stubs[1].id"},
		{"missing id", func(c *Config) { c.Stubs = []Stub{validStub("")} }, "stubs[0].id"},
		{"bad status", func(c *Config) {
			s := validStub("a")
			s.Response.Status = 42
			c.Stubs = []Stub{s}
		}, "stubs[0].response.status"},
		{"body and base64", func(c *Config) {
			s := validStub("a")
			s.Response.BodyBase64 = "aGk="
			c.Stubs = []Stub{s}
		}, "stubs[0].response"},
		{"bad base64", func(c *Config) {
			s := validStub("a")
			s.Response.Body = ""
			s.Response.BodyBase64 = "not base64!"
			c.Stubs = []Stub{s}
		}, "stubs[0].response.bodyBase64"},
		{"bad method", func(c *Config) {
			s := validStub("a")
			s.Request.Method = "GE T"
			c.Stubs = []Stub{s}
		}, "stubs[0].request.method"},
		{"bad jsonpath", func(c *Config) {
			s := validStub("a")
			s.Request.BodyJSONPath = map[string]any{"$[": 1}
			c.Stubs = []Stub{s}
		}, "stubs[0].request.bodyJsonPath"},
		{"bad schema", func(c *Config) {
			s := validStub("a")
			s.Request.BodySchema = map[string]any{"type": 12}
			c.Stubs = []Stub{s}
		}, "stubs[0].request.bodySchema"},
		{"bad expr", func(c *Config) {
			s := validStub("a")
			s.Request.Expr = "method =="
			c.Stubs = []Stub{s}
		}, "stubs[0].request.expr"},
		{"good schema and expr", func(c *Config) {
			s := validStub("a")
			s.Request.BodySchema = map[string]any{"type": "object"}
			s.Request.Expr = `headers["X-Env"] == "test"`
			c.Stubs = []Stub{s}
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Contains(t, err.Error(), "invalid config: "+tt.field)
		})
	}
}

func TestStubResponse_StatusOrDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 200, StubResponse{}.StatusOrDefault())
	assert.Equal(t, 404, StubResponse{Status: 404}.StatusOrDefault())
}

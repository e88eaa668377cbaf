package config

import "time"

// Default values applied by Default.
const (
	DefaultPort            = 8080
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultMaxCaptureBytes = 10 << 20
)

// Config is the root of a configuration file.
type Config struct {
	Server    ServerConfig  `yaml:"server"`
	Logging   LoggingConfig `yaml:"logging"`
	JSONLog   JSONLogConfig `yaml:"jsonlog"`
	Stubs     []Stub        `yaml:"stubs,omitempty"`
	StubFiles []string      `yaml:"stubFiles,omitempty"`
}

// ServerConfig configures the mock HTTP listener.
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`

	// MaxCaptureBytes bounds how much of each body is captured for listeners.
	MaxCaptureBytes int64 `yaml:"maxCaptureBytes"`
}

// LoggingConfig configures operational logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// JSONLogConfig configures the structured exchange log.
type JSONLogConfig struct {
	// Output is "stdout", "stderr" or a file path. Empty means stdout.
	Output string `yaml:"output"`

	// ErrorOutput receives listener failure lines. Empty means stderr.
	ErrorOutput string `yaml:"errorOutput"`

	// Tee lists extra file paths that receive a copy of every record.
	Tee []string `yaml:"tee,omitempty"`

	// Disabled turns the listener off entirely.
	Disabled bool `yaml:"disabled,omitempty"`
}

// Stub pairs request criteria with a canned response.
type Stub struct {
	ID       string       `yaml:"id"`
	Name     string       `yaml:"name,omitempty"`
	Priority int          `yaml:"priority,omitempty"`
	Request  StubRequest  `yaml:"request"`
	Response StubResponse `yaml:"response"`
}

// StubRequest holds the criteria a request must satisfy. Empty fields are
// not checked.
type StubRequest struct {
	Method       string            `yaml:"method,omitempty"`
	Path         string            `yaml:"path,omitempty"`
	Headers      map[string]string `yaml:"headers,omitempty"`
	BodyJSONPath map[string]any    `yaml:"bodyJsonPath,omitempty"`

	// BodySchema is an inline JSON Schema (draft 2020-12) for the body.
	BodySchema map[string]any `yaml:"bodySchema,omitempty"`

	// Expr is a boolean expression over method, path, params, headers, query
	// and body. params holds the {name} segments captured by Path.
	Expr string `yaml:"expr,omitempty"`
}

// StubResponse is the response served when a stub matches. Body and
// BodyBase64 are mutually exclusive; BodyBase64 is decoded before serving.
type StubResponse struct {
	Status     int               `yaml:"status,omitempty"`
	Headers    map[string]string `yaml:"headers,omitempty"`
	Body       string            `yaml:"body,omitempty"`
	BodyBase64 string            `yaml:"bodyBase64,omitempty"`
}

// Default returns a configuration with every default applied and no stubs.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			MaxCaptureBytes: DefaultMaxCaptureBytes,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		JSONLog: JSONLogConfig{
			Output:      "stdout",
			ErrorOutput: "stderr",
		},
	}
}

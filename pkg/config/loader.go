package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		sub := envVarPattern.FindStringSubmatch(match)
		if val := os.Getenv(sub[1]); val != "" {
			return val
		}
		return sub[2]
	})
}

// Load reads the configuration file at path, expands environment references,
// resolves stubFiles relative to the file's directory and fills in defaults.
// The result is not validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.ResolveStubFiles(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration bytes over Default. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	expanded := ExpandEnvVars(string(data))
	if strings.TrimSpace(expanded) == "" {
		return cfg, nil
	}

	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	cfg.assignStubIDs()
	return cfg, nil
}

// ResolveStubFiles loads every stubFiles pattern (relative to baseDir) and
// appends the stubs after the inline ones. Matches of one pattern are loaded
// in lexical order.
func (c *Config) ResolveStubFiles(baseDir string) error {
	for i, pattern := range c.StubFiles {
		stubs, err := LoadStubGlob(pattern, baseDir)
		if err != nil {
			return fmt.Errorf("stubFiles[%d] (%s): %w", i, pattern, err)
		}
		c.Stubs = append(c.Stubs, stubs...)
	}
	c.assignStubIDs()
	return nil
}

// LoadStubGlob loads the stubs of every file matching pattern. ** matches any
// number of directories. No match is not an error.
func LoadStubGlob(pattern, baseDir string) ([]Stub, error) {
	resolved := ResolvePath(baseDir, pattern)

	matches, err := doublestar.FilepathGlob(resolved, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern: %w", err)
	}
	sort.Strings(matches)

	var result []Stub
	for _, match := range matches {
		stubs, err := LoadStubFile(match)
		if err != nil {
			rel, relErr := filepath.Rel(baseDir, match)
			if relErr != nil {
				rel = match
			}
			return nil, fmt.Errorf("loading %s: %w", rel, err)
		}
		result = append(result, stubs...)
	}
	return result, nil
}

// LoadStubFile loads a YAML file holding one stub or a list of stubs.
func LoadStubFile(path string) ([]Stub, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("file is empty: %s", path)
	}

	expanded := ExpandEnvVars(string(data))

	// A file holds either one stub mapping or a sequence of them.
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(expanded), &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)

	if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.SequenceNode {
		var stubs []Stub
		if err := dec.Decode(&stubs); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
		return stubs, nil
	}

	var stub Stub
	if err := dec.Decode(&stub); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return []Stub{stub}, nil
}

// ResolvePath resolves target against basePath unless it is absolute or
// starts with ~/.
func ResolvePath(basePath, target string) string {
	if filepath.IsAbs(target) {
		return target
	}
	if strings.HasPrefix(target, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, target[2:])
		}
	}
	return filepath.Join(basePath, target)
}

func (c *Config) assignStubIDs() {
	for i := range c.Stubs {
		if c.Stubs[i].ID == "" {
			c.Stubs[i].ID = "stub-" + uuid.NewString()[:8]
		}
	}
}

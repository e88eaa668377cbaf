package matching

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BodySchema is a compiled JSON Schema (draft 2020-12) a request body must
// satisfy.
type BodySchema struct {
	schema *jsonschema.Schema
}

// CompileBodySchema compiles an inline schema document, typically decoded
// from YAML.
func CompileBodySchema(doc any) (*BodySchema, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("stub-body.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	schema, err := compiler.Compile("stub-body.json")
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return &BodySchema{schema: schema}, nil
}

// Match reports whether body is JSON valid against the schema.
func (s *BodySchema) Match(body []byte) bool {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return false
	}
	if dec.More() {
		return false
	}
	return s.schema.Validate(v) == nil
}

package matching

import (
	"fmt"
	"net/http"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// exprEnv is the environment a request expression is evaluated against.
// Header and query maps hold the first value of each name; header names are
// canonical (Content-Type). Params holds the {name} segments of the stub path.
type exprEnv struct {
	Method  string            `expr:"method"`
	Path    string            `expr:"path"`
	Params  map[string]string `expr:"params"`
	Headers map[string]string `expr:"headers"`
	Query   map[string]string `expr:"query"`
	Body    string            `expr:"body"`
}

// Expression is a compiled boolean request expression such as
//
//	method == "POST" && headers["X-Tenant"] startsWith "acme-"
type Expression struct {
	source  string
	program *vm.Program
}

// CompileExpression compiles src. The expression must evaluate to a bool.
func CompileExpression(src string) (*Expression, error) {
	program, err := expr.Compile(src, expr.Env(exprEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	return &Expression{source: src, program: program}, nil
}

// String returns the expression source.
func (e *Expression) String() string {
	return e.source
}

// Match evaluates the expression for r with the path parameters extracted by
// the stub's path pattern. Evaluation errors count as no match.
func (e *Expression) Match(r *http.Request, body []byte, params map[string]string) bool {
	if params == nil {
		params = map[string]string{}
	}
	env := exprEnv{
		Method:  r.Method,
		Path:    r.URL.Path,
		Params:  params,
		Headers: firstValues(r.Header),
		Query:   firstValues(r.URL.Query()),
		Body:    string(body),
	}
	out, err := expr.Run(e.program, env)
	if err != nil {
		return false
	}
	matched, ok := out.(bool)
	return ok && matched
}

func firstValues(m map[string][]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

package matching

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// MatchJSONPath evaluates conditions (JSONPath expression to expected value)
// against a JSON body. It returns ScoreJSONPathCondition per condition, or 0
// when the body is not JSON or any condition fails.
//
// An expected value of {"exists": true|false} checks presence only.
func MatchJSONPath(conditions map[string]any, body []byte) int {
	if len(conditions) == 0 {
		return 0
	}

	data, err := oj.Parse(body)
	if err != nil {
		return 0
	}

	score := 0
	for path, expected := range conditions {
		if !matchCondition(path, expected, data) {
			return 0
		}
		score += ScoreJSONPathCondition
	}
	return score
}

func matchCondition(path string, expected, data any) bool {
	expr, err := jp.ParseString(path)
	if err != nil {
		return false
	}
	results := expr.Get(data)

	if want, ok := existenceCheck(expected); ok {
		return (len(results) > 0) == want
	}

	for _, result := range results {
		if valuesEqual(result, expected) {
			return true
		}
	}
	return false
}

// existenceCheck recognizes {"exists": bool}.
func existenceCheck(expected any) (bool, bool) {
	m, ok := expected.(map[string]any)
	if !ok || len(m) != 1 {
		return false, false
	}
	want, ok := m["exists"].(bool)
	return want, ok
}

func valuesEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}

	if a, ok := toFloat64(actual); ok {
		e, ok := toFloat64(expected)
		return ok && a == e
	}

	switch e := expected.(type) {
	case string:
		a, ok := actual.(string)
		return ok && a == e
	case bool:
		a, ok := actual.(bool)
		return ok && a == e
	default:
		return false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}

// ValidateJSONPathExpression reports whether path parses as JSONPath.
func ValidateJSONPathExpression(path string) error {
	if _, err := jp.ParseString(path); err != nil {
		return fmt.Errorf("invalid JSONPath expression %q: %w", path, err)
	}
	return nil
}

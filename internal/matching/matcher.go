package matching

import (
	"net/http"
	"strings"
)

// Criteria is the request side of a stub. Zero-valued fields are not checked.
type Criteria struct {
	Method       string
	Path         string
	Headers      map[string]string
	BodyJSONPath map[string]any

	// BodySchema and Expr are compiled ahead of time, see CompileBodySchema
	// and CompileExpression.
	BodySchema *BodySchema
	Expr       *Expression
}

// Score returns the match score of r (with its already-read body) against c.
// ok is false when any specified criterion fails.
func Score(c Criteria, r *http.Request, body []byte) (score int, ok bool) {
	score = ScoreAny

	if c.Method != "" {
		if !strings.EqualFold(c.Method, r.Method) {
			return 0, false
		}
		score += ScoreMethod
	}

	if c.Path != "" {
		pathScore := MatchPath(c.Path, r.URL.Path)
		if pathScore == 0 {
			return 0, false
		}
		score += pathScore
	}

	if len(c.Headers) > 0 {
		headerScore := MatchHeaders(c.Headers, r.Header)
		if headerScore == 0 {
			return 0, false
		}
		score += headerScore
	}

	if len(c.BodyJSONPath) > 0 {
		bodyScore := MatchJSONPath(c.BodyJSONPath, body)
		if bodyScore == 0 {
			return 0, false
		}
		score += bodyScore
	}

	if c.BodySchema != nil {
		if !c.BodySchema.Match(body) {
			return 0, false
		}
		score += ScoreBodySchema
	}

	if c.Expr != nil {
		if !c.Expr.Match(r, body, PathParams(c.Path, r.URL.Path)) {
			return 0, false
		}
		score += ScoreExpression
	}

	return score, true
}

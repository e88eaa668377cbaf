package matching

// Path scores. More specific patterns score higher.
const (
	ScorePathExact       = 15
	ScorePathNamedParams = 12
	ScorePathWildcard    = 10
)

// Method, header and body scores.
const (
	ScoreMethod = 10

	// ScoreHeader is added per matched header.
	ScoreHeader = 10

	// ScoreJSONPathCondition is added per matched JSONPath condition.
	ScoreJSONPathCondition = 15

	ScoreBodySchema = 18
	ScoreExpression = 12
)

// ScoreAny is the score of a request against criteria that constrain nothing.
const ScoreAny = 1

// Package matching scores incoming requests against stub request criteria.
//
// A request matches a stub when every criterion the stub specifies holds:
//
//   - Method: case-insensitive comparison
//   - Path: exact, named parameters ({id}) or * wildcards
//   - Headers: exact values or *prefix, suffix* and *contains* patterns
//   - Body: JSONPath conditions evaluated with ojg, and JSON Schema validation
//   - Expr: a boolean expr-lang expression over method, path, params,
//     headers, query and body
//
// More specific criteria contribute higher scores, so when several stubs match
// the engine serves the one with the highest total. Score constants live in
// scores.go.
package matching

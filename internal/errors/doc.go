// Package errors provides structured, actionable error messages for the jml
// command line tools.
//
// Errors carry a code, a category, an optional source location and a hint.
// Page sources are JSON or HCL, so locations usually point into a page file.
//
// # Error Categories
//
//   - config: jml.json problems
//   - page: missing or malformed page descriptions
//   - build: static build failures
//   - dev: watcher and server failures
//   - cli: command usage
//
// # Usage
//
//	err := errors.New("E121").
//	    WithLocation("pages/index.jml", 4, 12).
//	    WithSuggestion("Check for a trailing comma before the closing brace")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E121: Invalid page JSON
//	//
//	//   pages/index.jml:4:12
//	//
//	//     2 │   "title": "Deck",
//	//     3 │   "h1": "Cards",
//	//   → 4 │   "ul": ["ace",],
//	//       │            ^
//	//
//	//   Hint: Check for a trailing comma before the closing brace
package errors

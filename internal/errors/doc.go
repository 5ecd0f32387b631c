// Package errors provides structured errors for the reactive CLI.
//
// Errors carry a code, a category, a detail paragraph and a fix
// suggestion, and format themselves for terminal display. Codes are
// registered in registry.go; use New with a code for catalogued errors
// and Newf for one-off messages.
//
//	return errors.New("E101").
//	    WithDetail("No reactive.json found in " + dir).
//	    WithSuggestion("Run 'reactive init' to create one")
package errors

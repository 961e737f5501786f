// Package hotkey parses human-readable hotkey specifications into match
// predicates, matches predicates against keyboard events, and formats
// events back into specification strings.
//
// # Specifications
//
// A specification is one or more comma-separated tokens. Each token is a
// sequence of sub-keys joined by a split key (default "+"); the last
// sub-key is the main key and the preceding ones are modifiers:
//
//	"ctrl + shift + a"   - ctrl and shift held, physical A key
//	"a, ctrl + b"        - either token matches
//	"alt + f4"           - named key from the key table
//	"ctrl + plus"        - the '+' character
//
// Single letters match the physical key regardless of case unless
// Options.Capitalization is set, in which case they match the exact
// character produced.
//
// # Modifier Matching
//
// With MatchAllModifiers unset, every modifier a predicate names must be
// held but extra modifiers are tolerated. With it set, the event must
// carry exactly the predicate's modifiers.
package hotkey

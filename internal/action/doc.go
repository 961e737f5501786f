// Package action runs Lua snippets attached to hotkey bindings.
//
// Scripts are compiled once when a bindings file is loaded and executed
// each time their binding fires. Every run sees two globals:
//
//	hotkey   the display text of the entry that fired, e.g. "ctrl + a"
//	text     debounced text, for scripts run by a debounce listener
//
// The runtime is sandboxed: only the base, table, string and math
// libraries are opened and the file loading functions are removed. print
// and log route to the host's log function.
package action

// Package debounce aggregates character-producing keyboard events into
// text chunks that are delivered once typing pauses.
//
// Each listener owns a buffer and a quiet period. Every character extends
// the listener's window from the moment it arrives, so a listener with a
// 500ms quiet period fires 500ms after the last character of a burst:
//
//	t=0    'a'   window opens, check scheduled for t=500
//	t=200  'b'
//	t=500        check: only 300ms idle, wait 200ms more
//	t=600  'c'
//	t=700        check: only 100ms idle, wait 400ms more
//	t=1100       check: 500ms idle, callback("abc")
//
// At most one check is scheduled per listener. Removing a listener cancels
// its check; a check that races with removal does nothing.
package debounce

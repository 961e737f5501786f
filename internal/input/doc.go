// Package input is the entry point of the hotkey system.
//
// A Handler receives keyboard events from an event source and routes each
// one through three consumers:
//
//   - Capture: a pending "next hotkey" request resolves with the formatted
//     event
//   - Registry: every registered hotkey whose predicates match fires its
//     callback
//   - Debounce: character-producing presses accumulate into text bursts
//
// # Usage
//
//	h := input.NewHandler(input.DefaultConfig())
//	defer h.Close()
//
//	h.Register("ctrl + shift + a", hotkey.DefaultOptions(), func(hk string) {
//	    fmt.Println("pressed", hk)
//	})
//
//	events, _ := source.Start()
//	h.Run(ctx, events)
//
// Hooks can observe or consume events before they are dispatched, and
// Metrics counts what the handler did with them.
package input

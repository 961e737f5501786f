// Package key provides the keyboard event types shared by the hotkey system.
//
// This package defines the fundamental types for representing keyboard input
// as delivered by a low-level input hook:
//
//   - Event: A single keystroke with its character code, physical key code,
//     modifier flags and kind (press or down)
//   - Kind: Distinguishes character-producing "press" events from physical
//     "down" events
//   - Modifier: A compact set of the alt, ctrl and shift flags
//
// # Key Codes
//
// Physical key codes ("rawcodes") follow the Windows virtual-key numbering
// used by the native hook. Letters map to their uppercase ASCII value
// ('A' == 65), digits to their ASCII value, and keys without a printable
// character are listed in the named-key table:
//
//	enter space tab esc backspace capslock pgup pgdn end home
//	left up right down prtsc insert delete cmd f1 ... f12
//	alt ctrl shift
package key

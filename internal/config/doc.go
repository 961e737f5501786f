// Package config loads the hotkeys daemon configuration.
//
// Configuration is resolved in three layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← HOTKEYS_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← hotkeys.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// Command line flags are applied by the caller after Load returns.
//
// # Configuration File
//
//	[logging]
//	level = "debug"
//
//	[source]
//	kind = "terminal"
//	buffer = 256
//
//	[bindings]
//	path = "~/.config/hotkeys/bindings.toml"
//	watch = true
//	reload_delay_ms = 200
//
//	[debounce]
//	quiet_ms = 500
//	echo = true
//	lua = "log(text)"
//
// # Environment Variables
//
// HOTKEYS_LOG_LEVEL, HOTKEYS_SOURCE, HOTKEYS_BINDINGS and HOTKEYS_WATCH are
// short forms. Any other HOTKEYS_SECTION_KEY variable sets section.key, so
// HOTKEYS_DEBOUNCE_QUIET_MS sets debounce.quiet_ms.
package config

// Package config provides the configuration system for keychord.
//
// Settings are resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← applied by cmd/keychord
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← KEYCHORD_TIMEOUT, KEYCHORD_KEYMAP, ...
//	├─────────────────────────────┤
//	│  2. User Settings           │  ← ~/.config/keychord/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - watcher: File watching for live reload
//
// # Basic Usage
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    return err
//	}
//	timeout := cfg.Timeout.Std()
//
// An example config.toml:
//
//	timeout = "750ms"
//	keymap = "~/.config/keychord/keys.yaml"
//	log_level = "debug"
//	log_file = "/tmp/keychord.log"
package config

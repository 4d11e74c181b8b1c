package main

import (
	"testing"
	"time"

	"github.com/dshills/keychord/internal/config"
)

func TestFlagsApply(t *testing.T) {
	cfg := config.Default()
	cfg.KeymapPath = "/from/config.toml"

	flags{
		scriptPath: "init.lua",
		timeout:    250 * time.Millisecond,
		logLevel:   "debug",
		noWatch:    true,
	}.apply(&cfg)

	if cfg.KeymapPath != "/from/config.toml" {
		t.Errorf("KeymapPath = %q, unset flag should keep config value", cfg.KeymapPath)
	}
	if cfg.ScriptPath != "init.lua" {
		t.Errorf("ScriptPath = %q, want init.lua", cfg.ScriptPath)
	}
	if cfg.Timeout.Std() != 250*time.Millisecond {
		t.Errorf("Timeout = %v, want 250ms", cfg.Timeout.Std())
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Watch {
		t.Error("Watch should be disabled by -no-watch")
	}
}

func TestFlagsApplyEmpty(t *testing.T) {
	cfg := config.Default()
	flags{}.apply(&cfg)

	if cfg != config.Default() {
		t.Errorf("empty flags changed config: %+v", cfg)
	}
}

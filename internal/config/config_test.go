package config

import (
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	t.Setenv("CONFIG_ENV", "nonexistent")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.Room.MaxPlayers != 50 {
		t.Errorf("room.max_players = %d, want 50", cfg.Room.MaxPlayers)
	}
	if cfg.Room.ProximityRadius != 50 {
		t.Errorf("room.proximity_radius = %v, want 50", cfg.Room.ProximityRadius)
	}
	if !cfg.Room.AllowTranslation {
		t.Error("room.allow_translation should default to true")
	}
	if cfg.Reclaim.SweepInterval != time.Hour {
		t.Errorf("reclaim.sweep_interval = %v, want 1h", cfg.Reclaim.SweepInterval)
	}
	if cfg.Reclaim.StaleAfter != 72*time.Hour {
		t.Errorf("reclaim.stale_after = %v, want 72h", cfg.Reclaim.StaleAfter)
	}
}

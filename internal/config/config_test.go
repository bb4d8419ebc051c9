package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 8080 || cfg.Mode != "release" {
		t.Errorf("Unexpected defaults: port=%d mode=%s", cfg.Port, cfg.Mode)
	}
	if cfg.PingPeriod != 54*time.Second || cfg.PongWait != 60*time.Second {
		t.Errorf("Unexpected keepalive defaults: %s / %s", cfg.PingPeriod, cfg.PongWait)
	}
	if cfg.RoomIdleTTL != 0 {
		t.Errorf("Expected eviction off by default, got %s", cfg.RoomIdleTTL)
	}
	seed := cfg.Seed()
	if seed.Name != "main.js" || seed.Content != "// Start coding here!\n" {
		t.Errorf("Unexpected seed %+v", seed)
	}
	if ice := cfg.WebRTCICEServers(); len(ice) != 1 || ice[0].URLs[0] != "stun:stun.l.google.com:19302" {
		t.Errorf("Unexpected ICE servers %+v", ice)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
port: 9000
backpressure_policy: kick
room_idle_ttl: 2h
chat_rate_window: 500ms
ice_servers:
  - urls: ["turn:turn.example.com:3478"]
    username: alice
    credential: secret
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 9000 || cfg.BackpressurePolicy != "kick" {
		t.Errorf("Unexpected overrides: %+v", cfg)
	}
	if cfg.RoomIdleTTL != 2*time.Hour || cfg.ChatRateWindow != 500*time.Millisecond {
		t.Errorf("Unexpected durations: %s %s", cfg.RoomIdleTTL, cfg.ChatRateWindow)
	}
	ice := cfg.WebRTCICEServers()
	if len(ice) != 1 || ice[0].Username != "alice" || ice[0].Credential != "secret" {
		t.Errorf("Unexpected ICE servers %+v", ice)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "port: 9000\n")
	t.Setenv("CC_PORT", "9100")
	t.Setenv("CC_LOG_LEVEL", "warn")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 9100 {
		t.Errorf("Expected env port 9100, got %d", cfg.Port)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected env log level, got %q", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad policy", "backpressure_policy: block\n"},
		{"bad port", "port: 70000\n"},
		{"ping not shorter than pong", "ping_period: 60s\npong_wait: 60s\n"},
		{"empty seed name", "default_file_name: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFile(writeConfig(t, tt.body)); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

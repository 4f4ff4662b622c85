package config

import (
	"os"
	"path/filepath"
	"testing"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Transport != TransportBoth {
		t.Fatalf("Transport = %q, want %q", cfg.Transport, TransportBoth)
	}
	if cfg.UDPPort != 27020 || cfg.HTTPPort != "8080" {
		t.Fatalf("ports = (%d, %s), want (27020, 8080)", cfg.UDPPort, cfg.HTTPPort)
	}
	if cfg.TickHz != 60 || cfg.BroadcastHz != 20 {
		t.Fatalf("rates = (%d, %d), want (60, 20)", cfg.TickHz, cfg.BroadcastHz)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"ARENA_TRANSPORT":    "ENET",
		"ARENA_UDP_PORT":     "4000",
		"ARENA_MAX_PEERS":    "4",
		"PORT":               "9000",
		"ARENA_PASSWORD":     "hunter2",
		"ARENA_SEED":         "7",
		"ARENA_TICK_HZ":      "30",
		"ARENA_BROADCAST_HZ": "10",
		"LOG_PRETTY":         "true",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Transport != TransportENet || cfg.UDPPort != 4000 || cfg.MaxPeers != 4 {
		t.Fatalf("unexpected transport settings: %+v", cfg)
	}
	if cfg.HTTPPort != "9000" || cfg.Password != "hunter2" || cfg.Seed != 7 {
		t.Fatalf("unexpected settings: %+v", cfg)
	}
	if cfg.TickHz != 30 || cfg.BroadcastHz != 10 || !cfg.LogPretty {
		t.Fatalf("unexpected rates/logging: %+v", cfg)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := map[string]map[string]string{
		"transport": {"ARENA_TRANSPORT": "carrier-pigeon"},
		"udp port":  {"ARENA_UDP_PORT": "70000"},
		"peers":     {"ARENA_MAX_PEERS": "many"},
		"rates":     {"ARENA_TICK_HZ": "10", "ARENA_BROADCAST_HZ": "20"},
		"seed":      {"ARENA_SEED": "x"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := FromEnv(env(vars)); err == nil {
				t.Fatalf("FromEnv(%v) succeeded, want error", vars)
			}
		})
	}
}

func TestCvarDefaultsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cvars.yaml")
	if err := os.WriteFile(path, []byte("start_gold: 500\nnum_rounds: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := FromEnv(env(map[string]string{"ARENA_CVARS": path}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.CvarDefaults["start_gold"] != 500 || cfg.CvarDefaults["num_rounds"] != 3 {
		t.Fatalf("CvarDefaults = %v", cfg.CvarDefaults)
	}
}

package main

import (
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := configFromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("configFromEnv: %v", err)
	}
	if cfg.Addr() != ":"+DefaultPort || cfg.Codec != CodecJSON || cfg.MaxConns != MaxConnections {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestConfigOverrides(t *testing.T) {
	cfg, err := configFromEnv(envMap(map[string]string{
		"HOST":             "127.0.0.1",
		"PORT":             "5555",
		"ARENA_CODEC":      "MsgPack",
		"ARENA_MAX_CONNS":  "10",
		"ARENA_STATIC_DIR": "/srv/arena",
	}))
	if err != nil {
		t.Fatalf("configFromEnv: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:5555" || cfg.Codec != CodecMsgpack || cfg.MaxConns != 10 || cfg.Static != "/srv/arena" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestConfigRejectsBadValues(t *testing.T) {
	bad := []map[string]string{
		{"PORT": "http"},
		{"PORT": "70000"},
		{"ARENA_CODEC": "xml"},
		{"ARENA_MAX_CONNS": "0"},
		{"ARENA_MAX_CONNS": "many"},
	}
	for _, env := range bad {
		if _, err := configFromEnv(envMap(env)); err == nil {
			t.Errorf("configFromEnv(%v) succeeded", env)
		}
	}
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Game configuration constants
const (
	// Server
	DefaultPort   = "3000"
	DefaultHost   = ""
	StaticDir     = "../client/dist"
	WebSocketPath = "/ws"
	RoomsPath     = "/rooms"
	SchemaPath    = "/schema"

	// Map: rectangular arena, bubble centered on the map midpoint
	MapWidth     = 2396.0
	MapHeight    = 1769.0
	MapCenterX   = MapWidth / 2
	MapCenterY   = MapHeight / 2
	SpawnPadding = 100.0 // keeps spawns away from the map edge

	// Game loop
	TickRate        = 60 // ticks per second
	TickCounterWrap = 1 << 30
	// StatsLogEveryTicks controls how often the clock logs room/player totals (~1 min)
	StatsLogEveryTicks = TickRate * 60

	// Rooms
	RoomCapacity      = 12
	MinPlayersToStart = 2
	MaxRoomIDLen      = 32
	MaxUsernameLen    = 16
	DefaultUsername   = "Player"

	// Players
	MaxHealth = 100
	MaxBolts  = 32 // live bolts a single player may report at once

	// Bubble (shrinking safe zone)
	BubbleStartRadius    = 1000.0
	BubbleShrinkAmount   = 10.0
	BubbleShrinkInterval = 50 // ticks between shrinks
	BubbleMinRadius      = 0.0

	// Connections
	MaxConnections = 512
	IPCooldownSec  = 2
)

// Config holds the runtime options that may be overridden from the
// environment (or a .env file next to the binary).
type Config struct {
	Host     string
	Port     string
	Static   string
	Codec    string // default codec for connections that don't ask for one
	MaxConns int
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// LoadConfig reads .env (if present) and then the process environment.
// Recognised variables: HOST, PORT, ARENA_STATIC_DIR, ARENA_CODEC, ARENA_MAX_CONNS.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	} else {
		log.Println("loaded environment from .env")
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Host:     DefaultHost,
		Port:     DefaultPort,
		Static:   StaticDir,
		Codec:    CodecJSON,
		MaxConns: MaxConnections,
	}
	if v := getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := getenv("PORT"); v != "" {
		if _, err := strconv.ParseUint(v, 10, 16); err != nil {
			return Config{}, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = v
	}
	if v := getenv("ARENA_STATIC_DIR"); v != "" {
		cfg.Static = v
	}
	if v := getenv("ARENA_CODEC"); v != "" {
		v = strings.ToLower(v)
		if _, ok := codecs[v]; !ok {
			return Config{}, fmt.Errorf("unknown codec %q", v)
		}
		cfg.Codec = v
	}
	if v := getenv("ARENA_MAX_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid ARENA_MAX_CONNS %q", v)
		}
		cfg.MaxConns = n
	}
	return cfg, nil
}

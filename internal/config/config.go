package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Transport selects which listeners the server opens.
type Transport string

const (
	TransportENet      Transport = "enet"
	TransportWebsocket Transport = "websocket"
	TransportBoth      Transport = "both"
)

type Config struct {
	Transport   Transport
	UDPPort     uint16
	MaxPeers    int
	HTTPPort    string
	Password    string
	CatalogPath string
	CvarsPath   string
	TickHz      int
	BroadcastHz int
	Seed        int64
	LogLevel    string
	LogPretty   bool

	// CvarDefaults overrides the built-in cvar values at startup.
	CvarDefaults map[string]int32
}

func Default() Config {
	return Config{
		Transport:   TransportBoth,
		UDPPort:     27020,
		MaxPeers:    16,
		HTTPPort:    "8080",
		CatalogPath: "data/items.yaml",
		TickHz:      60,
		BroadcastHz: 20,
		Seed:        time.Now().UnixNano(),
		LogLevel:    "info",
	}
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests can avoid the
// process environment.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	var err error

	if v := getenv("ARENA_TRANSPORT"); v != "" {
		switch t := Transport(strings.ToLower(v)); t {
		case TransportENet, TransportWebsocket, TransportBoth:
			cfg.Transport = t
		default:
			return Config{}, fmt.Errorf("ARENA_TRANSPORT: unknown transport %q", v)
		}
	}
	if v := getenv("ARENA_UDP_PORT"); v != "" {
		p, perr := strconv.ParseUint(v, 10, 16)
		if perr != nil {
			return Config{}, fmt.Errorf("ARENA_UDP_PORT: %w", perr)
		}
		cfg.UDPPort = uint16(p)
	}
	if cfg.MaxPeers, err = intVar(getenv, "ARENA_MAX_PEERS", cfg.MaxPeers); err != nil {
		return Config{}, err
	}
	if v := getenv("PORT"); v != "" {
		cfg.HTTPPort = v
	}
	cfg.Password = getenv("ARENA_PASSWORD")
	if v := getenv("ARENA_CATALOG"); v != "" {
		cfg.CatalogPath = v
	}
	cfg.CvarsPath = getenv("ARENA_CVARS")
	if cfg.TickHz, err = intVar(getenv, "ARENA_TICK_HZ", cfg.TickHz); err != nil {
		return Config{}, err
	}
	if cfg.BroadcastHz, err = intVar(getenv, "ARENA_BROADCAST_HZ", cfg.BroadcastHz); err != nil {
		return Config{}, err
	}
	if cfg.TickHz <= 0 || cfg.BroadcastHz <= 0 || cfg.BroadcastHz > cfg.TickHz {
		return Config{}, fmt.Errorf("invalid rates: tick %d Hz, broadcast %d Hz", cfg.TickHz, cfg.BroadcastHz)
	}
	if v := getenv("ARENA_SEED"); v != "" {
		seed, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			return Config{}, fmt.Errorf("ARENA_SEED: %w", perr)
		}
		cfg.Seed = seed
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	cfg.LogPretty = getenv("LOG_PRETTY") == "1" || strings.EqualFold(getenv("LOG_PRETTY"), "true")

	if cfg.CvarsPath != "" {
		if cfg.CvarDefaults, err = LoadCvars(cfg.CvarsPath); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// LoadCvars reads a YAML mapping of cvar name to integer value.
func LoadCvars(path string) (map[string]int32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cvars: %w", err)
	}
	return ParseCvars(data)
}

func ParseCvars(data []byte) (map[string]int32, error) {
	out := map[string]int32{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse cvars: %w", err)
	}
	return out, nil
}

func intVar(getenv func(string) string, name string, def int) (int, error) {
	v := getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

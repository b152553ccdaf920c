package app

import (
	"flag"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Config represents the command-line parameters for the GUI.
type Config struct {
	Sim      string
	Source   string
	Scale    int
	Interval time.Duration
	Seed     int64
	HUDWidth int
	Params   KeyValues
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Sim:      "forestfire",
		Scale:    32,
		Interval: time.Second,
		Seed:     42,
		HUDWidth: 320,
		Params:   KeyValues{},
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.StringVar(&c.Source, "config", c.Source, "JSON configuration file or http(s) URL")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.DurationVar(&c.Interval, "interval", c.Interval, "time between simulation steps")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels (0 hides it)")
	fs.Var(c.Params, "set", "simulation parameter in key=value form (repeatable)")
}

// KeyValues collects repeated key=value flags.
type KeyValues map[string]string

// String implements flag.Value.
func (kv KeyValues) String() string {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + kv[k]
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value.
func (kv KeyValues) Set(value string) error {
	k, v, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("want key=value, got %q", value)
	}
	kv[strings.TrimSpace(k)] = strings.TrimSpace(v)
	return nil
}

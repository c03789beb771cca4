package config

import (
	"flag"
	"fmt"
	"strconv"
	"time"
)

// resolver binds one override to a flag and an environment variable.
type resolver struct {
	flagName    string
	envVarName  string
	description string
	setter      func(*Config, string) error
}

var resolvers = []resolver{
	{
		flagName:    "log-level",
		envVarName:  "PLIFE_LOG_LEVEL",
		description: "Log level: debug, info, warn, error",
		setter:      func(c *Config, v string) error { c.Log.Level = v; return nil },
	},
	{
		flagName:    "addr",
		envVarName:  "PLIFE_ADDR",
		description: "HTTP listen address of the streaming server (e.g. :8080)",
		setter:      func(c *Config, v string) error { c.Server.Addr = v; return nil },
	},
	{
		flagName:    "tick-interval",
		envVarName:  "PLIFE_TICK_INTERVAL",
		description: "Simulation tick interval of the headless binaries (e.g. 33ms)",
		setter: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return err
			}
			c.Server.TickInterval = d
			c.Terminal.TickInterval = d
			return nil
		},
	},
	{
		flagName:    "population",
		envVarName:  "PLIFE_POPULATION",
		description: "Number of particles",
		setter:      intSetter(func(c *Config, n int) { c.Simulation.Population = n }),
	},
	{
		flagName:    "species",
		envVarName:  "PLIFE_SPECIES",
		description: "Number of species",
		setter:      intSetter(func(c *Config, n int) { c.Simulation.Species = n }),
	},
	{
		flagName:    "seed",
		envVarName:  "PLIFE_SEED",
		description: "Random seed; 0 picks one from the clock",
		setter: func(c *Config, v string) error {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return err
			}
			c.Simulation.Seed = n
			return nil
		},
	},
	{
		flagName:    "seeding",
		envVarName:  "PLIFE_SEEDING",
		description: "Relation seeding policy: zero, uniform, noise",
		setter:      func(c *Config, v string) error { c.Simulation.Seeding = v; return nil },
	},
	{
		flagName:    "boundary",
		envVarName:  "PLIFE_BOUNDARY",
		description: "World boundary: none, clamp, wrap",
		setter:      func(c *Config, v string) error { c.Simulation.Boundary = v; return nil },
	},
	{
		flagName:    "relations",
		envVarName:  "PLIFE_RELATIONS_FILE",
		description: "Relation matrix file used by save and load",
		setter:      func(c *Config, v string) error { c.Simulation.RelationsFile = v; return nil },
	},
}

func intSetter(set func(*Config, int)) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		set(c, n)
		return nil
	}
}

// Resolve parses args and builds the configuration. The settings file
// comes from -config or PLIFE_CONFIG; each override is then taken from
// its flag, else its environment variable, else the file.
func Resolve(name string, args []string, getenv func(string) string) (*Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configFile := fs.String("config", "", "Path to a YAML settings file (env PLIFE_CONFIG)")

	flagVars := make(map[string]*string, len(resolvers))
	for _, r := range resolvers {
		flagVars[r.flagName] = fs.String(r.flagName, "", fmt.Sprintf("%s (env %s)", r.description, r.envVarName))
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	path := *configFile
	if path == "" {
		path = getenv("PLIFE_CONFIG")
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	for _, r := range resolvers {
		value := *flagVars[r.flagName]
		if value == "" {
			value = getenv(r.envVarName)
		}
		if value == "" {
			continue
		}
		if err := r.setter(cfg, value); err != nil {
			return nil, fmt.Errorf("invalid value %q for %s: %w", value, r.flagName, err)
		}
	}
	return cfg, nil
}

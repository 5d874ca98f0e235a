package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagMap      = flag.String("map", "", "Map file (.gat or text grid), or map name with -grf")
	flagGRF      = flag.String("grf", "", "GRF archive to load maps from")
	flagTileSize = flag.Int("tile-size", 0, "World units per cell")
	flagAgent    = flag.String("agent", "", "Agent profile")
	flagWorkers  = flag.Int("workers", 0, "Batch worker count")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagGRF != "" {
		cfg.Map.Archive = *flagGRF
	}
	if *flagMap != "" {
		if cfg.Map.Archive != "" {
			cfg.Map.Name = *flagMap
		} else {
			cfg.Map.Path = *flagMap
		}
	}
	if *flagTileSize > 0 {
		cfg.Map.TileSize = *flagTileSize
	}
	if *flagAgent != "" {
		cfg.Search.Agent = *flagAgent
	}
	if *flagWorkers > 0 {
		cfg.Batch.Workers = *flagWorkers
	}
}

// Package config handles configuration loading and management.
package config

// Config holds all settings.
type Config struct {
	Map     MapConfig     `yaml:"map"`
	Search  SearchConfig  `yaml:"search"`
	Batch   BatchConfig   `yaml:"batch"`
	Agents  []AgentConfig `yaml:"agents"`
	Logging LoggingConfig `yaml:"logging"`
}

// MapConfig selects the tile map to search on.
type MapConfig struct {
	Name     string `yaml:"name"`      // Map name inside the archive (data/<name>.gat)
	Path     string `yaml:"path"`      // .gat or text grid file, used when no archive is set
	Archive  string `yaml:"archive"`   // GRF archive path
	TileSize int    `yaml:"tile_size"` // World units per cell
}

// SearchConfig holds path search settings.
type SearchConfig struct {
	Agent string `yaml:"agent"` // Agent profile used when none is given
}

// BatchConfig holds batch runner settings.
type BatchConfig struct {
	Workers int `yaml:"workers"` // 0 = one per CPU
}

// AgentConfig describes a walkability profile.
type AgentConfig struct {
	Name    string `yaml:"name"`
	CanSwim bool   `yaml:"can_swim"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Map: MapConfig{
			TileSize: 32,
		},
		Search: SearchConfig{
			Agent: "walker",
		},
		Batch: BatchConfig{
			Workers: 0,
		},
		Agents: []AgentConfig{
			{Name: "walker"},
			{Name: "swimmer", CanSwim: true},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// pathfind searches tile maps for walking paths.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/gridpath/internal/config"
	"github.com/Faultbox/gridpath/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	command := args[0]
	rest := args[1:]

	switch command {
	case "find":
		err = cmdFind(cfg, rest)
	case "walk":
		err = cmdWalk(cfg, rest)
	case "batch":
		err = cmdBatch(cfg, rest)
	case "view":
		err = cmdView(cfg, rest)
	case "info":
		err = cmdInfo(cfg, rest)
	case "pack":
		err = cmdPack(cfg, rest)
	case "save-config":
		err = cmdSaveConfig(cfg, rest)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pathfind - tile map path search

Usage:
  pathfind [flags] <command> [options]

Flags:
  -config <file>     Config file (default: ./config.yaml, then user config dir)
  -map <file|name>   Map file (.gat or text grid), or map name with -grf
  -grf <file>        GRF archive to load maps from
  -agent <name>      Agent profile (walker, swimmer, ...)
  -tile-size <n>     World units per cell
  -workers <n>       Batch worker count
  -debug             Enable debug logging

Commands:
  find [-world] [-draw] <sx> <sy> <tx> <ty>   Search one path
  walk [-step ms] <sx> <sy> <tx> <ty>         Simulate walking a path
  batch [-o out.yaml] <queries.yaml>          Run many queries concurrently
  view <sx> <sy> <tx> <ty>                    Show the map and path in the terminal
  info                                        Show map information
  pack <out.grf> <map>...                     Pack maps into a GRF archive
  save-config [path]                          Write the effective config

Examples:
  pathfind -map town.txt find 0 0 12 7
  pathfind -grf data.grf -map prontera -agent swimmer view 150 60 160 250
  pathfind -map field.gat -workers 8 batch queries.yaml`)
}

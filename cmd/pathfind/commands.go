package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/gridpath/internal/batch"
	"github.com/Faultbox/gridpath/internal/config"
	"github.com/Faultbox/gridpath/internal/logger"
	"github.com/Faultbox/gridpath/internal/pathfind"
	"github.com/Faultbox/gridpath/internal/viewer"
	"github.com/Faultbox/gridpath/internal/world"
	"github.com/Faultbox/gridpath/pkg/formats"
	"github.com/Faultbox/gridpath/pkg/grf"
)

// maxWalkSteps bounds the walk simulation.
const maxWalkSteps = 1_000_000

// loadWorld loads the configured map and resolves the configured agent.
func loadWorld(cfg *config.Config) (*world.Manager, world.Agent, error) {
	agent, err := world.FindAgent(world.AgentsFromConfig(cfg.Agents), cfg.Search.Agent)
	if err != nil {
		return nil, world.Agent{}, err
	}

	mgr := world.NewManager(cfg.Map)
	if err := mgr.Load(); err != nil {
		return nil, world.Agent{}, err
	}
	return mgr, agent, nil
}

// parseCoords reads n integers.
func parseCoords(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d coordinates, got %d", n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("coordinate %q: %w", a, err)
		}
		out[i] = v
	}
	return out, nil
}

func cmdFind(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("find", flag.ExitOnError)
	worldSpace := fs.Bool("world", false, "Coordinates are world units, not cells")
	draw := fs.Bool("draw", false, "Print the map with the path drawn on it")
	fs.Parse(args)

	c, err := parseCoords(fs.Args(), 4)
	if err != nil {
		return err
	}

	mgr, agent, err := loadWorld(cfg)
	if err != nil {
		return err
	}

	var res pathfind.Result
	if *worldSpace {
		res = pathfind.FindPath(mgr.Searcher(), c[0], c[1], c[2], c[3], agent, world.Walkable(mgr.Current()))
	} else {
		res = mgr.FindPath(c[0], c[1], c[2], c[3], agent)
	}

	logger.Debug("search done",
		zap.String("agent", agent.Name),
		zap.String("outcome", res.Outcome.String()),
		zap.Int("expanded", res.Expanded),
	)

	fmt.Printf("Map:      %s (%dx%d)\n", mgr.Current().Name, mgr.Current().Width(), mgr.Current().Height())
	fmt.Printf("Agent:    %s\n", agent.Name)
	fmt.Printf("Outcome:  %s\n", res.Outcome)
	fmt.Printf("Cost:     %d\n", res.Cost)
	fmt.Printf("Expanded: %d\n", res.Expanded)
	fmt.Printf("Cells:    %s\n", formatCells(res.Cells))
	if *draw {
		fmt.Println()
		fmt.Print(drawPath(mgr.Current(), res.Cells))
	}
	return nil
}

func cmdWalk(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("walk", flag.ExitOnError)
	stepMs := fs.Float64("step", 50, "Simulation step in milliseconds")
	speed := fs.Float64("speed", world.DefaultMoveSpeed, "Walker speed in world units per second")
	fs.Parse(args)

	c, err := parseCoords(fs.Args(), 4)
	if err != nil {
		return err
	}
	if *stepMs <= 0 || *speed <= 0 {
		return fmt.Errorf("step and speed must be positive")
	}

	mgr, agent, err := loadWorld(cfg)
	if err != nil {
		return err
	}

	walker := world.NewPointWalker(0, 0)
	walker.Speed = float32(*speed)
	mc := world.NewMovementController(mgr.Searcher(), mgr.Current(), agent, walker)
	walker.X, walker.Z = mc.TileToWorld(c[0], c[1])

	res := mc.MoveTo(c[2], c[3])
	if res.Outcome != pathfind.Found {
		fmt.Printf("Outcome: %s\n", res.Outcome)
		return nil
	}

	fmt.Printf("Walking %d cells (cost %d) as %s\n", len(res.Cells)-1, res.Cost, agent.Name)

	step := float32(*stepMs)
	elapsed := float32(0)
	reached := 0
	for i := 0; mc.IsFollowingPath && i < maxWalkSteps; i++ {
		walker.Update(step)
		elapsed += step

		// Report each waypoint before the controller hands out the next one.
		if idx := mc.PathIndex(); !walker.HasDestination() && idx > reached {
			reached = idx
			tx, ty := mc.WorldToTile(walker.Position())
			fmt.Printf("  %8.0fms  cell (%d,%d)\n", elapsed, tx, ty)
		}
		mc.Update(step)
	}

	if mc.IsFollowingPath {
		return fmt.Errorf("walk did not finish after %d steps", maxWalkSteps)
	}
	x, z := walker.Position()
	fmt.Printf("Arrived at (%.1f, %.1f) after %.0fms\n", x, z, elapsed)
	return nil
}

func cmdBatch(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	output := fs.String("o", "", "Write answers to this file instead of stdout")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: pathfind batch [-o out.yaml] <queries.yaml>")
	}

	queries, err := batch.LoadQueries(fs.Arg(0))
	if err != nil {
		return err
	}

	mgr, _, err := loadWorld(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &batch.Runner{
		Map:          mgr.Current(),
		Agents:       world.AgentsFromConfig(cfg.Agents),
		DefaultAgent: cfg.Search.Agent,
		TileSize:     cfg.Map.TileSize,
		Workers:      cfg.Batch.Workers,
	}
	answers, err := runner.Run(ctx, queries)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(map[string][]batch.Answer{"answers": answers})
	if err != nil {
		return fmt.Errorf("encoding answers: %w", err)
	}
	if *output != "" {
		if err := os.WriteFile(*output, data, 0644); err != nil {
			return fmt.Errorf("writing answers: %w", err)
		}
	} else {
		os.Stdout.Write(data)
	}

	st := batch.Summarise(answers)
	fmt.Fprintf(os.Stderr, "Queries: %d  Found: %d  Trivial: %d  Unreachable: %d  Expanded: %d  Longest: %d\n",
		st.Queries, st.Found, st.Trivial, st.Unreachable, st.TotalExpanded, st.LongestPath)
	return nil
}

func cmdView(cfg *config.Config, args []string) error {
	c, err := parseCoords(args, 4)
	if err != nil {
		return err
	}

	mgr, agent, err := loadWorld(cfg)
	if err != nil {
		return err
	}
	res := mgr.FindPath(c[0], c[1], c[2], c[3], agent)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	viewer.Run(screen, mgr.Current(), res)
	return nil
}

func cmdInfo(cfg *config.Config, args []string) error {
	mgr, _, err := loadWorld(cfg)
	if err != nil {
		return err
	}
	m := mgr.Current()

	fmt.Printf("Map:       %s\n", m.Name)
	fmt.Printf("Size:      %dx%d cells\n", m.Width(), m.Height())
	fmt.Printf("Version:   %s\n", m.GAT.Version)
	fmt.Printf("Tile size: %d\n", mgr.TileSize())

	lo, hi := m.GAT.GetAltitudeRange()
	fmt.Printf("Altitude:  %.1f .. %.1f\n", lo, hi)

	counts := m.GAT.CountByType()
	types := make([]formats.GATCellType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	fmt.Println()
	fmt.Println("Cells by type:")
	total := m.Width() * m.Height()
	for _, t := range types {
		fmt.Printf("  %c %-16s %8d  %5.1f%%\n", formats.TypeRune(t), t, counts[t], 100*float64(counts[t])/float64(total))
	}

	if cfg.Map.Archive != "" {
		archive, err := grf.Open(cfg.Map.Archive)
		if err != nil {
			return err
		}
		defer archive.Close()

		maps := 0
		for _, p := range archive.List() {
			if strings.HasSuffix(p, ".gat") {
				maps++
			}
		}
		fmt.Println()
		fmt.Printf("Archive:   %s (%d files, %d maps)\n", cfg.Map.Archive, archive.Len(), maps)
	}
	return nil
}

func cmdPack(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: pathfind pack <out.grf> <map>...")
	}

	files := make(map[string][]byte, len(args)-1)
	for _, path := range args[1:] {
		mgr := world.NewManager(config.MapConfig{TileSize: cfg.Map.TileSize})
		if err := mgr.LoadFile(path); err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := mgr.Current().GAT.Encode(&buf); err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		files["data/"+mgr.Current().Name+".gat"] = buf.Bytes()
	}

	if err := os.MkdirAll(filepath.Dir(args[0]), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	out, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	if err := grf.Write(out, files); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	logger.Info("archive written", zap.String("path", args[0]), zap.Int("maps", len(files)))
	fmt.Printf("Packed %d maps into %s\n", len(files), args[0])
	return nil
}

func cmdSaveConfig(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			return err
		}
		fmt.Printf("Config written to %s\n", args[0])
		return nil
	}

	path, err := cfg.Save()
	if err != nil {
		return err
	}
	fmt.Printf("Config written to %s\n", path)
	return nil
}

func formatCells(cells []pathfind.Cell) string {
	if len(cells) == 0 {
		return "-"
	}
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprintf("(%d,%d)", c.X, c.Y)
	}
	return strings.Join(parts, " ")
}

// drawPath renders the map in the text grid legend with the path on top.
func drawPath(m *world.Map, cells []pathfind.Cell) string {
	w, h := m.Width(), m.Height()
	grid := make([][]rune, h)
	for y := range grid {
		grid[y] = make([]rune, w)
		for x := range grid[y] {
			grid[y][x] = formats.TypeRune(m.TileAt(x, y).Type)
		}
	}

	for i, c := range cells {
		r := viewer.RunePath
		switch i {
		case 0:
			r = viewer.RuneStart
		case len(cells) - 1:
			r = viewer.RuneTarget
		}
		grid[c.Y][c.X] = r
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

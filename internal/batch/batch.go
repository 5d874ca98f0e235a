// Package batch runs many path queries against one map concurrently.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/gridpath/internal/logger"
	"github.com/Faultbox/gridpath/internal/pathfind"
	"github.com/Faultbox/gridpath/internal/world"
)

// ErrNoMap is returned when a runner has no map to search.
var ErrNoMap = errors.New("batch runner has no map")

// Query is one path request.
type Query struct {
	ID      string `yaml:"id"`
	StartX  int    `yaml:"start_x"`
	StartY  int    `yaml:"start_y"`
	TargetX int    `yaml:"target_x"`
	TargetY int    `yaml:"target_y"`
	Agent   string `yaml:"agent"` // Empty uses the runner's default agent
}

// Answer is the outcome of one query.
type Answer struct {
	ID       string           `yaml:"id"`
	Outcome  pathfind.Outcome `yaml:"outcome"`
	Cells    []pathfind.Cell  `yaml:"cells,omitempty"`
	Cost     int              `yaml:"cost"`
	Expanded int              `yaml:"expanded"`
}

type queryFile struct {
	Queries []Query `yaml:"queries"`
}

// LoadQueries reads a YAML file with a top-level queries list.
func LoadQueries(path string) ([]Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}

	var qf queryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	for i := range qf.Queries {
		if qf.Queries[i].ID == "" {
			qf.Queries[i].ID = fmt.Sprintf("q%d", i+1)
		}
	}
	return qf.Queries, nil
}

// Runner fans queries out over a bounded set of workers. Each worker borrows
// its own searcher from a pool, so no searcher is ever shared.
type Runner struct {
	Map          *world.Map
	Agents       []world.Agent
	DefaultAgent string
	TileSize     int
	Workers      int // 0 = one per CPU
}

// Run answers every query. Answers keep query order. Unknown agent names fail
// the whole batch before any search runs. Cancelling ctx stops dispatching;
// the context error is returned.
func (r *Runner) Run(ctx context.Context, queries []Query) ([]Answer, error) {
	if r.Map == nil {
		return nil, ErrNoMap
	}

	agents := make([]world.Agent, len(queries))
	for i, q := range queries {
		name := q.Agent
		if name == "" {
			name = r.DefaultAgent
		}
		agent, err := world.FindAgent(r.Agents, name)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", q.ID, err)
		}
		agents[i] = agent
	}

	tileSize := r.TileSize
	if tileSize <= 0 {
		tileSize = 1
	}

	// The first searcher proves the map is usable before any worker starts.
	first := pathfind.NewSearcher()
	if err := first.SetupGrid(r.Map, tileSize); err != nil {
		return nil, fmt.Errorf("preparing searcher: %w", err)
	}
	pool := sync.Pool{
		New: func() any {
			s := pathfind.NewSearcher()
			if err := s.SetupGrid(r.Map, tileSize); err != nil {
				return nil
			}
			return s
		},
	}
	pool.Put(first)

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	walkable := world.Walkable(r.Map)
	answers := make([]Answer, len(queries))
	started := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range queries {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			s, _ := pool.Get().(*pathfind.Searcher)
			if s == nil {
				return fmt.Errorf("query %s: no searcher available", queries[i].ID)
			}
			defer pool.Put(s)

			q := queries[i]
			res := pathfind.FindPathTile(s, q.StartX, q.StartY, q.TargetX, q.TargetY, agents[i], walkable)
			answers[i] = Answer{
				ID:       q.ID,
				Outcome:  res.Outcome,
				Cells:    res.Cells,
				Cost:     res.Cost,
				Expanded: res.Expanded,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("batch finished",
		zap.String("map", r.Map.Name),
		zap.Int("queries", len(queries)),
		zap.Int("workers", workers),
		zap.Duration("elapsed", time.Since(started)),
	)
	return answers, nil
}

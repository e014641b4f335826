// Package main provides fightsim, which plays matchups between content
// fighters and prints their transcripts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yopox/decade-jam/internal/config"
	"github.com/yopox/decade-jam/internal/game/catalog"
	"github.com/yopox/decade-jam/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (defaults and FIGHTSIM_* env when empty)")
	contentDir := flag.String("content", "", "content directory; overrides content.dir")
	allies := flag.String("allies", "", "comma-separated ally fighter IDs for a single ad hoc matchup")
	enemies := flag.String("enemies", "", "comma-separated enemy fighter IDs for a single ad hoc matchup")
	only := flag.String("matchup", "", "run only the named matchup")
	quiet := flag.Bool("quiet", false, "print verdicts only")
	validate := flag.Bool("validate", false, "check every transcript before printing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *contentDir != "" {
		cfg.Content.Dir = *contentDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	cat := catalog.Builtin()
	if cfg.Content.Dir != "" {
		if cat, err = catalog.Load(cfg.Content.Dir); err != nil {
			logger.Fatal("loading content", zap.Error(err))
		}
	}
	logger.Info("content loaded",
		zap.String("dir", cfg.Content.Dir),
		zap.Int("fighters", len(cat.FighterIDs())),
		zap.Int("weapons", len(cat.WeaponIDs())),
		zap.Int("matchups", len(cat.Matchups())),
	)

	matchups, err := selectMatchups(cat, *allies, *enemies, *only)
	if err != nil {
		logger.Fatal("selecting matchups", zap.Error(err))
	}

	table, err := cfg.ElementTable()
	if err != nil {
		logger.Fatal("building element table", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if cfg.Simulation.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Simulation.Timeout)
		defer cancel()
	}

	results, err := runMatchups(ctx, cat, matchups, runOptions{
		maxTurns:    cfg.Simulation.MaxTurns,
		parallelism: cfg.Simulation.Parallelism,
		table:       table,
		validate:    *validate,
		logger:      logger,
	})
	if err != nil {
		logger.Fatal("running matchups", zap.Error(err))
	}
	if err := printResults(os.Stdout, results, *quiet); err != nil {
		logger.Fatal("printing results", zap.Error(err))
	}

	logger.Info("run complete",
		zap.Int("fights", len(results)),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// selectMatchups picks what to run: an ad hoc matchup when allies or
// enemies are given, else the named catalog matchup, else all of them.
func selectMatchups(cat *catalog.Catalog, allies, enemies, only string) ([]catalog.Matchup, error) {
	if allies != "" || enemies != "" {
		m := catalog.Matchup{Name: "custom", Allies: splitIDs(allies), Enemies: splitIDs(enemies)}
		for _, id := range append(append([]string{}, m.Allies...), m.Enemies...) {
			if _, ok := cat.FighterDef(id); !ok {
				return nil, fmt.Errorf("unknown fighter %q", id)
			}
		}
		return []catalog.Matchup{m}, nil
	}
	if only != "" {
		for _, m := range cat.Matchups() {
			if m.Name == only {
				return []catalog.Matchup{m}, nil
			}
		}
		return nil, fmt.Errorf("unknown matchup %q", only)
	}
	return cat.Matchups(), nil
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

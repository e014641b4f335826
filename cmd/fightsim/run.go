package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yopox/decade-jam/internal/game/catalog"
	"github.com/yopox/decade-jam/internal/game/fight"
	"github.com/yopox/decade-jam/internal/game/stats"
	"github.com/yopox/decade-jam/internal/game/transcript"
	"github.com/yopox/decade-jam/internal/observability"
)

var (
	styleHeader = lipgloss.NewStyle().Bold(true)
	styleWon    = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	styleLost   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleDraw   = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true)
)

// runOptions carries everything one run needs besides the matchups.
type runOptions struct {
	maxTurns    int
	parallelism int
	table       stats.Table
	validate    bool
	logger      *zap.Logger
}

// result is the outcome of one matchup.
type result struct {
	matchup    catalog.Matchup
	state      fight.State
	turns      int
	transcript []byte
}

// runMatchups plays every matchup, at most opts.parallelism at a time, and
// returns the results in matchup order. Each fight owns its fighters.
func runMatchups(ctx context.Context, cat *catalog.Catalog, matchups []catalog.Matchup, opts runOptions) ([]result, error) {
	results := make([]result, len(matchups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.parallelism)
	for i, m := range matchups {
		i, m := i, m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := runOne(cat, m, opts)
			if err != nil {
				return fmt.Errorf("matchup %q: %w", m.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runOne(cat *catalog.Catalog, m catalog.Matchup, opts runOptions) (result, error) {
	allies, err := cat.Roster(m.Allies)
	if err != nil {
		return result{}, err
	}
	enemies, err := cat.Roster(m.Enemies)
	if err != nil {
		return result{}, err
	}

	var buf bytes.Buffer
	w := transcript.NewWriter(&buf)
	logger := observability.MatchupLogger(opts.logger, m.Name)
	f := fight.Build(allies, enemies,
		fight.WithLogger(logger),
		fight.WithObserver(w),
		fight.WithMaxTurns(opts.maxTurns),
		fight.WithTable(opts.table),
		fight.WithStatuses(cat.Statuses()),
	)
	state := f.Run()
	if err := w.Err(); err != nil {
		return result{}, fmt.Errorf("writing transcript: %w", err)
	}
	if opts.validate {
		lines, err := transcript.Parse(bytes.NewReader(buf.Bytes()))
		if err != nil {
			return result{}, err
		}
		if err := transcript.Validate(lines); err != nil {
			return result{}, err
		}
	}
	logger.Info("fight finished",
		zap.String("fight", f.ID.String()),
		zap.Stringer("state", state),
		zap.Int("turns", f.Turn()),
	)
	return result{matchup: m, state: state, turns: f.Turn(), transcript: buf.Bytes()}, nil
}

// printResults writes each transcript, unless quiet, followed by its verdict.
func printResults(out io.Writer, results []result, quiet bool) error {
	for _, r := range results {
		if _, err := fmt.Fprintln(out, styleHeader.Render("# "+r.matchup.Name)); err != nil {
			return err
		}
		if !quiet {
			if _, err := out.Write(r.transcript); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(out, verdict(r)); err != nil {
			return err
		}
	}
	return nil
}

func verdict(r result) string {
	switch r.state {
	case fight.AlliesVictory:
		return styleWon.Render(fmt.Sprintf("allies win on turn %d", r.turns))
	case fight.EnemiesVictory:
		return styleLost.Render(fmt.Sprintf("enemies win on turn %d", r.turns))
	default:
		return styleDraw.Render(fmt.Sprintf("draw after %d turns", r.turns-1))
	}
}

// Package main runs many seeded auto-battles between two monster species
// concurrently and prints the outcome distribution.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/monsters/internal/config"
	"github.com/cory-johannsen/monsters/internal/game/combat"
	"github.com/cory-johannsen/monsters/internal/game/dice"
	"github.com/cory-johannsen/monsters/internal/game/monster"
	"github.com/cory-johannsen/monsters/internal/observability"
	"github.com/cory-johannsen/monsters/internal/storage/postgres"
)

type tally struct {
	mu     sync.Mutex
	states map[string]int
	rounds int
	total  int
}

func (t *tally) add(r *combat.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[r.State().String()]++
	t.rounds += r.Rounds()
	t.total++
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	playerName := flag.String("player", "Squire Hound", "player monster template")
	wildName := flag.String("wild", "Bog Wisp", "wild monster template")
	battles := flag.Int("n", 1000, "number of battles")
	workers := flag.Int("workers", 8, "concurrent battles")
	seed := flag.Uint64("seed", 1, "seed of the first battle; battle i uses seed+i")
	toolBonus := flag.Float64("tool-bonus", 0, "capture tool bonus per battle, like a request's tool_bonus (a capture net grants game.tool_bonus)")
	record := flag.Bool("record", false, "store every battle (requires database)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	templates, err := monster.LoadTemplates(cfg.Content.MonstersDir)
	if err != nil {
		logger.Fatal("loading monster templates", zap.Error(err))
	}
	pool, err := monster.NewPool(templates)
	if err != nil {
		logger.Fatal("building monster pool", zap.Error(err))
	}

	ctx := context.Background()
	var recorder *postgres.BattleRepository
	if *record {
		if !cfg.Database.Enabled {
			logger.Fatal("-record requires database.enabled")
		}
		db, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer db.Close()
		recorder = postgres.NewBattleRepository(db.DB())
	}

	if !(*toolBonus >= 0 && *toolBonus <= 1) {
		logger.Fatal("-tool-bonus must be in [0, 1]", zap.Float64("tool_bonus", *toolBonus))
	}
	opts := battleOptions(cfg.Game, *toolBonus)

	t := &tally{states: make(map[string]int)}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, *workers))
	for i := 0; i < *battles; i++ {
		battleSeed := *seed + uint64(i)
		g.Go(func() error {
			player, err := pool.Spawn(*playerName)
			if err != nil {
				return err
			}
			wild, err := pool.Spawn(*wildName)
			if err != nil {
				return err
			}
			r, err := combat.RunAutoBattle(player, wild, dice.NewSeededSource(battleSeed), opts)
			if err != nil {
				return fmt.Errorf("battle seed %d: %w", battleSeed, err)
			}
			t.add(r)
			if recorder != nil {
				if _, err := recorder.Record(gctx, postgres.NewBattleRecord("", "", player.Name, wild.Name, r)); err != nil {
					return fmt.Errorf("recording battle seed %d: %w", battleSeed, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}

	logger.Info("simulation complete",
		zap.Int("battles", t.total),
		zap.Int("workers", *workers),
		zap.Duration("elapsed", time.Since(start)),
	)
	printSummary(*playerName, *wildName, t)
}

// battleOptions applies the configured capture tuning the way the gameserver
// does, plus the tool bonus a request would pass as tool_bonus.
func battleOptions(g config.GameConfig, toolBonus float64) combat.Options {
	opts := combat.DefaultOptions()
	opts.CaptureThreshold = g.CaptureThreshold
	opts.CaptureBonus = g.CaptureBonus
	opts.ToolBonus = toolBonus
	return opts
}

func printSummary(playerName, wildName string, t *tally) {
	fmt.Fprintf(os.Stdout, "%s vs %s: %d battles\n", playerName, wildName, t.total)
	if t.total == 0 {
		return
	}
	states := make([]string, 0, len(t.states))
	for s := range t.states {
		states = append(states, s)
	}
	sort.Strings(states)
	for _, s := range states {
		n := t.states[s]
		fmt.Fprintf(os.Stdout, "  %-11s %6d  %5.1f%%\n", s, n, 100*float64(n)/float64(t.total))
	}
	fmt.Fprintf(os.Stdout, "  average rounds %.2f\n", float64(t.rounds)/float64(t.total))
}

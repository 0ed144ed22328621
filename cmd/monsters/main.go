// Package main runs the interactive single-player game in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/monsters/internal/config"
	"github.com/cory-johannsen/monsters/internal/game/command"
	"github.com/cory-johannsen/monsters/internal/game/dice"
	"github.com/cory-johannsen/monsters/internal/game/inventory"
	"github.com/cory-johannsen/monsters/internal/game/monster"
	"github.com/cory-johannsen/monsters/internal/game/player"
	"github.com/cory-johannsen/monsters/internal/game/session"
	"github.com/cory-johannsen/monsters/internal/game/world"
	"github.com/cory-johannsen/monsters/internal/observability"
	"github.com/cory-johannsen/monsters/internal/scripting"
	"github.com/cory-johannsen/monsters/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	resume := flag.Bool("resume", false, "continue the saved game of the configured player (requires database)")
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &cfg, *resume, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("game ended with error", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, resume bool, logger *zap.Logger) error {
	start := time.Now()

	templates, err := monster.LoadTemplates(cfg.Content.MonstersDir)
	if err != nil {
		return err
	}
	pool, err := monster.NewPool(templates)
	if err != nil {
		return err
	}
	atlas, err := world.LoadAtlasFromFile(cfg.Content.RegionsFile)
	if err != nil {
		return err
	}
	if err := atlas.ValidateMonsters(pool.Names()); err != nil {
		return err
	}
	recipes, err := inventory.LoadRecipesFromFile(cfg.Content.RecipesFile)
	if err != nil {
		return err
	}

	var src dice.Source = dice.NewCryptoSource()
	if cfg.Game.Seed != 0 {
		src = dice.NewSeededSource(cfg.Game.Seed)
	}
	src = dice.NewLoggedSource(src, logger)

	var scripts *scripting.Manager
	if cfg.Content.ScriptsDir != "" {
		scripts = scripting.NewManager(src, logger, cfg.Content.ScriptInstructionLimit)
		defer scripts.Close()
		if err := scripts.LoadRoot(cfg.Content.ScriptsDir); err != nil {
			return err
		}
	}

	deps := session.Deps{
		Atlas:    atlas,
		Monsters: pool,
		Recipes:  recipes,
		Commands: command.DefaultRegistry(),
		Source:   src,
		Logger:   logger,
		Scripts:  scripts,
	}

	var saves *postgres.SaveRepository
	if cfg.Database.Enabled {
		db, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		saves = postgres.NewSaveRepository(db.DB())
		deps.Saver = saves
		deps.Recorder = postgres.NewBattleRepository(db.DB())
	}

	p, err := loadPlayer(ctx, cfg, resume, saves, pool, atlas)
	if err != nil {
		return err
	}

	game, err := session.New(p, deps, session.Options{
		CaptureThreshold: cfg.Game.CaptureThreshold,
		CaptureBonus:     cfg.Game.CaptureBonus,
		ToolBonus:        cfg.Game.ToolBonus,
		HoursPerMove:     cfg.Game.HoursPerMove,
	})
	if err != nil {
		return err
	}
	logger.Info("game ready",
		zap.Int("monsters", pool.Len()),
		zap.Int("regions", atlas.Len()),
		zap.Int("recipes", recipes.Len()),
		zap.Duration("startup", time.Since(start)),
	)
	return game.Run(ctx, os.Stdin, os.Stdout)
}

func loadPlayer(ctx context.Context, cfg *config.Config, resume bool, saves *postgres.SaveRepository, pool *monster.Pool, atlas *world.Manager) (*player.Player, error) {
	if resume {
		if saves == nil {
			return nil, fmt.Errorf("-resume requires database.enabled")
		}
		snap, err := saves.LoadByName(ctx, cfg.Game.PlayerName)
		switch {
		case err == nil:
			return player.Restore(snap, pool)
		case !errors.Is(err, postgres.ErrSaveNotFound):
			return nil, err
		}
	}
	start := atlas.Start()
	if cfg.Game.StartRegion != "" {
		r, ok := atlas.Region(cfg.Game.StartRegion)
		if !ok {
			return nil, fmt.Errorf("start region %q not found", cfg.Game.StartRegion)
		}
		start = r
	}
	return session.NewPlayer(cfg.Game.PlayerName, cfg.Game.StarterMonster, pool, start)
}

// Package main runs the battle simulation service over gRPC.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/cory-johannsen/monsters/internal/config"
	"github.com/cory-johannsen/monsters/internal/game/combat"
	"github.com/cory-johannsen/monsters/internal/game/monster"
	"github.com/cory-johannsen/monsters/internal/gameserver"
	"github.com/cory-johannsen/monsters/internal/observability"
	"github.com/cory-johannsen/monsters/internal/server"
	"github.com/cory-johannsen/monsters/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting battle server", zap.String("grpc_addr", cfg.GameServer.Addr()))

	templates, err := monster.LoadTemplates(cfg.Content.MonstersDir)
	if err != nil {
		logger.Fatal("loading monster templates", zap.Error(err))
	}
	pool, err := monster.NewPool(templates)
	if err != nil {
		logger.Fatal("building monster pool", zap.Error(err))
	}
	logger.Info("monsters loaded", zap.Int("templates", pool.Len()))

	lifecycle := server.NewLifecycle(logger, cfg.GameServer.ShutdownTimeout)

	var recorder gameserver.BattleRecorder
	if cfg.Database.Enabled {
		dbStart := time.Now()
		db, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		recorder = postgres.NewBattleRepository(db.DB())
		lifecycle.Add("postgres", healthCheck(db, logger))
	}

	defaults := combat.DefaultOptions()
	defaults.CaptureThreshold = cfg.Game.CaptureThreshold
	defaults.CaptureBonus = cfg.Game.CaptureBonus

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(gameserver.UnaryLogger(logger)))
	gameserver.RegisterBattleService(grpcServer, gameserver.NewBattleServer(pool, defaults, recorder, logger))

	lifecycle.Add("grpc", &server.FuncService{
		StartFn: func() error {
			lis, err := net.Listen("tcp", cfg.GameServer.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.GameServer.Addr(), err)
			}
			logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
			return grpcServer.Serve(lis)
		},
		StopFn: func(ctx context.Context) error {
			done := make(chan struct{})
			go func() {
				grpcServer.GracefulStop()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				grpcServer.Stop()
				return ctx.Err()
			}
		},
	})

	logger.Info("battle server initialized", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// healthCheck pings the database every 30 seconds until stopped, then closes the pool.
func healthCheck(db *postgres.Pool, logger *zap.Logger) server.Service {
	done := make(chan struct{})
	return &server.FuncService{
		StartFn: func() error {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return nil
				case <-ticker.C:
					if err := db.Health(context.Background(), 5*time.Second); err != nil {
						logger.Warn("database health check failed", zap.Error(err))
					}
				}
			}
		},
		StopFn: func(context.Context) error {
			close(done)
			db.Close()
			return nil
		},
	}
}

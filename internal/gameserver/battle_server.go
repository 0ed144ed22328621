package gameserver

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/monsters/internal/game/combat"
	"github.com/cory-johannsen/monsters/internal/game/dice"
	"github.com/cory-johannsen/monsters/internal/game/monster"
	"github.com/cory-johannsen/monsters/internal/observability"
	"github.com/cory-johannsen/monsters/internal/storage/postgres"
)

// BattleRecorder persists finished battles.
//
// Postcondition: Returns the stored record or a non-nil error.
type BattleRecorder interface {
	Record(ctx context.Context, rec postgres.BattleRecord) (postgres.BattleRecord, error)
}

// BattleServer implements BattleService against a monster template pool.
//
// Every request spawns its own monsters and seeded source, so a BattleServer
// is safe for concurrent use.
type BattleServer struct {
	pool     *monster.Pool
	defaults combat.Options
	recorder BattleRecorder
	seeds    func() uint64
	logger   *zap.Logger
}

// NewBattleServer creates a BattleServer.
//
// Precondition: pool and logger must be non-nil; recorder may be nil, in which
// case battles are not persisted.
func NewBattleServer(pool *monster.Pool, defaults combat.Options, recorder BattleRecorder, logger *zap.Logger) *BattleServer {
	return &BattleServer{
		pool:     pool,
		defaults: defaults,
		recorder: recorder,
		seeds:    dice.NewSeed,
		logger:   logger,
	}
}

// SimulateBattle spawns the requested monsters at full health and runs one auto-battle.
//
// Postcondition: Returns codes.InvalidArgument for malformed requests or unknown
// monsters, and a response holding state, winner, rounds, capture flags, seed and log.
func (s *BattleServer) SimulateBattle(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	br, err := ParseBattleRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	player, err := s.pool.Spawn(br.Player)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	wild, err := s.pool.Spawn(br.Wild)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	seed := br.Seed
	if !br.HasSeed {
		seed = s.seeds()
	}
	opts := s.options(br)
	logger := s.logger.With(
		zap.String("player", player.Name),
		zap.String("wild", wild.Name),
		zap.Uint64("seed", seed),
	)
	opts.Observer = observability.BattleObserver(logger)

	start := time.Now()
	result, err := combat.RunAutoBattle(player, wild, dice.NewSeededSource(seed), opts)
	if err != nil {
		if errors.Is(err, combat.ErrInvalidState) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	logger.Info("battle simulated", append(observability.ResultFields(result), zap.Duration("elapsed", time.Since(start)))...)

	battleID := ""
	if s.recorder != nil {
		rec, err := s.recorder.Record(ctx, postgres.NewBattleRecord("", "", player.Name, wild.Name, result))
		if err != nil {
			logger.Warn("recording battle failed", zap.Error(err))
		} else {
			battleID = rec.ID
		}
	}

	out, err := encodeResult(result, seed, battleID)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *BattleServer) options(br BattleRequest) combat.Options {
	opts := s.defaults
	if br.CaptureThreshold != nil {
		opts.CaptureThreshold = *br.CaptureThreshold
	}
	if br.CaptureBonus != nil {
		opts.CaptureBonus = *br.CaptureBonus
	}
	if br.ToolBonus != nil {
		opts.ToolBonus = *br.ToolBonus
	}
	return opts
}

func encodeResult(r *combat.Result, seed uint64, battleID string) (*structpb.Struct, error) {
	var winner any
	if name, ok := r.Winner(); ok {
		winner = name
	}
	entries := make([]any, 0, len(r.Log()))
	for _, e := range r.Log() {
		entries = append(entries, encodeEntry(e))
	}
	fields := map[string]any{
		"state":             r.State().String(),
		"winner":            winner,
		"rounds":            r.Rounds(),
		"capture_attempted": r.CaptureAttempted(),
		"captured":          r.Captured(),
		"seed":              strconv.FormatUint(seed, 10),
		"log":               entries,
	}
	if battleID != "" {
		fields["battle_id"] = battleID
	}
	return structpb.NewStruct(fields)
}

func encodeEntry(e combat.LogEntry) map[string]any {
	out := map[string]any{
		"kind":      string(e.Kind()),
		"narrative": e.Narrative(),
	}
	switch v := e.(type) {
	case combat.AttackEntry:
		out["actor"] = v.Actor
		out["target"] = v.Target
		out["skill"] = v.Skill
		out["damage"] = v.Damage
		out["remaining_hp"] = v.RemainingHP
		out["fainted"] = v.Fainted
		out["effect"] = v.Effect.String()
	case combat.CaptureEntry:
		out["actor"] = v.Actor
		out["target"] = v.Target
		out["remaining_hp"] = v.RemainingHP
		out["success"] = v.Success
		out["chance"] = v.Chance
	}
	return out
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/monsters/internal/game/combat"
)

// ErrBattleNotFound is returned when a battle record lookup yields no results.
var ErrBattleNotFound = errors.New("battle not found")

// RecordedEntry is the stored form of one combat log entry.
type RecordedEntry struct {
	Kind        string  `json:"kind"`
	Actor       string  `json:"actor"`
	Target      string  `json:"target"`
	Skill       string  `json:"skill,omitempty"`
	Damage      int     `json:"damage,omitempty"`
	RemainingHP int     `json:"remaining_hp"`
	Fainted     bool    `json:"fainted,omitempty"`
	Effect      string  `json:"effect,omitempty"`
	Success     bool    `json:"success,omitempty"`
	Chance      float64 `json:"chance,omitempty"`
}

// BattleRecord is one finished battle.
type BattleRecord struct {
	ID               string
	PlayerID         string
	Region           string
	PlayerMonster    string
	WildMonster      string
	State            string
	Winner           string
	Rounds           int
	CaptureAttempted bool
	Captured         bool
	Log              []RecordedEntry
	CreatedAt        time.Time
}

// NewBattleRecord converts a finished battle into a storable record with a fresh ID.
//
// Precondition: r must be the result of a completed battle.
func NewBattleRecord(playerID, region, playerMonster, wildMonster string, r *combat.Result) BattleRecord {
	winner, _ := r.Winner()
	rec := BattleRecord{
		ID:               uuid.NewString(),
		PlayerID:         playerID,
		Region:           region,
		PlayerMonster:    playerMonster,
		WildMonster:      wildMonster,
		State:            r.State().String(),
		Winner:           winner,
		Rounds:           r.Rounds(),
		CaptureAttempted: r.CaptureAttempted(),
		Captured:         r.Captured(),
	}
	for _, e := range r.Log() {
		switch v := e.(type) {
		case combat.AttackEntry:
			rec.Log = append(rec.Log, RecordedEntry{
				Kind: string(v.Kind()), Actor: v.Actor, Target: v.Target, Skill: v.Skill,
				Damage: v.Damage, RemainingHP: v.RemainingHP, Fainted: v.Fainted,
				Effect: v.Effect.String(),
			})
		case combat.CaptureEntry:
			rec.Log = append(rec.Log, RecordedEntry{
				Kind: string(v.Kind()), Actor: v.Actor, Target: v.Target,
				RemainingHP: v.RemainingHP, Success: v.Success, Chance: v.Chance,
			})
		}
	}
	return rec
}

// BattleRepository stores battle records.
type BattleRepository struct {
	db *pgxpool.Pool
}

// NewBattleRepository creates a BattleRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewBattleRepository(db *pgxpool.Pool) *BattleRepository {
	return &BattleRepository{db: db}
}

// Record inserts rec and returns it with CreatedAt set.
//
// Precondition: rec.ID must be a UUID. An empty PlayerID stores NULL.
func (r *BattleRepository) Record(ctx context.Context, rec BattleRecord) (BattleRecord, error) {
	entries := rec.Log
	if entries == nil {
		entries = []RecordedEntry{}
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO battles
			(id, player_id, region, player_monster, wild_monster, state, winner,
			 rounds, capture_attempted, captured, log)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11)
		RETURNING created_at`,
		rec.ID, rec.PlayerID, rec.Region, rec.PlayerMonster, rec.WildMonster, rec.State, rec.Winner,
		rec.Rounds, rec.CaptureAttempted, rec.Captured, entries,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return BattleRecord{}, fmt.Errorf("inserting battle: %w", err)
	}
	return rec, nil
}

const selectBattle = `
	SELECT id::text, COALESCE(player_id::text, ''), region, player_monster, wild_monster, state,
	       COALESCE(winner, ''), rounds, capture_attempted, captured, log, created_at
	FROM battles`

func scanBattle(row pgx.Row) (BattleRecord, error) {
	var b BattleRecord
	err := row.Scan(
		&b.ID, &b.PlayerID, &b.Region, &b.PlayerMonster, &b.WildMonster, &b.State,
		&b.Winner, &b.Rounds, &b.CaptureAttempted, &b.Captured, &b.Log, &b.CreatedAt,
	)
	return b, err
}

// Get returns the battle with the given ID.
//
// Postcondition: Returns ErrBattleNotFound when no row matches.
func (r *BattleRepository) Get(ctx context.Context, id string) (BattleRecord, error) {
	b, err := scanBattle(r.db.QueryRow(ctx, selectBattle+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return BattleRecord{}, ErrBattleNotFound
	}
	if err != nil {
		return BattleRecord{}, fmt.Errorf("loading battle: %w", err)
	}
	return b, nil
}

// ListByPlayer returns up to limit battles for playerID, newest first.
//
// Precondition: limit > 0.
func (r *BattleRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]BattleRecord, error) {
	rows, err := r.db.Query(ctx, selectBattle+` WHERE player_id = $1 ORDER BY created_at DESC LIMIT $2`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing battles: %w", err)
	}
	defer rows.Close()

	var out []BattleRecord
	for rows.Next() {
		b, err := scanBattle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning battle: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CountByState tallies stored battles by terminal state.
func (r *BattleRepository) CountByState(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT state, COUNT(*) FROM battles GROUP BY state`)
	if err != nil {
		return nil, fmt.Errorf("counting battles: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("scanning battle count: %w", err)
		}
		out[state] = n
	}
	return out, rows.Err()
}

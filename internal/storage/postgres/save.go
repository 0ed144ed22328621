package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/monsters/internal/game/inventory"
	"github.com/cory-johannsen/monsters/internal/game/player"
)

var (
	// ErrSaveNotFound is returned when no saved game matches the lookup.
	ErrSaveNotFound = errors.New("save not found")
	// ErrSaveNameTaken is returned when a different player already saved under the same name.
	ErrSaveNameTaken = errors.New("save name already taken")
)

// SaveSummary lists a saved game without its party or inventory.
type SaveSummary struct {
	ID        string
	Name      string
	Location  string
	UpdatedAt time.Time
}

// SaveRepository stores player snapshots, one row per player ID.
type SaveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Save inserts or replaces the snapshot keyed by s.ID.
//
// Precondition: s.ID must be a UUID; s.Name must be non-empty.
// Postcondition: Returns ErrSaveNameTaken when another player owns s.Name.
func (r *SaveRepository) Save(ctx context.Context, s player.Snapshot) error {
	party := s.Party
	if party == nil {
		party = []player.PartyMember{}
	}
	items := s.Inventory
	if items == nil {
		items = []inventory.Stack{}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO saves (id, name, location, health, stamina, hunger, morale, exposure, party, inventory)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, location = EXCLUDED.location,
			health = EXCLUDED.health, stamina = EXCLUDED.stamina, hunger = EXCLUDED.hunger,
			morale = EXCLUDED.morale, exposure = EXCLUDED.exposure,
			party = EXCLUDED.party, inventory = EXCLUDED.inventory,
			updated_at = NOW()`,
		s.ID, s.Name, s.Location,
		s.Vitals.Health, s.Vitals.Stamina, s.Vitals.Hunger, s.Vitals.Morale, s.Vitals.Exposure,
		party, items,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("saving %q: %w", s.Name, ErrSaveNameTaken)
		}
		return fmt.Errorf("saving %q: %w", s.Name, err)
	}
	return nil
}

const selectSave = `
	SELECT id::text, name, location, health, stamina, hunger, morale, exposure, party, inventory
	FROM saves`

// Load returns the snapshot saved under the given player ID.
//
// Postcondition: Returns ErrSaveNotFound when no row matches.
func (r *SaveRepository) Load(ctx context.Context, id string) (player.Snapshot, error) {
	return r.scanOne(r.db.QueryRow(ctx, selectSave+` WHERE id = $1`, id))
}

// LoadByName returns the snapshot saved under the given player name.
//
// Postcondition: Returns ErrSaveNotFound when no row matches.
func (r *SaveRepository) LoadByName(ctx context.Context, name string) (player.Snapshot, error) {
	return r.scanOne(r.db.QueryRow(ctx, selectSave+` WHERE name = $1`, name))
}

func (r *SaveRepository) scanOne(row pgx.Row) (player.Snapshot, error) {
	var s player.Snapshot
	err := row.Scan(
		&s.ID, &s.Name, &s.Location,
		&s.Vitals.Health, &s.Vitals.Stamina, &s.Vitals.Hunger, &s.Vitals.Morale, &s.Vitals.Exposure,
		&s.Party, &s.Inventory,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return player.Snapshot{}, ErrSaveNotFound
	}
	if err != nil {
		return player.Snapshot{}, fmt.Errorf("loading save: %w", err)
	}
	return s, nil
}

// List returns every save ordered by most recent update first.
func (r *SaveRepository) List(ctx context.Context) ([]SaveSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, name, location, updated_at FROM saves ORDER BY updated_at DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	var out []SaveSummary
	for rows.Next() {
		var s SaveSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning save: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes the save for id.
//
// Postcondition: Returns ErrSaveNotFound when nothing was deleted.
func (r *SaveRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saves WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting save: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSaveNotFound
	}
	return nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/turnbattle/internal/history"
)

// HistoryRepository implements history.Store on the battle_history table.
type HistoryRepository struct {
	db *pgxpool.Pool
}

var _ history.Store = (*HistoryRepository)(nil)

// NewHistoryRepository creates a HistoryRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with the schema migrated.
func NewHistoryRepository(db *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append inserts r.
//
// Precondition: r.Validate() returns nil.
// Postcondition: r is visible to List and Last.
func (r *HistoryRepository) Append(ctx context.Context, rec history.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	enemies := rec.Enemies
	if enemies == nil {
		enemies = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO battle_history (id, victory, turns, heroes, enemies, fought_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Victory, rec.Turns, rec.Heroes, enemies, rec.FoughtAt,
	)
	if err != nil {
		return fmt.Errorf("inserting battle record: %w", err)
	}
	return nil
}

// List returns at most limit records, newest first. limit <= 0 returns all.
func (r *HistoryRepository) List(ctx context.Context, limit int) ([]history.Record, error) {
	query := `SELECT id, victory, turns, heroes, enemies, fought_at
		 FROM battle_history ORDER BY fought_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying battle history: %w", err)
	}
	defer rows.Close()

	var out []history.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating battle history: %w", err)
	}
	return out, nil
}

// Last returns the newest record or history.ErrNoRecords.
func (r *HistoryRepository) Last(ctx context.Context) (history.Record, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, victory, turns, heroes, enemies, fought_at
		 FROM battle_history ORDER BY fought_at DESC, id LIMIT 1`)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return history.Record{}, history.ErrNoRecords
		}
		return history.Record{}, err
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (history.Record, error) {
	var rec history.Record
	if err := row.Scan(&rec.ID, &rec.Victory, &rec.Turns, &rec.Heroes, &rec.Enemies, &rec.FoughtAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return history.Record{}, err
		}
		return history.Record{}, fmt.Errorf("scanning battle record: %w", err)
	}
	rec.FoughtAt = rec.FoughtAt.UTC()
	return rec, nil
}

// Package sqlite stores battle history in an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/turnbattle/internal/history"
	"github.com/cory-johannsen/turnbattle/migrations"
)

// HistoryStore implements history.Store on a SQLite file.
type HistoryStore struct {
	db *sql.DB
}

var _ history.Store = (*HistoryStore)(nil)

// Open opens (creating if needed) the database at path and migrates it.
//
// Precondition: path names a file, not ":memory:".
// Postcondition: the caller must Close the returned store.
func Open(ctx context.Context, path string) (*HistoryStore, error) {
	if err := migrateUp(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging %q: %w", path, err)
	}
	return &HistoryStore{db: db}, nil
}

// NewMigrator returns a migrator for the embedded SQLite schema on its own
// connection to path; closing the migrator closes that connection.
//
// Postcondition: the caller must Close the returned migrator.
func NewMigrator(path string) (*migrate.Migrate, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating migration driver: %w", err)
	}
	src, err := iofs.New(migrations.SQLite(), ".")
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}

func migrateUp(path string) error {
	m, err := NewMigrator(path)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Append implements history.Store.
func (s *HistoryStore) Append(ctx context.Context, r history.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	heroes, err := json.Marshal(r.Heroes)
	if err != nil {
		return fmt.Errorf("encoding heroes: %w", err)
	}
	enemies := r.Enemies
	if enemies == nil {
		enemies = []string{}
	}
	foes, err := json.Marshal(enemies)
	if err != nil {
		return fmt.Errorf("encoding enemies: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO battle_history (id, victory, turns, heroes, enemies, fought_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.Victory, r.Turns, string(heroes), string(foes), r.FoughtAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting battle record: %w", err)
	}
	return nil
}

// List implements history.Store.
func (s *HistoryStore) List(ctx context.Context, limit int) ([]history.Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, victory, turns, heroes, enemies, fought_at
		 FROM battle_history ORDER BY fought_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying battle history: %w", err)
	}
	defer rows.Close()

	var out []history.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating battle history: %w", err)
	}
	return out, nil
}

// Last implements history.Store.
func (s *HistoryStore) Last(ctx context.Context) (history.Record, error) {
	rs, err := s.List(ctx, 1)
	if err != nil {
		return history.Record{}, err
	}
	if len(rs) == 0 {
		return history.Record{}, history.ErrNoRecords
	}
	return rs[0], nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (history.Record, error) {
	var (
		r                    history.Record
		id, heroes, foes, at string
	)
	if err := row.Scan(&id, &r.Victory, &r.Turns, &heroes, &foes, &at); err != nil {
		return history.Record{}, fmt.Errorf("scanning battle record: %w", err)
	}
	var err error
	if r.ID, err = uuid.Parse(id); err != nil {
		return history.Record{}, fmt.Errorf("parsing record id %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(heroes), &r.Heroes); err != nil {
		return history.Record{}, fmt.Errorf("decoding heroes: %w", err)
	}
	if err := json.Unmarshal([]byte(foes), &r.Enemies); err != nil {
		return history.Record{}, fmt.Errorf("decoding enemies: %w", err)
	}
	if r.FoughtAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
		return history.Record{}, fmt.Errorf("parsing fought_at %q: %w", at, err)
	}
	return r, nil
}

// Package postgresql provides postgres-backed persistence for the Orbit
// state snapshot, stored as a single row.
package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	_ "github.com/lib/pq" // postgres driver

	"github.com/orbithq/orbit/pkg/store"
)

const createTableQuery = `
CREATE TABLE IF NOT EXISTS orbit_state (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	snapshot JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertQuery = `
INSERT INTO orbit_state (id, snapshot, updated_at)
VALUES (1, $1, now())
ON CONFLICT (id) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = now()`

type Persistence struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPersistence opens the database and ensures the snapshot table exists.
func NewPersistence(ctx context.Context, databaseURL string, logger *slog.Logger) (*Persistence, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, createTableQuery); err != nil {
		return nil, errors.Join(err, db.Close())
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Persistence{
		db:     db,
		logger: logger.With("module", "persistence.postgresql"),
	}, nil
}

func (p *Persistence) Save(ctx context.Context, state *store.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx, upsertQuery, data)

	return err
}

func (p *Persistence) Load(ctx context.Context) *store.State {
	var data []byte

	err := p.db.QueryRowContext(ctx, "SELECT snapshot FROM orbit_state WHERE id = 1").Scan(&data)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			p.logger.WarnContext(ctx, "Failed to read state snapshot, starting empty", "error", err)
		}

		return store.NewState()
	}

	state := store.NewState()
	if err := json.Unmarshal(data, state); err != nil {
		p.logger.WarnContext(ctx, "Corrupt state snapshot, starting empty", "error", err)

		return store.NewState()
	}

	if state.Workflows == nil {
		state.Workflows = store.NewState().Workflows
	}

	return state
}

func (p *Persistence) Clear(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, "DELETE FROM orbit_state WHERE id = 1")

	return err
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Persistence) Close(ctx context.Context) error {
	return p.db.Close()
}

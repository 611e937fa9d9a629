// Package redis provides redis-backed persistence for the Orbit state
// snapshot, stored under a single key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/orbithq/orbit/pkg/store"
)

const stateKey = "orbit:state"

type Persistence struct {
	client *goredis.Client
	logger *slog.Logger
}

// NewPersistence connects to the redis instance described by the URL
// (redis://...).
func NewPersistence(url string, logger *slog.Logger) (*Persistence, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Persistence{
		client: goredis.NewClient(opts),
		logger: logger.With("module", "persistence.redis"),
	}, nil
}

func (p *Persistence) Save(ctx context.Context, state *store.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return p.client.Set(ctx, stateKey, data, 0).Err()
}

func (p *Persistence) Load(ctx context.Context) *store.State {
	data, err := p.client.Get(ctx, stateKey).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			p.logger.WarnContext(ctx, "Failed to read state snapshot, starting empty", "key", stateKey, "error", err)
		}

		return store.NewState()
	}

	state := store.NewState()
	if err := json.Unmarshal(data, state); err != nil {
		p.logger.WarnContext(ctx, "Corrupt state snapshot, starting empty", "key", stateKey, "error", err)

		return store.NewState()
	}

	if state.Workflows == nil {
		state.Workflows = store.NewState().Workflows
	}

	return state
}

func (p *Persistence) Clear(ctx context.Context) error {
	return p.client.Del(ctx, stateKey).Err()
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *Persistence) Close(ctx context.Context) error {
	return p.client.Close()
}

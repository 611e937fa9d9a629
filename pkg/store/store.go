package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/orbithq/orbit/pkg/events"
)

// Persister saves a committed state snapshot. The file, redis and postgres
// adapters in pkg/persistence implement it.
type Persister interface {
	Save(ctx context.Context, state *State) error
}

// Publisher delivers committed events to subscribers. pkg/eventbus implements
// it; a nil publisher disables notifications.
type Publisher interface {
	Publish(ctx context.Context, key string, event events.Event) error
}

// Store serializes event dispatches over the state. The reducer is pure and
// synchronous; after each reduction the new state is persisted and the event
// is published, in reduction order. Persist and publish failures are logged
// and never block the state change.
type Store struct {
	mu        sync.RWMutex
	state     *State
	persister Persister
	publisher Publisher
	logger    *slog.Logger
}

// New creates a store with the default empty state. persister and publisher
// may be nil.
func New(persister Persister, publisher Publisher, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		state:     NewState(),
		persister: persister,
		publisher: publisher,
		logger:    logger.With("module", "store"),
	}
}

// Dispatch reduces the event into the state, persists the resulting
// snapshot, and publishes the event. The lock is held across all three steps
// so saves and publishes always happen in reduction order; concurrent
// dispatchers (the ingestor, API handlers) queue on the lock. The committed
// state is observable through Snapshot before Dispatch returns.
func (s *Store) Dispatch(ctx context.Context, event events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, event)
	snapshot := s.state.Clone()

	if s.persister != nil {
		if err := s.persister.Save(ctx, snapshot); err != nil {
			s.logger.ErrorContext(ctx, "Failed to persist state", "event_type", event.GetType(), "error", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, string(event.GetType()), event); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish event", "event_type", event.GetType(), "error", err)
		}
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Clone()
}

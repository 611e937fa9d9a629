package ingest

import (
	"context"
	"log/slog"
	"sort"

	"github.com/orbithq/orbit/pkg/events"
	"github.com/orbithq/orbit/pkg/models"
	"github.com/orbithq/orbit/pkg/persistence"
	"github.com/orbithq/orbit/pkg/store"
)

// Hydrator assembles the initial store state on startup: seed workflows from
// the people cache overlaid by the persisted snapshot, so first visits get a
// ready surface and reloads keep local edits.
type Hydrator struct {
	store       *store.Store
	persistence persistence.Persistence
	people      *PeopleClient
	logger      *slog.Logger
}

func NewHydrator(st *store.Store, persist persistence.Persistence, people *PeopleClient, logger *slog.Logger) *Hydrator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hydrator{
		store:       st,
		persistence: persist,
		people:      people,
		logger:      logger.With("module", "hydration"),
	}
}

// Hydrate merges persisted state over seeds and replaces the store state.
// Persisted edits win per workflow id. The active workflow is the persisted
// one when set, otherwise the first seed by id. Fetch failures are logged
// and hydration proceeds with whatever is available.
func (h *Hydrator) Hydrate(ctx context.Context) {
	persisted := store.NewState()
	if h.persistence != nil {
		persisted = h.persistence.Load(ctx)
	}

	seeds := map[string]*models.Workflow{}

	if h.people != nil {
		people, err := h.people.FetchPeople(ctx)
		if err != nil {
			h.logger.WarnContext(ctx, "Failed to fetch people cache, hydrating without seeds", "error", err)
		} else {
			seeds = SeedWorkflows(people)
		}
	}

	merged := make(map[string]*models.Workflow, len(seeds)+len(persisted.Workflows))
	for id, workflow := range seeds {
		merged[id] = workflow
	}

	for id, workflow := range persisted.Workflows {
		merged[id] = workflow
	}

	active := persisted.ActiveWorkflowID
	if active == "" {
		active = firstKey(seeds)
	}

	h.store.Dispatch(ctx, events.SetWorkflows{
		Workflows:        merged,
		ActiveWorkflowID: active,
	})

	h.logger.InfoContext(ctx, "Hydrated store",
		"seeds", len(seeds),
		"persisted", len(persisted.Workflows),
		"active_workflow_id", active,
	)
}

// firstKey returns the lowest workflow id so initial activation is
// deterministic across startups.
func firstKey(workflows map[string]*models.Workflow) string {
	if len(workflows) == 0 {
		return ""
	}

	keys := make([]string, 0, len(workflows))
	for id := range workflows {
		keys = append(keys, id)
	}

	sort.Strings(keys)

	return keys[0]
}

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/orbithq/orbit/pkg/events"
	"github.com/orbithq/orbit/pkg/models"
	"github.com/orbithq/orbit/pkg/store"
)

const workflowsPath = "/api/workflows"

// DefaultPollInterval is how often the backend is asked for newly
// materialized workflows.
const DefaultPollInterval = 2 * time.Second

// Ingestor polls the backend for workflows produced outside the console
// (e.g. by an analysis pipeline) and merges them into the store. Inserts go
// through the regular AddWorkflow event, so an incoming active workflow
// takes over activation and a re-sent id replaces the stored workflow
// wholesale (last write wins).
type Ingestor struct {
	store      *store.Store
	baseURL    string
	httpClient *http.Client
	schema     *gojsonschema.Schema
	interval   time.Duration
	logger     *slog.Logger
}

func NewIngestor(st *store.Store, baseURL string, interval time.Duration, logger *slog.Logger) (*Ingestor, error) {
	schema, err := newWorkflowSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile workflow schema: %w", err)
	}

	if interval <= 0 {
		interval = DefaultPollInterval
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Ingestor{
		store:   st,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: clientTimeoutSeconds * time.Second,
		},
		schema:   schema,
		interval: interval,
		logger:   logger.With("module", "ingestor"),
	}, nil
}

// Run polls until the context is cancelled. Transient failures are logged
// and swallowed; the next tick polls again.
func (i *Ingestor) Run(ctx context.Context) {
	ticker := time.NewTicker(i.interval)
	defer ticker.Stop()

	i.logger.InfoContext(ctx, "Starting workflow ingestor", "interval", i.interval)

	for {
		select {
		case <-ctx.Done():
			i.logger.InfoContext(ctx, "Stopping workflow ingestor")

			return
		case <-ticker.C:
			if err := i.Poll(ctx); err != nil {
				i.logger.WarnContext(ctx, "Workflow poll failed", "error", err)
			}
		}
	}
}

// Poll fetches the workflow list once and dispatches every valid entry.
func (i *Ingestor) Poll(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.baseURL+workflowsPath, nil)
	if err != nil {
		return err
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("workflow poll request failed: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			i.logger.WarnContext(ctx, "Failed to close poll response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("workflow poll returned %s", resp.Status)
	}

	var parsed struct {
		Workflows []struct {
			Data json.RawMessage `json:"data"`
		} `json:"workflows"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to decode workflow poll response: %w", err)
	}

	for _, entry := range parsed.Workflows {
		i.ingest(ctx, entry.Data)
	}

	return nil
}

func (i *Ingestor) ingest(ctx context.Context, raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}

	result, err := i.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		i.logger.WarnContext(ctx, "Failed to validate ingested workflow", "error", err)

		return
	}

	if !result.Valid() {
		i.logger.WarnContext(ctx, "Skipping invalid ingested workflow", "violations", formatViolations(result))

		return
	}

	var workflow models.Workflow
	if err := json.Unmarshal(raw, &workflow); err != nil {
		i.logger.WarnContext(ctx, "Failed to decode ingested workflow", "error", err)

		return
	}

	i.store.Dispatch(ctx, events.AddWorkflow{Workflow: &workflow})

	i.logger.DebugContext(ctx, "Ingested workflow", "workflow_id", workflow.ID, "status", workflow.Status)
}

func formatViolations(result *gojsonschema.Result) string {
	violations := make([]string, 0, len(result.Errors()))
	for _, violation := range result.Errors() {
		violations = append(violations, violation.String())
	}

	return strings.Join(violations, "; ")
}

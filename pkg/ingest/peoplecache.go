// Package ingest feeds externally produced workflows into the store: seed
// workflows derived from the people cache at startup, and workflows polled
// from the backend while the console runs.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/orbithq/orbit/pkg/models"
)

const peoplePath = "/api/people"

const clientTimeoutSeconds = 10

// PeopleClient reads the external people/workflow cache.
type PeopleClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewPeopleClient(baseURL string, logger *slog.Logger) *PeopleClient {
	if logger == nil {
		logger = slog.Default()
	}

	return &PeopleClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: clientTimeoutSeconds * time.Second,
		},
		logger: logger.With("module", "peoplecache"),
	}
}

// FetchPeople lists the cached persons. Entries without an id are dropped.
func (c *PeopleClient) FetchPeople(ctx context.Context) ([]*models.Person, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+peoplePath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("people cache request failed: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WarnContext(ctx, "Failed to close people cache response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("people cache returned %s", resp.Status)
	}

	var parsed struct {
		People []*models.Person `json:"people"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode people cache response: %w", err)
	}

	people := make([]*models.Person, 0, len(parsed.People))

	for _, person := range parsed.People {
		if person == nil || person.ID == "" {
			continue
		}

		people = append(people, person)
	}

	return people, nil
}

// SeedWorkflows derives one draft workflow per person, keyed by workflow id.
// Seeds populate the console before any local edits exist.
func SeedWorkflows(people []*models.Person) map[string]*models.Workflow {
	seeds := make(map[string]*models.Workflow, len(people))

	for _, person := range people {
		workflow := &models.Workflow{
			ID:          "workflow-" + person.ID,
			PersonID:    person.ID,
			Name:        "Outreach: " + person.Name,
			Description: "Outreach workflow for " + person.Name,
			Status:      models.WorkflowStatusDraft,
			Priority:    models.PriorityMedium,
			GeneratedAt: time.Now(),
			Tasks:       []*models.Task{},
			Notes:       []*models.Note{},
		}

		seeds[workflow.ID] = workflow
	}

	return seeds
}

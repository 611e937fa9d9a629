package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbithq/orbit/pkg/models"
	"github.com/orbithq/orbit/pkg/persistence/file"
	"github.com/orbithq/orbit/pkg/store"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()

	persist, err := file.NewPersistence(t.TempDir(), nil)
	require.NoError(t, err)

	state := store.NewState()
	state.ActiveWorkflowID = "workflow-1"
	state.Workflows["workflow-1"] = &models.Workflow{
		ID:     "workflow-1",
		Name:   "Outreach: Ada",
		Status: models.WorkflowStatusActive,
		Tasks: []*models.Task{
			{ID: "task-1", Type: models.TaskTypeEmail, Status: models.TaskStatusPending, Order: 1},
		},
	}

	require.NoError(t, persist.Save(ctx, state))

	loaded := persist.Load(ctx)
	assert.Equal(t, "workflow-1", loaded.ActiveWorkflowID)
	require.Contains(t, loaded.Workflows, "workflow-1")
	assert.Equal(t, "Outreach: Ada", loaded.Workflows["workflow-1"].Name)
	require.Len(t, loaded.Workflows["workflow-1"].Tasks, 1)
	assert.Equal(t, models.TaskTypeEmail, loaded.Workflows["workflow-1"].Tasks[0].Type)
}

func TestLoadMissingSnapshotReturnsEmptyState(t *testing.T) {
	persist, err := file.NewPersistence(t.TempDir(), nil)
	require.NoError(t, err)

	state := persist.Load(context.Background())
	require.NotNil(t, state)
	assert.Empty(t, state.Workflows)
	assert.Empty(t, state.ActiveWorkflowID)
}

func TestLoadCorruptSnapshotReturnsEmptyState(t *testing.T) {
	dir := t.TempDir()

	persist, err := file.NewPersistence(dir, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"), []byte("{not json"), 0o600))

	state := persist.Load(context.Background())
	require.NotNil(t, state)
	assert.Empty(t, state.Workflows)
}

func TestNewPersistenceStripsFileScheme(t *testing.T) {
	dir := t.TempDir()

	persist, err := file.NewPersistence("file://"+dir, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, persist.Save(ctx, store.NewState()))

	_, err = os.Stat(filepath.Join(dir, "state.json"))
	assert.NoError(t, err)
}

func TestClear(t *testing.T) {
	ctx := context.Background()

	persist, err := file.NewPersistence(t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, persist.Save(ctx, store.NewState()))
	require.NoError(t, persist.Clear(ctx))

	// Clearing an already empty store is not an error.
	require.NoError(t, persist.Clear(ctx))

	state := persist.Load(ctx)
	assert.Empty(t, state.Workflows)
}

func TestHealthCheck(t *testing.T) {
	dir := t.TempDir()

	persist, err := file.NewPersistence(dir, nil)
	require.NoError(t, err)

	assert.NoError(t, persist.HealthCheck(context.Background()))

	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, persist.HealthCheck(context.Background()))
}

// Package file provides file-based persistence for the Orbit state snapshot.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/orbithq/orbit/pkg/store"
)

const snapshotFile = "state.json"

const dirPerm = 0o755
const filePerm = 0o600

// Persistence keeps the snapshot in a single JSON file under a root
// directory. Writes go through a temp file plus rename so a crash mid-write
// leaves the previous snapshot intact.
type Persistence struct {
	root   string
	logger *slog.Logger
}

// NewPersistence creates a file persistence rooted at the given directory,
// creating it when absent. The root may carry a file:// prefix.
func NewPersistence(root string, logger *slog.Logger) (*Persistence, error) {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	if err := os.MkdirAll(cleanRoot, dirPerm); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Persistence{
		root:   cleanRoot,
		logger: logger.With("module", "persistence.file"),
	}, nil
}

func (p *Persistence) path() string {
	return filepath.Join(p.root, snapshotFile)
}

func (p *Persistence) Save(ctx context.Context, state *store.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	tmp := p.path() + ".tmp"
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return err
	}

	return os.Rename(tmp, p.path())
}

func (p *Persistence) Load(ctx context.Context) *store.State {
	data, err := os.ReadFile(p.path())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			p.logger.WarnContext(ctx, "Failed to read state snapshot, starting empty", "path", p.path(), "error", err)
		}

		return store.NewState()
	}

	state := store.NewState()
	if err := json.Unmarshal(data, state); err != nil {
		p.logger.WarnContext(ctx, "Corrupt state snapshot, starting empty", "path", p.path(), "error", err)

		return store.NewState()
	}

	if state.Workflows == nil {
		state.Workflows = store.NewState().Workflows
	}

	return state
}

func (p *Persistence) Clear(ctx context.Context) error {
	err := os.Remove(p.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	if _, err := os.Stat(p.root); err != nil {
		return err
	}

	return nil
}

// Close performs any necessary cleanup. For file persistence there is
// nothing to clean up.
func (p *Persistence) Close(ctx context.Context) error {
	return nil
}

// Package cmd wires shared infrastructure for the Orbit binaries.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/orbithq/orbit/pkg/persistence"
	"github.com/orbithq/orbit/pkg/persistence/file"
	"github.com/orbithq/orbit/pkg/persistence/postgresql"
	"github.com/orbithq/orbit/pkg/persistence/redis"
)

var supportedPersistenceProviders = []string{"file", "redis", "postgres", "postgresql"}

// NewPersistence selects a snapshot provider from the database URL scheme.
// Unknown schemes fall back to the file provider.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	provider := parsePersistenceProvider(databaseURL)

	var (
		persist persistence.Persistence
		err     error
	)

	switch provider {
	case "redis":
		persist, err = redis.NewPersistence(databaseURL, logger)
	case "postgres", "postgresql":
		persist, err = postgresql.NewPersistence(ctx, databaseURL, logger)
	default:
		persist, err = file.NewPersistence(databaseURL, logger)
	}

	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize persistence", "provider", provider, "error", err)
		panic(err)
	}

	return persist
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}

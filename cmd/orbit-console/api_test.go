package main

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbithq/orbit/pkg/cmd"
)

func newTestConsole(t *testing.T) *Console {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()

	persist := cmd.NewPersistence(ctx, logger, "file://"+t.TempDir())
	t.Cleanup(func() {
		require.NoError(t, persist.Close(ctx))
	})

	eventBus := cmd.NewEventBus("gochannel", logger)
	t.Cleanup(func() {
		require.NoError(t, eventBus.Close())
	})

	return NewConsole(logger, persist, eventBus, "http://127.0.0.1:0")
}

func TestConsoleStartStopsOnContextCancel(t *testing.T) {
	console := newTestConsole(t)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- console.Start(ctx, 0)
	}()

	// Give the listener a moment to come up before asking it to stop.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("console did not shut down after context cancellation")
	}
}

package engine

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/davidgev86/HealthPackTracker/internal/store"
	"github.com/davidgev86/HealthPackTracker/internal/testutil"
)

var testClock = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, store.Store) {
	t.Helper()
	st := testutil.TempStore(t)
	eng := New(st, Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return testClock },
	})
	return eng, st
}

func newClockEngine(t *testing.T, st store.Store, now func() time.Time) *Engine {
	t.Helper()
	return New(st, Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    now,
	})
}

func asManager() Actor {
	return Actor{Username: "dana", Role: "manager"}
}

package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/davidgev86/HealthPackTracker/internal/auth"
	"github.com/davidgev86/HealthPackTracker/internal/config"
	"github.com/davidgev86/HealthPackTracker/internal/engine"
	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/store"
	"github.com/davidgev86/HealthPackTracker/internal/testutil"
)

// newTestApp creates an App backed by a temp CSV store, seeded with a
// manager (dana/kitchen123), a staff account (pat/kitchen123), and a
// small inventory. The window is set to 120x40 and marked ready.
func newTestApp(t *testing.T) (*App, store.Store) {
	t.Helper()

	st := testutil.TempStore(t)
	seedTestData(t, st)

	eng := engine.New(st, engine.Config{})
	app := New(eng, st, config.Default())
	app.Init()
	app.width = 120
	app.height = 40
	app.ready = true
	return app, st
}

func seedTestData(t *testing.T, st store.Store) {
	t.Helper()

	hash, err := auth.HashPassword("kitchen123")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	if err := st.SaveUsers(context.Background(), []models.User{
		{Username: "dana", PasswordHash: hash, Role: models.RoleManager},
		{Username: "pat", PasswordHash: hash, Role: models.RoleStaff},
	}); err != nil {
		t.Fatalf("seeding users: %v", err)
	}

	testutil.SeedItems(t, st,
		testutil.FixtureItem(),
		testutil.FixtureLowStockItem(),
	)
}

// login drives the sign-in form with the seeded manager credentials.
func login(t *testing.T, app *App) {
	t.Helper()
	loginAs(t, app, "dana")
}

func loginAs(t *testing.T, app *App, username string) {
	t.Helper()
	typeString(app, username)
	app.Update(specialKeyMsg(tea.KeyEnter))
	typeString(app, "kitchen123")
	app.Update(specialKeyMsg(tea.KeyEnter))
	if app.user == nil {
		t.Fatalf("login failed: %s", app.errMsg)
	}
}

func typeString(app *App, s string) {
	for _, r := range s {
		app.Update(keyMsg(string(r)))
	}
}

// keyMsg creates a tea.KeyMsg for a regular character key.
func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// specialKeyMsg creates a tea.KeyMsg for a special key type.
func specialKeyMsg(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}

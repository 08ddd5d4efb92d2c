package tui

import (
	"bytes"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/davidgev86/HealthPackTracker/internal/config"
	"github.com/davidgev86/HealthPackTracker/internal/engine"
	"github.com/davidgev86/HealthPackTracker/internal/testutil"
)

// newE2EApp creates an App for end-to-end testing via teatest. Unlike
// newTestApp, this does not pre-set width/height/ready, since teatest
// delivers the WindowSizeMsg through WithInitialTermSize.
func newE2EApp(t *testing.T) *App {
	t.Helper()

	st := testutil.TempStore(t)
	seedTestData(t, st)
	eng := engine.New(st, engine.Config{})
	return New(eng, st, config.Default())
}

// seenOutput accumulates everything read from each test model's output,
// since teatest.WaitFor consumes the stream: without it, a frame matched
// by one waitFor would be lost to the next.
var seenOutput = make(map[*teatest.TestModel]*bytes.Buffer)

// waitFor is a convenience wrapper around teatest.WaitFor with a
// standard timeout, matching against all output seen so far.
func waitFor(t *testing.T, tm *teatest.TestModel, text string) {
	t.Helper()
	seen, ok := seenOutput[tm]
	if !ok {
		seen = &bytes.Buffer{}
		seenOutput[tm] = seen
	}
	snapshot := bytes.NewReader(seen.Bytes())
	live := io.TeeReader(tm.Output(), seen)
	// io.MultiReader would drop the live reader on its first transient
	// EOF, so chain the two by hand instead.
	out := readerFunc(func(p []byte) (int, error) {
		if snapshot.Len() > 0 {
			return snapshot.Read(p)
		}
		return live.Read(p)
	})
	teatest.WaitFor(t, out, func(bts []byte) bool {
		return bytes.Contains(bts, []byte(text))
	}, teatest.WithDuration(5*time.Second))
}

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }

func sendString(tm *teatest.TestModel, s string) {
	for _, r := range s {
		tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func e2eLogin(t *testing.T, tm *teatest.TestModel) {
	t.Helper()
	waitFor(t, tm, "SIGN IN")
	sendString(tm, "dana")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	sendString(tm, "kitchen123")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitFor(t, tm, "INVENTORY")
}

func TestE2E_LoginToInventory(t *testing.T) {
	tm := teatest.NewTestModel(t, newE2EApp(t),
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	e2eLogin(t, tm)
	waitFor(t, tm, "Jasmine Rice")
}

func TestE2E_LowStockScreen(t *testing.T) {
	tm := teatest.NewTestModel(t, newE2EApp(t),
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	e2eLogin(t, tm)
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	waitFor(t, tm, "LOW STOCK")
	waitFor(t, tm, "Broccoli Crowns")
}

func TestE2E_WeeklyReportScreen(t *testing.T) {
	tm := teatest.NewTestModel(t, newE2EApp(t),
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	e2eLogin(t, tm)
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5")})
	waitFor(t, tm, "WEEKLY REPORT")
}

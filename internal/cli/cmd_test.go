package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stratako/stratako/internal/app"
	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/identity"
	"github.com/stratako/stratako/internal/testutil"
)

const password = "correct horse battery"

// testApp wires a full App backed by an in-memory DB and a temp token file.
func testApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("STRATAKO_TOKEN", "")
	database := testutil.NewTestDB(t)
	return &App{
		App: app.New(database, app.Identity{
			Hasher: identity.Hasher{Cost: bcrypt.MinCost},
			Issuer: identity.Issuer{Secret: []byte("test-secret"), TTL: time.Hour},
		}),
		TokenPath: filepath.Join(t.TempDir(), "token"),
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(a)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func signedUp(t *testing.T) *App {
	t.Helper()
	a := testApp(t)
	_, err := executeCmd(t, a, "signup", "--email", "ada@example.com", "--name", "Ada", "--password", password)
	require.NoError(t, err)
	return a
}

func currentUserID(t *testing.T, a *App) string {
	t.Helper()
	token, err := a.Accounts.Login(context.Background(), "ada@example.com", password)
	require.NoError(t, err)
	u, err := a.Accounts.Authenticate(context.Background(), token)
	require.NoError(t, err)
	return u.ID
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	out, err := executeCmd(t, testApp(t))
	require.NoError(t, err)
	assert.Contains(t, out, "stratako")
	assert.NotContains(t, out, "serve")
}

func TestRootCmd_ServeOnlyWhenWired(t *testing.T) {
	a := testApp(t)
	called := false
	a.Serve = func(ctx context.Context) error {
		called = true
		return nil
	}
	_, err := executeCmd(t, a, "serve")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestCommands_RequireLogin(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "slot", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestLoginLogoutWhoami(t *testing.T) {
	a := signedUp(t)

	out, err := executeCmd(t, a, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada <ada@example.com>")

	_, err = executeCmd(t, a, "logout")
	require.NoError(t, err)
	_, err = executeCmd(t, a, "whoami")
	require.ErrorIs(t, err, errNotLoggedIn)

	_, err = executeCmd(t, a, "login", "--email", "ADA@example.com", "--password", "wrong")
	require.ErrorIs(t, err, domain.ErrValidation)

	out, err = executeCmd(t, a, "login", "--email", "ADA@example.com", "--password", password)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as ada@example.com")

	out, err = executeCmd(t, a, "login", "--email", "ada@example.com", "--password", password, "--print")
	require.NoError(t, err)
	token := out[:len(out)-1]
	_, err = executeCmd(t, a, "logout")
	require.NoError(t, err)

	out, err = executeCmd(t, a, "whoami", "--token", token)
	require.NoError(t, err)
	assert.Contains(t, out, "ada@example.com")
}

func TestSlotCommands(t *testing.T) {
	a := signedUp(t)
	for _, name := range []string{"Morning", "Afternoon", "Evening"} {
		_, err := executeCmd(t, a, "slot", "add", name)
		require.NoError(t, err)
	}

	out, err := executeCmd(t, a, "slot", "move", "evening", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Evening")

	slots, err := a.Slots.List(context.Background(), currentUserID(t, a))
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "Evening", slots[0].Name)
	assert.Equal(t, "Morning", slots[1].Name)

	_, err = executeCmd(t, a, "slot", "rename", "Morning", "Dawn")
	require.NoError(t, err)
	_, err = executeCmd(t, a, "slot", "rm", "dawn")
	require.NoError(t, err)

	out, err = executeCmd(t, a, "slot", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Dawn")
	assert.Contains(t, out, "Afternoon")

	_, err = executeCmd(t, a, "slot", "move", "Evening", "0")
	assert.ErrorContains(t, err, "invalid position")
	_, err = executeCmd(t, a, "slot", "rm", "nowhere")
	assert.ErrorContains(t, err, "slot not found")
}

func TestOperationCommands(t *testing.T) {
	a := signedUp(t)
	_, err := executeCmd(t, a, "slot", "add", "Morning")
	require.NoError(t, err)
	_, err = executeCmd(t, a, "slot", "add", "Evening")
	require.NoError(t, err)

	for _, name := range []string{"Read", "Write"} {
		_, err = executeCmd(t, a, "op", "add", "Morning", name)
		require.NoError(t, err)
	}

	out, err := executeCmd(t, a, "op", "start", "Read")
	require.NoError(t, err)
	assert.Contains(t, out, "Started Read")

	out, err = executeCmd(t, a, "slot", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Read")

	_, err = executeCmd(t, a, "op", "start", "Write")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = executeCmd(t, a, "op", "done", "Read")
	require.NoError(t, err)

	out, err = executeCmd(t, a, "op", "move", "Write", "1", "--slot", "Evening")
	require.NoError(t, err)
	assert.Contains(t, out, "Write")

	out, err = executeCmd(t, a, "op", "list", "Evening")
	require.NoError(t, err)
	assert.Contains(t, out, "Write")

	_, err = executeCmd(t, a, "task", "add", "--op", "Write", "Outline")
	require.NoError(t, err)
	out, err = executeCmd(t, a, "op", "show", "Write")
	require.NoError(t, err)
	assert.Contains(t, out, "Outline")

	_, err = executeCmd(t, a, "op", "rm", "Write")
	require.NoError(t, err)
	out, err = executeCmd(t, a, "op", "list", "Evening")
	require.NoError(t, err)
	assert.Contains(t, out, "No operations")
}

func TestTaskAndProjectCommands(t *testing.T) {
	a := signedUp(t)
	_, err := executeCmd(t, a, "project", "category", "add", "Home")
	require.NoError(t, err)
	_, err = executeCmd(t, a, "project", "add", "House", "--category", "home", "--status", "on hold")
	require.NoError(t, err)
	_, err = executeCmd(t, a, "project", "add", "Shed", "--status", "5")
	require.NoError(t, err)

	out, err := executeCmd(t, a, "project", "list", "--done=false")
	require.NoError(t, err)
	assert.Contains(t, out, "House")
	assert.Contains(t, out, "Home")
	assert.NotContains(t, out, "Shed")

	for _, name := range []string{"Paint", "Roof", "Floor"} {
		_, err = executeCmd(t, a, "task", "add", "--project", "House", name)
		require.NoError(t, err)
	}
	_, err = executeCmd(t, a, "task", "move", "Floor", "1")
	require.NoError(t, err)
	_, err = executeCmd(t, a, "task", "toggle", "Roof")
	require.NoError(t, err)

	out, err = executeCmd(t, a, "task", "list", "--project", "House")
	require.NoError(t, err)
	assert.Contains(t, out, " 1. [ ] Floor")
	assert.Contains(t, out, "Roof")

	_, err = executeCmd(t, a, "task", "list")
	assert.ErrorContains(t, err, "--op or --project")

	_, err = executeCmd(t, a, "project", "edit", "House", "--category", "", "--name", "Cottage")
	require.NoError(t, err)
	out, err = executeCmd(t, a, "project", "show", "Cottage")
	require.NoError(t, err)
	assert.Contains(t, out, "Paint")

	_, err = executeCmd(t, a, "project", "add", "Bad", "--status", "sideways")
	assert.ErrorContains(t, err, "unknown status")
}

func TestGoalCommands(t *testing.T) {
	a := signedUp(t)
	_, err := executeCmd(t, a, "goal", "category", "add", "Health")
	require.NoError(t, err)
	_, err = executeCmd(t, a, "goal", "category", "add", "Work")
	require.NoError(t, err)

	_, err = executeCmd(t, a, "goal", "add", "Health", "Run 10k", "--desc", "by June")
	require.NoError(t, err)
	_, err = executeCmd(t, a, "goal", "add", "Health", "Swim")
	require.NoError(t, err)

	out, err := executeCmd(t, a, "goal", "move", "Swim", "1", "--category", "Work")
	require.NoError(t, err)
	assert.Contains(t, out, "Swim")

	_, err = executeCmd(t, a, "goal", "toggle", "Run 10k")
	require.NoError(t, err)
	out, err = executeCmd(t, a, "goal", "list", "Health")
	require.NoError(t, err)
	assert.Contains(t, out, "[x] Run 10k")
	assert.NotContains(t, out, "Swim")
}

func TestSettingsCommand(t *testing.T) {
	a := signedUp(t)
	out, err := executeCmd(t, a, "settings", "--grouping", "category", "--show-done=false")
	require.NoError(t, err)
	assert.Contains(t, out, "grouping   category")
	assert.Contains(t, out, "show done  false")

	_, err = executeCmd(t, a, "settings", "--grouping", "colour")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestResolve(t *testing.T) {
	items := []*domain.Slot{
		{ID: "aaaa-1", Name: "Morning"},
		{ID: "aaab-2", Name: "Evening"},
	}
	got, err := resolve(items, slotID, slotName, "aaab", "slot")
	require.NoError(t, err)
	assert.Equal(t, "Evening", got.Name)

	got, err = resolve(items, slotID, slotName, "MORNING", "slot")
	require.NoError(t, err)
	assert.Equal(t, "aaaa-1", got.ID)

	_, err = resolve(items, slotID, slotName, "aaa", "slot")
	assert.ErrorContains(t, err, "ambiguous")
}

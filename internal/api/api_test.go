package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stratako/stratako/internal/app"
	"github.com/stratako/stratako/internal/identity"
	"github.com/stratako/stratako/internal/testutil"
)

const password = "correct horse battery"

type client struct {
	t     *testing.T
	h     http.Handler
	token string
}

func newClient(t *testing.T) *client {
	t.Helper()
	database := testutil.NewTestDB(t)
	a := app.New(database, app.Identity{
		Hasher: identity.Hasher{Cost: bcrypt.MinCost},
		Issuer: identity.Issuer{Secret: []byte("test-secret"), TTL: time.Hour},
	})
	return &client{t: t, h: NewServer(a, zerolog.Nop(), []string{"*"}).Handler()}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	return rec
}

// as signs up email and keeps its token for later requests.
func (c *client) as(email string) *client {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/signup", map[string]string{"email": email, "name": "Someone", "password": password})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Message string `json:"message"`
	}
	decode(c.t, rec, &out)
	require.NotEmpty(c.t, out.Message)
	return &client{t: c.t, h: c.h, token: out.Message}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func names(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var items []struct {
		Name string `json:"name"`
	}
	decode(t, rec, &items)
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func createSlot(t *testing.T, c *client, name string) slotView {
	t.Helper()
	rec := c.do(http.MethodPost, "/api/slots", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var s slotView
	decode(t, rec, &s)
	return s
}

func TestSignupAndLogin(t *testing.T) {
	c := newClient(t)
	c.as("ada@example.com")

	rec := c.do(http.MethodPost, "/login", map[string]string{"email": "ADA@example.com", "password": password})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message"`)

	rec = c.do(http.MethodPost, "/login", map[string]string{"email": "ada@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"unable to log in with provided credentials"}`, rec.Body.String())
}

func TestSignup_FieldErrors(t *testing.T) {
	c := newClient(t)
	c.as("ada@example.com")

	rec := c.do(http.MethodPost, "/signup", map[string]string{"email": "ada@example.com", "name": "Ada", "password": password})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var out struct {
		Error map[string][]string `json:"error"`
	}
	decode(t, rec, &out)
	assert.Equal(t, []string{"user with this email already exists"}, out.Error["email"])
}

func TestWrongMethod(t *testing.T) {
	c := newClient(t)
	rec := c.do(http.MethodGet, "/signup", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, rec.Body.String())
}

func TestAuthRequired(t *testing.T) {
	c := newClient(t)
	rec := c.do(http.MethodGet, "/api/slots", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Not authorized"}`, rec.Body.String())

	c.token = "garbage"
	rec = c.do(http.MethodGet, "/api/slots", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBadBody(t *testing.T) {
	c := newClient(t).as("ada@example.com")
	req := httptest.NewRequest(http.MethodPost, "/api/slots", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+c.token)
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSlots_CreateMoveDelete(t *testing.T) {
	c := newClient(t).as("ada@example.com")
	a := createSlot(t, c, "Morning")
	createSlot(t, c, "Afternoon")
	e := createSlot(t, c, "Evening")
	assert.Equal(t, 1, a.Order)
	assert.Equal(t, 3, e.Order)

	rec := c.do(http.MethodPost, "/api/slots/"+e.ID+"/move", map[string]any{"index": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var moved reorderedView[slotView]
	decode(t, rec, &moved)
	assert.Equal(t, 1, moved.Item.Order)
	assert.Nil(t, moved.Destination)

	rec = c.do(http.MethodGet, "/api/slots", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Evening", "Morning", "Afternoon"}, names(t, rec))

	rec = c.do(http.MethodDelete, "/api/slots/"+a.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = c.do(http.MethodGet, "/api/slots", nil)
	var slots []slotView
	decode(t, rec, &slots)
	require.Len(t, slots, 2)
	assert.Equal(t, 1, slots[0].Order)
	assert.Equal(t, 2, slots[1].Order)
}

func TestSlots_MoveNeedsIndex(t *testing.T) {
	c := newClient(t).as("ada@example.com")
	s := createSlot(t, c, "Morning")

	rec := c.do(http.MethodPost, "/api/slots/"+s.ID+"/move", map[string]any{})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var out struct {
		Error map[string][]string `json:"error"`
	}
	decode(t, rec, &out)
	assert.Contains(t, out.Error, "index")

	rec = c.do(http.MethodPost, "/api/slots/"+s.ID+"/move", map[string]any{"index": 5})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSlots_OtherUsersAreInvisible(t *testing.T) {
	base := newClient(t)
	ada := base.as("ada@example.com")
	bob := base.as("bob@example.com")
	s := createSlot(t, ada, "Morning")

	rec := bob.do(http.MethodPatch, "/api/slots/"+s.ID, map[string]any{"name": "Mine"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"slot does not exist"}`, rec.Body.String())

	rec = bob.do(http.MethodGet, "/api/slots", nil)
	assert.Empty(t, names(t, rec))
}

func TestOperations_Lifecycle(t *testing.T) {
	c := newClient(t).as("ada@example.com")
	s := createSlot(t, c, "Morning")

	var ops []operationView
	for _, name := range []string{"Read", "Write", "Review"} {
		rec := c.do(http.MethodPost, "/api/slots/"+s.ID+"/operations", map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var op operationView
		decode(t, rec, &op)
		ops = append(ops, op)
	}
	require.NotNil(t, ops[2].Order)
	assert.Equal(t, 3, *ops[2].Order)

	rec := c.do(http.MethodPost, "/api/operations/"+ops[0].ID+"/activate", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var active operationView
	decode(t, rec, &active)
	assert.Nil(t, active.Order)
	assert.NotNil(t, active.Started)

	rec = c.do(http.MethodPost, "/api/operations/"+ops[1].ID+"/activate", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = c.do(http.MethodPost, "/api/operations/"+ops[0].ID+"/move", map[string]any{"index": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = c.do(http.MethodPost, "/api/operations/"+ops[0].ID+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/api/slots/"+s.ID+"/operations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Read", "Write", "Review"}, names(t, rec))

	rec = c.do(http.MethodPost, "/api/slots/"+s.ID+"/operations", map[string]any{"name": "Now", "started": true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/slots", nil)
	var slots []slotView
	decode(t, rec, &slots)
	require.Len(t, slots, 1)
	assert.NotNil(t, slots[0].OperationID)
}

func TestOperations_MoveAcrossSlots(t *testing.T) {
	c := newClient(t).as("ada@example.com")
	from := createSlot(t, c, "Morning")
	to := createSlot(t, c, "Evening")

	rec := c.do(http.MethodPost, "/api/slots/"+from.ID+"/operations", map[string]any{"name": "Read"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var op operationView
	decode(t, rec, &op)

	rec = c.do(http.MethodPost, "/api/operations/"+op.ID+"/move", map[string]any{"index": 0, "slot": to.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var moved reorderedView[operationView]
	decode(t, rec, &moved)
	assert.Equal(t, to.ID, moved.Item.Slot)
	assert.Empty(t, moved.Source)
	assert.Len(t, moved.Destination, 1)
}

func TestTasks_AcrossContainers(t *testing.T) {
	c := newClient(t).as("ada@example.com")
	s := createSlot(t, c, "Morning")

	rec := c.do(http.MethodPost, "/api/slots/"+s.ID+"/operations", map[string]any{"name": "Read"})
	var op operationView
	decode(t, rec, &op)
	rec = c.do(http.MethodPost, "/api/projects", map[string]any{"name": "House"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p projectView
	decode(t, rec, &p)
	assert.Equal(t, "#808080", p.Color)

	rec = c.do(http.MethodPost, "/api/operations/"+op.ID+"/tasks", map[string]any{"name": "Chapter 1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var task taskView
	decode(t, rec, &task)

	rec = c.do(http.MethodPost, "/api/tasks/"+task.ID+"/move", map[string]any{"index": 0, "operation": op.ID, "project": p.ID})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = c.do(http.MethodPost, "/api/tasks/"+task.ID+"/move", map[string]any{"index": 0, "project": p.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/projects/"+p.ID+"/tasks", nil)
	assert.Equal(t, []string{"Chapter 1"}, names(t, rec))
	rec = c.do(http.MethodGet, "/api/operations/"+op.ID+"/tasks", nil)
	assert.Empty(t, names(t, rec))

	rec = c.do(http.MethodPost, "/api/tasks/"+task.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &task)
	assert.NotNil(t, task.Completed)
	assert.Equal(t, 1, task.Order)
}

func TestProjects_DoneFilter(t *testing.T) {
	c := newClient(t).as("ada@example.com")
	for _, p := range []map[string]any{
		{"name": "Open", "status": 1},
		{"name": "Finished", "status": 6},
	} {
		rec := c.do(http.MethodPost, "/api/projects", p)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := c.do(http.MethodGet, "/api/projects?done=false", nil)
	assert.Equal(t, []string{"Open"}, names(t, rec))

	rec = c.do(http.MethodGet, "/api/projects", nil)
	assert.Len(t, names(t, rec), 2)

	rec = c.do(http.MethodPost, "/api/projects", map[string]any{"name": "Bad", "status": 9, "color": "red"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var out struct {
		Error map[string][]string `json:"error"`
	}
	decode(t, rec, &out)
	assert.Contains(t, out.Error, "status")
	assert.Contains(t, out.Error, "color")
}

func TestGoals_Flow(t *testing.T) {
	c := newClient(t).as("ada@example.com")
	rec := c.do(http.MethodPost, "/api/goal-categories", map[string]any{"name": "Health"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var cat categoryView
	decode(t, rec, &cat)

	for _, name := range []string{"Run 10k", "Swim"} {
		rec = c.do(http.MethodPost, "/api/goal-categories/"+cat.ID+"/goals", map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	var goals []goalView
	rec = c.do(http.MethodGet, "/api/goal-categories/"+cat.ID+"/goals", nil)
	decode(t, rec, &goals)
	require.Len(t, goals, 2)

	rec = c.do(http.MethodPost, "/api/goals/"+goals[1].ID+"/move", map[string]any{"index": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/goal-categories/"+cat.ID+"/goals", nil)
	assert.Equal(t, []string{"Swim", "Run 10k"}, names(t, rec))
}

func TestAccount_SettingsAndDelete(t *testing.T) {
	c := newClient(t).as("ada@example.com")
	rec := c.do(http.MethodPatch, "/api/me/settings", map[string]any{"default_project_grouping": "status", "show_done_projects": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var u userView
	decode(t, rec, &u)
	assert.Equal(t, "status", u.DefaultProjectGrouping)
	assert.False(t, u.ShowDoneProjects)

	rec = c.do(http.MethodPatch, "/api/me/settings", map[string]any{"default_project_grouping": "colour"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = c.do(http.MethodDelete, "/api/me", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = c.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package exportapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/fxcanvas"
	"github.com/phanxgames/fxcanvas/sqlitestore"
)

func seededStore(t *testing.T) (*sqlitestore.Store, fxcanvas.Session) {
	t.Helper()
	ctx := context.Background()
	s, err := sqlitestore.Open(ctx, filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	sess := fxcanvas.NewSession("fountain", at)
	sess.Layers = []fxcanvas.Layer{
		{ID: "base", Name: "base", Visible: true, Elements: []fxcanvas.Element{
			{ID: "e1", Type: fxcanvas.ElementFree, Color: fxcanvas.ColorWhite},
			{ID: "e2", Type: fxcanvas.ElementFree, Color: fxcanvas.ColorWhite},
		}},
		{ID: "glow", Name: "glow", Visible: false, Elements: []fxcanvas.Element{
			{ID: "e3", Type: fxcanvas.ElementFree, Color: fxcanvas.ColorWhite},
		}},
	}
	sess.Actions = []fxcanvas.ActionRecord{
		{ID: "a1", Timestamp: at, Type: fxcanvas.ActionElementAdd, ElementIDs: []string{"e1"}},
		{ID: "a2", Timestamp: at.Add(time.Second), Type: fxcanvas.ActionElementAdd, ElementIDs: []string{"e2"}, DelayTicks: 60},
		{ID: "a3", Timestamp: at.Add(2 * time.Second), Type: fxcanvas.ActionColor, ElementIDs: []string{"e1", "e2"}, DelayTicks: 30},
	}
	require.NoError(t, s.Save(ctx, sess))
	return s, sess
}

func doJSON(t *testing.T, app *fiber.App, method, path string, out any) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(body) > 0 {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	s, _ := seededStore(t)
	app := New(s, Config{})

	var body map[string]string
	assert.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/health/live", &body))
	assert.Equal(t, "alive", body["status"])
}

func TestListSessions(t *testing.T) {
	s, sess := seededStore(t)
	app := New(s, Config{})

	var body struct {
		Sessions []sqlitestore.Summary `json:"sessions"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/v1/sessions", &body))
	require.Len(t, body.Sessions, 1)
	assert.Equal(t, sess.ID, body.Sessions[0].ID)
	assert.Equal(t, 3, body.Sessions[0].Elements)
	assert.Equal(t, 2, body.Sessions[0].Layers)
}

func TestGetSession(t *testing.T) {
	s, sess := seededStore(t)
	app := New(s, Config{})

	var got fxcanvas.Session
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/v1/sessions/"+sess.ID, &got))
	assert.Equal(t, "fountain", got.Name)
	assert.Len(t, got.Layers, 2)

	var missing map[string]string
	assert.Equal(t, http.StatusNotFound, doJSON(t, app, http.MethodGet, "/api/v1/sessions/nope", &missing))
	assert.Equal(t, "session not found", missing["error"])
}

func TestGetElements(t *testing.T) {
	s, sess := seededStore(t)
	app := New(s, Config{})

	var all struct {
		Count    int                `json:"count"`
		Elements []fxcanvas.Element `json:"elements"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/v1/sessions/"+sess.ID+"/elements", &all))
	assert.Equal(t, 3, all.Count)

	var one struct {
		Count    int                `json:"count"`
		Elements []fxcanvas.Element `json:"elements"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/v1/sessions/"+sess.ID+"/elements?layer=glow", &one))
	require.Len(t, one.Elements, 1)
	assert.Equal(t, "e3", one.Elements[0].ID)

	assert.Equal(t, http.StatusNotFound,
		doJSON(t, app, http.MethodGet, "/api/v1/sessions/"+sess.ID+"/elements?layer=missing", nil))
}

func TestGetActions(t *testing.T) {
	s, sess := seededStore(t)
	app := New(s, Config{})

	var body struct {
		Count      int                     `json:"count"`
		TotalTicks int                     `json:"totalTicks"`
		Actions    []fxcanvas.ActionRecord `json:"actions"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/v1/sessions/"+sess.ID+"/actions", &body))
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, 90, body.TotalTicks)

	var filtered struct {
		Count   int                     `json:"count"`
		Actions []fxcanvas.ActionRecord `json:"actions"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/v1/sessions/"+sess.ID+"/actions?type=color", &filtered))
	require.Equal(t, 1, filtered.Count)
	assert.Equal(t, "a3", filtered.Actions[0].ID)
}

func TestDeleteSession(t *testing.T) {
	s, sess := seededStore(t)
	app := New(s, Config{})

	assert.Equal(t, http.StatusNoContent, doJSON(t, app, http.MethodDelete, "/api/v1/sessions/"+sess.ID, nil))
	assert.Equal(t, http.StatusNotFound, doJSON(t, app, http.MethodGet, "/api/v1/sessions/"+sess.ID, nil))
	assert.Equal(t, http.StatusNotFound, doJSON(t, app, http.MethodDelete, "/api/v1/sessions/"+sess.ID, nil))
}

type readOnlySource struct{ err error }

func (r readOnlySource) List(context.Context) ([]sqlitestore.Summary, error) { return nil, r.err }

func (r readOnlySource) Load(context.Context, string) (fxcanvas.Session, error) {
	return fxcanvas.Session{}, r.err
}

func TestReadOnlySourceHasNoDelete(t *testing.T) {
	app := New(readOnlySource{}, Config{})

	var body struct {
		Sessions []sqlitestore.Summary `json:"sessions"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/v1/sessions", &body))
	assert.NotNil(t, body.Sessions)
	assert.Empty(t, body.Sessions)

	code := doJSON(t, app, http.MethodDelete, "/api/v1/sessions/x", nil)
	assert.NotEqual(t, http.StatusNoContent, code)
}

func TestSourceErrorIsInternal(t *testing.T) {
	app := New(readOnlySource{err: errors.New("disk gone")}, Config{})

	var body map[string]string
	assert.Equal(t, http.StatusInternalServerError, doJSON(t, app, http.MethodGet, "/api/v1/sessions/x", &body))
	assert.Equal(t, "internal error", body["error"])
}

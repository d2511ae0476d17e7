package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/phanxgames/fxcanvas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSession(name string, at time.Time) fxcanvas.Session {
	s := fxcanvas.NewSession(name, at)
	s.View = fxcanvas.ViewTop
	s.Layers = []fxcanvas.Layer{{
		ID:           "layer-1",
		Name:         "sparks",
		Visible:      true,
		DefaultColor: fxcanvas.ColorWhite,
		Elements: []fxcanvas.Element{
			{ID: "e1", Type: fxcanvas.ElementFree, Position: fxcanvas.Vec3{X: 1, Y: 2, Z: 3}, Color: fxcanvas.ColorWhite},
			{ID: "e2", Type: fxcanvas.ElementFree, Position: fxcanvas.Vec3{X: -1}, Color: fxcanvas.ColorWhite},
		},
	}}
	s.ActiveLayer = "layer-1"
	s.Actions = []fxcanvas.ActionRecord{
		{ID: "a1", Timestamp: at, Type: fxcanvas.ActionElementAdd, ElementIDs: []string{"e1", "e2"}, DelayTicks: 0},
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sess := sampleSession("burst", at)

	require.NoError(t, s.Save(ctx, sess))

	got, err := s.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "burst", got.Name)
	assert.Equal(t, "layer-1", got.ActiveLayer)
	require.Len(t, got.Layers, 1)
	assert.Equal(t, sess.Layers[0].Elements, got.Layers[0].Elements)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, fxcanvas.ActionElementAdd, got.Actions[0].Type)
	assert.True(t, at.Equal(got.CreatedAt))
}

func TestSaveOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sess := sampleSession("burst", at)
	require.NoError(t, s.Save(ctx, sess))

	sess.Name = "renamed"
	sess.UpdatedAt = at.Add(time.Minute)
	sess.Layers[0].Elements = sess.Layers[0].Elements[:1]
	require.NoError(t, s.Save(ctx, sess))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "renamed", list[0].Name)
	assert.Equal(t, 1, list[0].Elements)
	assert.True(t, at.Equal(list[0].CreatedAt))
	assert.True(t, at.Add(time.Minute).Equal(list[0].UpdatedAt))
}

func TestSaveRejectsInvalidSession(t *testing.T) {
	s := openTestStore(t)
	sess := sampleSession("dup", time.Now())
	sess.Layers = append(sess.Layers, fxcanvas.Layer{
		ID:       "layer-2",
		Elements: []fxcanvas.Element{{ID: "e1"}},
	})
	assert.Error(t, s.Save(context.Background(), sess))
}

func TestListOrdersByUpdatedAt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	older := sampleSession("older", base)
	newer := sampleSession("newer", base.Add(time.Hour))
	require.NoError(t, s.Save(ctx, older))
	require.NoError(t, s.Save(ctx, newer))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Name)
	assert.Equal(t, "older", list[1].Name)
	assert.Equal(t, 1, list[0].Layers)
	assert.Equal(t, 2, list[0].Elements)
	assert.Equal(t, 1, list[0].Actions)
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)
	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	sess := sampleSession("gone", time.Now())
	require.NoError(t, s.Save(ctx, sess))

	require.NoError(t, s.Delete(ctx, sess.ID))
	_, err := s.Load(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, sess.ID), ErrNotFound)
}

func TestEditorSnapshotPersists(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	store := fxcanvas.NewMemoryStore()
	layer := store.AddLayer("fx", fxcanvas.ColorWhite)
	cfg := fxcanvas.DefaultConfig()
	cfg.SnapEnabled = false
	ed := fxcanvas.NewEditor(cfg, store)
	require.NoError(t, ed.SetActiveLayer(layer))
	require.NoError(t, ed.PlaceElement(fxcanvas.Vec2{X: 300, Y: 200}))

	snap := ed.Snapshot("from-editor")
	require.NoError(t, s.Save(ctx, snap))

	got, err := s.Load(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ElementCount())

	restored := fxcanvas.NewEditor(cfg, fxcanvas.NewMemoryStore())
	require.NoError(t, restored.Restore(got))
	assert.Len(t, restored.ActiveElements(), 1)
}

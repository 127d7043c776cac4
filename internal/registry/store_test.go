package registry

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmiyoshi/launchdeck/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func scriptPath(t *testing.T) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "run.sh", "#!/bin/sh\nsleep 60\n")
}

func TestNewStore_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s, err := NewStore(path)
	require.NoError(t, err)

	reg, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reg.Apps)
	assert.Empty(t, reg.Order)
}

func TestNewStore_CurrentLayout(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", `{
		"apps": {"a": {"path": "/x/a.sh"}, "b": {"path": "/x/b.sh", "port": 8080}},
		"order": ["b", "a"]
	}`)

	s, err := NewStore(path)
	require.NoError(t, err)

	reg, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, reg.Order)
	require.Contains(t, reg.Apps, "b")
	require.NotNil(t, reg.Apps["b"].Port)
	assert.Equal(t, 8080, *reg.Apps["b"].Port)
}

func TestNewStore_MigratesLegacyRootMap(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", `{
		"a": {"path": "/x/a.sh", "cwd": "/x"},
		"b": {"path": "/x/b.sh", "cwd": "/x"}
	}`)

	s, err := NewStore(path)
	require.NoError(t, err)

	reg, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, reg.Apps, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, reg.Order)

	// The file is rewritten in the current layout.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var current struct {
		Apps  map[string]domain.App `json:"apps"`
		Order []string              `json:"order"`
	}
	require.NoError(t, json.Unmarshal(data, &current))
	assert.Len(t, current.Apps, 2)
	assert.Len(t, current.Order, 2)
}

func TestNewStore_RebuildsInconsistentOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", `{
		"apps": {"a": {"path": "/x/a.sh"}, "b": {"path": "/x/b.sh"}},
		"order": ["a", "ghost"]
	}`)

	s, err := NewStore(path)
	require.NoError(t, err)

	reg, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, reg.Order)
	assert.NotContains(t, reg.Order, "ghost")
}

func TestNewStore_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", `{not json`)

	s, err := NewStore(path)
	require.NoError(t, err)

	reg, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reg.Apps)
}

func TestAdd_AppendsToOrderAndPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	s, err := NewStore(path)
	require.NoError(t, err)

	script := scriptPath(t)
	require.NoError(t, s.Add(context.Background(), domain.AddRequest{Name: "web", Path: script, Port: "3000"}))

	// Reload from disk to prove persistence.
	s2, err := NewStore(path)
	require.NoError(t, err)
	reg, err := s2.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"web"}, reg.Order)
	require.Contains(t, reg.Apps, "web")
	assert.Equal(t, script, reg.Apps["web"].Path)
	assert.Equal(t, filepath.Dir(script), reg.Apps["web"].Cwd)
	require.NotNil(t, reg.Apps["web"].Port)
	assert.Equal(t, 3000, *reg.Apps["web"].Port)
}

func TestAdd_DuplicateName(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	script := scriptPath(t)
	require.NoError(t, s.Add(context.Background(), domain.AddRequest{Name: "web", Path: script}))
	err = s.Add(context.Background(), domain.AddRequest{Name: "web", Path: script})
	assert.ErrorIs(t, err, domain.ErrAppExists)
}

func TestAdd_CardIDCollision(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	script := scriptPath(t)
	require.NoError(t, s.Add(context.Background(), domain.AddRequest{Name: "my.app", Path: script}))
	err = s.Add(context.Background(), domain.AddRequest{Name: "my app", Path: script})
	assert.ErrorIs(t, err, domain.ErrCardCollision)
}

func TestAdd_CardIDCollision_SupplementaryRunes(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	script := scriptPath(t)
	ctx := context.Background()

	// "a" + U+1D552 sanitizes to "a-", one dash per rune, so it collides
	// with its single-punctuation twin but not with the double one.
	require.NoError(t, s.Add(ctx, domain.AddRequest{Name: "a\U0001D552", Path: script}))
	err = s.Add(ctx, domain.AddRequest{Name: "a.", Path: script})
	assert.ErrorIs(t, err, domain.ErrCardCollision)
	assert.NoError(t, s.Add(ctx, domain.AddRequest{Name: "a..", Path: script}))
}

func TestAdd_InvalidPort(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	for _, port := range []string{"eighty", "0", "70000", "-1"} {
		err = s.Add(context.Background(), domain.AddRequest{Name: "web", Path: scriptPath(t), Port: port})
		assert.ErrorIs(t, err, domain.ErrInvalidPort, "port %q", port)
	}
}

func TestDelete_RemovesFromAppsAndOrder(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	script := scriptPath(t)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, domain.AddRequest{Name: "a", Path: script}))
	require.NoError(t, s.Add(ctx, domain.AddRequest{Name: "b", Path: script}))

	require.NoError(t, s.Delete(ctx, "a"))

	reg, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotContains(t, reg.Apps, "a")
	assert.Equal(t, []string{"b"}, reg.Order)
}

func TestDelete_Unknown(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.ErrorIs(t, s.Delete(context.Background(), "ghost"), domain.ErrAppNotFound)
}

func TestSaveOrder_Swap(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	script := scriptPath(t)
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, s.Add(ctx, domain.AddRequest{Name: name, Path: script}))
	}

	// One pairwise swap, the way the dashboard persists a drop.
	require.NoError(t, s.SaveOrder(ctx, []string{"c", "b", "a"}))

	reg, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, reg.Order)
}

func TestSaveOrder_RejectsMismatchedSet(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	script := scriptPath(t)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, domain.AddRequest{Name: "a", Path: script}))
	require.NoError(t, s.Add(ctx, domain.AddRequest{Name: "b", Path: script}))

	tests := [][]string{
		{"a"},
		{"a", "b", "c"},
		{"a", "ghost"},
		{"a", "a"},
	}
	for _, order := range tests {
		assert.ErrorIs(t, s.SaveOrder(ctx, order), domain.ErrOrderMismatch)
	}

	// Order is untouched after rejected saves.
	reg, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, reg.Order)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Add(ctx, domain.AddRequest{Name: "a", Path: scriptPath(t)}))

	reg, err := s.Snapshot(ctx)
	require.NoError(t, err)
	reg.Order[0] = "mutated"
	delete(reg.Apps, "a")

	reg2, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, reg2.Order)
	assert.Contains(t, reg2.Apps, "a")
}

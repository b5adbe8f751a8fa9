package jsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/csvboard/internal/model"
)

func TestLoadMissingFile(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "todos.json"))
	require.NoError(t, err)

	items, err := s.Load()
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "todos.json")
	s, err := New(p)
	require.NoError(t, err)

	in := []model.Item{model.NewItem("Buy milk"), {ID: "x", Title: "Ship it", Done: true}}
	require.NoError(t, s.Save(in))

	out, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoadAssignsMissingIDs(t *testing.T) {
	p := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(p, []byte(`[{"title":"old","done":false}]`), 0o644))

	s, err := New(p)
	require.NoError(t, err)
	items, err := s.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NotEmpty(t, items[0].ID)
	assert.Equal(t, "old", items[0].Title)
}

func TestLoadCorrupt(t *testing.T) {
	p := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(p, []byte(`{not json`), 0o644))

	s, err := New(p)
	require.NoError(t, err)
	_, err = s.Load()
	assert.ErrorContains(t, err, "json unmarshal")
}

func TestDefaultPath(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFileName, filepath.Base(s.Path()))
}

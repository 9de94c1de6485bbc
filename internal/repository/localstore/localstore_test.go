package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	type entry struct {
		Name string `json:"name"`
		Qty  int    `json:"qty"`
	}

	require.NoError(t, s.Put("cart", entry{Name: "Cleanser", Qty: 2}))

	var got entry
	require.True(t, s.Get("cart", &got))
	assert.Equal(t, "Cleanser", got.Name)
	assert.Equal(t, 2, got.Qty)
}

func TestGetMissingKey(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	var out map[string]string
	assert.False(t, s.Get("nope", &out))
}

func TestGetCorruptEntryReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"broken`), 0o644))

	var out map[string]string
	assert.False(t, s.Get("bad", &out))
}

func TestPutOverwritesInFull(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, s.Put("k", map[string]int{"a": 1, "b": 2}))
	require.NoError(t, s.Put("k", map[string]int{"c": 3}))

	var got map[string]int
	require.True(t, s.Get("k", &got))
	assert.Equal(t, map[string]int{"c": 3}, got)
}

func TestDeleteTolerant(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, s.Put("k", "v"))
	require.NoError(t, s.Delete("k"))

	var out string
	assert.False(t, s.Get("k", &out))

	// Deleting again is not an error
	require.NoError(t, s.Delete("k"))
}

func TestKeyPathTraversalNeutralized(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, nil)
	require.NoError(t, err)

	require.NoError(t, s.Put("../escape", "v"))

	_, statErr := os.Stat(filepath.Join(dir, "..", "escape.json"))
	assert.True(t, os.IsNotExist(statErr))
}

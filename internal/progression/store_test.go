package progression

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "progress.json")

	store, err := NewFileStore(storePath)
	require.NoError(t, err)

	_, ok := store.Get("trilha-ansiedade||next")
	assert.False(t, ok)

	require.NoError(t, store.Set("trilha-ansiedade||next", 3))
	require.NoError(t, store.Set("trilha-sono||next", 8))

	value, ok := store.Get("trilha-ansiedade||next")
	require.True(t, ok)
	assert.Equal(t, 3, value)

	// values survive a reload from disk
	reloaded, err := NewFileStore(storePath)
	require.NoError(t, err)

	value, ok = reloaded.Get("trilha-ansiedade||next")
	require.True(t, ok)
	assert.Equal(t, 3, value)
	value, ok = reloaded.Get("trilha-sono||next")
	require.True(t, ok)
	assert.Equal(t, 8, value)

	// overwrite
	require.NoError(t, store.Set("trilha-ansiedade||next", 4))
	value, _ = store.Get("trilha-ansiedade||next")
	assert.Equal(t, 4, value)
}

func TestNewFileStore_Invalid(t *testing.T) {
	_, err := NewFileStore("")
	require.Error(t, err)

	corruptPath := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(corruptPath, []byte("not json"), 0o644))
	_, err = NewFileStore(corruptPath)
	require.Error(t, err)
}

func TestFileStore_EmptyFile(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(storePath, []byte{}, 0o644))

	store, err := NewFileStore(storePath)
	require.NoError(t, err)

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskvStoreSaveGetRemove(t *testing.T) {
	store, err := NewDiskvStore(t.TempDir())
	require.NoError(t, err)
	assert.True(t, store.Ready())

	got, err := store.GetState("help", "default")
	require.NoError(t, err)
	assert.Equal(t, "default", got)

	require.NoError(t, store.SaveState("help", `{"systemEnabled":false}`))

	got, err = store.GetState("help", "default")
	require.NoError(t, err)
	assert.Equal(t, `{"systemEnabled":false}`, got)

	require.NoError(t, store.RemoveState("help"))
	got, err = store.GetState("help", "default")
	require.NoError(t, err)
	assert.Equal(t, "default", got)

	require.NoError(t, store.RemoveState("help"))
}

func TestDiskvStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	first, err := NewDiskvStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.SaveState("help", "persisted"))

	// A second store over the same directory sees the earlier write, the
	// way a new session sees the previous one's state.
	second, err := NewDiskvStore(dir)
	require.NoError(t, err)

	got, err := second.GetState("help", "default")
	require.NoError(t, err)
	assert.Equal(t, "persisted", got)
}

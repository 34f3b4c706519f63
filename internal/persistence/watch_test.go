package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchNotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()

	store, err := NewDiskvStore(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx, "help")
	require.NoError(t, err)

	// A write from "another process".
	other, err := NewDiskvStore(dir)
	require.NoError(t, err)
	require.NoError(t, other.SaveState("help", "updated"))

	select {
	case _, ok := <-events:
		require.True(t, ok, "event channel closed early")
	case <-time.After(5 * time.Second):
		t.Fatal("no watch event after write")
	}
}

func TestWatchIgnoresOtherKeys(t *testing.T) {
	dir := t.TempDir()

	store, err := NewDiskvStore(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx, "help")
	require.NoError(t, err)

	require.NoError(t, store.SaveState("unrelated", "x"))

	select {
	case <-events:
		t.Fatal("event for a key we are not watching")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	store, err := NewDiskvStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	events, err := store.Watch(ctx, "help")
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-events:
		require.False(t, ok, "channel should close after cancel")
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

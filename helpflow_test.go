package helpflow

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/petrijr/helpflow/pkg/api"
)

func registerOnboarding(t *testing.T, ctrl Controller) {
	t.Helper()

	NewFlow("onboarding").
		ShowInitially().
		NamedItem("step1", "btn-save").
		NamedItem("step2", "btn-export").
		MustRegister(ctrl)
}

func completeOnboarding(t *testing.T, ctrl Controller) {
	t.Helper()

	require.NoError(t, ctrl.SignalUsed("btn-save"))
	require.NoError(t, ctrl.SignalUsed("btn-export"))
}

func TestSQLiteControllerPersistsAcrossSessions(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctrl, err := NewSQLiteController(db)
	require.NoError(t, err)

	registerOnboarding(t, ctrl)
	assert.True(t, ctrl.Snapshot().Flows["onboarding"].Visible)
	completeOnboarding(t, ctrl)

	// A second controller over the same database is "the next session":
	// the flow is remembered as seen and no longer auto-shows.
	ctrl2, err := NewSQLiteController(db)
	require.NoError(t, err)
	registerOnboarding(t, ctrl2)
	assert.False(t, ctrl2.Snapshot().Flows["onboarding"].Visible)

	infos := ctrl2.GetFlowInfo()
	require.Len(t, infos, 1)
	assert.True(t, infos[0].Seen)
}

func TestDiskvControllerPersistsAcrossSessions(t *testing.T) {
	dir := t.TempDir()

	ctrl, err := NewDiskvController(dir)
	require.NoError(t, err)
	registerOnboarding(t, ctrl)
	completeOnboarding(t, ctrl)

	ctrl2, err := NewDiskvController(dir)
	require.NoError(t, err)
	registerOnboarding(t, ctrl2)
	assert.False(t, ctrl2.Snapshot().Flows["onboarding"].Visible)
}

func TestDiskvControllerWithReload(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl, err := NewDiskvControllerWithReload(ctx, dir, WithStorageKey("shared"))
	require.NoError(t, err)
	registerOnboarding(t, ctrl)

	// A second installation sharing the directory marks the flow seen.
	other, err := NewDiskvController(dir, WithStorageKey("shared"))
	require.NoError(t, err)
	registerOnboarding(t, other)
	completeOnboarding(t, other)

	// The watching controller picks the change up without being asked.
	require.Eventually(t, func() bool {
		infos := ctrl.GetFlowInfo()
		return len(infos) == 1 && infos[0].Seen
	}, 5*time.Second, 50*time.Millisecond)
}

func TestCustomStateStore(t *testing.T) {
	// The facade accepts any StateStore implementation.
	ctrl := NewController(mapStore{values: map[string]string{}})
	registerOnboarding(t, ctrl)

	assert.True(t, ctrl.GetSystemStatus().Initialized)
}

type mapStore struct {
	values map[string]string
}

func (m mapStore) SaveState(key, value string) error {
	m.values[key] = value
	return nil
}

func (m mapStore) GetState(key, defaultValue string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (m mapStore) RemoveState(key string) error {
	delete(m.values, key)
	return nil
}

func (m mapStore) Ready() bool { return true }

func TestFacadeReExports(t *testing.T) {
	ctrl := NewInMemoryController(
		WithObserver(NewCompositeObserver(NewLoggingObserver(nil), &BasicMetrics{})),
	)
	registerOnboarding(t, ctrl)

	assert.ErrorIs(t, ctrl.SignalUsed("never-registered"), ErrUnknownTarget)
	assert.Equal(t, api.PhraseOK, ctrl.Translate(PhraseOK))
}

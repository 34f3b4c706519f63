package api

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver captures event names in call order.
type recordingObserver struct {
	NoopObserver
	events []string
}

func (r *recordingObserver) OnFlowRegistered(flow FlowID, showInitially bool) {
	r.events = append(r.events, "registered:"+string(flow))
}

func (r *recordingObserver) OnFlowCompleted(flow FlowID, seen bool) {
	r.events = append(r.events, "completed:"+string(flow))
}

func TestNewCompositeObserver(t *testing.T) {
	// No observers (or only nil) collapses to the noop.
	assert.IsType(t, NoopObserver{}, NewCompositeObserver())
	assert.IsType(t, NoopObserver{}, NewCompositeObserver(nil, nil))

	// A single observer is returned as-is.
	single := &recordingObserver{}
	assert.Same(t, Observer(single), NewCompositeObserver(single))

	// Multiple observers all receive every event.
	a := &recordingObserver{}
	b := &recordingObserver{}
	comp := NewCompositeObserver(a, nil, b)

	comp.OnFlowRegistered("onboarding", true)
	comp.OnFlowCompleted("onboarding", true)

	want := []string{"registered:onboarding", "completed:onboarding"}
	assert.Equal(t, want, a.events)
	assert.Equal(t, want, b.events)
}

func TestBasicMetrics(t *testing.T) {
	var m BasicMetrics

	m.OnFlowRegistered("a", true)
	m.OnFlowRegistered("b", false)
	m.OnStepAdvanced("a", "a2", 1)
	m.OnFlowCompleted("a", true)
	m.OnStatePersisted(nil)
	m.OnStatePersisted(errors.New("disk full"))

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.FlowsRegistered)
	assert.Equal(t, int64(1), snap.StepsAdvanced)
	assert.Equal(t, int64(1), snap.FlowsCompleted)
	assert.Equal(t, int64(1), snap.PersistFailures)
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	obs := NewLoggingObserver(logger)
	obs.OnFlowRegistered("onboarding", true)
	obs.OnFlowEnabled("onboarding", true)
	obs.OnStepAdvanced("onboarding", "step2", 1)
	obs.OnFlowCompleted("onboarding", true)
	obs.OnStatePersisted(errors.New("disk full"))

	out := buf.String()
	assert.Contains(t, out, "flow_registered")
	assert.Contains(t, out, "flow_enabled")
	assert.Contains(t, out, "step_advanced")
	assert.Contains(t, out, "flow_completed")
	assert.Contains(t, out, "state_persist_failed")
	assert.Contains(t, out, "flow=onboarding")
}

func TestNewLoggingObserverNilLogger(t *testing.T) {
	obs := NewLoggingObserver(nil)
	require.NotNil(t, obs)

	// Must not panic with the default logger.
	obs.OnStatePersisted(nil)
}

package api

import (
	"log/slog"
	"sync/atomic"
)

// Observer receives callbacks from the help controller for logging and
// metrics.
//
// Implementations should be fast and non-blocking; all callbacks run
// synchronously on the host UI's event path.
type Observer interface {
	// OnFlowRegistered is called once when a flow is first registered in
	// this session.
	OnFlowRegistered(flow FlowID, showInitially bool)

	// OnFlowEnabled is called whenever a flow's visibility is switched,
	// either explicitly (EnableFlow/TriggerFlow) or by first-registration
	// auto-show.
	OnFlowEnabled(flow FlowID, enabled bool)

	// OnStepAdvanced is called when a flow moves to a new active step.
	// stepIndex is the 0-based index into the flow's item sequence.
	OnStepAdvanced(flow FlowID, item ItemID, stepIndex int)

	// OnFlowCompleted is called when the last step of a flow is dismissed
	// or the user dismisses the whole flow. seen reports whether the flow
	// was marked seen as part of completing.
	OnFlowCompleted(flow FlowID, seen bool)

	// OnStatePersisted is called after every attempt to save UserState.
	// err is nil on success. Persistence failures are warnings, not fatal:
	// the session keeps working in memory.
	OnStatePersisted(err error)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnFlowRegistered(flow FlowID, showInitially bool)       {}
func (NoopObserver) OnFlowEnabled(flow FlowID, enabled bool)                {}
func (NoopObserver) OnStepAdvanced(flow FlowID, item ItemID, stepIndex int) {}
func (NoopObserver) OnFlowCompleted(flow FlowID, seen bool)                 {}
func (NoopObserver) OnStatePersisted(err error)                             {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnFlowRegistered(flow FlowID, showInitially bool) {
	for _, o := range c.observers {
		o.OnFlowRegistered(flow, showInitially)
	}
}

func (c *CompositeObserver) OnFlowEnabled(flow FlowID, enabled bool) {
	for _, o := range c.observers {
		o.OnFlowEnabled(flow, enabled)
	}
}

func (c *CompositeObserver) OnStepAdvanced(flow FlowID, item ItemID, stepIndex int) {
	for _, o := range c.observers {
		o.OnStepAdvanced(flow, item, stepIndex)
	}
}

func (c *CompositeObserver) OnFlowCompleted(flow FlowID, seen bool) {
	for _, o := range c.observers {
		o.OnFlowCompleted(flow, seen)
	}
}

func (c *CompositeObserver) OnStatePersisted(err error) {
	for _, o := range c.observers {
		o.OnStatePersisted(err)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs flow lifecycle events
// using the provided slog.Logger. If logger is nil, slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnFlowRegistered(flow FlowID, showInitially bool) {
	o.Logger.Debug("flow_registered",
		slog.String("flow", string(flow)),
		slog.Bool("show_initially", showInitially),
	)
}

func (o *LoggingObserver) OnFlowEnabled(flow FlowID, enabled bool) {
	o.Logger.Info("flow_enabled",
		slog.String("flow", string(flow)),
		slog.Bool("enabled", enabled),
	)
}

func (o *LoggingObserver) OnStepAdvanced(flow FlowID, item ItemID, stepIndex int) {
	o.Logger.Debug("step_advanced",
		slog.String("flow", string(flow)),
		slog.String("item", string(item)),
		slog.Int("step_index", stepIndex),
	)
}

func (o *LoggingObserver) OnFlowCompleted(flow FlowID, seen bool) {
	o.Logger.Info("flow_completed",
		slog.String("flow", string(flow)),
		slog.Bool("seen", seen),
	)
}

func (o *LoggingObserver) OnStatePersisted(err error) {
	if err != nil {
		o.Logger.Warn("state_persist_failed", slog.Any("error", err))
		return
	}
	o.Logger.Debug("state_persisted")
}

// BasicMetrics collects simple counters for flow activity.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	flowsRegistered atomic.Int64
	flowsCompleted  atomic.Int64
	stepsAdvanced   atomic.Int64
	persistFailures atomic.Int64
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	FlowsRegistered int64
	FlowsCompleted  int64
	StepsAdvanced   int64
	PersistFailures int64
}

func (m *BasicMetrics) OnFlowRegistered(flow FlowID, showInitially bool) {
	m.flowsRegistered.Add(1)
}

func (m *BasicMetrics) OnStepAdvanced(flow FlowID, item ItemID, stepIndex int) {
	m.stepsAdvanced.Add(1)
}

func (m *BasicMetrics) OnFlowCompleted(flow FlowID, seen bool) {
	m.flowsCompleted.Add(1)
}

func (m *BasicMetrics) OnStatePersisted(err error) {
	if err != nil {
		m.persistFailures.Add(1)
	}
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	return BasicMetricsSnapshot{
		FlowsRegistered: m.flowsRegistered.Load(),
		FlowsCompleted:  m.flowsCompleted.Load(),
		StepsAdvanced:   m.stepsAdvanced.Load(),
		PersistFailures: m.persistFailures.Load(),
	}
}

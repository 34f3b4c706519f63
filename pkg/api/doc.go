// Package api contains the core building blocks of the helpflow guided-tour
// engine: the identifier and state types, the Controller contract, the
// persisted UserState, and the Observer interfaces.
//
// Most users interact with the higher-level helpflow package, which
// re-exports selected types and helpers from this package. The api package
// is intended for custom integrations: alternative renderers, host bindings,
// or observers feeding a metrics pipeline.
//
// # Flows, items, and targets
//
// A flow is an ordered tour of items, each pointing at a target anchor in
// the host UI. Exactly one item of a running flow is active at a time; using
// the active item's anchor advances the flow, and completing the last step
// marks the flow seen and rewinds it to the top.
//
// # Snapshots
//
// The Controller republishes a deep-copied Snapshot after every mutation.
// Snapshots are safe to retain and read from any goroutine; the ShouldRender
// helper combines flow visibility, item visibility, the master switch, and
// target presence into the single check renderers need.
//
// # Persisted user state
//
// UserState is the only durable data: the master switch and one seen flag
// per flow, serialized to a single JSON blob. DecodeUserState merges stored
// blobs field by field against the canonical defaults, so blobs written by
// older or newer releases load safely.
//
// # Observability
//
// Observer receives flow lifecycle callbacks. NewLoggingObserver logs them
// through log/slog, BasicMetrics counts them, and NewCompositeObserver fans
// events out to several observers at once.
package api

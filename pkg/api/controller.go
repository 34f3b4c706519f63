package api

// TargetItem is the capability returned by RegisterTargetItem, bound to one
// target id. The host UI calls Ref from its mount callbacks, Used when the
// user interacts with the anchor, and Highlight/Unhighlight to mark the
// anchor on behalf of one item. Scoping the capability to a single target
// prevents cross-target interference.
type TargetItem struct {
	// Ref records the live anchor handle. Passing nil reports an unmount;
	// whether that clears the stored handle depends on the controller's
	// stale-ref policy.
	Ref func(ref any)

	// Active reports whether a non-nil anchor handle is currently on file.
	Active func() bool

	// Used signals that the user interacted with this anchor. It is sugar
	// for Controller.SignalUsed with the bound target id.
	Used func() error

	// Highlight asserts that this target should be visually marked on
	// behalf of the given item.
	Highlight func(item ItemID)

	// Unhighlight withdraws an item's highlight assertion. It reports
	// whether that was the last highlighter, meaning the visual mark
	// should now be removed.
	Unhighlight func(item ItemID) bool
}

// Controller is the help system's single authority: it owns the flow/item
// tables, the target registry, and the persisted user state, and it is the
// only component that mutates them. All other components receive read-only
// snapshots via Subscribe.
//
// The controller assumes the host's natural single-threaded event-driven
// execution; calls are serialized internally so concurrent hosts are safe,
// but no reentrancy from listeners is supported.
type Controller interface {
	// AddHelpFlow registers a flow. Idempotent: re-registering an existing
	// flow only updates its description, never its runtime state; an empty
	// description keeps the existing copy, while on first registration it
	// defaults to the flow id. A flow registered for the first time ever
	// auto-shows iff showInitially is set and the flow has not been seen in
	// a previous session.
	AddHelpFlow(flow FlowID, showInitially bool, description string) error

	// AddHelpItem registers one step of a flow. Idempotent on item id.
	// The flow must already be registered; ErrUnknownFlow otherwise.
	AddHelpItem(flow FlowID, item ItemID, target TargetID) error

	// RegisterTargetItem returns the capability the host UI uses to wire
	// one anchor element. It can be called before the controller is
	// initialized; the capability stays valid for the session.
	RegisterTargetItem(target TargetID) TargetItem

	// SignalUsed dismisses every item mapped to target that is currently
	// the active step of its visible flow. ErrUnknownTarget if no item was
	// ever registered against target.
	SignalUsed(target TargetID) error

	// SignalItemDismissed ends the item's flow for this session: the flow
	// is hidden and rewound to its first step, without marking it seen.
	SignalItemDismissed(item ItemID) error

	// SignalFlowDismissed is SignalItemDismissed plus marking the flow
	// seen: the user opted out of the whole flow, not just the step.
	SignalFlowDismissed(item ItemID) error

	// EnableFlow switches a flow on or off, rewinding it to its first
	// step. Unknown flows degrade to a logged no-op to tolerate host
	// races during incremental mount.
	EnableFlow(flow FlowID, enable bool) error

	// TriggerFlow enables a flow only if it has not been seen and is not
	// already visible.
	TriggerFlow(flow FlowID) error

	// EnableHelp flips the master switch. Enabling reloads UserState from
	// storage first, to pick up changes made elsewhere.
	EnableHelp(enabled bool) error

	// ReloadUserState re-reads the persisted blob and merges it against
	// the canonical defaults.
	ReloadUserState() error

	// ResetHelp replaces system state and user state with fresh defaults
	// and persists that. Every flow's seen history is lost; intended for
	// development and testing.
	ResetHelp() error

	// GetFlowInfo reports the flows registered in this session, in
	// registration order. Flows present only in stale persisted state are
	// not reported.
	GetFlowInfo() []FlowInfo

	// GetSystemStatus reports the master switch and initialization state.
	GetSystemStatus() SystemStatus

	// Translate maps one of the fixed UI phrases through the configured
	// translator.
	Translate(phrase string) string

	// Subscribe registers a listener that is called synchronously with an
	// immutable snapshot after every mutation, and immediately with the
	// current state. The returned function unsubscribes.
	Subscribe(l Listener) (unsubscribe func())

	// Snapshot returns the current immutable state bundle.
	Snapshot() Snapshot
}

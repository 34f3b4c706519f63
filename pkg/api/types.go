package api

// Identifier types for the three kinds of entities the help system tracks.
// They are opaque strings chosen by the host application.
//
// ItemID is unique across all flows. TargetID may be shared by several items
// (multiple flows can point a step at the same anchor). FlowID is unique per
// flow.
type (
	FlowID   string
	ItemID   string
	TargetID string
)

// FlowState is the live state of one registered flow.
//
// Items is append-only: registration order defines step order. ActiveItem is
// an index into Items; it is 0 whenever the flow is inactive.
type FlowState struct {
	ID            FlowID
	Description   string
	ShowInitially bool
	Visible       bool
	Items         []ItemID
	ActiveItem    int
}

// ItemState is the live state of one registered item (a single step of a
// flow). Flow and Target are immutable after registration.
//
// Visible is denormalized state maintained transactionally by the controller:
// it is true for the step the flow is currently parked on. Note that after a
// flow completes, the first item's Visible is set back to true while the flow
// itself is hidden, so the flow restarts from the top the next time it is
// enabled. Renderers must therefore check flow visibility, item visibility,
// the system switch, and target presence together (see Snapshot.ShouldRender).
type ItemState struct {
	Visible bool
	Flow    FlowID
	Target  TargetID
}

// TargetInfo is the ephemeral record for one anchor element in the host UI.
// It is rebuilt every mount and never persisted.
//
// Ref is an opaque handle to the live anchor node, owned by the host UI; it
// is nil when the anchor is not currently mounted. Highlighters is the set of
// items currently asserting that this anchor should be visually marked; the
// visual highlight goes away only when the set becomes empty.
type TargetInfo struct {
	Ref          any
	Highlighters map[ItemID]struct{}
}

// FlowInfo is a read-only report on one flow registered in this session.
type FlowInfo struct {
	ID          FlowID
	Description string
	Visible     bool
	Seen        bool
}

// SystemStatus reports the controller's global switches.
type SystemStatus struct {
	Enabled     bool
	Initialized bool
}

// Snapshot is the immutable state bundle published to listeners after every
// mutation. Maps and slices are deep copies; listeners and renderers may
// retain them freely.
type Snapshot struct {
	Flows       map[FlowID]FlowState
	Items       map[ItemID]ItemState
	FlowMap     map[ItemID]FlowID
	ItemMap     map[TargetID][]ItemID
	TargetItems map[TargetID]TargetInfo

	Enabled     bool
	Initialized bool
}

// ShouldRender reports whether the given item should currently be painted:
// its flow is running, it is the active step, help is enabled, and its target
// anchor is mounted. A stale or absent target is never an error, just a
// "don't render this step now" condition.
func (s Snapshot) ShouldRender(id ItemID) bool {
	item, ok := s.Items[id]
	if !ok || !item.Visible {
		return false
	}
	flow, ok := s.Flows[item.Flow]
	if !ok || !flow.Visible || !s.Enabled {
		return false
	}
	if flow.ActiveItem >= len(flow.Items) || flow.Items[flow.ActiveItem] != id {
		return false
	}
	t, ok := s.TargetItems[item.Target]
	return ok && t.Ref != nil
}

// Listener receives snapshots synchronously after each controller mutation.
type Listener func(Snapshot)

// The two fixed UI phrases the bundled renderers need. Hosts that want other
// languages supply a Translator.
const (
	PhraseSkip = "Skip this"
	PhraseOK   = "OK"
)

// Translator maps one of the fixed UI phrases to display text.
type Translator func(phrase string) string

// DefaultTranslator returns phrases unchanged.
func DefaultTranslator(phrase string) string { return phrase }

package helpflow

import (
	"fmt"
	"strconv"
)

// ItemDecl is one resolved step declaration: the item's id (explicit or
// derived) and the target anchor it points at. Builders hand these to the
// rendering layer so it never has to re-derive identity.
type ItemDecl struct {
	ID     ItemID
	Target TargetID
}

// FlowBuilder provides a fluent API for declaring a help flow and its steps,
// mirroring what a flow container does at mount time:
//
//	flow := helpflow.NewFlow("onboarding").
//	    Describe("Getting started").
//	    ShowInitially().
//	    Item("btn-save").
//	    NamedItem("step-export", "btn-export")
//
//	if err := flow.Register(ctrl); err != nil {
//	    log.Fatal(err)
//	}
//
// Declaration order defines step order, and for unnamed items it also feeds
// the default id. Reordering declarations between sessions therefore changes
// both; name items explicitly when their order may change.
type FlowBuilder struct {
	id            FlowID
	description   string
	showInitially bool
	items         []ItemDecl
}

// NewFlow creates a new flow builder with the given id.
func NewFlow(id FlowID) *FlowBuilder {
	if id == "" {
		panic("helpflow: flow id must not be empty")
	}
	return &FlowBuilder{id: id}
}

// ID returns the flow id.
func (b *FlowBuilder) ID() FlowID {
	return b.id
}

// Describe sets the display description. Unset, the flow id is shown.
func (b *FlowBuilder) Describe(description string) *FlowBuilder {
	b.description = description
	return b
}

// ShowInitially makes the flow auto-show the first time it is ever
// registered. It is suppressed on later sessions once the flow is seen.
func (b *FlowBuilder) ShowInitially() *FlowBuilder {
	b.showInitially = true
	return b
}

// Item appends a step pointing at target, with a deterministic default id
// derived from the flow id, target id, and position.
func (b *FlowBuilder) Item(target TargetID) *FlowBuilder {
	if target == "" {
		panic(fmt.Sprintf("helpflow: flow %q declares an item with no target", b.id))
	}
	b.items = append(b.items, ItemDecl{
		ID:     DefaultItemID(b.id, target, len(b.items)),
		Target: target,
	})
	return b
}

// NamedItem appends a step with an explicit item id.
func (b *FlowBuilder) NamedItem(id ItemID, target TargetID) *FlowBuilder {
	if id == "" {
		return b.Item(target)
	}
	if target == "" {
		panic(fmt.Sprintf("helpflow: item %q has no target", id))
	}
	b.items = append(b.items, ItemDecl{ID: id, Target: target})
	return b
}

// Items returns the resolved step declarations in order.
func (b *FlowBuilder) Items() []ItemDecl {
	out := make([]ItemDecl, len(b.items))
	copy(out, b.items)
	return out
}

// Register registers the flow and its items on the controller, in
// declaration order. Registration is idempotent, so calling it again on a
// later mount is safe.
func (b *FlowBuilder) Register(ctrl Controller) error {
	if len(b.items) == 0 {
		return fmt.Errorf("flow %s has no items", b.id)
	}
	if err := ctrl.AddHelpFlow(b.id, b.showInitially, b.description); err != nil {
		return err
	}
	for _, item := range b.items {
		if err := ctrl.AddHelpItem(b.id, item.ID, item.Target); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is Register, panicking on error. Useful in host startup code
// where a registration failure is a programming error.
func (b *FlowBuilder) MustRegister(ctrl Controller) {
	if err := b.Register(ctrl); err != nil {
		panic(fmt.Sprintf("helpflow: register flow %s: %v", b.id, err))
	}
}

// DefaultItemID derives the deterministic id used for steps declared without
// one. Stable as long as the flow declares the same targets in the same
// order across sessions.
func DefaultItemID(flow FlowID, target TargetID, index int) ItemID {
	return ItemID(string(flow) + "/" + string(target) + "/" + strconv.Itoa(index))
}

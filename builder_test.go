package helpflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultItemID(t *testing.T) {
	assert.Equal(t, ItemID("onboarding/btn-save/0"), DefaultItemID("onboarding", "btn-save", 0))

	// Two unnamed items on the same target stay distinct.
	assert.NotEqual(t,
		DefaultItemID("onboarding", "btn-save", 0),
		DefaultItemID("onboarding", "btn-save", 1),
	)
}

func TestFlowBuilderResolvesItems(t *testing.T) {
	b := NewFlow("onboarding").
		Describe("Getting started").
		ShowInitially().
		Item("btn-save").
		NamedItem("step-export", "btn-export").
		NamedItem("", "btn-close")

	items := b.Items()
	require.Len(t, items, 3)
	assert.Equal(t, ItemDecl{ID: "onboarding/btn-save/0", Target: "btn-save"}, items[0])
	assert.Equal(t, ItemDecl{ID: "step-export", Target: "btn-export"}, items[1])
	// An empty explicit id falls back to derivation.
	assert.Equal(t, ItemDecl{ID: "onboarding/btn-close/2", Target: "btn-close"}, items[2])
}

func TestFlowBuilderRegister(t *testing.T) {
	ctrl := NewInMemoryController()

	b := NewFlow("onboarding").
		ShowInitially().
		Item("btn-save").
		Item("btn-export")
	require.NoError(t, b.Register(ctrl))

	snap := ctrl.Snapshot()
	flow := snap.Flows["onboarding"]
	assert.True(t, flow.Visible)
	require.Len(t, flow.Items, 2)
	assert.Equal(t, ItemID("onboarding/btn-save/0"), flow.Items[0])

	// Registering again on a later mount is a no-op.
	require.NoError(t, b.Register(ctrl))
	assert.Len(t, ctrl.Snapshot().Flows["onboarding"].Items, 2)
}

func TestFlowBuilderRejectsEmptyFlow(t *testing.T) {
	ctrl := NewInMemoryController()

	err := NewFlow("empty").Register(ctrl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no items")
}

func TestFlowBuilderPanics(t *testing.T) {
	assert.Panics(t, func() { NewFlow("") })
	assert.Panics(t, func() { NewFlow("f").Item("") })
	assert.Panics(t, func() { NewFlow("f").NamedItem("id", "") })
}

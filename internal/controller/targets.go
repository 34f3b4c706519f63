package controller

import "github.com/petrijr/helpflow/pkg/api"

// targetEntry is the registry record for one anchor. ref is the host's
// opaque handle to the live element; highlighters is the set of items
// currently asserting the anchor should be marked. Highlighting is counted
// by a set rather than a boolean because several items may point at the same
// anchor.
type targetEntry struct {
	ref          any
	highlighters map[api.ItemID]struct{}
}

// RegisterTargetItem returns the capability the host UI uses to wire one
// anchor element. Each capability is bound to exactly one target id, so a
// misbehaving ref callback cannot touch other targets.
//
// Target wiring is deliberately not gated on storage readiness: anchors are
// ephemeral app state rebuilt every mount, and recording them early is
// harmless.
func (c *Controller) RegisterTargetItem(target api.TargetID) api.TargetItem {
	return api.TargetItem{
		Ref: func(ref any) {
			c.setTarget(target, ref)
		},
		Active: func() bool {
			return c.targetActive(target)
		},
		Used: func() error {
			return c.SignalUsed(target)
		},
		Highlight: func(item api.ItemID) {
			c.addHighlighter(target, item)
		},
		Unhighlight: func(item api.ItemID) bool {
			return c.removeHighlighter(target, item)
		},
	}
}

func (c *Controller) ensureTargetLocked(target api.TargetID) *targetEntry {
	t, ok := c.targets[target]
	if !ok {
		t = &targetEntry{highlighters: make(map[api.ItemID]struct{})}
		c.targets[target] = t
	}
	return t
}

// setTarget records the live anchor handle. Ref callbacks can fire several
// times within one render pass and in any order; the latest non-nil handle
// always wins. A nil handle reports an unmount: by default the last known
// good handle is kept (a transient nil during re-render must not hide a
// still-mounted anchor), unless the controller was built with
// WithClearRefOnUnmount.
func (c *Controller) setTarget(target api.TargetID, ref any) {
	c.mu.Lock()
	t := c.ensureTargetLocked(target)
	if ref == nil {
		if !c.clearRefOnNil {
			c.mu.Unlock()
			return
		}
		t.ref = nil
	} else {
		t.ref = ref
	}
	snap := c.snapshotLocked()
	ls := c.listenerListLocked()
	c.mu.Unlock()

	for _, l := range ls {
		l(snap)
	}
}

func (c *Controller) targetActive(target api.TargetID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.targets[target]
	return ok && t.ref != nil
}

func (c *Controller) addHighlighter(target api.TargetID, item api.ItemID) {
	c.mu.Lock()
	t := c.ensureTargetLocked(target)
	t.highlighters[item] = struct{}{}
	snap := c.snapshotLocked()
	ls := c.listenerListLocked()
	c.mu.Unlock()

	for _, l := range ls {
		l(snap)
	}
}

// removeHighlighter withdraws item's highlight assertion and reports whether
// it was the last one, meaning the visual mark should now be removed.
func (c *Controller) removeHighlighter(target api.TargetID, item api.ItemID) bool {
	c.mu.Lock()
	t, ok := c.targets[target]
	var wasLast bool
	if ok {
		if _, had := t.highlighters[item]; had {
			delete(t.highlighters, item)
			wasLast = len(t.highlighters) == 0
		}
	}
	snap := c.snapshotLocked()
	ls := c.listenerListLocked()
	c.mu.Unlock()

	for _, l := range ls {
		l(snap)
	}
	return wasLast
}

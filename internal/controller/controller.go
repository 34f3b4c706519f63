package controller

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/petrijr/helpflow/internal/persistence"
	"github.com/petrijr/helpflow/pkg/api"
)

// DefaultStorageKey is the key the controller persists UserState under when
// no other key is configured.
const DefaultStorageKey = "helpflow-user-state"

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the slog.Logger used for diagnostics. Nil means
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver sets the lifecycle observer.
func WithObserver(obs api.Observer) Option {
	return func(c *Controller) {
		if obs != nil {
			c.observer = obs
		}
	}
}

// WithTranslator sets the translator for the fixed UI phrases.
func WithTranslator(t api.Translator) Option {
	return func(c *Controller) {
		if t != nil {
			c.translator = t
		}
	}
}

// WithStorageKey overrides the key UserState is persisted under. Useful when
// several installations share one store.
func WithStorageKey(key string) Option {
	return func(c *Controller) {
		if key != "" {
			c.storageKey = key
		}
	}
}

// WithClearRefOnUnmount makes a nil ref callback clear the stored anchor
// handle. The default keeps the last known good handle, so a transient null
// during a re-render does not hide a still-mounted anchor; the tradeoff is
// that a genuinely removed anchor keeps a stale handle until its next mount.
func WithClearRefOnUnmount() Option {
	return func(c *Controller) {
		c.clearRefOnNil = true
	}
}

type flowEntry struct {
	description   string
	showInitially bool
	visible       bool
	items         []api.ItemID
	activeItem    int
}

type itemEntry struct {
	visible bool
	flow    api.FlowID
	target  api.TargetID
}

// Controller owns the flow/item tables, the index maps, the target registry,
// and the persisted UserState. It is the only mutator of all of them; every
// other component works from snapshots.
type Controller struct {
	mu sync.Mutex

	store      persistence.StateStore
	storageKey string
	logger     *slog.Logger
	observer   api.Observer
	translator api.Translator

	clearRefOnNil bool

	// initialized flips once the store has reported ready and the
	// persisted UserState has been loaded. Mutations arriving earlier are
	// queued on pending and replayed in order, so registration never
	// races the load.
	initialized bool
	pending     []func()

	flows   map[api.FlowID]*flowEntry
	items   map[api.ItemID]*itemEntry
	flowMap map[api.ItemID]api.FlowID
	itemMap map[api.TargetID][]api.ItemID

	// order records this session's flow registration sequence; GetFlowInfo
	// reports from here rather than from persisted state, so flows that
	// only exist in a stale blob are never surfaced.
	order []api.FlowID

	targets map[api.TargetID]*targetEntry

	user api.UserState

	listeners    map[int]api.Listener
	nextListener int
}

var _ api.Controller = (*Controller)(nil)

// New creates a Controller persisting through store. If the store is already
// ready, persisted UserState is loaded immediately; otherwise loading happens
// lazily on the first operation after the store reports ready.
func New(store persistence.StateStore, opts ...Option) *Controller {
	c := &Controller{
		store:      store,
		storageKey: DefaultStorageKey,
		logger:     slog.Default(),
		observer:   api.NoopObserver{},
		translator: api.DefaultTranslator,
		flows:      make(map[api.FlowID]*flowEntry),
		items:      make(map[api.ItemID]*itemEntry),
		flowMap:    make(map[api.ItemID]api.FlowID),
		itemMap:    make(map[api.TargetID][]api.ItemID),
		targets:    make(map[api.TargetID]*targetEntry),
		user:       api.DefaultUserState(),
		listeners:  make(map[int]api.Listener),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mu.Lock()
	c.initLocked()
	c.mu.Unlock()

	return c
}

// initLocked loads persisted state once the store reports ready, then
// replays any deferred operations in their original order. Reports whether
// the controller is initialized.
func (c *Controller) initLocked() bool {
	if c.initialized {
		return true
	}
	if c.store == nil || !c.store.Ready() {
		return false
	}

	c.loadLocked()
	c.initialized = true

	pending := c.pending
	c.pending = nil
	for _, op := range pending {
		op()
	}
	return true
}

// loadLocked reads and merges the persisted blob. Storage failures leave the
// current in-memory state untouched: help keeps working for the session
// without persistence.
func (c *Controller) loadLocked() {
	blob, err := c.store.GetState(c.storageKey, "")
	if err != nil {
		c.logger.Warn("failed to load help state, continuing with defaults",
			slog.Any("error", err))
		return
	}

	st, err := api.DecodeUserState(blob)
	if err != nil {
		c.logger.Warn("stored help state unreadable, continuing with defaults",
			slog.Any("error", err))
		return
	}

	// Flows registered this session keep their lazily-created entries even
	// if the stored blob predates them.
	for _, id := range c.order {
		if _, ok := st.Flows[id]; !ok {
			st.Flows[id] = api.FlowSeen{}
		}
	}
	c.user = st
}

func (c *Controller) persistLocked() {
	blob, err := api.EncodeUserState(c.user)
	if err == nil {
		err = c.store.SaveState(c.storageKey, blob)
	}
	if err != nil {
		c.logger.Warn("failed to persist help state", slog.Any("error", err))
	}
	c.observer.OnStatePersisted(err)
}

// run executes op under the lock and publishes the resulting snapshot. If
// the store has not reported ready yet, op is queued instead and its eventual
// error is logged rather than returned.
func (c *Controller) run(name string, op func() error) error {
	c.mu.Lock()
	if !c.initLocked() {
		c.logger.Debug("operation deferred until storage ready", slog.String("op", name))
		c.pending = append(c.pending, func() {
			if err := op(); err != nil {
				c.logger.Error("deferred operation failed",
					slog.String("op", name), slog.Any("error", err))
			}
		})
		c.mu.Unlock()
		return nil
	}

	err := op()
	snap := c.snapshotLocked()
	ls := c.listenerListLocked()
	c.mu.Unlock()

	for _, l := range ls {
		l(snap)
	}
	return err
}

// AddHelpFlow registers a flow. Re-registration only updates the
// description; runtime state is preserved so hosts can change copy without
// resetting a running tour. An empty description on re-registration keeps
// the existing copy (the id-default applies on first registration only).
func (c *Controller) AddHelpFlow(flow api.FlowID, showInitially bool, description string) error {
	return c.run("AddHelpFlow", func() error {
		c.addHelpFlowLocked(flow, showInitially, description)
		return nil
	})
}

func (c *Controller) addHelpFlowLocked(flow api.FlowID, showInitially bool, description string) {
	if e, ok := c.flows[flow]; ok {
		if description != "" {
			e.description = description
		}
		return
	}

	if description == "" {
		description = string(flow)
	}

	entry, tracked := c.user.Flows[flow]
	if !tracked {
		c.user.Flows[flow] = api.FlowSeen{}
		c.persistLocked()
	}

	// First-time flows auto-show at most once ever: a flow completed or
	// dismissed in an earlier session stays hidden on re-registration.
	visible := showInitially && !entry.Seen

	c.flows[flow] = &flowEntry{
		description:   description,
		showInitially: showInitially,
		visible:       visible,
	}
	c.order = append(c.order, flow)

	c.observer.OnFlowRegistered(flow, showInitially)
	if visible {
		c.observer.OnFlowEnabled(flow, true)
	}
}

// AddHelpItem appends one step to a registered flow. The first item of a
// flow becomes its initial active step.
func (c *Controller) AddHelpItem(flow api.FlowID, item api.ItemID, target api.TargetID) error {
	return c.run("AddHelpItem", func() error {
		return c.addHelpItemLocked(flow, item, target)
	})
}

func (c *Controller) addHelpItemLocked(flow api.FlowID, item api.ItemID, target api.TargetID) error {
	f, ok := c.flows[flow]
	if !ok {
		return fmt.Errorf("%w: %s (registering item %s)", api.ErrUnknownFlow, flow, item)
	}

	if _, ok := c.items[item]; ok {
		return nil
	}

	first := len(f.items) == 0
	c.items[item] = &itemEntry{
		visible: first,
		flow:    flow,
		target:  target,
	}
	f.items = append(f.items, item)
	c.flowMap[item] = flow

	// Fan-out: several items may share one target, but each appears in the
	// target's list once.
	for _, existing := range c.itemMap[target] {
		if existing == item {
			return nil
		}
	}
	c.itemMap[target] = append(c.itemMap[target], item)
	return nil
}

// SignalUsed reports a user interaction with the anchor identified by
// target. Every item mapped to that target which is currently the active
// step of its visible flow is dismissed; inactive siblings are untouched.
//
// An unregistered target is a host wiring bug and returns ErrUnknownTarget.
func (c *Controller) SignalUsed(target api.TargetID) error {
	return c.run("SignalUsed", func() error {
		return c.signalUsedLocked(target)
	})
}

func (c *Controller) signalUsedLocked(target api.TargetID) error {
	ids, ok := c.itemMap[target]
	if !ok {
		return fmt.Errorf("%w: %s (SignalUsed without a registered item)", api.ErrUnknownTarget, target)
	}

	// Decide which items were the active step at signal time before
	// dismissing any of them. Dismissing advances its flow, so when two
	// consecutive steps share the target an interleaved check would cascade
	// through both on a single interaction.
	active := make([]api.ItemID, 0, len(ids))
	for _, id := range ids {
		f, ok := c.flows[c.flowMap[id]]
		if !ok {
			c.logger.Error("item mapped to missing flow",
				slog.String("item", string(id)),
				slog.String("flow", string(c.flowMap[id])))
			continue
		}
		if !f.visible || f.activeItem >= len(f.items) || f.items[f.activeItem] != id {
			continue
		}
		active = append(active, id)
	}

	for _, id := range active {
		if err := c.dismissItemLocked(id); err != nil {
			return err
		}
	}
	return nil
}

// dismissItemLocked completes the current step of the item's flow. Advancing
// past the last step marks the flow seen, hides it, and rewinds it to the
// first step so it restarts from the top the next time it is enabled.
func (c *Controller) dismissItemLocked(item api.ItemID) error {
	it, ok := c.items[item]
	if !ok {
		return fmt.Errorf("%w: %s", api.ErrUnknownItem, item)
	}
	f, ok := c.flows[it.flow]
	if !ok {
		c.logger.Error("item belongs to missing flow",
			slog.String("item", string(item)),
			slog.String("flow", string(it.flow)))
		return fmt.Errorf("%w: %s (item %s)", api.ErrUnknownFlow, it.flow, item)
	}

	it.visible = false

	if f.activeItem+1 >= len(f.items) {
		c.rewindFlowLocked(it.flow, f, true)
		return nil
	}

	f.activeItem++
	next := f.items[f.activeItem]
	c.items[next].visible = true
	c.observer.OnStepAdvanced(it.flow, next, f.activeItem)
	return nil
}

// rewindFlowLocked ends a run of the flow: hides it, parks it back on step
// 0, and makes the first item current again. markSeen additionally records
// the flow as seen in UserState and persists.
func (c *Controller) rewindFlowLocked(id api.FlowID, f *flowEntry, markSeen bool) {
	f.visible = false
	f.activeItem = 0
	for _, itemID := range f.items {
		c.items[itemID].visible = false
	}
	if len(f.items) > 0 {
		c.items[f.items[0]].visible = true
	}

	if markSeen {
		entry := c.user.Flows[id]
		entry.Seen = true
		c.user.Flows[id] = entry
		c.persistLocked()
	}
	c.observer.OnFlowCompleted(id, markSeen)
}

// SignalItemDismissed ends the item's flow for this session without marking
// it seen: the tour will auto-show again next session if configured to.
func (c *Controller) SignalItemDismissed(item api.ItemID) error {
	return c.run("SignalItemDismissed", func() error {
		return c.signalDismissedLocked(item, false)
	})
}

// SignalFlowDismissed ends the item's flow and marks it seen: the user opted
// out of the whole flow, not just the step.
func (c *Controller) SignalFlowDismissed(item api.ItemID) error {
	return c.run("SignalFlowDismissed", func() error {
		return c.signalDismissedLocked(item, true)
	})
}

func (c *Controller) signalDismissedLocked(item api.ItemID, markSeen bool) error {
	it, ok := c.items[item]
	if !ok {
		return fmt.Errorf("%w: %s", api.ErrUnknownItem, item)
	}
	f, ok := c.flows[it.flow]
	if !ok {
		return fmt.Errorf("%w: %s (item %s)", api.ErrUnknownFlow, it.flow, item)
	}
	c.rewindFlowLocked(it.flow, f, markSeen)
	return nil
}

// EnableFlow switches a flow on or off, always rewinding to the first step.
// This is the only way a flow becomes visible besides first-registration
// auto-show. Unknown flows are a logged no-op: hosts legitimately call this
// before the flow's container has mounted.
func (c *Controller) EnableFlow(flow api.FlowID, enable bool) error {
	return c.run("EnableFlow", func() error {
		c.enableFlowLocked(flow, enable)
		return nil
	})
}

func (c *Controller) enableFlowLocked(flow api.FlowID, enable bool) {
	f, ok := c.flows[flow]
	if !ok {
		c.logger.Info("enable requested for unregistered flow",
			slog.String("flow", string(flow)), slog.Bool("enable", enable))
		return
	}

	f.visible = enable
	f.activeItem = 0
	for _, itemID := range f.items {
		c.items[itemID].visible = false
	}
	if len(f.items) > 0 {
		c.items[f.items[0]].visible = enable
	}
	c.observer.OnFlowEnabled(flow, enable)
}

// TriggerFlow shows a flow only if the user has never seen it and it is not
// already running.
func (c *Controller) TriggerFlow(flow api.FlowID) error {
	return c.run("TriggerFlow", func() error {
		f, ok := c.flows[flow]
		if !ok {
			c.logger.Info("trigger requested for unregistered flow",
				slog.String("flow", string(flow)))
			return nil
		}
		if f.visible || c.user.Flows[flow].Seen {
			return nil
		}
		c.enableFlowLocked(flow, true)
		return nil
	})
}

// EnableHelp flips the master switch. Enabling reloads UserState from
// storage first so changes made elsewhere (another tab, a settings page) are
// picked up.
func (c *Controller) EnableHelp(enabled bool) error {
	return c.run("EnableHelp", func() error {
		if enabled {
			c.loadLocked()
		}
		c.user.SystemEnabled = enabled
		c.persistLocked()
		return nil
	})
}

// ReloadUserState re-reads the persisted blob, merging it against the
// canonical default shape.
func (c *Controller) ReloadUserState() error {
	return c.run("ReloadUserState", func() error {
		c.loadLocked()
		return nil
	})
}

// ResetHelp wipes the registered flows, items, and indices together with all
// persisted seen history, and persists the fresh defaults. Targets are app
// state, not system state, and survive: the anchors are still mounted.
func (c *Controller) ResetHelp() error {
	return c.run("ResetHelp", func() error {
		c.flows = make(map[api.FlowID]*flowEntry)
		c.items = make(map[api.ItemID]*itemEntry)
		c.flowMap = make(map[api.ItemID]api.FlowID)
		c.itemMap = make(map[api.TargetID][]api.ItemID)
		c.order = nil
		c.user = api.DefaultUserState()
		c.persistLocked()
		return nil
	})
}

// GetFlowInfo reports the flows registered in this session, in registration
// order.
func (c *Controller) GetFlowInfo() []api.FlowInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initLocked()

	infos := make([]api.FlowInfo, 0, len(c.order))
	for _, id := range c.order {
		f := c.flows[id]
		infos = append(infos, api.FlowInfo{
			ID:          id,
			Description: f.description,
			Visible:     f.visible,
			Seen:        c.user.Flows[id].Seen,
		})
	}
	return infos
}

// GetSystemStatus reports the master switch and whether persisted state has
// been loaded.
func (c *Controller) GetSystemStatus() api.SystemStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initLocked()

	return api.SystemStatus{
		Enabled:     c.user.SystemEnabled,
		Initialized: c.initialized,
	}
}

// Translate maps one of the fixed UI phrases through the configured
// translator.
func (c *Controller) Translate(phrase string) string {
	return c.translator(phrase)
}

// StorageKey returns the key UserState is persisted under.
func (c *Controller) StorageKey() string {
	return c.storageKey
}

// Subscribe registers a listener. It is invoked immediately with the current
// snapshot, then synchronously after every mutation. Listeners must not call
// back into the controller.
func (c *Controller) Subscribe(l api.Listener) func() {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = l
	snap := c.snapshotLocked()
	c.mu.Unlock()

	l(snap)

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Snapshot returns the current immutable state bundle.
func (c *Controller) Snapshot() api.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) listenerListLocked() []api.Listener {
	ls := make([]api.Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	return ls
}

func (c *Controller) snapshotLocked() api.Snapshot {
	snap := api.Snapshot{
		Flows:       make(map[api.FlowID]api.FlowState, len(c.flows)),
		Items:       make(map[api.ItemID]api.ItemState, len(c.items)),
		FlowMap:     make(map[api.ItemID]api.FlowID, len(c.flowMap)),
		ItemMap:     make(map[api.TargetID][]api.ItemID, len(c.itemMap)),
		TargetItems: make(map[api.TargetID]api.TargetInfo, len(c.targets)),
		Enabled:     c.user.SystemEnabled,
		Initialized: c.initialized,
	}

	for id, f := range c.flows {
		items := make([]api.ItemID, len(f.items))
		copy(items, f.items)
		snap.Flows[id] = api.FlowState{
			ID:            id,
			Description:   f.description,
			ShowInitially: f.showInitially,
			Visible:       f.visible,
			Items:         items,
			ActiveItem:    f.activeItem,
		}
	}

	for id, it := range c.items {
		snap.Items[id] = api.ItemState{
			Visible: it.visible,
			Flow:    it.flow,
			Target:  it.target,
		}
	}

	for id, flow := range c.flowMap {
		snap.FlowMap[id] = flow
	}

	for target, ids := range c.itemMap {
		copied := make([]api.ItemID, len(ids))
		copy(copied, ids)
		snap.ItemMap[target] = copied
	}

	for id, t := range c.targets {
		hl := make(map[api.ItemID]struct{}, len(t.highlighters))
		for item := range t.highlighters {
			hl[item] = struct{}{}
		}
		snap.TargetItems[id] = api.TargetInfo{
			Ref:          t.ref,
			Highlighters: hl,
		}
	}

	return snap
}

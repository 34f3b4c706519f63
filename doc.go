// Package helpflow provides an embeddable guided-tour engine for Go-hosted
// user interfaces.
//
// Helpflow tracks sequences of help steps ("flows"), shows the step relevant
// to an on-screen anchor element ("target"), advances when the user
// interacts with that anchor, and remembers which flows the user has already
// seen across restarts. It owns the state machine and persistence; painting
// popups and computing their position stays with the host's rendering layer.
//
// # Core Concepts
//
// The programming model is intentionally small:
//
//  1. Controller
//  2. FlowBuilder
//  3. Targets
//  4. StateStore
//
// # Controller
//
// The Controller is the single authority over help state. It holds the
// registered flows and items, the target registry, and the persisted
// per-user state, and provides APIs to:
//   - register flows and items (idempotently, at mount time)
//   - signal that a target was used, or that a step or flow was dismissed
//   - enable, trigger, and reset flows and the whole system
//   - subscribe to immutable state snapshots
//
// Controllers can persist through different stores:
//
//   - In-memory (non-durable, best for tests)
//   - Diskv (one file per installation, the localStorage analogue)
//   - SQLite (embedded durability)
//
// All state transitions are synchronous and local; listeners registered via
// Subscribe are called after every mutation with a deep-copied snapshot.
//
// # FlowBuilder
//
// FlowBuilder is the declarative registration API. A flow container declares
// its steps in order; items without an explicit id get a deterministic
// default derived from the flow, target, and position:
//
//	helpflow.NewFlow("onboarding").
//	    ShowInitially().
//	    Item("btn-save").
//	    Item("btn-export").
//	    MustRegister(ctrl)
//
// The same declarations can live in a YAML file loaded with LoadFlowFile.
//
// # Targets
//
// The host UI wires each anchor element with RegisterTargetItem, which
// returns a capability bound to that one target: a ref callback for mount
// and unmount, an activity probe, a used signal, and highlight bookkeeping.
// Anchors mount and unmount unpredictably; the controller tolerates ref
// callbacks arriving repeatedly and out of order within a render pass.
//
// # StateStore
//
// Persistence is a key-value store of one opaque JSON blob. The controller
// defers registration and every other mutation until the store reports
// ready, so loading persisted state never races the first writes.
package helpflow

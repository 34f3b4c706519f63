package helpflow

import (
	"context"
	"database/sql"

	"github.com/petrijr/helpflow/internal/controller"
	"github.com/petrijr/helpflow/internal/persistence"
	"github.com/petrijr/helpflow/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Controller           = api.Controller
	FlowID               = api.FlowID
	ItemID               = api.ItemID
	TargetID             = api.TargetID
	FlowState            = api.FlowState
	ItemState            = api.ItemState
	TargetInfo           = api.TargetInfo
	TargetItem           = api.TargetItem
	FlowInfo             = api.FlowInfo
	SystemStatus         = api.SystemStatus
	Snapshot             = api.Snapshot
	Listener             = api.Listener
	UserState            = api.UserState
	FlowSeen             = api.FlowSeen
	Translator           = api.Translator
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver
)

// StateStore is the storage collaborator contract: a key-value store of
// opaque serialized strings plus a readiness flag. Implement it to persist
// help state somewhere the bundled stores don't cover.
type StateStore = persistence.StateStore

// Option configures a controller built by the constructors below.
type Option = controller.Option

// Re-export controller options.

var (
	WithLogger            = controller.WithLogger
	WithObserver          = controller.WithObserver
	WithTranslator        = controller.WithTranslator
	WithStorageKey        = controller.WithStorageKey
	WithClearRefOnUnmount = controller.WithClearRefOnUnmount
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
)

// Re-export the fixed UI phrases.

const (
	PhraseSkip = api.PhraseSkip
	PhraseOK   = api.PhraseOK
)

// Re-export sentinel errors for errors.Is checks.

var (
	ErrUnknownFlow   = api.ErrUnknownFlow
	ErrUnknownItem   = api.ErrUnknownItem
	ErrUnknownTarget = api.ErrUnknownTarget
)

// Controller constructors
// These wrap the internal packages so external callers never need to import
// them.

// NewController returns a Controller persisting through the given store.
// Use this with a custom StateStore implementation.
func NewController(store StateStore, opts ...Option) Controller {
	return controller.New(store, opts...)
}

// NewInMemoryController returns a Controller with no durable persistence.
// Seen state lasts for the session only. Best for tests and previews.
func NewInMemoryController(opts ...Option) Controller {
	return controller.New(persistence.NewInMemoryStore(), opts...)
}

// NewSQLiteController returns a Controller that persists help state in a
// SQLite database.
func NewSQLiteController(db *sql.DB, opts ...Option) (Controller, error) {
	store, err := persistence.NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}
	return controller.New(store, opts...), nil
}

// NewDiskvController returns a Controller that persists help state as a file
// under basePath.
func NewDiskvController(basePath string, opts ...Option) (Controller, error) {
	store, err := persistence.NewDiskvStore(basePath)
	if err != nil {
		return nil, err
	}
	return controller.New(store, opts...), nil
}

// NewDiskvControllerWithReload is NewDiskvController plus a watcher: when
// another process writes the persisted blob, the controller reloads its
// UserState automatically. The watcher stops when ctx is cancelled.
func NewDiskvControllerWithReload(ctx context.Context, basePath string, opts ...Option) (Controller, error) {
	store, err := persistence.NewDiskvStore(basePath)
	if err != nil {
		return nil, err
	}
	c := controller.New(store, opts...)

	events, err := store.Watch(ctx, c.StorageKey())
	if err != nil {
		return nil, err
	}
	go func() {
		for range events {
			_ = c.ReloadUserState()
		}
	}()

	return c, nil
}

package persistence

import "errors"

// ErrStateNotFound is returned by stores when no blob has been saved under
// the requested key yet. Callers normally use the default value rather than
// treating this as a failure.
var ErrStateNotFound = errors.New("state not found")

// StateStore is the storage collaborator the controller persists UserState
// through. It is a key-value store of opaque serialized strings: the store
// needs no awareness of the blob's schema.
//
// Ready reports whether the store can serve reads and writes. The controller
// defers every load and mutating operation until Ready returns true, so that
// registration never races a not-yet-loaded persisted state with a write
// that would clobber it.
type StateStore interface {
	// SaveState persists the serialized blob under key.
	SaveState(key string, value string) error

	// GetState returns the blob stored under key, or defaultValue if
	// nothing has been stored yet.
	GetState(key string, defaultValue string) (string, error)

	// RemoveState deletes the blob stored under key. Removing an absent
	// key is not an error.
	RemoveState(key string) error

	// Ready reports whether the store is able to serve requests.
	Ready() bool
}

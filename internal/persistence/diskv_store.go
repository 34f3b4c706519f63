package persistence

import (
	"fmt"
	"os"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvStore is a StateStore backed by a diskv file store: one file per key
// under BasePath. It is the closest analogue to the browser localStorage the
// help system was designed around, and the cheapest durable option for
// desktop hosts.
type DiskvStore struct {
	d        *diskv.Diskv
	basePath string
}

// Ensure DiskvStore implements StateStore.
var _ StateStore = (*DiskvStore)(nil)

// NewDiskvStore creates a file-backed store rooted at basePath, creating the
// directory if needed.
func NewDiskvStore(basePath string) (*DiskvStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("ensure base path: %w", err)
	}

	return &DiskvStore{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 64 * 1024,
		}),
		basePath: basePath,
	}, nil
}

// BasePath returns the directory the store writes under.
func (s *DiskvStore) BasePath() string { return s.basePath }

func (s *DiskvStore) SaveState(key, value string) error {
	return s.d.Write(key, []byte(value))
}

func (s *DiskvStore) GetState(key, defaultValue string) (string, error) {
	if !s.d.Has(key) {
		return defaultValue, nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		return defaultValue, err
	}
	return string(val), nil
}

func (s *DiskvStore) RemoveState(key string) error {
	err := s.d.Erase(key)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *DiskvStore) Ready() bool {
	_, err := os.Stat(s.basePath)
	return err == nil
}

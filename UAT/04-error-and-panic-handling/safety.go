// Package safety shows how configured failures reach the code under test.
package safety

import (
	"errors"
	"fmt"
)

// Storage persists values by key.
type Storage interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Flush()
}

// ErrMissing is what Storage implementations return for unknown keys.
var ErrMissing = errors.New("missing")

// Copy loads from and saves to storage, flushing only when both succeed.
func Copy(storage Storage, from, to string) error {
	data, err := storage.Load(from)
	if err != nil {
		return fmt.Errorf("load %s: %w", from, err)
	}

	err = storage.Save(to, data)
	if err != nil {
		return fmt.Errorf("save %s: %w", to, err)
	}

	storage.Flush()

	return nil
}

// SafeFlush flushes storage, turning a panic into an error.
func SafeFlush(storage Storage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("flush panicked: %v", r)
		}
	}()

	storage.Flush()

	return nil
}

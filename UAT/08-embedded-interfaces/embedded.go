// Package embedded shows mocks of interfaces built from embedded interfaces, and chained setups
// through methods that return other interfaces.
package embedded

import (
	"fmt"
	"io"
)

// Reader reads values by key.
type Reader interface {
	Read(key string) (string, error)
}

// Writer writes values by key.
type Writer interface {
	Write(key, value string) error
}

// Store combines reading, writing, and closing.
type Store interface {
	Reader
	Writer
	io.Closer
}

// Catalog names a store.
type Catalog interface {
	Name() string
	Store() Store
}

// Migrate rewrites each key under the catalog's name and closes the store.
func Migrate(catalog Catalog, keys ...string) error {
	for _, key := range keys {
		value, err := catalog.Store().Read(key)
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}

		err = catalog.Store().Write(catalog.Name()+"/"+key, value)
		if err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}

	err := catalog.Store().Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

package storage

import (
	"fmt"

	"github.com/spf13/afero"
)

// Open creates the store for the configured backend rooted at dir.
func Open(backend Backend, dir string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(afero.NewOsFs(), dir)
	case BackendSQLite:
		return NewSQLiteStore(dir)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", backend)
	}
}

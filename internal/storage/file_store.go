package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const (
	valueSuffix = ".json"
	lockFile    = ".zhice.lock"
	txLockFile  = ".zhice.tx.lock"
)

// FileStore keeps each key in its own file under a directory. Writes go to a
// temp file first and are renamed into place, so a reader never sees a
// partial value.
type FileStore struct {
	fs  afero.Fs
	dir string
	flk *flock.Flock // nil when the filesystem is not the OS filesystem

	txMu   sync.Mutex
	txLock *flock.Flock // nil when the filesystem is not the OS filesystem
}

// NewFileStore creates a store rooted at dir on the given filesystem.
// When fsys is the OS filesystem, writes also take an inter-process lock so
// two CLI invocations cannot interleave.
func NewFileStore(fsys afero.Fs, dir string) (*FileStore, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	s := &FileStore{fs: fsys, dir: dir}
	if _, ok := fsys.(*afero.OsFs); ok {
		s.flk = flock.New(filepath.Join(dir, lockFile))
		s.txLock = flock.New(filepath.Join(dir, txLockFile))
	}
	return s, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+valueSuffix)
}

// Get reads the value for key.
func (s *FileStore) Get(key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	if s.flk != nil {
		if err := s.flk.RLock(); err != nil {
			return "", false, fmt.Errorf("acquire read lock: %w", err)
		}
		defer func() { _ = s.flk.Unlock() }()
	}

	data, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set replaces the value for key.
func (s *FileStore) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if s.flk != nil {
		if err := s.flk.Lock(); err != nil {
			return fmt.Errorf("acquire write lock: %w", err)
		}
		defer func() { _ = s.flk.Unlock() }()
	}

	final := s.path(key)
	tmp := fmt.Sprintf("%s.%s.tmp", final, uuid.NewString()[:8])
	if err := afero.WriteFile(s.fs, tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp, final); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *FileStore) Delete(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if s.flk != nil {
		if err := s.flk.Lock(); err != nil {
			return fmt.Errorf("acquire write lock: %w", err)
		}
		defer func() { _ = s.flk.Unlock() }()
	}

	if err := s.fs.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Lock takes the store-wide exclusive lock. It uses its own lock file, so
// the per-call locks in Get, Set and Delete still work while it is held.
func (s *FileStore) Lock() (func(), error) {
	s.txMu.Lock()
	if s.txLock == nil {
		return s.txMu.Unlock, nil
	}
	if err := s.txLock.Lock(); err != nil {
		s.txMu.Unlock()
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	return func() {
		_ = s.txLock.Unlock()
		s.txMu.Unlock()
	}, nil
}

// Close releases the lock file handles.
func (s *FileStore) Close() error {
	if s.flk == nil {
		return nil
	}
	return errors.Join(s.flk.Close(), s.txLock.Close())
}

package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract runs the shared Store behaviour against an implementation.
func storeContract(t *testing.T, s Store) {
	t.Helper()

	_, ok, err := s.Get("zhice_user_plan_v1")
	require.NoError(t, err)
	assert.False(t, ok, "fresh store must report a missing key")

	require.NoError(t, s.Set("zhice_user_plan_v1", `{"id":"a"}`))
	v, ok, err := s.Get("zhice_user_plan_v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"a"}`, v)

	require.NoError(t, s.Set("zhice_user_plan_v1", `{"id":"b"}`))
	v, _, err = s.Get("zhice_user_plan_v1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"b"}`, v, "set replaces, never merges")

	require.NoError(t, s.Set("other", "x"))
	require.NoError(t, s.Delete("zhice_user_plan_v1"))
	_, ok, err = s.Get("zhice_user_plan_v1")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err = s.Get("other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	require.NoError(t, s.Delete("never-written"), "deleting a missing key is a no-op")

	require.NoError(t, s.Set("empty", ""))
	v, ok, err = s.Get("empty")
	require.NoError(t, err)
	assert.True(t, ok, "an empty value is still present")
	assert.Empty(t, v)
}

func TestFileStore_MemFs(t *testing.T) {
	s, err := NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	storeContract(t, s)
}

func TestFileStore_OsFsWithLock(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := NewFileStore(afero.NewOsFs(), dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	require.NotNil(t, s.flk)
	storeContract(t, s)
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := NewFileStore(fs, "/data")
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "v1"))
	require.NoError(t, s.Set("k", "v2"))

	entries, err := afero.ReadDir(fs, "/data")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "k.json", entries[0].Name())
}

func TestSQLiteStore_Memory(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	storeContract(t, s)
}

func TestSQLiteStore_File(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSQLiteStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "persisted"))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}

func TestInvalidKeys(t *testing.T) {
	s, err := NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)

	for _, key := range []string{"", "  ", "../escape", "a/b", ".."} {
		t.Run(key, func(t *testing.T) {
			assert.ErrorIs(t, s.Set(key, "v"), ErrInvalidKey)
			_, _, err := s.Get(key)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{in: "", want: BackendFile},
		{in: "file", want: BackendFile},
		{in: " SQLite ", want: BackendSQLite},
		{in: "redis", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseBackend(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(BackendSQLite, t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(BackendFile, t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open("bogus", t.TempDir())
	assert.Error(t, err)
}

// lockExcludes checks that b cannot take the store lock while a holds it, and
// that a can still read and write under its own lock.
func lockExcludes(t *testing.T, a, b Locker) {
	t.Helper()
	unlock, err := a.Lock()
	require.NoError(t, err)

	if s, ok := a.(Store); ok {
		require.NoError(t, s.Set("k", "v"), "writes work while the lock is held")
		_, found, err := s.Get("k")
		require.NoError(t, err)
		assert.True(t, found)
	}

	acquired := make(chan struct{})
	go func() {
		release, err := b.Lock()
		if err == nil {
			release()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired the lock while the first held it")
	case <-time.After(100 * time.Millisecond):
	}
	unlock()
	select {
	case <-acquired:
	case <-time.After(5 * time.Second):
		t.Fatal("lock was not released")
	}
}

func TestFileStore_LockAcrossHandles(t *testing.T) {
	dir := t.TempDir()
	a, err := NewFileStore(afero.NewOsFs(), dir)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()
	b, err := NewFileStore(afero.NewOsFs(), dir)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	lockExcludes(t, a, b)
}

func TestFileStore_LockMemFs(t *testing.T) {
	s, err := NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	lockExcludes(t, s, s)
}

func TestSQLiteStore_LockAcrossHandles(t *testing.T) {
	dir := t.TempDir()
	a, err := NewSQLiteStore(dir)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()
	b, err := NewSQLiteStore(dir)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	lockExcludes(t, a, b)
}

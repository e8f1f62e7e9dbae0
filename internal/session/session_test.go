package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	s := New(NewMemoryStorage(), zerolog.Nop())

	assert.False(t, s.IsAuthenticated())
	_, ok := s.GetToken()
	assert.False(t, ok)

	s.SetToken("x")
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "x", s.Token())

	s.ClearToken()
	assert.False(t, s.IsAuthenticated())

	// clearing twice is harmless
	s.ClearToken()
	assert.False(t, s.IsAuthenticated())
}

func TestEmptyTokenIsNotAuthenticated(t *testing.T) {
	s := New(NewMemoryStorage(), zerolog.Nop())
	s.SetToken("")
	_, ok := s.GetToken()
	assert.True(t, ok)
	assert.False(t, s.IsAuthenticated())
}

func TestFileStoragePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")

	fs, err := OpenFileStorage(path)
	require.NoError(t, err)
	s := New(fs, zerolog.Nop())
	assert.False(t, s.IsAuthenticated())
	s.SetToken("abc")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := OpenFileStorage(path)
	require.NoError(t, err)
	s2 := New(reopened, zerolog.Nop())
	assert.Equal(t, "abc", s2.Token())

	s2.ClearToken()
	reopened, err = OpenFileStorage(path)
	require.NoError(t, err)
	assert.False(t, New(reopened, zerolog.Nop()).IsAuthenticated())
}

func TestFileStorageMigratesLegacyKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: old-token\n"), 0o600))

	fs, err := OpenFileStorage(path)
	require.NoError(t, err)
	v, ok := fs.Get(TokenKey)
	assert.True(t, ok)
	assert.Equal(t, "old-token", v)
	_, ok = fs.Get(legacyTokenKey)
	assert.False(t, ok)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Token: old-token")
}

func TestFileStorageRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))
	_, err := OpenFileStorage(path)
	assert.Error(t, err)

	_, err = OpenFileStorage("")
	assert.Error(t, err)
}

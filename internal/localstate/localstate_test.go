package localstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestState_InMemory(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)

	require.Empty(t, s.UserName())
	require.NoError(t, s.SetUserName("Ann"))
	require.Equal(t, "Ann", s.UserName())

	require.NoError(t, s.Remember("aaaaaaaa", "p1"))
	require.NoError(t, s.Remember("bbbbbbbb", "p2"))
	require.NoError(t, s.Remember("aaaaaaaa", "p3"))
	require.Equal(t, []string{"aaaaaaaa", "bbbbbbbb"}, s.Reflog())

	pw, ok := s.Password("aaaaaaaa")
	require.True(t, ok)
	require.Equal(t, "p3", pw)

	require.NoError(t, s.Forget("aaaaaaaa"))
	_, ok = s.Password("aaaaaaaa")
	require.False(t, ok)
	require.Equal(t, []string{"bbbbbbbb"}, s.Reflog())
}

func TestState_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetUserName("Ann Lee"))
	require.NoError(t, s.Remember("abcd1234", "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, "Ann Lee", reopened.UserName())

	pw, ok := reopened.Password("abcd1234")
	require.True(t, ok)
	require.Equal(t, "secret", pw)
}

func TestOpen_Errors(t *testing.T) {
	t.Run("missing file is empty state", func(t *testing.T) {
		s, err := Open(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		require.Empty(t, s.Reflog())
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("reflog: [oops"), 0o600))

		_, err := Open(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "decode")
	})
}

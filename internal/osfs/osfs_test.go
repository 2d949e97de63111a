package osfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHost_ReadWriteFile(t *testing.T) {
	h := NewHost()
	path := filepath.Join(t.TempDir(), "sub", "note.txt")

	require.NoError(t, h.WriteFile(path, []byte("hello")))

	data, err := h.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	s, err := h.ReadFileString(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestHost_ReadFile_Missing(t *testing.T) {
	h := NewHost()
	_, err := h.ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestHost_ListDir(t *testing.T) {
	h := NewHost()
	dir := t.TempDir()
	require.NoError(t, h.WriteFile(filepath.Join(dir, "a.txt"), nil))
	require.NoError(t, h.MkdirAll(filepath.Join(dir, "b")))

	names, err := h.ListDir(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "b"}, names)

	_, err = h.ListDir(filepath.Join(dir, "a.txt"))
	assert.Error(t, err)
}

func TestHost_RemoveAndPredicates(t *testing.T) {
	h := NewHost()
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, h.WriteFile(file, []byte("x")))

	assert.True(t, h.PathExists(file))
	assert.True(t, h.IsFile(file))
	assert.False(t, h.IsDir(file))
	assert.True(t, h.IsDir(dir))

	require.NoError(t, h.Remove(file))
	assert.False(t, h.PathExists(file))

	nested := filepath.Join(dir, "x", "y")
	require.NoError(t, h.MkdirAll(nested))
	require.NoError(t, h.RemoveAll(filepath.Join(dir, "x")))
	assert.False(t, h.PathExists(nested))
}

func TestHost_ChdirGetwd(t *testing.T) {
	h := NewHost()
	orig, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(orig) }()

	dir := t.TempDir()
	require.NoError(t, h.Chdir(dir))

	wd, err := h.Getwd()
	require.NoError(t, err)
	// TempDir may be a symlink on some platforms; compare resolved paths.
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(wd)
	assert.Equal(t, want, got)

	assert.Error(t, h.Chdir(filepath.Join(dir, "missing")))
}

func TestBufferConsole(t *testing.T) {
	b := NewBufferConsole()
	b.PrintLine("one")
	b.PrintLine("two")
	assert.Equal(t, []string{"one", "two"}, b.Lines())
	assert.Equal(t, "one\ntwo", b.String())

	b.Reset()
	assert.Empty(t, b.Lines())
}

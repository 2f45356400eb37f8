package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestEnsureLogDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, EnsureLogDir(dir))
	require.NoError(t, EnsureLogDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNameFromPath(t *testing.T) {
	assert.Equal(t, "train", NameFromPath(filepath.Join("logging", "logs", "train.log")))
	assert.Equal(t, "a.b", NameFromPath("a.b.log"))
	assert.Equal(t, LogPath("d", "x"), filepath.Join("d", "x.log"))
}

func TestFindLogFiles_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "custom.txt")
	touch(t, explicit)
	touch(t, filepath.Join(dir, "other.log"))

	paths, err := FindLogFiles(dir, []string{"other"}, explicit)

	require.NoError(t, err)
	assert.Equal(t, []string{explicit}, paths)
}

func TestFindLogFiles_ExplicitPathMissing(t *testing.T) {
	_, err := FindLogFiles(t.TempDir(), nil, "/nonexistent/file.log")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "log file not found")
}

func TestFindLogFiles_Named(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "train.log"))
	touch(t, filepath.Join(dir, "eval.log"))

	paths, err := FindLogFiles(dir, []string{"eval", "missing", "train"}, "")

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "eval.log"), filepath.Join(dir, "train.log")}, paths)
}

func TestFindLogFiles_GlobSorted(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "zeta.log"))
	touch(t, filepath.Join(dir, "alpha.log"))
	touch(t, filepath.Join(dir, "notes.txt"))

	paths, err := FindLogFiles(dir, nil, "")

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "alpha.log"), filepath.Join(dir, "zeta.log")}, paths)
}

func TestFindLogFiles_NoneFound(t *testing.T) {
	dir := t.TempDir()

	_, err := FindLogFiles(dir, []string{"train"}, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no log files found")
	assert.Contains(t, err.Error(), filepath.Join(dir, "train.log"))
	assert.Contains(t, err.Error(), "namedlog emit")
}

func TestListInstances(t *testing.T) {
	// Given: two sinks, one ending with a continuation line, plus a non-log file
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "train.log"), []byte(
		"2026-03-04 05:06:07,089 - train - INFO - epoch 1\n"+
			"2026-03-04 05:06:08,000 - train - ERROR - boom\n"+
			"Traceback line\n"), 0o644))
	touch(t, filepath.Join(dir, "eval.log"))
	touch(t, filepath.Join(dir, "notes.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old.log"), 0o755))

	// When: listing instances
	files, err := ListInstances(dir)

	// Then: only regular .log files are listed, sorted by name
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "eval", files[0].Name)
	assert.Equal(t, int64(0), files[0].Size)
	assert.False(t, files[0].Last.IsValid)

	assert.Equal(t, "train", files[1].Name)
	assert.Equal(t, filepath.Join(dir, "train.log"), files[1].Path)
	assert.Positive(t, files[1].Size)
	assert.False(t, files[1].Modified.IsZero())
	assert.True(t, files[1].Last.IsValid)
	assert.Equal(t, "ERROR", files[1].Last.Level)
	assert.Equal(t, "boom", files[1].Last.Msg)
}

func TestListInstances_MissingDir(t *testing.T) {
	files, err := ListInstances(filepath.Join(t.TempDir(), "absent"))

	require.NoError(t, err)
	assert.Empty(t, files)
}

package save

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatest(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "autosave_1.gz")
	newer := filepath.Join(dir, "autosave_2.gz")
	ignored := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(older, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(ignored, []byte("x"), 0644))

	// Deterministic ordering regardless of filesystem timestamp resolution.
	now := time.Now()
	require.NoError(t, os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour)))
	require.NoError(t, os.Chtimes(newer, now, now))

	latest, err := Latest(dir)
	require.NoError(t, err)
	assert.Equal(t, newer, latest)
}

func TestLatest_EmptyDir(t *testing.T) {
	_, err := Latest(t.TempDir())

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ReasonNotFound, loadErr.Reason)
}

func TestLatest_MissingDir(t *testing.T) {
	_, err := Latest(filepath.Join(t.TempDir(), "nope"))

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ReasonNotFound, loadErr.Reason)
}

func TestList_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.gz")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("xx"), 0644))

	now := time.Now()
	require.NoError(t, os.Chtimes(a, now.Add(-time.Minute), now.Add(-time.Minute)))
	require.NoError(t, os.Chtimes(b, now, now))

	saves, err := List(dir)
	require.NoError(t, err)
	require.Len(t, saves, 2)
	assert.Equal(t, "b.gz", saves[0].Name)
	assert.Equal(t, "a.json", saves[1].Name)
	assert.Equal(t, int64(2), saves[0].Size)
}

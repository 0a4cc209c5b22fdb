package save

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func writeGzip(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write(data)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return path
}

func TestLoad_PlainJSON(t *testing.T) {
	path := writeFile(t, "save.json", []byte(`{"gamestates": {"a": []}}`))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, doc, "gamestates")
}

func TestLoad_Gzip(t *testing.T) {
	path := writeGzip(t, "save.gz", []byte(`{"gamestates": {}}`))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, doc, "gamestates")
}

func TestLoad_StripsBOM(t *testing.T) {
	// Saves written on Windows start with a UTF-8 BOM.
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"ok": true}`)...)
	path := writeFile(t, "save.json", data)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, true, doc["ok"])
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ReasonNotFound, loadErr.Reason)
}

func TestLoad_Empty(t *testing.T) {
	path := writeFile(t, "save.json", []byte("   \n"))

	_, err := Load(path)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ReasonEmpty, loadErr.Reason)
}

func TestLoad_NotParseable(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "corrupt json", data: []byte(`{"gamestates": `)},
		{name: "non-object root", data: []byte(`[1, 2, 3]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "save.json", tt.data)

			_, err := Load(path)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, ReasonNotParseable, loadErr.Reason)
		})
	}
}

func TestLoad_CorruptGzip(t *testing.T) {
	path := writeFile(t, "save.gz", []byte("not gzip at all"))

	_, err := Load(path)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ReasonNotParseable, loadErr.Reason)
}

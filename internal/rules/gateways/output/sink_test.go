package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, doc Document) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := doc.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestFileSink_CreatesDirectoriesAndWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "rules.txt")
	doc := Document{Rules: []string{"||x.example^"}, Sources: []string{"q.log"}, Generated: generated}

	sink := NewFileSink(path)
	require.NoError(t, sink.Write(doc))
	assert.Equal(t, path, sink.Destination())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, render(t, doc), string(data))
}

func TestFileSink_OverwritesExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.txt")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("stale\n"), 100), 0o644))

	doc := Document{Rules: []string{"||fresh.example^"}, Generated: generated}
	require.NoError(t, NewFileSink(path).Write(doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, render(t, doc), string(data))
	assert.NotContains(t, string(data), "stale")
}

func TestFileSink_ExistingDirectoryIsFine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.txt")
	require.NoError(t, NewFileSink(path).Write(Document{Generated: generated}))
	require.NoError(t, NewFileSink(path).Write(Document{Generated: generated}))
}

func TestFileSink_BareFileName(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, NewFileSink("rules.txt").Write(Document{Generated: generated}))
	_, err := os.Stat("rules.txt")
	assert.NoError(t, err)
}

func TestFileSink_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := NewFileSink(filepath.Join(blocker, "rules.txt")).Write(Document{Generated: generated})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating output directory")

	err = NewFileSink(dir).Write(Document{Generated: generated})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating output file")
}

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	doc := Document{Rules: []string{"||a.example^"}, Sources: []string{"a.log"}, Generated: generated}

	sink := NewConsoleSink(&buf)
	require.NoError(t, sink.Write(doc))
	assert.Equal(t, "stdout", sink.Destination())
	assert.Equal(t, render(t, doc), buf.String())

	assert.NotNil(t, NewConsoleSink(nil).w)
}

func TestConsoleSink_WriteFailure(t *testing.T) {
	err := NewConsoleSink(errWriter{}).Write(Document{Generated: generated})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing rules to console")
}

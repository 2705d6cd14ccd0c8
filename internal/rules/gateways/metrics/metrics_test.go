package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/qlog2rules/internal/rules/repos/querylog"
)

func sampleRun() Run {
	return Run{
		Lines:          querylog.Stats{Lines: 10, Blank: 1, Malformed: 2, Invalid: 1, NotBlocked: 3, NoHost: 1, Matched: 2},
		FilesProcessed: 2,
		FilesMissing:   1,
		Rules:          2,
		Finished:       time.Unix(1700000000, 0),
		Duration:       1500 * time.Millisecond,
	}
}

func TestNewRegistry_Gathers(t *testing.T) {
	families, err := NewRegistry(sampleRun()).Gather()
	require.NoError(t, err)

	byName := map[string]int{}
	for _, mf := range families {
		byName[mf.GetName()] = len(mf.GetMetric())
	}
	assert.Equal(t, 7, byName["qlog2rules_lines"])
	assert.Equal(t, 3, byName["qlog2rules_files"])
	assert.Equal(t, 1, byName["qlog2rules_rules"])
	assert.Equal(t, 1, byName["qlog2rules_last_run_timestamp_seconds"])
	assert.Equal(t, 1, byName["qlog2rules_last_run_duration_seconds"])
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textfile", "qlog2rules.prom")

	require.NoError(t, WriteTextfile(path, sampleRun()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "# TYPE qlog2rules_rules gauge")
	assert.Contains(t, text, "qlog2rules_rules 2\n")
	assert.Contains(t, text, `qlog2rules_lines{class="matched"} 2`)
	assert.Contains(t, text, `qlog2rules_lines{class="malformed"} 2`)
	assert.Contains(t, text, `qlog2rules_files{state="missing"} 1`)
	assert.Contains(t, text, "qlog2rules_last_run_duration_seconds 1.5")
}

func TestWriteTextfile_BadDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteTextfile(filepath.Join(blocker, "m.prom"), sampleRun())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating metrics directory")
}

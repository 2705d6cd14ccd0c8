package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/haukened/qlog2rules/internal/rules/repos/querylog"
)

// Run summarizes one extraction for export.
type Run struct {
	Lines          querylog.Stats
	FilesProcessed int
	FilesMissing   int
	FilesFailed    int
	Rules          int
	Finished       time.Time
	Duration       time.Duration
}

// NewRegistry returns a private registry holding the gauges for run.
func NewRegistry(run Run) *prometheus.Registry {
	lines := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qlog2rules_lines",
			Help: "Query-log lines read in the last run by classification",
		},
		[]string{"class"},
	)
	files := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qlog2rules_files",
			Help: "Input files in the last run by outcome",
		},
		[]string{"state"},
	)
	rules := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "qlog2rules_rules",
		Help: "Rules emitted by the last run",
	})
	finished := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "qlog2rules_last_run_timestamp_seconds",
		Help: "Unix time the last run finished",
	})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "qlog2rules_last_run_duration_seconds",
		Help: "Wall-clock duration of the last run",
	})

	lines.WithLabelValues("total").Set(float64(run.Lines.Lines))
	lines.WithLabelValues("blank").Set(float64(run.Lines.Blank))
	lines.WithLabelValues("malformed").Set(float64(run.Lines.Malformed))
	lines.WithLabelValues("invalid").Set(float64(run.Lines.Invalid))
	lines.WithLabelValues("not_blocked").Set(float64(run.Lines.NotBlocked))
	lines.WithLabelValues("no_host").Set(float64(run.Lines.NoHost))
	lines.WithLabelValues("matched").Set(float64(run.Lines.Matched))

	files.WithLabelValues("processed").Set(float64(run.FilesProcessed))
	files.WithLabelValues("missing").Set(float64(run.FilesMissing))
	files.WithLabelValues("failed").Set(float64(run.FilesFailed))

	rules.Set(float64(run.Rules))
	if !run.Finished.IsZero() {
		finished.Set(float64(run.Finished.Unix()))
	}
	duration.Set(run.Duration.Seconds())

	reg := prometheus.NewRegistry()
	reg.MustRegister(lines, files, rules, finished, duration)
	return reg
}

// WriteTextfile writes run in the Prometheus text format to path, for
// node_exporter's textfile collector. The parent directory is created if
// needed; the file is replaced atomically.
func WriteTextfile(path string, run Run) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, NewRegistry(run)); err != nil {
		return fmt.Errorf("writing metrics file %s: %w", path, err)
	}
	return nil
}

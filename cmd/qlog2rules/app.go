package main

import (
	"fmt"
	"io"
	"time"

	"github.com/haukened/qlog2rules/internal/rules/common/clock"
	"github.com/haukened/qlog2rules/internal/rules/common/log"
	"github.com/haukened/qlog2rules/internal/rules/config"
	"github.com/haukened/qlog2rules/internal/rules/gateways/metrics"
	"github.com/haukened/qlog2rules/internal/rules/gateways/output"
	"github.com/haukened/qlog2rules/internal/rules/repos/querylog"
	"github.com/haukened/qlog2rules/internal/rules/services/extractor"
)

// Application holds the components of one extraction run.
type Application struct {
	config    *config.AppConfig
	clock     clock.Clock
	logger    log.Logger
	extractor *extractor.Extractor
	sink      output.Sink
	// status receives the human-readable summary after a file write.
	status io.Writer
}

// buildApplication wires the extractor and the output sink from cfg.
// Console output goes to stdout; status goes to the same stream, which is
// free whenever rules are written to a file.
func buildApplication(cfg *config.AppConfig, stdout io.Writer, clk clock.Clock, logger log.Logger) *Application {
	var sink output.Sink
	if cfg.Output != "" {
		sink = output.NewFileSink(cfg.Output)
	} else {
		sink = output.NewConsoleSink(stdout)
	}

	ex := extractor.New(extractor.Options{
		Logger: logger,
		Source: querylog.FileSource{},
		Unique: cfg.Unique,
		Apex:   cfg.Apex,
	})

	return &Application{
		config:    cfg,
		clock:     clk,
		logger:    logger,
		extractor: ex,
		sink:      sink,
		status:    stdout,
	}
}

// Run extracts rules from every configured log and writes them to the sink.
// Only a failure to write the rules is returned; skipped inputs and lines
// have already been reported through the logger.
func (app *Application) Run() (*extractor.Result, error) {
	start := app.clock.Now()

	res := app.extractor.Extract(app.config.LogFiles)

	doc := output.Document{
		Rules:     res.Rules.Sorted(),
		Sources:   res.Processed,
		Generated: app.clock.Now(),
	}
	if err := app.sink.Write(doc); err != nil {
		return res, err
	}

	if app.config.Output != "" {
		qualifier := ""
		if res.Rules.Unique() {
			qualifier = "unique "
		}
		fmt.Fprintf(app.status, "Generated %d %srules, saved to %s\n", len(doc.Rules), qualifier, app.sink.Destination())
	}
	app.logger.Debug(map[string]any{
		"count":  len(doc.Rules),
		"unique": res.Rules.Unique(),
		"output": app.sink.Destination(),
	}, "rules_written")

	if app.config.MetricsFile != "" {
		app.writeMetrics(res, doc.Generated.Sub(start))
	}
	return res, nil
}

// writeMetrics exports run counters. A failure here is logged only: the
// rules themselves were already delivered.
func (app *Application) writeMetrics(res *extractor.Result, elapsed time.Duration) {
	run := metrics.Run{
		Lines:          res.Lines,
		FilesProcessed: len(res.Processed),
		FilesMissing:   len(res.Missing),
		FilesFailed:    len(res.Failed),
		Rules:          res.Rules.Len(),
		Finished:       app.clock.Now(),
		Duration:       elapsed,
	}
	if err := metrics.WriteTextfile(app.config.MetricsFile, run); err != nil {
		app.logger.Warn(map[string]any{"file": app.config.MetricsFile, "error": err.Error()}, "metrics_write_failed")
		return
	}
	app.logger.Debug(map[string]any{"file": app.config.MetricsFile}, "metrics_written")
}

package extractor

import (
	"github.com/haukened/qlog2rules/internal/rules/common/log"
	"github.com/haukened/qlog2rules/internal/rules/common/utils"
	"github.com/haukened/qlog2rules/internal/rules/domain"
	"github.com/haukened/qlog2rules/internal/rules/repos/querylog"
)

// Extractor turns query logs into block rules for every query that a user
// filtering rule intercepted. It keeps no state between calls to Extract.
type Extractor struct {
	logger log.Logger
	source LogSource
	unique bool
	apex   bool
}

type Options struct {
	Logger log.Logger
	// Source defaults to querylog.FileSource when nil.
	Source LogSource
	// Unique selects a deduplicating collection.
	Unique bool
	// Apex reduces each queried host to its registrable domain before the
	// rule is formatted.
	Apex bool
}

func New(opts Options) *Extractor {
	e := &Extractor{
		logger: opts.Logger,
		source: opts.Source,
		unique: opts.Unique,
		apex:   opts.Apex,
	}
	if e.logger == nil {
		e.logger = log.NewNoopLogger()
	}
	if e.source == nil {
		e.source = querylog.FileSource{}
	}
	return e
}

// Result is everything one extraction run produced.
type Result struct {
	// Rules holds every rule found across all inputs.
	Rules domain.RuleCollection
	// Processed lists, in request order, the inputs that were opened.
	// It drives the provenance section of the rendered header.
	Processed []string
	// Missing lists inputs that did not exist.
	Missing []string
	// Failed lists inputs that could not be opened or read to the end.
	// An input that failed mid-read also appears in Processed.
	Failed []string
	// Lines aggregates line classification over every processed input.
	Lines querylog.Stats
}

// Extract processes paths in order. No single input or line can fail the
// run: missing inputs are skipped with a warning, unreadable ones with an
// error, and bad lines are handled by querylog.Read.
func (e *Extractor) Extract(paths []string) *Result {
	res := &Result{Rules: domain.NewRuleCollection(e.unique)}

	e.logger.Info(map[string]any{
		"files":  len(paths),
		"unique": e.unique,
		"apex":   e.apex,
	}, "extract_start")

	for _, path := range paths {
		e.extractFile(path, res)
	}

	e.logger.Info(map[string]any{
		"files_processed": len(res.Processed),
		"files_missing":   len(res.Missing),
		"files_failed":    len(res.Failed),
		"lines":           res.Lines.Lines,
		"matched":         res.Lines.Matched,
		"malformed":       res.Lines.Malformed,
		"invalid":         res.Lines.Invalid,
		"rules":           res.Rules.Len(),
	}, "extract_done")
	return res
}

func (e *Extractor) extractFile(path string, res *Result) {
	exists, err := e.source.Exists(path)
	if err != nil {
		e.logger.Error(map[string]any{"file": path, "error": err.Error()}, "input_open_failed")
		res.Failed = append(res.Failed, path)
		return
	}
	if !exists {
		e.logger.Warn(map[string]any{"file": path}, "input_missing")
		res.Missing = append(res.Missing, path)
		return
	}

	rc, err := e.source.Open(path)
	if err != nil {
		e.logger.Error(map[string]any{"file": path, "error": err.Error()}, "input_open_failed")
		res.Failed = append(res.Failed, path)
		return
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			e.logger.Debug(map[string]any{"file": path, "error": cerr.Error()}, "input_close_failed")
		}
	}()
	res.Processed = append(res.Processed, path)

	st, err := querylog.Read(rc, path, e.logger, func(m querylog.Match) {
		res.Rules.Add(domain.FormatRule(e.ruleName(m.Host)))
	})
	res.Lines.Add(st)
	if err != nil {
		e.logger.Error(map[string]any{"file": path, "error": err.Error()}, "input_read_failed")
		res.Failed = append(res.Failed, path)
		return
	}

	e.logger.Debug(map[string]any{
		"file":    path,
		"lines":   st.Lines,
		"matched": st.Matched,
		"skipped": st.Skipped(),
	}, "input_done")
}

func (e *Extractor) ruleName(host string) string {
	if !e.apex {
		return host
	}
	if apex := utils.GetApexDomain(host); apex != "" {
		return apex
	}
	return host
}

// Package engine sequences one extraction run: load the save document,
// build the entity registry, run every extractor with per-table fault
// isolation, write the produced datasets and summarize the outcome.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/MartinUnity/games-terra-invicta/internal/dataset"
	"github.com/MartinUnity/games-terra-invicta/internal/extract"
	"github.com/MartinUnity/games-terra-invicta/internal/registry"
	"github.com/MartinUnity/games-terra-invicta/internal/save"
	"github.com/MartinUnity/games-terra-invicta/internal/state"
)

// Exit codes. A load failure produces no tables at all and is distinct
// from a run that degraded but still wrote something.
const (
	ExitOK         = 0
	ExitLoadFailed = 1
	ExitDegraded   = 2
)

// Config holds one run's inputs.
type Config struct {
	// SavePath is the save document to extract.
	SavePath string

	// OutputDir receives one .csv and one .jsonl file per table.
	OutputDir string

	// Collections overrides or extends the default kind→collection map,
	// for forward compatibility with renamed save collections.
	Collections map[string]string

	// TrackedEntities is the optional nation allow-list (see extract.Config).
	TrackedEntities []string

	// History, when non-nil, receives the nations table of each run.
	History *state.Store

	Logger *slog.Logger
}

// TableResult is the outcome of one extractor.
type TableResult struct {
	Name       string
	Rows       int
	Unresolved int
	Written    bool

	// Err is the extractor failure or write error that skipped this table;
	// nil when the table was written.
	Err error
}

// Summary is the end-of-run report.
type Summary struct {
	SavePath   string
	GameDate   string
	Tables     []TableResult
	Collisions int
	HistoryErr error
	Duration   time.Duration
}

// TablesWritten counts successfully written tables.
func (s *Summary) TablesWritten() int {
	n := 0
	for _, t := range s.Tables {
		if t.Written {
			n++
		}
	}
	return n
}

// RowsWritten sums rows across written tables.
func (s *Summary) RowsWritten() int {
	n := 0
	for _, t := range s.Tables {
		if t.Written {
			n += t.Rows
		}
	}
	return n
}

// Unresolved sums unresolved-reference counts across written tables.
func (s *Summary) Unresolved() int {
	n := 0
	for _, t := range s.Tables {
		n += t.Unresolved
	}
	return n
}

// Degraded reports whether any table was skipped or any non-fatal failure
// occurred. A degraded run still wrote at least something; callers map it
// to ExitDegraded.
func (s *Summary) Degraded() bool {
	if s.HistoryErr != nil {
		return true
	}
	for _, t := range s.Tables {
		if t.Err != nil {
			return true
		}
	}
	return false
}

// Engine runs the extraction pipeline once per invocation.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an engine for one run.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Run executes the pipeline. The returned error is non-nil only for a load
// failure, in which case no tables were produced; per-table failures are
// reported through the summary instead.
func (e *Engine) Run() (*Summary, error) {
	start := time.Now()
	e.logger.Info("starting extraction", "save", e.cfg.SavePath)

	doc, err := save.Load(e.cfg.SavePath)
	if err != nil {
		return nil, err
	}

	reg := registry.Build(doc, e.collections(), e.logger)

	summary := &Summary{
		SavePath:   e.cfg.SavePath,
		Collisions: len(reg.Collisions()),
	}
	if date, ok := extract.SaveDate(reg).(string); ok {
		summary.GameDate = date
	}

	ecfg := extract.Config{
		TrackedEntities: e.cfg.TrackedEntities,
		Logger:          e.logger,
	}

	var nations *dataset.Dataset
	for _, x := range extract.All() {
		result := TableResult{Name: x.Name()}

		ds, err := runExtractor(x, reg, ecfg)
		if err != nil {
			e.logger.Error("extractor failed, table skipped", "table", x.Name(), "error", err)
			result.Err = fmt.Errorf("extractor %s: %w", x.Name(), err)
			summary.Tables = append(summary.Tables, result)
			continue
		}

		result.Rows = len(ds.Rows)
		result.Unresolved = ds.Unresolved

		if err := dataset.Write(ds, e.cfg.OutputDir); err != nil {
			e.logger.Error("dataset write failed", "table", x.Name(), "error", err)
			result.Err = err
		} else {
			result.Written = true
			e.logger.Debug("table written", "table", x.Name(), "rows", result.Rows,
				"unresolved", result.Unresolved)
			if x.Name() == "nations" {
				nations = ds
			}
		}

		summary.Tables = append(summary.Tables, result)
	}

	if e.cfg.History != nil && nations != nil {
		summary.HistoryErr = e.appendHistory(summary, nations)
	}

	summary.Duration = time.Since(start)
	e.logger.Info("extraction finished",
		"tables_written", summary.TablesWritten(),
		"rows", summary.RowsWritten(),
		"unresolved", summary.Unresolved(),
		"collisions", summary.Collisions)
	return summary, nil
}

// collections merges the configured overrides over the defaults.
func (e *Engine) collections() map[string]string {
	merged := registry.DefaultCollections()
	for kind, collection := range e.cfg.Collections {
		merged[kind] = collection
	}
	return merged
}

// runExtractor isolates one extractor: both returned errors and panics from
// malformed record shapes skip that table only.
func runExtractor(x extract.Extractor, reg *registry.Registry, cfg extract.Config) (ds *dataset.Dataset, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return x.Extract(reg, cfg)
}

// appendHistory records the run and its nations rows in the history store.
func (e *Engine) appendHistory(summary *Summary, nations *dataset.Dataset) error {
	status := state.RunStatusCompleted
	if summary.Degraded() {
		status = state.RunStatusDegraded
	}
	run := &state.Run{
		SavePath:      summary.SavePath,
		GameDate:      summary.GameDate,
		Status:        status,
		TablesWritten: summary.TablesWritten(),
		RowsWritten:   summary.RowsWritten(),
	}
	if err := e.cfg.History.RecordRun(run); err != nil {
		return err
	}
	if err := e.cfg.History.AppendNations(run.ID, nations); err != nil {
		return err
	}
	e.logger.Debug("history appended", "run_id", run.ID, "rows", len(nations.Rows))
	return nil
}

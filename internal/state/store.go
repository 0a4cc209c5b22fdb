// Package state persists campaign history across extraction runs using
// SQLite. One save snapshot is one run; the nations table of each run is
// appended so successive snapshots form a per-nation time series.
package state

import (
	"database/sql"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MartinUnity/games-terra-invicta/internal/dataset"
)

//go:embed schema.sql
var schemaSQL string

// Run statuses.
const (
	RunStatusCompleted = "completed"
	RunStatusDegraded  = "degraded"
)

// Run is one recorded extraction run.
type Run struct {
	ID            string
	SavePath      string
	GameDate      string
	Status        string
	Error         string
	TablesWritten int
	RowsWritten   int
	CreatedAt     time.Time
}

// Store is the SQLite-backed campaign history store.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewStore creates a store instance. Open must be called before use.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{logger: logger}
}

// Open opens the SQLite database at path. Use ":memory:" for an in-memory
// database.
func (s *Store) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL", path)
	} else {
		dsn = ":memory:?_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping history database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema creates the history tables if they do not exist.
func (s *Store) InitSchema() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return nil
}

// RecordRun inserts a run row, generating its ID when empty.
func (s *Store) RecordRun(run *Run) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	s.logger.Debug("recording run", slog.String("id", run.ID), slog.String("save", run.SavePath))

	_, err := s.db.Exec(
		`INSERT INTO runs (id, save_path, game_date, status, error, tables_written, rows_written, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SavePath, run.GameDate, run.Status, run.Error,
		run.TablesWritten, run.RowsWritten, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// nationColumns are the dataset columns persisted into nation_history, in
// insert order.
var nationColumns = []string{
	"game_date",
	"nation_id",
	"nation_name",
	"population_millions",
	"region_count",
	"gdp_billions",
	"gdp_capita",
	"inequality",
	"democracy",
	"unrest",
	"cohesion",
	"monthly_research",
	"monthly_ip",
	"cp_maintenance_cost",
	"ui_cost_per_point",
	"efficiency_research",
	"efficiency_ip",
	"mc_built",
	"mc_cap",
	"mc_utilization",
}

// AppendNations appends every row of the nations dataset under the given
// run. Missing markers become SQL NULLs.
func (s *Store) AppendNations(runID string, ds *dataset.Dataset) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin history append: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO nation_history (run_id, game_date, nation_id, nation_name,
		population_millions, region_count, gdp_billions, gdp_capita, inequality,
		democracy, unrest, cohesion, monthly_research, monthly_ip,
		cp_maintenance_cost, ui_cost_per_point, efficiency_research, efficiency_ip,
		mc_built, mc_cap, mc_utilization)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range ds.Rows {
		args := make([]any, 0, len(nationColumns)+1)
		args = append(args, runID)
		for _, col := range nationColumns {
			// The dataset uses "date"; the history table calls it game_date.
			if col == "game_date" {
				args = append(args, row["date"])
				continue
			}
			args = append(args, row[col])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to append nation row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history append: %w", err)
	}

	s.logger.Debug("appended nation history", slog.String("run_id", runID), slog.Int("rows", len(ds.Rows)))
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, save_path, game_date, status, error, tables_written, rows_written, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var gameDate, errMsg sql.NullString
		if err := rows.Scan(&run.ID, &run.SavePath, &gameDate, &run.Status, &errMsg,
			&run.TablesWritten, &run.RowsWritten, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.GameDate = gameDate.String
		run.Error = errMsg.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// NationHistoryCount returns the number of appended nation rows, used by
// the history command's summary line.
func (s *Store) NationHistoryCount() (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM nation_history`).Scan(&n)
	return n, err
}

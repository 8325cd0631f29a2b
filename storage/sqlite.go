package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"estatewatch/models"
)

// SQLiteStore holds operational data: run records and progress logs.
// Analytical output goes to CSV and optionally Postgres.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scrape_runs (
		id INTEGER PRIMARY KEY,
		source TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		stop_reason TEXT,
		pages_fetched INTEGER DEFAULT 0,
		listings_found INTEGER DEFAULT 0,
		listings_kept INTEGER DEFAULT 0,
		localities INTEGER DEFAULT 0,
		errors_count INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS scrape_logs (
		id INTEGER PRIMARY KEY,
		run_id INTEGER,
		timestamp DATETIME,
		level TEXT,
		message TEXT,
		source TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source ON scrape_runs(source, started_at);
	CREATE INDEX IF NOT EXISTS idx_logs_run ON scrape_logs(run_id, timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateRun(run *models.ScrapeRun) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO scrape_runs (source, started_at, status)
		VALUES (?, ?, ?)`,
		run.Source, run.StartedAt, run.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) UpdateRun(run *models.ScrapeRun) error {
	_, err := s.db.Exec(`
		UPDATE scrape_runs
		SET finished_at = ?, status = ?, stop_reason = ?, pages_fetched = ?,
			listings_found = ?, listings_kept = ?, localities = ?, errors_count = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, run.StopReason, run.PagesFetched,
		run.ListingsFound, run.ListingsKept, run.Localities, run.ErrorsCount,
		run.ID)
	return err
}

func (s *SQLiteStore) Log(runID *int64, level models.LogLevel, message, source string) error {
	_, err := s.db.Exec(`
		INSERT INTO scrape_logs (run_id, timestamp, level, message, source)
		VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now(), level, message, source)
	return err
}

// LastRunTime returns the start time of the most recent run for a source,
// or a zero time when the source has never run.
func (s *SQLiteStore) LastRunTime(source string) (time.Time, error) {
	var t time.Time
	err := s.db.QueryRow(`
		SELECT started_at FROM scrape_runs
		WHERE source = ?
		ORDER BY started_at DESC
		LIMIT 1`, source).Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// RecentRuns lists the latest run records, newest first.
func (s *SQLiteStore) RecentRuns(limit int) ([]models.ScrapeRun, error) {
	rows, err := s.db.Query(`
		SELECT id, source, started_at, finished_at, status,
			COALESCE(stop_reason, ''), pages_fetched, listings_found,
			listings_kept, localities, errors_count
		FROM scrape_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ScrapeRun
	for rows.Next() {
		var r models.ScrapeRun
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Source, &r.StartedAt, &finished, &r.Status,
			&r.StopReason, &r.PagesFetched, &r.ListingsFound,
			&r.ListingsKept, &r.Localities, &r.ErrorsCount); err != nil {
			return nil, err
		}
		if finished.Valid {
			r.FinishedAt = &finished.Time
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

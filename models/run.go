package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// StopReason records why a crawl ended. Every crawl ends with exactly one.
type StopReason string

const (
	StopBlocked       StopReason = "blocked"        // HTTP 403 from the site
	StopExhausted     StopReason = "exhausted"      // page with zero cards
	StopTargetReached StopReason = "target_reached" // accumulated >= target count
	StopError         StopReason = "error"          // transport failure, partial results kept
)

// ScrapeRun is the operational record of one pipeline run for one site.
type ScrapeRun struct {
	ID            int64      `json:"id" db:"id"`
	Source        string     `json:"source" db:"source"`
	StartedAt     time.Time  `json:"started_at" db:"started_at"`
	FinishedAt    *time.Time `json:"finished_at" db:"finished_at"`
	Status        RunStatus  `json:"status" db:"status"`
	StopReason    StopReason `json:"stop_reason" db:"stop_reason"`
	PagesFetched  int        `json:"pages_fetched" db:"pages_fetched"`
	ListingsFound int        `json:"listings_found" db:"listings_found"`
	ListingsKept  int        `json:"listings_kept" db:"listings_kept"`
	Localities    int        `json:"localities" db:"localities"`
	ErrorsCount   int        `json:"errors_count" db:"errors_count"`
}

type LogLevel string

const (
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

type ScrapeLog struct {
	ID        int64     `json:"id" db:"id"`
	RunID     *int64    `json:"run_id" db:"run_id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Level     LogLevel  `json:"level" db:"level"`
	Message   string    `json:"message" db:"message"`
	Source    string    `json:"source" db:"source"`
}

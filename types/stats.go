package types

import "time"

// RunStats summarises one probe run.
type RunStats struct {
	RunID       string        `json:"run_id"`
	StartTime   time.Time     `json:"start_time"`
	Duration    time.Duration `json:"duration"`
	LoginStatus int           `json:"login_status"`
	ListStatus  int           `json:"list_status"`
	Total       int           `json:"total"`
	Page        int           `json:"page"`
	TotalPages  int           `json:"total_pages"`
	Fetched     int           `json:"fetched"`
}

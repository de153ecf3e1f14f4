// Package pipeline orchestrates a catalog synchronization run: discover
// eligible movies for a country and provider set, enrich each with TMDb
// details, watch offers, and OMDb ratings, merge the results, and upsert
// them into the shared store.
package pipeline

import (
	"fmt"
	"time"
)

// SyncResult tracks counts and errors from one synchronization run.
type SyncResult struct {
	Discovered int
	Successful int
	Failed     int
	Duration   time.Duration
	Errors     []string
}

// AddErrorf records a formatted error message.
func (r *SyncResult) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *SyncResult) Summary() string {
	return fmt.Sprintf(
		"discovered=%d successful=%d failed=%d errors=%d dur=%s",
		r.Discovered, r.Successful, r.Failed,
		len(r.Errors), r.Duration.Round(time.Second),
	)
}

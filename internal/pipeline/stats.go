package pipeline

import (
	"sync"
	"time"
)

// Stage marks how far the current entry has advanced
type Stage string

const (
	StagePending   Stage = "pending"
	StageResolved  Stage = "resolved"
	StageExtracted Stage = "extracted"
	StageBuilt     Stage = "built"
	StagePersisted Stage = "persisted"
	StageSkipped   Stage = "skipped"
)

// Snapshot is a point-in-time view of a run, safe to serialize
type Snapshot struct {
	Active       bool      `json:"active"`
	TopicID      string    `json:"topic_id,omitempty"`
	CurrentEntry int       `json:"current_entry"`
	TotalEntries int       `json:"total_entries"`
	Stage        Stage     `json:"stage,omitempty"`
	Processed    int       `json:"processed"`
	Skipped      int       `json:"skipped"`
	Duplicates   int       `json:"duplicates"`
	Failures     int       `json:"failures"`
	StartedAt    time.Time `json:"started_at,omitempty"`
}

// RunStats tracks the progress of the current ingestion run. The
// orchestrator writes it; the serve-mode status endpoint reads it.
type RunStats struct {
	mu      sync.RWMutex
	current Snapshot
}

// NewRunStats creates an idle tracker
func NewRunStats() *RunStats {
	return &RunStats{}
}

// Begin resets the tracker for a new run
func (rs *RunStats) Begin(topicID string, total int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.current = Snapshot{
		Active:       true,
		TopicID:      topicID,
		TotalEntries: total,
		StartedAt:    time.Now(),
	}
}

// SetStage records the stage the given entry has reached
func (rs *RunStats) SetStage(entry int, stage Stage) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.current.CurrentEntry = entry
	rs.current.Stage = stage
}

// RecordSkip counts an entry that short-circuited to skipped
func (rs *RunStats) RecordSkip() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.current.Skipped++
	rs.current.Stage = StageSkipped
}

// RecordDuplicate counts an entry rejected by the uniqueness constraint
func (rs *RunStats) RecordDuplicate() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.current.Duplicates++
	rs.current.Stage = StageSkipped
}

// RecordFailure counts an entry whose persistence failed outright
func (rs *RunStats) RecordFailure() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.current.Failures++
	rs.current.Stage = StageSkipped
}

// RecordSuccess counts a persisted entry
func (rs *RunStats) RecordSuccess() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.current.Processed++
	rs.current.Stage = StagePersisted
}

// Finish marks the run inactive, keeping final counters readable
func (rs *RunStats) Finish() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.current.Active = false
}

// IsActive reports whether a run is in progress
func (rs *RunStats) IsActive() bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.current.Active
}

// GetCurrent returns the current snapshot
func (rs *RunStats) GetCurrent() Snapshot {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.current
}

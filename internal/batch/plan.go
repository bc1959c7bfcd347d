package batch

import (
	"assetnamer/internal/mediascan"
	"assetnamer/internal/services/vision"
)

// EntryStatus tracks one asset through planning and apply.
type EntryStatus string

const (
	// EntryProposed means a new name is ready and waiting to be applied.
	EntryProposed EntryStatus = "proposed"
	// EntryUnchanged means the proposed name matches the current name, so the
	// file is skipped without touching the filesystem or ledger.
	EntryUnchanged EntryStatus = "unchanged"
	// EntryDescriptionFailed means the content description could not be
	// produced; the file keeps its name and the rest of the batch proceeds.
	EntryDescriptionFailed EntryStatus = "description_failed"
	// EntryApplied means the rename was recorded and performed.
	EntryApplied EntryStatus = "applied"
	// EntryFailed means the rename was attempted and failed.
	EntryFailed EntryStatus = "failed"
)

// Entry is the plan for a single asset.
type Entry struct {
	Asset       mediascan.Asset
	Description vision.Description
	NewName     string
	NewPath     string
	Status      EntryStatus
	Detail      string
}

// Plan is the reviewed output of the scan, describe, and planning stages.
// Apply consumes it after the user confirms.
type Plan struct {
	BatchID  string
	InputDir string
	Pattern  string
	Entries  []Entry
	Excluded []mediascan.Excluded
}

// Proposed counts entries that will be renamed on apply.
func (p *Plan) Proposed() int {
	return p.countStatus(EntryProposed)
}

// Unchanged counts entries skipped because their name already matches.
func (p *Plan) Unchanged() int {
	return p.countStatus(EntryUnchanged)
}

// DescriptionFailures counts entries whose description could not be produced.
func (p *Plan) DescriptionFailures() int {
	return p.countStatus(EntryDescriptionFailed)
}

func (p *Plan) countStatus(status EntryStatus) int {
	count := 0
	for _, entry := range p.Entries {
		if entry.Status == status {
			count++
		}
	}
	return count
}

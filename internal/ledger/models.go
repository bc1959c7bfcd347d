package ledger

import "time"

// Status tracks a batch through its lifecycle.
type Status string

const (
	StatusPending              Status = "pending"
	StatusScanning             Status = "scanning"
	StatusDescribing           Status = "describing"
	StatusPlanning             Status = "planning"
	StatusAwaitingConfirmation Status = "awaiting_confirmation"
	StatusApplying             Status = "applying"
	StatusCommitted            Status = "committed"
	StatusPartiallyFailed      Status = "partially_failed"
	StatusRolledBack           Status = "rolled_back"
	StatusFailed               Status = "failed"
)

// Terminal reports whether the status represents a finished batch.
func (s Status) Terminal() bool {
	switch s {
	case StatusCommitted, StatusPartiallyFailed, StatusRolledBack, StatusFailed:
		return true
	}
	return false
}

// BatchRecord is the persisted view of one rename batch.
type BatchRecord struct {
	ID           string
	InputDir     string
	OutputDir    string
	Pattern      string
	Status       Status
	ErrorMessage string
	TotalCount   int
	RenamedCount int
	FailedCount  int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// BackupRecord is one applied rename, written before the rename itself so the
// ledger never lags the filesystem.
type BackupRecord struct {
	ID           int64
	BatchID      string
	OriginalPath string
	NewPath      string
	BackupPath   string
	Checksum     string
	AppliedAt    time.Time
	Reverted     bool
}

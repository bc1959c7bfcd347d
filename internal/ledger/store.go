package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"assetnamer/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrBatchNotFound indicates the requested batch does not exist in the ledger.
var ErrBatchNotFound = errors.New("batch not found")

const timeLayout = time.RFC3339Nano

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Open initializes or connects to the ledger database under the configured
// ledger directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LedgerDir, "ledger.db"))
}

// OpenPath initializes or connects to the ledger database at dbPath.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the location of the backing database file.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// CreateBatch persists a new batch in pending state.
func (s *Store) CreateBatch(ctx context.Context, record *BatchRecord) error {
	if record == nil {
		return errors.New("nil batch record")
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	if record.Status == "" {
		record.Status = StatusPending
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO batches (id, input_dir, output_dir, pattern, status, error_message, total_count, renamed_count, failed_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.InputDir, record.OutputDir, record.Pattern,
		string(record.Status), record.ErrorMessage,
		record.TotalCount, record.RenamedCount, record.FailedCount,
		record.CreatedAt.Format(timeLayout), record.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// UpdateBatch writes the mutable fields of a batch back to the ledger.
func (s *Store) UpdateBatch(ctx context.Context, record *BatchRecord) error {
	if record == nil {
		return errors.New("nil batch record")
	}
	record.UpdatedAt = time.Now().UTC()
	if record.Status.Terminal() && record.CompletedAt == nil {
		completed := record.UpdatedAt
		record.CompletedAt = &completed
	}
	var completedAt any
	if record.CompletedAt != nil {
		completedAt = record.CompletedAt.Format(timeLayout)
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE batches
		 SET status = ?, error_message = ?, total_count = ?, renamed_count = ?, failed_count = ?, updated_at = ?, completed_at = ?
		 WHERE id = ?`,
		string(record.Status), record.ErrorMessage,
		record.TotalCount, record.RenamedCount, record.FailedCount,
		record.UpdatedAt.Format(timeLayout), completedAt, record.ID,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update batch: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrBatchNotFound, record.ID)
	}
	return nil
}

// GetBatch loads a single batch by id.
func (s *Store) GetBatch(ctx context.Context, batchID string) (*BatchRecord, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, input_dir, output_dir, pattern, status, error_message, total_count, renamed_count, failed_count, created_at, updated_at, completed_at
		 FROM batches WHERE id = ?`, batchID)
	record, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
	}
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return record, nil
}

// LatestBatch returns the most recently created batch, or ErrBatchNotFound
// when the ledger is empty.
func (s *Store) LatestBatch(ctx context.Context) (*BatchRecord, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, input_dir, output_dir, pattern, status, error_message, total_count, renamed_count, failed_count, created_at, updated_at, completed_at
		 FROM batches ORDER BY created_at DESC, id DESC LIMIT 1`)
	record, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest batch: %w", err)
	}
	return record, nil
}

// ListBatches returns batches newest first, up to limit (0 means all).
func (s *Store) ListBatches(ctx context.Context, limit int) ([]*BatchRecord, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, input_dir, output_dir, pattern, status, error_message, total_count, renamed_count, failed_count, created_at, updated_at, completed_at
		 FROM batches ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var records []*BatchRecord
	for rows.Next() {
		record, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("list batches: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (*BatchRecord, error) {
	var (
		record      BatchRecord
		status      string
		createdAt   string
		updatedAt   string
		completedAt sql.NullString
	)
	if err := row.Scan(
		&record.ID, &record.InputDir, &record.OutputDir, &record.Pattern,
		&status, &record.ErrorMessage,
		&record.TotalCount, &record.RenamedCount, &record.FailedCount,
		&createdAt, &updatedAt, &completedAt,
	); err != nil {
		return nil, err
	}
	record.Status = Status(status)
	var err error
	if record.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if record.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		parsed, err := parseTime(completedAt.String)
		if err != nil {
			return nil, err
		}
		record.CompletedAt = &parsed
	}
	return &record, nil
}

func parseTime(value string) (time.Time, error) {
	parsed, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return parsed, nil
}

// RecordRename appends one applied rename to the ledger. Call this before the
// filesystem rename so a crash never leaves an unrecorded rename behind.
func (s *Store) RecordRename(ctx context.Context, record *BackupRecord) error {
	if record == nil {
		return errors.New("nil backup record")
	}
	if record.AppliedAt.IsZero() {
		record.AppliedAt = time.Now().UTC()
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO backup_records (batch_id, original_path, new_path, backup_path, checksum, applied_at, reverted)
		 VALUES (?, ?, ?, ?, ?, ?, 0)`,
		record.BatchID, record.OriginalPath, record.NewPath,
		record.BackupPath, record.Checksum, record.AppliedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert backup record: %w", err)
	}
	if record.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert backup record: last id: %w", err)
	}
	return nil
}

// RecordsForBatch returns the applied renames of a batch, most recent first.
func (s *Store) RecordsForBatch(ctx context.Context, batchID string) ([]*BackupRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, batch_id, original_path, new_path, backup_path, checksum, applied_at, reverted
		 FROM backup_records WHERE batch_id = ? ORDER BY id DESC`, batchID)
	if err != nil {
		return nil, fmt.Errorf("load backup records: %w", err)
	}
	defer rows.Close()

	var records []*BackupRecord
	for rows.Next() {
		var (
			record    BackupRecord
			appliedAt string
			reverted  int
		)
		if err := rows.Scan(
			&record.ID, &record.BatchID, &record.OriginalPath, &record.NewPath,
			&record.BackupPath, &record.Checksum, &appliedAt, &reverted,
		); err != nil {
			return nil, fmt.Errorf("scan backup record: %w", err)
		}
		if record.AppliedAt, err = parseTime(appliedAt); err != nil {
			return nil, err
		}
		record.Reverted = reverted != 0
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load backup records: %w", err)
	}
	return records, nil
}

// DiscardRecord removes a backup record whose rename never happened, so undo
// does not trip over a file that was never moved.
func (s *Store) DiscardRecord(ctx context.Context, recordID int64) error {
	_, err := s.execWithRetry(ctx,
		"DELETE FROM backup_records WHERE id = ?", recordID)
	if err != nil {
		return fmt.Errorf("discard record: %w", err)
	}
	return nil
}

func (s *Store) markReverted(ctx context.Context, recordID int64) error {
	_, err := s.execWithRetry(ctx,
		"UPDATE backup_records SET reverted = 1 WHERE id = ?", recordID)
	if err != nil {
		return fmt.Errorf("mark record reverted: %w", err)
	}
	return nil
}

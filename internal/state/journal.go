// Package state persists the mutation journal: every structural change
// the synchronizer attempts, with its outcome, lands here.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Mutation outcomes
const (
	StatusDone         = "done"          // filesystem and indexes updated
	StatusRejected     = "rejected"      // validation refused the operation
	StatusFSFailed     = "fs_failed"     // filesystem change failed, indexes untouched
	StatusIndexPartial = "index_partial" // filesystem changed, an index write failed
)

// Journal records attempted store mutations in sqlite
type Journal struct {
	db *sql.DB
}

// MutationRecord is one journaled operation
type MutationRecord struct {
	ID        int64
	Operation string // "create", "rename", "move", "delete", "pin", "unpin", "passwd"
	ItemPath  string
	NewPath   string
	Status    string
	Error     string
	CreatedAt time.Time
}

// NewJournal opens (or creates) the journal database under dataDir
func NewJournal(dataDir string) (*Journal, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vaultpad.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Limit connection pool to prevent "database is locked" errors
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode and busy timeout: %w", err)
	}

	journal := &Journal{db: db}

	if err := journal.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return journal, nil
}

func (j *Journal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mutations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		operation TEXT NOT NULL,
		item_path TEXT NOT NULL,
		new_path TEXT,
		status TEXT NOT NULL,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_mutations_path_time ON mutations(item_path, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_mutations_status ON mutations(status);
	`

	_, err := j.db.Exec(schema)
	return err
}

func validStatus(status string) bool {
	switch status {
	case StatusDone, StatusRejected, StatusFSFailed, StatusIndexPartial:
		return true
	}
	return false
}

// Record appends a mutation record
func (j *Journal) Record(record MutationRecord) error {
	if !validStatus(record.Status) {
		return fmt.Errorf("invalid status: %s", record.Status)
	}
	if record.Operation == "" {
		return fmt.Errorf("operation cannot be empty")
	}

	query := `
		INSERT INTO mutations (operation, item_path, new_path, status, error)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := j.db.Exec(query,
		record.Operation,
		record.ItemPath,
		record.NewPath,
		record.Status,
		record.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to record mutation: %w", err)
	}

	return nil
}

// History returns the newest records up to limit
func (j *Journal) History(limit int) ([]MutationRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := `
		SELECT id, operation, item_path, new_path, status, error, created_at
		FROM mutations
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := j.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	return scanMutations(rows)
}

// HistoryForPath returns the newest records touching itemPath
func (j *Journal) HistoryForPath(itemPath string, limit int) ([]MutationRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := `
		SELECT id, operation, item_path, new_path, status, error, created_at
		FROM mutations
		WHERE item_path = ? OR new_path = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := j.db.Query(query, itemPath, itemPath, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	return scanMutations(rows)
}

// LastFailure returns the most recent non-done record, or nil
func (j *Journal) LastFailure() (*MutationRecord, error) {
	query := `
		SELECT id, operation, item_path, new_path, status, error, created_at
		FROM mutations
		WHERE status != 'done'
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var record MutationRecord
	err := j.db.QueryRow(query).Scan(
		&record.ID,
		&record.Operation,
		&record.ItemPath,
		&record.NewPath,
		&record.Status,
		&record.Error,
		&record.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last failure: %w", err)
	}

	return &record, nil
}

func scanMutations(rows *sql.Rows) ([]MutationRecord, error) {
	var records []MutationRecord
	for rows.Next() {
		var record MutationRecord
		err := rows.Scan(
			&record.ID,
			&record.Operation,
			&record.ItemPath,
			&record.NewPath,
			&record.Status,
			&record.Error,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

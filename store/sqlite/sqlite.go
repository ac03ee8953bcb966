/*
Package sqlite provides a SQLite-backed payroll journal.

PURPOSE:
  The employee directory lives in memory. This store keeps the durable
  record of every transaction the Runner executed, so the history of an
  employee (hired, reclassified, time cards posted, union changes) can be
  queried after a restart.

INTERFACES IMPLEMENTED:
  payroll.Journal: Record, Entries

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on the journal table
  - No DELETE statements except Reset (dev/test only)
  - Entry ids are unique, so recording the same entry twice fails

KEY TABLES:
  journal: one row per executed transaction, payload stored as JSON

INDEXES:
  - idx_journal_employee: per-employee history (hot path for the API)
  - idx_journal_action:   filtering by transaction kind

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, same as the other stores.

USAGE:
  journal, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer journal.Close()

  runner := payroll.NewRunner(store.NewTxMemory(), journal, logger)

SEE ALSO:
  - payroll/journal.go: Interface definition
  - payroll/store/journal.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/payroll/payroll"
)

// Store implements payroll.Journal using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ payroll.Journal = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A :memory: database exists per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS journal (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		recorded_at TEXT NOT NULL,
		action TEXT NOT NULL,
		employee_id INTEGER NOT NULL,
		member_id INTEGER NOT NULL DEFAULT 0,
		payload_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_journal_employee
		ON journal(employee_id, seq);
	CREATE INDEX IF NOT EXISTS idx_journal_action
		ON journal(action);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// JOURNAL (payroll.Journal interface)
// =============================================================================

// Record appends an entry.
func (s *Store) Record(ctx context.Context, entry payroll.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload := entry.Payload
	if payload == nil {
		payload = map[string]string{}
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO journal (id, recorded_at, action, employee_id, member_id, payload_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.UTC().Format(time.RFC3339Nano),
		string(entry.Action),
		int(entry.EmployeeID),
		int(entry.MemberID),
		string(payloadJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to record journal entry %s: %w", entry.ID, err)
	}
	return nil
}

// Entries returns matching entries oldest first. Limit keeps the newest ones.
func (s *Store) Entries(ctx context.Context, filter payroll.JournalFilter) ([]payroll.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.EmployeeID != nil {
		where = append(where, "employee_id = ?")
		args = append(args, int(*filter.EmployeeID))
	}
	if len(filter.Actions) > 0 {
		placeholders := make([]string, len(filter.Actions))
		for i, a := range filter.Actions {
			placeholders[i] = "?"
			args = append(args, string(a))
		}
		where = append(where, "action IN ("+strings.Join(placeholders, ", ")+")")
	}

	query := "SELECT id, recorded_at, action, employee_id, member_id, payload_json FROM journal"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []payroll.AuditEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query is newest first so LIMIT keeps the newest; callers get oldest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (payroll.AuditEntry, error) {
	var (
		e                    payroll.AuditEntry
		recordedAt, action   string
		employeeID, memberID int
		payloadJSON          string
	)
	if err := rows.Scan(&e.ID, &recordedAt, &action, &employeeID, &memberID, &payloadJSON); err != nil {
		return e, err
	}
	ts, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return e, fmt.Errorf("bad recorded_at for entry %s: %w", e.ID, err)
	}
	e.Timestamp = ts
	e.Action = payroll.AuditAction(action)
	e.EmployeeID = payroll.EmployeeID(employeeID)
	e.MemberID = payroll.MemberID(memberID)
	if err := json.Unmarshal([]byte(payloadJSON), &e.Payload); err != nil {
		return e, fmt.Errorf("bad payload for entry %s: %w", e.ID, err)
	}
	return e, nil
}

// Reset clears all data. For development and tests.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "DELETE FROM journal")
	return err
}

/*
runner.go - Serialized transaction execution

PURPOSE:
  Transactions resolve an employee and then mutate it. Two of them running
  at once against the same Directory can interleave between those steps, so
  Runner executes each one inside TxDirectory.WithTx:

    1. build the transaction against the locked directory (constructor checks)
    2. Execute it
    3. record its AuditEntry in the Journal

  If any step fails the directory is restored and nothing is journaled.

EXAMPLE:
  runner := payroll.NewRunner(store.NewTxMemory(), store.NewMemoryJournal(), logger)
  entry, err := runner.Run(ctx, func(dir payroll.Directory) (payroll.Transaction, error) {
      return payroll.NewTimeCardTransaction(dir, 234, payroll.Today(), decimal.NewFromInt(3))
  })
*/
package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Builder constructs a transaction against the directory it will run on.
type Builder func(dir Directory) (Transaction, error)

// Runner executes transactions one at a time and journals them.
type Runner struct {
	dir     TxDirectory
	journal Journal
	logger  *zap.Logger

	// Now stamps journal entries. Defaults to time.Now in UTC.
	Now func() time.Time
}

// NewRunner accepts a nil journal (nothing recorded) and a nil logger.
func NewRunner(dir TxDirectory, journal Journal, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		dir:     dir,
		journal: journal,
		logger:  logger,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

// Run builds and executes one transaction and returns its journal entry.
func (r *Runner) Run(ctx context.Context, build Builder) (AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return AuditEntry{}, err
	}

	var entry AuditEntry
	err := r.dir.WithTx(func(dir Directory) error {
		tx, err := build(dir)
		if err != nil {
			return err
		}
		if err := tx.Execute(); err != nil {
			return err
		}

		entry = tx.Audit()
		entry.ID = uuid.NewString()
		entry.Timestamp = r.Now()
		if r.journal == nil {
			return nil
		}
		if err := r.journal.Record(ctx, entry); err != nil {
			return fmt.Errorf("record journal entry: %w", err)
		}
		return nil
	})
	if err != nil {
		if IsInvalidOperation(err) {
			r.logger.Info("transaction rejected", zap.Error(err))
		} else {
			r.logger.Error("transaction failed", zap.Error(err))
		}
		return AuditEntry{}, err
	}

	r.logger.Info("transaction executed",
		zap.String("id", entry.ID),
		zap.String("action", string(entry.Action)),
		zap.Int("employee_id", int(entry.EmployeeID)),
		zap.Int("member_id", int(entry.MemberID)),
	)
	return entry, nil
}

// View runs fn with read access to the directory. Anything fn needs from an
// Employee must be copied out before it returns.
func (r *Runner) View(fn func(Directory) error) error {
	return r.dir.View(fn)
}

// Journal returns the journal entries are recorded in, possibly nil.
func (r *Runner) Journal() Journal {
	return r.journal
}

package payroll_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/payroll/payroll"
	"github.com/warp/payroll/payroll/store"
)

// failingJournal rejects every Record.
type failingJournal struct{}

func (failingJournal) Record(context.Context, payroll.AuditEntry) error {
	return errors.New("disk full")
}

func (failingJournal) Entries(context.Context, payroll.JournalFilter) ([]payroll.AuditEntry, error) {
	return nil, nil
}

func addHourlyBuilder(id payroll.EmployeeID, rate string) payroll.Builder {
	return func(dir payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewAddHourlyEmployee(dir, id, "Bill", "Home", dec(rate))
	}
}

func newTestRunner(journal payroll.Journal) (*payroll.Runner, *store.TxMemory) {
	dir := store.NewTxMemory()
	runner := payroll.NewRunner(dir, journal, zap.NewNop())
	runner.Now = func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }
	return runner, dir
}

func TestRunner_ExecutesAndJournals(t *testing.T) {
	// GIVEN: A runner with an in-memory journal
	journal := store.NewMemoryJournal()
	runner, dir := newTestRunner(journal)
	ctx := context.Background()

	// WHEN: An employee is added and a time card posted
	entry, err := runner.Run(ctx, addHourlyBuilder(2, "15.25"))
	require.NoError(t, err)
	_, err = runner.Run(ctx, func(d payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewTimeCardTransaction(d, 2, march1, dec("8"))
	})
	require.NoError(t, err)

	// THEN: The entry is stamped and both transactions are journaled in order
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), entry.Timestamp)
	assert.Equal(t, payroll.ActionAddEmployee, entry.Action)

	entries, err := journal.Entries(ctx, payroll.JournalFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, payroll.ActionAddEmployee, entries[0].Action)
	assert.Equal(t, payroll.ActionPostTimeCard, entries[1].Action)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)

	_, ok := dir.GetEmployee(2)
	assert.True(t, ok)
}

func TestRunner_RejectedTransactionNotJournaled(t *testing.T) {
	journal := store.NewMemoryJournal()
	runner, _ := newTestRunner(journal)
	ctx := context.Background()

	_, err := runner.Run(ctx, func(d payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewTimeCardTransaction(d, 99, march1, dec("8"))
	})
	assert.ErrorIs(t, err, payroll.ErrNoSuchEmployee)

	entries, err := journal.Entries(ctx, payroll.JournalFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunner_JournalFailureRollsBack(t *testing.T) {
	// GIVEN: A journal that cannot record
	runner, dir := newTestRunner(failingJournal{})

	// WHEN: A valid add runs
	_, err := runner.Run(context.Background(), addHourlyBuilder(2, "10"))

	// THEN: The error surfaces and the directory is unchanged
	require.Error(t, err)
	assert.False(t, payroll.IsInvalidOperation(err))
	_, ok := dir.GetEmployee(2)
	assert.False(t, ok)
}

func TestRunner_RollbackRestoresLedgers(t *testing.T) {
	// GIVEN: An hourly employee with one time card
	runner, dir := newTestRunner(nil)
	ctx := context.Background()
	_, err := runner.Run(ctx, addHourlyBuilder(2, "10"))
	require.NoError(t, err)
	_, err = runner.Run(ctx, func(d payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewTimeCardTransaction(d, 2, march1, dec("8"))
	})
	require.NoError(t, err)

	// WHEN: A transaction mutates then fails inside the same run
	_, err = runner.Run(ctx, func(d payroll.Directory) (payroll.Transaction, error) {
		tc, err := payroll.NewTimeCardTransaction(d, 2, march1, dec("1"))
		if err != nil {
			return nil, err
		}
		if err := tc.Execute(); err != nil {
			return nil, err
		}
		return payroll.NewTimeCardTransaction(d, 99, march1, dec("1"))
	})
	require.ErrorIs(t, err, payroll.ErrNoSuchEmployee)

	// THEN: The first card is still 8 hours
	e, ok := dir.GetEmployee(2)
	require.True(t, ok)
	tc, ok := e.Classification.(*payroll.HourlyClassification).TimeCard(march1)
	require.True(t, ok)
	assertDecimal(t, "8", tc.Hours)
}

func TestRunner_CanceledContext(t *testing.T) {
	runner, dir := newTestRunner(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, addHourlyBuilder(2, "10"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, dir.EmployeeIDs())
}

func TestRunner_ConcurrentPostings(t *testing.T) {
	// GIVEN: One hourly employee
	journal := store.NewMemoryJournal()
	runner, dir := newTestRunner(journal)
	ctx := context.Background()
	_, err := runner.Run(ctx, addHourlyBuilder(2, "10"))
	require.NoError(t, err)

	// WHEN: Many goroutines post cards on distinct dates
	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(day int) {
			defer wg.Done()
			_, err := runner.Run(ctx, func(d payroll.Directory) (payroll.Transaction, error) {
				return payroll.NewTimeCardTransaction(d, 2, march1.AddDays(day), dec("1"))
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// THEN: Every card landed
	e, _ := dir.GetEmployee(2)
	assert.Len(t, e.Classification.(*payroll.HourlyClassification).TimeCards(), n)

	entries, err := journal.Entries(ctx, payroll.JournalFilter{Actions: []payroll.AuditAction{payroll.ActionPostTimeCard}})
	require.NoError(t, err)
	assert.Len(t, entries, n)
}

func TestRunner_View(t *testing.T) {
	runner, _ := newTestRunner(nil)
	_, err := runner.Run(context.Background(), addHourlyBuilder(2, "10"))
	require.NoError(t, err)

	var ids []payroll.EmployeeID
	require.NoError(t, runner.View(func(d payroll.Directory) error {
		ids = d.EmployeeIDs()
		return nil
	}))
	assert.Equal(t, []payroll.EmployeeID{2}, ids)
	assert.Nil(t, runner.Journal())
}

package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll/payroll"
	"github.com/warp/payroll/payroll/store"
)

func newEmployee(id payroll.EmployeeID, name string) *payroll.Employee {
	return payroll.NewEmployee(id, name, "Home",
		payroll.NewHourlyClassification(decimal.NewFromInt(10)), payroll.ScheduleWeekly)
}

func TestMemory_EmployeeCRUD(t *testing.T) {
	m := store.NewMemory()

	m.AddEmployee(3, newEmployee(3, "C"))
	m.AddEmployee(1, newEmployee(1, "A"))
	m.AddEmployee(2, newEmployee(2, "B"))

	e, ok := m.GetEmployee(1)
	require.True(t, ok)
	assert.Equal(t, "A", e.Name)
	assert.Equal(t, []payroll.EmployeeID{1, 2, 3}, m.EmployeeIDs())

	// Overwrite and no-op delete are allowed at this level.
	m.AddEmployee(1, newEmployee(1, "A2"))
	e, _ = m.GetEmployee(1)
	assert.Equal(t, "A2", e.Name)
	m.DeleteEmployee(99)

	m.DeleteEmployee(2)
	_, ok = m.GetEmployee(2)
	assert.False(t, ok)
	assert.Equal(t, []payroll.EmployeeID{1, 3}, m.EmployeeIDs())
}

func TestMemory_UnionMembers(t *testing.T) {
	m := store.NewMemory()
	m.AddEmployee(1, newEmployee(1, "A"))

	m.AddUnionMember(7734, 1)
	e, ok := m.GetUnionMember(7734)
	require.True(t, ok)
	assert.Equal(t, payroll.EmployeeID(1), e.ID)

	m.DeleteUnionMember(7734)
	_, ok = m.GetUnionMember(7734)
	assert.False(t, ok)
}

func TestMemory_UnionMemberPointingAtMissingEmployee(t *testing.T) {
	m := store.NewMemory()
	m.AddUnionMember(7734, 5)

	_, ok := m.GetUnionMember(7734)
	assert.False(t, ok)
}

func TestMemory_UnionMemberEmployeeID(t *testing.T) {
	m := store.NewMemory()

	_, ok := m.UnionMemberEmployeeID(7734)
	assert.False(t, ok)

	// The raw mapping is visible even when the employee is missing.
	m.AddUnionMember(7734, 5)
	empID, ok := m.UnionMemberEmployeeID(7734)
	require.True(t, ok)
	assert.Equal(t, payroll.EmployeeID(5), empID)
}

func TestTxMemory_CommitKeepsChanges(t *testing.T) {
	tm := store.NewTxMemory()

	err := tm.WithTx(func(dir payroll.Directory) error {
		dir.AddEmployee(1, newEmployee(1, "A"))
		dir.AddUnionMember(10, 1)
		return nil
	})
	require.NoError(t, err)

	_, ok := tm.GetEmployee(1)
	assert.True(t, ok)
	_, ok = tm.GetUnionMember(10)
	assert.True(t, ok)
}

func TestTxMemory_RollbackOnError(t *testing.T) {
	// GIVEN: One employee with a time card
	tm := store.NewTxMemory()
	e := newEmployee(1, "A")
	e.Classification.(*payroll.HourlyClassification).AddTimeCard(
		payroll.NewTimeCard(payroll.NewDate(2025, 3, 1), decimal.NewFromInt(8)))
	tm.AddEmployee(1, e)

	// WHEN: A transaction mutates everything and fails
	boom := errors.New("boom")
	err := tm.WithTx(func(dir payroll.Directory) error {
		cur, _ := dir.GetEmployee(1)
		cur.Name = "changed"
		cur.Classification.(*payroll.HourlyClassification).AddTimeCard(
			payroll.NewTimeCard(payroll.NewDate(2025, 3, 1), decimal.NewFromInt(1)))
		dir.AddEmployee(2, newEmployee(2, "B"))
		dir.AddUnionMember(10, 2)
		dir.DeleteEmployee(1)
		return boom
	})

	// THEN: Nothing it did is visible
	assert.ErrorIs(t, err, boom)
	restored, ok := tm.GetEmployee(1)
	require.True(t, ok)
	assert.Equal(t, "A", restored.Name)
	tc, ok := restored.Classification.(*payroll.HourlyClassification).TimeCard(payroll.NewDate(2025, 3, 1))
	require.True(t, ok)
	assert.True(t, tc.Hours.Equal(decimal.NewFromInt(8)))

	_, ok = tm.GetEmployee(2)
	assert.False(t, ok)
	_, ok = tm.GetUnionMember(10)
	assert.False(t, ok)
}

func TestTxMemory_RollbackOnlyRestoresTouchedEntries(t *testing.T) {
	// GIVEN: Two employees, one a union member
	tm := store.NewTxMemory()
	untouched := newEmployee(1, "A")
	tm.AddEmployee(1, untouched)
	member := newEmployee(2, "B")
	member.Affiliation = payroll.NewUnionAffiliation(7734, decimal.NewFromInt(1))
	tm.AddEmployee(2, member)
	tm.AddUnionMember(7734, 2)

	// WHEN: A failing transaction reaches employee 2 through the member index
	err := tm.WithTx(func(dir payroll.Directory) error {
		e, ok := dir.GetUnionMember(7734)
		require.True(t, ok)
		u, _ := e.Union()
		u.AddServiceCharge(payroll.NewServiceCharge(payroll.NewDate(2025, 3, 1), decimal.NewFromInt(500)))
		dir.DeleteUnionMember(7734)
		dir.AddUnionMember(8000, 2)
		return errors.New("boom")
	})
	require.Error(t, err)

	// THEN: Employee 2 and both member ids are back as they were
	restored, ok := tm.GetUnionMember(7734)
	require.True(t, ok)
	u, _ := restored.Union()
	assert.Empty(t, u.ServiceCharges())
	_, ok = tm.UnionMemberEmployeeID(8000)
	assert.False(t, ok)

	// AND: The employee the transaction never read is the same value, not a copy
	e1, ok := tm.GetEmployee(1)
	require.True(t, ok)
	assert.Same(t, untouched, e1)
}

func TestTxMemory_CommitDoesNotCopy(t *testing.T) {
	tm := store.NewTxMemory()
	original := newEmployee(1, "A")
	tm.AddEmployee(1, original)

	err := tm.WithTx(func(dir payroll.Directory) error {
		e, _ := dir.GetEmployee(1)
		e.Name = "renamed"
		return nil
	})
	require.NoError(t, err)

	e, _ := tm.GetEmployee(1)
	assert.Same(t, original, e)
	assert.Equal(t, "renamed", e.Name)
}

func TestTxMemory_View(t *testing.T) {
	tm := store.NewTxMemory()
	tm.AddEmployee(1, newEmployee(1, "A"))

	var names []string
	err := tm.View(func(dir payroll.Directory) error {
		for _, id := range dir.EmployeeIDs() {
			e, _ := dir.GetEmployee(id)
			names = append(names, e.Name)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, names)
}

// =============================================================================
// JOURNAL
// =============================================================================

func TestMemoryJournal_FilterAndLimit(t *testing.T) {
	ctx := context.Background()
	j := store.NewMemoryJournal()

	record := func(id string, emp payroll.EmployeeID, action payroll.AuditAction) {
		require.NoError(t, j.Record(ctx, payroll.AuditEntry{ID: id, EmployeeID: emp, Action: action}))
	}
	record("1", 1, payroll.ActionAddEmployee)
	record("2", 2, payroll.ActionAddEmployee)
	record("3", 1, payroll.ActionPostTimeCard)
	record("4", 1, payroll.ActionPostTimeCard)
	record("5", 2, payroll.ActionChangeName)

	all, err := j.Entries(ctx, payroll.JournalFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	emp := payroll.EmployeeID(1)
	forOne, err := j.Entries(ctx, payroll.JournalFilter{EmployeeID: &emp})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "4"}, ids(forOne))

	cards, err := j.Entries(ctx, payroll.JournalFilter{
		Actions: []payroll.AuditAction{payroll.ActionPostTimeCard, payroll.ActionChangeName},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4", "5"}, ids(cards))

	newest, err := j.Entries(ctx, payroll.JournalFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "5"}, ids(newest))
}

func TestMemoryJournal_CopiesPayload(t *testing.T) {
	ctx := context.Background()
	j := store.NewMemoryJournal()
	payload := map[string]string{"name": "Bob"}

	require.NoError(t, j.Record(ctx, payroll.AuditEntry{ID: "1", Payload: payload}))
	payload["name"] = "changed"

	got, err := j.Entries(ctx, payroll.JournalFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Bob", got[0].Payload["name"])
}

func ids(entries []payroll.AuditEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

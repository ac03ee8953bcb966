package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll/payroll"
	"github.com/warp/payroll/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func entry(id string, emp payroll.EmployeeID, action payroll.AuditAction) payroll.AuditEntry {
	return payroll.AuditEntry{
		ID:         id,
		Timestamp:  time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		Action:     action,
		EmployeeID: emp,
	}
}

func TestStore_RecordRoundTrip(t *testing.T) {
	// GIVEN: An empty journal
	s := newTestStore(t)
	ctx := context.Background()

	// WHEN: A service charge entry is recorded
	in := payroll.AuditEntry{
		ID:         "e-1",
		Timestamp:  time.Date(2025, 3, 1, 9, 30, 15, 123000000, time.UTC),
		Action:     payroll.ActionPostServiceCharge,
		EmployeeID: 2,
		MemberID:   7734,
		Payload:    map[string]string{"date": "2025-03-01", "amount": "12.95"},
	}
	require.NoError(t, s.Record(ctx, in))

	// THEN: It reads back identically
	out, err := s.Entries(ctx, payroll.JournalFilter{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in.ID, out[0].ID)
	assert.True(t, in.Timestamp.Equal(out[0].Timestamp))
	assert.Equal(t, in.Action, out[0].Action)
	assert.Equal(t, in.EmployeeID, out[0].EmployeeID)
	assert.Equal(t, in.MemberID, out[0].MemberID)
	assert.Equal(t, in.Payload, out[0].Payload)
}

func TestStore_DuplicateIDRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, entry("e-1", 1, payroll.ActionAddEmployee)))
	assert.Error(t, s.Record(ctx, entry("e-1", 1, payroll.ActionAddEmployee)))
}

func TestStore_EntriesFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, e := range []payroll.AuditEntry{
		entry("1", 1, payroll.ActionAddEmployee),
		entry("2", 2, payroll.ActionAddEmployee),
		entry("3", 1, payroll.ActionPostTimeCard),
		entry("4", 1, payroll.ActionPostTimeCard),
		entry("5", 2, payroll.ActionChangeName),
	} {
		require.NoError(t, s.Record(ctx, e))
	}

	tests := []struct {
		name   string
		filter payroll.JournalFilter
		want   []string
	}{
		{"all oldest first", payroll.JournalFilter{}, []string{"1", "2", "3", "4", "5"}},
		{"by employee", payroll.JournalFilter{EmployeeID: ptr(payroll.EmployeeID(1))}, []string{"1", "3", "4"}},
		{"by actions", payroll.JournalFilter{Actions: []payroll.AuditAction{payroll.ActionAddEmployee, payroll.ActionChangeName}}, []string{"1", "2", "5"}},
		{"limit keeps newest", payroll.JournalFilter{Limit: 2}, []string{"4", "5"}},
		{"combined", payroll.JournalFilter{EmployeeID: ptr(payroll.EmployeeID(1)), Actions: []payroll.AuditAction{payroll.ActionPostTimeCard}, Limit: 1}, []string{"4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Entries(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]string, len(got))
			for i, e := range got {
				ids[i] = e.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payroll.db")
	ctx := context.Background()

	s, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, entry("e-1", 1, payroll.ActionAddEmployee)))
	require.NoError(t, s.Close())

	reopened, err := sqlite.New(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Entries(ctx, payroll.JournalFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e-1", got[0].ID)
}

func TestStore_Reset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, entry("e-1", 1, payroll.ActionAddEmployee)))

	require.NoError(t, s.Reset(ctx))

	got, err := s.Entries(ctx, payroll.JournalFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func ptr[T any](v T) *T { return &v }

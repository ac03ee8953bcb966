package payroll

import (
	"context"
	"time"
)

// =============================================================================
// AUDIT ENTRY - What an executed transaction did
// =============================================================================

type AuditAction string

const (
	ActionAddEmployee          AuditAction = "add_employee"
	ActionDeleteEmployee       AuditAction = "delete_employee"
	ActionPostTimeCard         AuditAction = "post_time_card"
	ActionPostSaleReceipt      AuditAction = "post_sale_receipt"
	ActionPostServiceCharge    AuditAction = "post_service_charge"
	ActionChangeName           AuditAction = "change_name"
	ActionChangeAddress        AuditAction = "change_address"
	ActionChangeClassification AuditAction = "change_classification"
	ActionChangeMethod         AuditAction = "change_method"
	ActionJoinUnion            AuditAction = "join_union"
	ActionLeaveUnion           AuditAction = "leave_union"
)

// AuditEntry describes one executed transaction. Transactions fill Action,
// the ids and Payload; Runner assigns ID and Timestamp.
type AuditEntry struct {
	ID         string
	Timestamp  time.Time
	Action     AuditAction
	EmployeeID EmployeeID
	MemberID   MemberID
	Payload    map[string]string
}

// =============================================================================
// JOURNAL - Append-only record of executed transactions
// =============================================================================

// Journal stores audit entries. Append-only.
type Journal interface {
	Record(ctx context.Context, entry AuditEntry) error
	Entries(ctx context.Context, filter JournalFilter) ([]AuditEntry, error)
}

// JournalFilter narrows Entries. Zero values match everything.
type JournalFilter struct {
	EmployeeID *EmployeeID
	Actions    []AuditAction
	Limit      int
}

// Matches reports whether e passes the filter, ignoring Limit.
func (f JournalFilter) Matches(e AuditEntry) bool {
	if f.EmployeeID != nil && e.EmployeeID != *f.EmployeeID {
		return false
	}
	if len(f.Actions) == 0 {
		return true
	}
	for _, a := range f.Actions {
		if a == e.Action {
			return true
		}
	}
	return false
}

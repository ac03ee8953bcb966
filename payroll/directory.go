/*
directory.go - Employee store contract

PURPOSE:
  The Directory is the store every transaction reads and mutates. It keeps
  two mappings:
    employee id      -> *Employee
    union member id  -> employee id

  The Directory itself enforces nothing: AddEmployee overwrites, deletes are
  no-ops when absent, and deleting an employee leaves any member mapping in
  place. Uniqueness and cleanup are the transactions' job (see
  transaction.go).

CONCURRENCY:
  A plain Directory is not safe for a resolve-then-mutate sequence from
  several goroutines, even when each method locks. TxDirectory adds an
  exclusive boundary around a whole transaction; Runner uses it.

IMPLEMENTATIONS:
  - payroll/store/memory.go: Memory and TxMemory
*/
package payroll

// Directory stores employees and the union member index.
type Directory interface {
	AddEmployee(id EmployeeID, e *Employee)
	DeleteEmployee(id EmployeeID)
	GetEmployee(id EmployeeID) (*Employee, bool)

	// EmployeeIDs returns every stored id in ascending order.
	EmployeeIDs() []EmployeeID

	AddUnionMember(memberID MemberID, empID EmployeeID)
	DeleteUnionMember(memberID MemberID)

	// UnionMemberEmployeeID reports the employee id memberID is registered
	// to, whether or not that employee still exists.
	UnionMemberEmployeeID(memberID MemberID) (EmployeeID, bool)

	// GetUnionMember follows memberID -> employee id -> employee. It reports
	// false if either link is missing.
	GetUnionMember(memberID MemberID) (*Employee, bool)
}

// TxDirectory runs callbacks against a Directory under one lock.
type TxDirectory interface {
	Directory

	// WithTx gives fn exclusive access. If fn returns an error every change
	// it made is discarded.
	WithTx(fn func(Directory) error) error

	// View gives fn shared read access. fn must not mutate.
	View(fn func(Directory) error) error
}

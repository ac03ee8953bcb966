/*
transaction.go - Transaction contract

PURPOSE:
  A transaction is one validated change to a Directory. Constructors
  (NewAddHourlyEmployee, NewTimeCardTransaction, ...) take the Directory
  plus parameters and check preconditions immediately; Execute applies the
  change.

VALIDATION TIMING:
  Constructors reject bad input up front: duplicate ids, negative amounts,
  missing dates, unknown employees, the wrong classification or affiliation.

  Execute resolves the employee again from the Directory instead of
  reusing what the constructor found, and repeats the checks. A
  transaction built earlier and executed later sees the directory as it is
  at execution time, so it fails cleanly if the employee was deleted or
  reclassified meanwhile.

ERRORS:
  Every failure is an *OperationError wrapping one of the sentinels in
  errors.go, all of which match ErrInvalidOperation.

FILES:
  add.go     AddSalaried/Hourly/CommissionedEmployee, DeleteEmployee
  post.go    TimeCard, SaleReceipt, ServiceCharge postings
  change.go  Name, address, classification, method, union changes
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// Transaction is one validated directory change.
type Transaction interface {
	Execute() error

	// Audit describes the change for the journal.
	Audit() AuditEntry
}

func opErr(op string, id EmployeeID, err error) error {
	return &OperationError{Op: op, EmployeeID: id, Err: err}
}

// nonNegative checks each named amount in order.
func nonNegative(op string, id EmployeeID, fields ...namedAmount) error {
	for _, f := range fields {
		if f.value.IsNegative() {
			return &OperationError{Op: op, EmployeeID: id, Field: f.name, Err: ErrNegativeAmount}
		}
	}
	return nil
}

type namedAmount struct {
	name  string
	value decimal.Decimal
}

func amount(name string, v decimal.Decimal) namedAmount {
	return namedAmount{name: name, value: v}
}

// requireDate rejects the zero Date, which has no YYYY-MM-DD form.
func requireDate(op string, id EmployeeID, d Date) error {
	if d.IsZero() {
		return &OperationError{Op: op, EmployeeID: id, Field: "date", Err: ErrMissingDate}
	}
	return nil
}

func lookup(dir Directory, op string, id EmployeeID) (*Employee, error) {
	e, ok := dir.GetEmployee(id)
	if !ok {
		return nil, opErr(op, id, ErrNoSuchEmployee)
	}
	return e, nil
}

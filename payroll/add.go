package payroll

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ADD EMPLOYEE
// =============================================================================

// AddEmployee inserts a new employee. The classification variant decides
// the schedule; the payment method starts as hold.
type AddEmployee struct {
	dir      Directory
	op       string
	id       EmployeeID
	name     string
	address  string
	kind     ClassificationKind
	classify func() Classification
	params   map[string]string
}

var _ Transaction = (*AddEmployee)(nil)

func NewAddSalariedEmployee(dir Directory, id EmployeeID, name, address string, salary decimal.Decimal) (*AddEmployee, error) {
	const op = "add salaried employee"
	return newAddEmployee(dir, op, id, name, address, KindSalaried,
		func() Classification { return NewSalariedClassification(salary) },
		map[string]string{"salary": salary.String()},
		amount("salary", salary))
}

func NewAddHourlyEmployee(dir Directory, id EmployeeID, name, address string, hourlyRate decimal.Decimal) (*AddEmployee, error) {
	const op = "add hourly employee"
	return newAddEmployee(dir, op, id, name, address, KindHourly,
		func() Classification { return NewHourlyClassification(hourlyRate) },
		map[string]string{"hourly_rate": hourlyRate.String()},
		amount("hourly_rate", hourlyRate))
}

func NewAddCommissionedEmployee(dir Directory, id EmployeeID, name, address string, hourlyRate, commissionRate decimal.Decimal) (*AddEmployee, error) {
	const op = "add commissioned employee"
	return newAddEmployee(dir, op, id, name, address, KindCommissioned,
		func() Classification { return NewCommissionedClassification(hourlyRate, commissionRate) },
		map[string]string{"hourly_rate": hourlyRate.String(), "commission_rate": commissionRate.String()},
		amount("hourly_rate", hourlyRate), amount("commission_rate", commissionRate))
}

func newAddEmployee(dir Directory, op string, id EmployeeID, name, address string, kind ClassificationKind,
	classify func() Classification, params map[string]string, amounts ...namedAmount) (*AddEmployee, error) {
	if _, exists := dir.GetEmployee(id); exists {
		return nil, opErr(op, id, ErrDuplicateEmployee)
	}
	if err := nonNegative(op, id, amounts...); err != nil {
		return nil, err
	}
	return &AddEmployee{
		dir:      dir,
		op:       op,
		id:       id,
		name:     name,
		address:  address,
		kind:     kind,
		classify: classify,
		params:   params,
	}, nil
}

// Execute refuses to overwrite an employee added after construction.
func (t *AddEmployee) Execute() error {
	if _, exists := t.dir.GetEmployee(t.id); exists {
		return opErr(t.op, t.id, ErrDuplicateEmployee)
	}
	e := NewEmployee(t.id, t.name, t.address, t.classify(), ScheduleFor(t.kind))
	t.dir.AddEmployee(t.id, e)
	return nil
}

func (t *AddEmployee) Audit() AuditEntry {
	payload := map[string]string{
		"name":           t.name,
		"address":        t.address,
		"classification": string(t.kind),
	}
	for k, v := range t.params {
		payload[k] = v
	}
	return AuditEntry{Action: ActionAddEmployee, EmployeeID: t.id, Payload: payload}
}

// =============================================================================
// DELETE EMPLOYEE
// =============================================================================

// DeleteEmployee removes an employee. A union member's id mapping is removed
// with them so the member index never points at a missing employee.
type DeleteEmployee struct {
	dir Directory
	id  EmployeeID
}

var _ Transaction = (*DeleteEmployee)(nil)

func NewDeleteEmployee(dir Directory, id EmployeeID) *DeleteEmployee {
	return &DeleteEmployee{dir: dir, id: id}
}

// Execute is a no-op for an unknown id.
func (t *DeleteEmployee) Execute() error {
	if e, ok := t.dir.GetEmployee(t.id); ok {
		if u, ok := e.Union(); ok {
			if m, ok := t.dir.GetUnionMember(u.MemberID()); ok && m.ID == t.id {
				t.dir.DeleteUnionMember(u.MemberID())
			}
		}
	}
	t.dir.DeleteEmployee(t.id)
	return nil
}

func (t *DeleteEmployee) Audit() AuditEntry {
	return AuditEntry{
		Action:     ActionDeleteEmployee,
		EmployeeID: t.id,
		Payload:    map[string]string{"employee_id": strconv.Itoa(int(t.id))},
	}
}

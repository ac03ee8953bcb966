package payroll

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CHANGE EMPLOYEE - One field mutation on an existing employee
// =============================================================================

// ChangeEmployee applies a single mutation to an existing employee. Each
// constructor below supplies the mutation; check, when set, is a
// precondition on the employee evaluated at construction and again at
// execution.
type ChangeEmployee struct {
	dir     Directory
	op      string
	id      EmployeeID
	action  AuditAction
	payload map[string]string
	check   func(*Employee) error
	apply   func(*Employee)
}

var _ Transaction = (*ChangeEmployee)(nil)

func newChange(dir Directory, op string, id EmployeeID, action AuditAction, payload map[string]string,
	check func(*Employee) error, apply func(*Employee)) (*ChangeEmployee, error) {
	c := &ChangeEmployee{
		dir:     dir,
		op:      op,
		id:      id,
		action:  action,
		payload: payload,
		check:   check,
		apply:   apply,
	}
	if _, err := c.resolve(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *ChangeEmployee) resolve() (*Employee, error) {
	e, err := lookup(c.dir, c.op, c.id)
	if err != nil {
		return nil, err
	}
	if c.check != nil {
		if err := c.check(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (c *ChangeEmployee) Execute() error {
	e, err := c.resolve()
	if err != nil {
		return err
	}
	c.apply(e)
	return nil
}

func (c *ChangeEmployee) Audit() AuditEntry {
	entry := AuditEntry{Action: c.action, EmployeeID: c.id, Payload: c.payload}
	if m, ok := c.payload["member_id"]; ok {
		if n, err := strconv.Atoi(m); err == nil {
			entry.MemberID = MemberID(n)
		}
	}
	return entry
}

// =============================================================================
// NAME / ADDRESS
// =============================================================================

func NewChangeName(dir Directory, id EmployeeID, name string) (*ChangeEmployee, error) {
	return newChange(dir, "change name", id, ActionChangeName,
		map[string]string{"name": name}, nil,
		func(e *Employee) { e.Name = name })
}

func NewChangeAddress(dir Directory, id EmployeeID, address string) (*ChangeEmployee, error) {
	return newChange(dir, "change address", id, ActionChangeAddress,
		map[string]string{"address": address}, nil,
		func(e *Employee) { e.Address = address })
}

// =============================================================================
// CLASSIFICATION
// =============================================================================
// A classification change always installs the matching schedule and a new
// classification value, so time cards or receipts posted under the old one
// are dropped.

func newChangeClassification(dir Directory, op string, id EmployeeID, kind ClassificationKind,
	build func() Classification, params map[string]string, amounts ...namedAmount) (*ChangeEmployee, error) {
	if err := nonNegative(op, id, amounts...); err != nil {
		return nil, err
	}
	params["classification"] = string(kind)
	return newChange(dir, op, id, ActionChangeClassification, params, nil,
		func(e *Employee) {
			e.Classification = build()
			e.Schedule = ScheduleFor(kind)
		})
}

func NewChangeHourly(dir Directory, id EmployeeID, hourlyRate decimal.Decimal) (*ChangeEmployee, error) {
	return newChangeClassification(dir, "change to hourly", id, KindHourly,
		func() Classification { return NewHourlyClassification(hourlyRate) },
		map[string]string{"hourly_rate": hourlyRate.String()},
		amount("hourly_rate", hourlyRate))
}

func NewChangeCommissioned(dir Directory, id EmployeeID, hourlyRate, commissionRate decimal.Decimal) (*ChangeEmployee, error) {
	return newChangeClassification(dir, "change to commissioned", id, KindCommissioned,
		func() Classification { return NewCommissionedClassification(hourlyRate, commissionRate) },
		map[string]string{"hourly_rate": hourlyRate.String(), "commission_rate": commissionRate.String()},
		amount("hourly_rate", hourlyRate), amount("commission_rate", commissionRate))
}

func NewChangeSalaried(dir Directory, id EmployeeID, salary decimal.Decimal) (*ChangeEmployee, error) {
	return newChangeClassification(dir, "change to salaried", id, KindSalaried,
		func() Classification { return NewSalariedClassification(salary) },
		map[string]string{"salary": salary.String()},
		amount("salary", salary))
}

// =============================================================================
// PAYMENT METHOD
// =============================================================================

// NewChangeMethod is the common form of NewChangeHold, NewChangeDirect and
// NewChangeMail.
func NewChangeMethod(dir Directory, id EmployeeID, m PaymentMethod) (*ChangeEmployee, error) {
	const op = "change method"
	if !m.Valid() {
		return nil, opErr(op, id, ErrUnknownMethod)
	}
	return newChange(dir, op, id, ActionChangeMethod,
		map[string]string{"method": string(m)}, nil,
		func(e *Employee) { e.Method = m })
}

func NewChangeHold(dir Directory, id EmployeeID) (*ChangeEmployee, error) {
	return NewChangeMethod(dir, id, MethodHold)
}

func NewChangeDirect(dir Directory, id EmployeeID) (*ChangeEmployee, error) {
	return NewChangeMethod(dir, id, MethodDirect)
}

func NewChangeMail(dir Directory, id EmployeeID) (*ChangeEmployee, error) {
	return NewChangeMethod(dir, id, MethodMail)
}

// =============================================================================
// AFFILIATION
// =============================================================================

// NewChangeUnionMember makes the employee a union member under memberID. The
// member id must not be registered yet, to this or any other employee, even
// one that no longer exists. An employee who was already a member under
// another id loses that mapping.
func NewChangeUnionMember(dir Directory, id EmployeeID, memberID MemberID, dues decimal.Decimal) (*ChangeEmployee, error) {
	const op = "change to union member"
	if dues.IsNegative() {
		return nil, &OperationError{Op: op, EmployeeID: id, MemberID: memberID, Field: "dues", Err: ErrNegativeAmount}
	}
	check := func(*Employee) error {
		if _, taken := dir.UnionMemberEmployeeID(memberID); taken {
			return &OperationError{Op: op, EmployeeID: id, MemberID: memberID, Err: ErrDuplicateMember}
		}
		return nil
	}
	return newChange(dir, op, id, ActionJoinUnion,
		map[string]string{"member_id": strconv.Itoa(int(memberID)), "dues": dues.String()},
		check,
		func(e *Employee) {
			if old, ok := e.Union(); ok {
				dir.DeleteUnionMember(old.MemberID())
			}
			dir.AddUnionMember(memberID, id)
			e.Affiliation = NewUnionAffiliation(memberID, dues)
		})
}

// NewChangeUnaffiliated ends union membership. It fails with
// ErrNotUnionMember when the employee is not a member.
func NewChangeUnaffiliated(dir Directory, id EmployeeID) (*ChangeEmployee, error) {
	const op = "change to unaffiliated"
	check := func(e *Employee) error {
		if _, ok := e.Union(); !ok {
			return opErr(op, id, ErrNotUnionMember)
		}
		return nil
	}
	payload := map[string]string{}
	return newChange(dir, op, id, ActionLeaveUnion, payload, check,
		func(e *Employee) {
			u, _ := e.Union()
			payload["member_id"] = strconv.Itoa(int(u.MemberID()))
			dir.DeleteUnionMember(u.MemberID())
			e.Affiliation = NoAffiliation{}
		})
}

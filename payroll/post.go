package payroll

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TIME CARD
// =============================================================================

// TimeCardTransaction posts hours worked to an hourly employee's ledger.
type TimeCardTransaction struct {
	dir   Directory
	empID EmployeeID
	date  Date
	hours decimal.Decimal
}

var _ Transaction = (*TimeCardTransaction)(nil)

const opTimeCard = "post time card"

func NewTimeCardTransaction(dir Directory, empID EmployeeID, date Date, hours decimal.Decimal) (*TimeCardTransaction, error) {
	if err := requireDate(opTimeCard, empID, date); err != nil {
		return nil, err
	}
	if err := nonNegative(opTimeCard, empID, amount("hours", hours)); err != nil {
		return nil, err
	}
	t := &TimeCardTransaction{dir: dir, empID: empID, date: date, hours: hours}
	if _, err := t.resolve(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TimeCardTransaction) resolve() (*HourlyClassification, error) {
	e, err := lookup(t.dir, opTimeCard, t.empID)
	if err != nil {
		return nil, err
	}
	hc, ok := e.Classification.(*HourlyClassification)
	if !ok {
		return nil, opErr(opTimeCard, t.empID, ErrNotHourly)
	}
	return hc, nil
}

func (t *TimeCardTransaction) Execute() error {
	hc, err := t.resolve()
	if err != nil {
		return err
	}
	hc.AddTimeCard(NewTimeCard(t.date, t.hours))
	return nil
}

func (t *TimeCardTransaction) Audit() AuditEntry {
	return AuditEntry{
		Action:     ActionPostTimeCard,
		EmployeeID: t.empID,
		Payload:    map[string]string{"date": t.date.String(), "hours": t.hours.String()},
	}
}

// =============================================================================
// SALE RECEIPT
// =============================================================================

// SaleReceiptTransaction posts a sale to a commissioned employee's ledger.
type SaleReceiptTransaction struct {
	dir    Directory
	empID  EmployeeID
	date   Date
	amount decimal.Decimal
}

var _ Transaction = (*SaleReceiptTransaction)(nil)

const opSaleReceipt = "post sale receipt"

func NewSaleReceiptTransaction(dir Directory, empID EmployeeID, date Date, amt decimal.Decimal) (*SaleReceiptTransaction, error) {
	if err := requireDate(opSaleReceipt, empID, date); err != nil {
		return nil, err
	}
	if err := nonNegative(opSaleReceipt, empID, amount("amount", amt)); err != nil {
		return nil, err
	}
	t := &SaleReceiptTransaction{dir: dir, empID: empID, date: date, amount: amt}
	if _, err := t.resolve(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *SaleReceiptTransaction) resolve() (*CommissionedClassification, error) {
	e, err := lookup(t.dir, opSaleReceipt, t.empID)
	if err != nil {
		return nil, err
	}
	cc, ok := e.Classification.(*CommissionedClassification)
	if !ok {
		return nil, opErr(opSaleReceipt, t.empID, ErrNotCommissioned)
	}
	return cc, nil
}

func (t *SaleReceiptTransaction) Execute() error {
	cc, err := t.resolve()
	if err != nil {
		return err
	}
	cc.AddSaleReceipt(NewSaleReceipt(t.date, t.amount))
	return nil
}

func (t *SaleReceiptTransaction) Audit() AuditEntry {
	return AuditEntry{
		Action:     ActionPostSaleReceipt,
		EmployeeID: t.empID,
		Payload:    map[string]string{"date": t.date.String(), "amount": t.amount.String()},
	}
}

// =============================================================================
// SERVICE CHARGE
// =============================================================================

// ServiceChargeTransaction posts a union service charge. It finds the
// employee through the member index, not the employee id.
type ServiceChargeTransaction struct {
	dir      Directory
	memberID MemberID
	date     Date
	amount   decimal.Decimal

	// empID is whoever the member resolved to at execution, for the audit entry.
	empID EmployeeID
}

var _ Transaction = (*ServiceChargeTransaction)(nil)

const opServiceCharge = "post service charge"

func NewServiceChargeTransaction(dir Directory, memberID MemberID, date Date, amt decimal.Decimal) (*ServiceChargeTransaction, error) {
	t := &ServiceChargeTransaction{dir: dir, memberID: memberID, date: date, amount: amt}
	if date.IsZero() {
		return nil, t.fail(ErrMissingDate, "date")
	}
	if amt.IsNegative() {
		return nil, t.fail(ErrNegativeAmount, "amount")
	}
	if _, _, err := t.resolve(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *ServiceChargeTransaction) resolve() (*Employee, *UnionAffiliation, error) {
	e, ok := t.dir.GetUnionMember(t.memberID)
	if !ok {
		return nil, nil, t.fail(ErrNoSuchMember, "")
	}
	u, ok := e.Union()
	if !ok {
		return nil, nil, &OperationError{Op: opServiceCharge, EmployeeID: e.ID, MemberID: t.memberID, Err: ErrNotUnionMember}
	}
	return e, u, nil
}

func (t *ServiceChargeTransaction) fail(err error, field string) error {
	return &OperationError{Op: opServiceCharge, MemberID: t.memberID, Field: field, Err: err}
}

func (t *ServiceChargeTransaction) Execute() error {
	e, u, err := t.resolve()
	if err != nil {
		return err
	}
	u.AddServiceCharge(NewServiceCharge(t.date, t.amount))
	t.empID = e.ID
	return nil
}

func (t *ServiceChargeTransaction) Audit() AuditEntry {
	return AuditEntry{
		Action:     ActionPostServiceCharge,
		EmployeeID: t.empID,
		MemberID:   t.memberID,
		Payload: map[string]string{
			"member_id": strconv.Itoa(int(t.memberID)),
			"date":      t.date.String(),
			"amount":    t.amount.String(),
		},
	}
}

/*
Package payroll models employees, their pay arrangements, and the
transactions that change them.

KEY CONCEPTS:
  - Employee: name, address and four pay facets
      Classification  how pay is computed (salaried, hourly, commissioned)
      Schedule        how often they are paid (monthly, weekly, biweekly)
      PaymentMethod   how pay is delivered (hold, direct deposit, mail)
      Affiliation     union membership and its service-charge ledger
  - Directory: the employee store, keyed by employee id, plus the
    union member id index
  - Transaction: one validated change to the directory

DESIGN PRINCIPLES:
  1. Closed variants: Classification and Affiliation are sealed interfaces,
     Schedule and PaymentMethod are enums. Callers switch on the concrete
     type instead of probing for capabilities.
  2. Precision: amounts, rates and hours are decimal.Decimal.
  3. Injection: every transaction receives the Directory it works on.

USAGE:
  dir := store.NewMemory()
  tx, err := payroll.NewAddHourlyEmployee(dir, 234, "Jackson", "address3", decimal.NewFromInt(8))
  if err != nil {
      return err
  }
  err = tx.Execute()

SEE ALSO:
  - transaction.go: Transaction contract and construction rules
  - directory.go: Directory interface
  - runner.go: Serialized execution with journaling
*/
package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID int
type MemberID int

// =============================================================================
// VALUE RECORDS - Immutable date-keyed facts
// =============================================================================

// TimeCard records hours worked by an hourly employee on one day.
type TimeCard struct {
	Date  Date
	Hours decimal.Decimal
}

// SaleReceipt records a sale made by a commissioned employee on one day.
type SaleReceipt struct {
	Date   Date
	Amount decimal.Decimal
}

// ServiceCharge records a union service charge against a member on one day.
type ServiceCharge struct {
	Date   Date
	Amount decimal.Decimal
}

func NewTimeCard(date Date, hours decimal.Decimal) TimeCard {
	return TimeCard{Date: date, Hours: hours}
}

func NewSaleReceipt(date Date, amount decimal.Decimal) SaleReceipt {
	return SaleReceipt{Date: date, Amount: amount}
}

func NewServiceCharge(date Date, amount decimal.Decimal) ServiceCharge {
	return ServiceCharge{Date: date, Amount: amount}
}

// =============================================================================
// SCHEDULE - Payment frequency
// =============================================================================

type Schedule string

const (
	ScheduleMonthly  Schedule = "monthly"
	ScheduleWeekly   Schedule = "weekly"
	ScheduleBiweekly Schedule = "biweekly"
)

// ScheduleFor returns the schedule that always accompanies a classification kind.
func ScheduleFor(kind ClassificationKind) Schedule {
	switch kind {
	case KindHourly:
		return ScheduleWeekly
	case KindCommissioned:
		return ScheduleBiweekly
	default:
		return ScheduleMonthly
	}
}

// =============================================================================
// PAYMENT METHOD - Delivery of pay
// =============================================================================

type PaymentMethod string

const (
	MethodHold   PaymentMethod = "hold"
	MethodDirect PaymentMethod = "direct"
	MethodMail   PaymentMethod = "mail"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodHold, MethodDirect, MethodMail:
		return true
	}
	return false
}

// =============================================================================
// LEDGER - Date-keyed facts, last write wins
// =============================================================================

type ledger[T any] map[Date]T

func (l ledger[T]) get(d Date) (T, bool) {
	v, ok := l[d]
	return v, ok
}

// sorted returns entries in date order.
func (l ledger[T]) sorted() []T {
	dates := make([]Date, 0, len(l))
	for d := range l {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := make([]T, len(dates))
	for i, d := range dates {
		out[i] = l[d]
	}
	return out
}

func (l ledger[T]) clone() ledger[T] {
	c := make(ledger[T], len(l))
	for k, v := range l {
		c[k] = v
	}
	return c
}

/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupled from the
  payroll domain types.

CONVENTIONS:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - Amounts, rates and hours are decimal strings ("15.25")
  - Dates are "YYYY-MM-DD"

VALIDATION:
  Validation is done by the payroll transaction constructors, not here.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll/payroll"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID             int               `json:"id"`
	Name           string            `json:"name"`
	Address        string            `json:"address"`
	Classification ClassificationDTO `json:"classification"`
	Schedule       string            `json:"schedule"`
	Method         string            `json:"method"`
	Union          *UnionDTO         `json:"union,omitempty"`
}

// ClassificationDTO flattens the classification variants; only the fields
// of Kind are set.
type ClassificationDTO struct {
	Kind           string           `json:"kind"`
	Salary         *decimal.Decimal `json:"salary,omitempty"`
	HourlyRate     *decimal.Decimal `json:"hourly_rate,omitempty"`
	CommissionRate *decimal.Decimal `json:"commission_rate,omitempty"`
	TimeCards      []TimeCardDTO    `json:"time_cards,omitempty"`
	SaleReceipts   []SaleReceiptDTO `json:"sale_receipts,omitempty"`
}

// UnionDTO is present only for union members.
type UnionDTO struct {
	MemberID       int                `json:"member_id"`
	Dues           decimal.Decimal    `json:"dues"`
	ServiceCharges []ServiceChargeDTO `json:"service_charges,omitempty"`
}

type TimeCardDTO struct {
	Date  payroll.Date    `json:"date"`
	Hours decimal.Decimal `json:"hours"`
}

type SaleReceiptDTO struct {
	Date   payroll.Date    `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type ServiceChargeDTO struct {
	Date   payroll.Date    `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateEmployeeRequest adds an employee. Classification is "salaried"
// (uses Salary), "hourly" (HourlyRate) or "commissioned" (HourlyRate and
// CommissionRate).
type CreateEmployeeRequest struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	Classification string          `json:"classification"`
	Salary         decimal.Decimal `json:"salary"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

// =============================================================================
// POSTINGS
// =============================================================================

type TimeCardRequest struct {
	Date  payroll.Date    `json:"date"`
	Hours decimal.Decimal `json:"hours"`
}

type SaleReceiptRequest struct {
	Date   payroll.Date    `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type ServiceChargeRequest struct {
	Date   payroll.Date    `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// =============================================================================
// CHANGES
// =============================================================================

type ChangeNameRequest struct {
	Name string `json:"name"`
}

type ChangeAddressRequest struct {
	Address string `json:"address"`
}

// ChangeClassificationRequest uses the same fields as CreateEmployeeRequest.
type ChangeClassificationRequest struct {
	Classification string          `json:"classification"`
	Salary         decimal.Decimal `json:"salary"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

type ChangeMethodRequest struct {
	Method string `json:"method"`
}

type JoinUnionRequest struct {
	MemberID int             `json:"member_id"`
	Dues     decimal.Decimal `json:"dues"`
}

// =============================================================================
// JOURNAL / RESULTS
// =============================================================================

// JournalEntryDTO is one executed transaction.
type JournalEntryDTO struct {
	ID         string            `json:"id"`
	Timestamp  string            `json:"timestamp"`
	Action     string            `json:"action"`
	EmployeeID int               `json:"employee_id"`
	MemberID   int               `json:"member_id,omitempty"`
	Payload    map[string]string `json:"payload,omitempty"`
}

// TransactionResultDTO is returned by every mutating endpoint. Employee is
// the state after the transaction, absent after a delete.
type TransactionResultDTO struct {
	Transaction JournalEntryDTO `json:"transaction"`
	Employee    *EmployeeDTO    `json:"employee,omitempty"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION
// =============================================================================

func toEmployeeDTO(e *payroll.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:             int(e.ID),
		Name:           e.Name,
		Address:        e.Address,
		Classification: toClassificationDTO(e.Classification),
		Schedule:       string(e.Schedule),
		Method:         string(e.Method),
	}
	if u, ok := e.Union(); ok {
		union := &UnionDTO{MemberID: int(u.MemberID()), Dues: u.Dues()}
		for _, sc := range u.ServiceCharges() {
			union.ServiceCharges = append(union.ServiceCharges, ServiceChargeDTO{Date: sc.Date, Amount: sc.Amount})
		}
		dto.Union = union
	}
	return dto
}

func toClassificationDTO(c payroll.Classification) ClassificationDTO {
	switch c := c.(type) {
	case *payroll.SalariedClassification:
		salary := c.Salary()
		return ClassificationDTO{Kind: string(c.Kind()), Salary: &salary}
	case *payroll.HourlyClassification:
		rate := c.HourlyRate()
		dto := ClassificationDTO{Kind: string(c.Kind()), HourlyRate: &rate}
		for _, tc := range c.TimeCards() {
			dto.TimeCards = append(dto.TimeCards, TimeCardDTO{Date: tc.Date, Hours: tc.Hours})
		}
		return dto
	case *payroll.CommissionedClassification:
		rate, comm := c.HourlyRate(), c.CommissionRate()
		dto := ClassificationDTO{Kind: string(c.Kind()), HourlyRate: &rate, CommissionRate: &comm}
		for _, r := range c.SaleReceipts() {
			dto.SaleReceipts = append(dto.SaleReceipts, SaleReceiptDTO{Date: r.Date, Amount: r.Amount})
		}
		return dto
	}
	return ClassificationDTO{}
}

func toJournalEntryDTO(e payroll.AuditEntry) JournalEntryDTO {
	return JournalEntryDTO{
		ID:         e.ID,
		Timestamp:  e.Timestamp.Format(time.RFC3339),
		Action:     string(e.Action),
		EmployeeID: int(e.EmployeeID),
		MemberID:   int(e.MemberID),
		Payload:    e.Payload,
	}
}

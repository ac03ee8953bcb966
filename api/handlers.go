/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes payroll transactions via REST API. Handlers decode the request,
  build the matching transaction inside Runner.Run, and serialize the
  resulting journal entry and employee state.

ENDPOINTS:
  Employees:
    GET    /api/employees                         List employees
    POST   /api/employees                         Add employee
    GET    /api/employees/{id}                    Get employee
    DELETE /api/employees/{id}                    Delete employee

  Postings:
    POST   /api/employees/{id}/timecards          Post time card
    POST   /api/employees/{id}/sales-receipts     Post sale receipt
    POST   /api/members/{memberId}/service-charges Post service charge

  Changes:
    PUT    /api/employees/{id}/name|address|classification|method
    PUT    /api/employees/{id}/union              Join union
    DELETE /api/employees/{id}/union              Leave union

  Journal:
    GET    /api/journal                           Executed transactions

  Scenarios (scenarios.go):
    GET    /api/scenarios                         List demo scenarios
    POST   /api/scenarios/load                    Reset and load one

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed input (bad JSON, bad id, unknown classification)
  - 404: No such employee / member
  - 409: Duplicate employee id / member id
  - 422: Any other rejected transaction
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/payroll/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Runner *payroll.Runner
	Logger *zap.Logger
}

// NewHandler creates a new handler running transactions through runner.
func NewHandler(runner *payroll.Runner, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Runner: runner, Logger: logger}
}

var errUnknownClassification = errors.New("classification must be salaried, hourly or commissioned")

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees ordered by id.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.employees()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	dto, found, err := h.employee(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read employee", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// CreateEmployee adds an employee of the requested classification.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !decode(w, r, &req) {
		return
	}

	id := payroll.EmployeeID(req.ID)
	var build payroll.Builder
	switch payroll.ClassificationKind(req.Classification) {
	case payroll.KindSalaried:
		build = func(dir payroll.Directory) (payroll.Transaction, error) {
			return payroll.NewAddSalariedEmployee(dir, id, req.Name, req.Address, req.Salary)
		}
	case payroll.KindHourly:
		build = func(dir payroll.Directory) (payroll.Transaction, error) {
			return payroll.NewAddHourlyEmployee(dir, id, req.Name, req.Address, req.HourlyRate)
		}
	case payroll.KindCommissioned:
		build = func(dir payroll.Directory) (payroll.Transaction, error) {
			return payroll.NewAddCommissionedEmployee(dir, id, req.Name, req.Address, req.HourlyRate, req.CommissionRate)
		}
	default:
		writeError(w, http.StatusBadRequest, "Invalid classification", errUnknownClassification)
		return
	}

	h.execute(w, r, http.StatusCreated, build)
}

// DeleteEmployee removes an employee and their union membership.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	h.execute(w, r, http.StatusOK, func(dir payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewDeleteEmployee(dir, id), nil
	})
}

// =============================================================================
// POSTING HANDLERS
// =============================================================================

// PostTimeCard records hours for an hourly employee.
func (h *Handler) PostTimeCard(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	var req TimeCardRequest
	if !decode(w, r, &req) {
		return
	}
	h.execute(w, r, http.StatusCreated, func(dir payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewTimeCardTransaction(dir, id, req.Date, req.Hours)
	})
}

// PostSaleReceipt records a sale for a commissioned employee.
func (h *Handler) PostSaleReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	var req SaleReceiptRequest
	if !decode(w, r, &req) {
		return
	}
	h.execute(w, r, http.StatusCreated, func(dir payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewSaleReceiptTransaction(dir, id, req.Date, req.Amount)
	})
}

// PostServiceCharge records a union service charge by member id.
func (h *Handler) PostServiceCharge(w http.ResponseWriter, r *http.Request) {
	memberID, ok := memberIDParam(w, r)
	if !ok {
		return
	}
	var req ServiceChargeRequest
	if !decode(w, r, &req) {
		return
	}
	h.execute(w, r, http.StatusCreated, func(dir payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewServiceChargeTransaction(dir, memberID, req.Date, req.Amount)
	})
}

// GetMember returns the employee registered under a union member id.
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	memberID, ok := memberIDParam(w, r)
	if !ok {
		return
	}
	var (
		dto   EmployeeDTO
		found bool
	)
	err := h.Runner.View(func(dir payroll.Directory) error {
		if e, ok := dir.GetUnionMember(memberID); ok {
			dto, found = toEmployeeDTO(e), true
		}
		return nil
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read member", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Member not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// CHANGE HANDLERS
// =============================================================================

func (h *Handler) ChangeName(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	var req ChangeNameRequest
	if !decode(w, r, &req) {
		return
	}
	h.execute(w, r, http.StatusOK, func(dir payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewChangeName(dir, id, req.Name)
	})
}

func (h *Handler) ChangeAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	var req ChangeAddressRequest
	if !decode(w, r, &req) {
		return
	}
	h.execute(w, r, http.StatusOK, func(dir payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewChangeAddress(dir, id, req.Address)
	})
}

// ChangeClassification reclassifies an employee; their schedule follows.
func (h *Handler) ChangeClassification(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	var req ChangeClassificationRequest
	if !decode(w, r, &req) {
		return
	}

	var build payroll.Builder
	switch payroll.ClassificationKind(req.Classification) {
	case payroll.KindSalaried:
		build = func(dir payroll.Directory) (payroll.Transaction, error) {
			return payroll.NewChangeSalaried(dir, id, req.Salary)
		}
	case payroll.KindHourly:
		build = func(dir payroll.Directory) (payroll.Transaction, error) {
			return payroll.NewChangeHourly(dir, id, req.HourlyRate)
		}
	case payroll.KindCommissioned:
		build = func(dir payroll.Directory) (payroll.Transaction, error) {
			return payroll.NewChangeCommissioned(dir, id, req.HourlyRate, req.CommissionRate)
		}
	default:
		writeError(w, http.StatusBadRequest, "Invalid classification", errUnknownClassification)
		return
	}
	h.execute(w, r, http.StatusOK, build)
}

func (h *Handler) ChangeMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	var req ChangeMethodRequest
	if !decode(w, r, &req) {
		return
	}
	h.execute(w, r, http.StatusOK, func(dir payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewChangeMethod(dir, id, payroll.PaymentMethod(req.Method))
	})
}

func (h *Handler) JoinUnion(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	var req JoinUnionRequest
	if !decode(w, r, &req) {
		return
	}
	h.execute(w, r, http.StatusOK, func(dir payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewChangeUnionMember(dir, id, payroll.MemberID(req.MemberID), req.Dues)
	})
}

func (h *Handler) LeaveUnion(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	h.execute(w, r, http.StatusOK, func(dir payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewChangeUnaffiliated(dir, id)
	})
}

// =============================================================================
// JOURNAL HANDLERS
// =============================================================================

// ListJournal returns executed transactions, optionally for one employee
// (?employee_id=), of some kinds (?action=, repeatable), newest N (?limit=).
func (h *Handler) ListJournal(w http.ResponseWriter, r *http.Request) {
	journal := h.Runner.Journal()
	if journal == nil {
		writeJSON(w, http.StatusOK, []JournalEntryDTO{})
		return
	}

	q := r.URL.Query()
	var filter payroll.JournalFilter
	if v := q.Get("employee_id"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid employee_id", err)
			return
		}
		id := payroll.EmployeeID(n)
		filter.EmployeeID = &id
	}
	for _, a := range q["action"] {
		filter.Actions = append(filter.Actions, payroll.AuditAction(a))
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		filter.Limit = n
	}

	entries, err := journal.Entries(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read journal", err)
		return
	}
	dtos := make([]JournalEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toJournalEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

// execute runs one transaction and writes its result.
func (h *Handler) execute(w http.ResponseWriter, r *http.Request, status int, build payroll.Builder) {
	entry, err := h.Runner.Run(r.Context(), build)
	if err != nil {
		h.writeTransactionError(w, err)
		return
	}

	result := TransactionResultDTO{Transaction: toJournalEntryDTO(entry)}
	dto, found, err := h.employee(entry.EmployeeID)
	if err != nil {
		// The transaction is already committed; report it without the employee.
		h.Logger.Error("failed to read employee after transaction",
			zap.String("transaction", entry.ID), zap.Error(err))
	} else if found {
		result.Employee = &dto
	}
	writeJSON(w, status, result)
}

// employee copies one employee out under the read lock.
func (h *Handler) employee(id payroll.EmployeeID) (EmployeeDTO, bool, error) {
	var (
		dto   EmployeeDTO
		found bool
	)
	err := h.Runner.View(func(dir payroll.Directory) error {
		if e, ok := dir.GetEmployee(id); ok {
			dto, found = toEmployeeDTO(e), true
		}
		return nil
	})
	return dto, found, err
}

// employees copies every employee out under the read lock, ordered by id.
func (h *Handler) employees() ([]EmployeeDTO, error) {
	dtos := []EmployeeDTO{}
	err := h.Runner.View(func(dir payroll.Directory) error {
		for _, id := range dir.EmployeeIDs() {
			if e, ok := dir.GetEmployee(id); ok {
				dtos = append(dtos, toEmployeeDTO(e))
			}
		}
		return nil
	})
	return dtos, err
}

func (h *Handler) writeTransactionError(w http.ResponseWriter, err error) {
	switch {
	case payroll.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case payroll.IsConflict(err):
		writeError(w, http.StatusConflict, "Conflict", err)
	case payroll.IsInvalidOperation(err):
		writeError(w, http.StatusUnprocessableEntity, "Invalid operation", err)
	default:
		h.Logger.Error("transaction failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Transaction failed", err)
	}
}

func employeeIDParam(w http.ResponseWriter, r *http.Request) (payroll.EmployeeID, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee id", err)
		return 0, false
	}
	return payroll.EmployeeID(n), true
}

func memberIDParam(w http.ResponseWriter, r *http.Request) (payroll.MemberID, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "memberId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid member id", err)
		return 0, false
	}
	return payroll.MemberID(n), true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

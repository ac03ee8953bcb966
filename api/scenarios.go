/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the directory with realistic
	payroll data. Every step is an ordinary transaction run through the
	Runner, so scenarios are validated and journaled like any API call.

AVAILABLE SCENARIOS:

	mixed-staff:    One salaried, one hourly, one commissioned employee
	union-members:  Union members with dues and service charges
	busy-week:      A week of time cards and sale receipts

HOW SCENARIOS WORK:
 1. Delete every existing employee (DeleteEmployee transactions)
 2. Run the scenario's transactions in order
 3. Stop at the first rejected transaction

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "union-members"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add its builders to scenarioSteps

NOTE:

	Scenarios clear the directory. Only use in development/demo environments.

SEE ALSO:
  - server.go: /api/scenarios routes
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/payroll/payroll"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes a loadable scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// LoadScenarioResponse reports what was loaded.
type LoadScenarioResponse struct {
	Scenario     string        `json:"scenario"`
	Transactions int           `json:"transactions"`
	Employees    []EmployeeDTO `json:"employees"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "mixed-staff",
		Name:        "Mixed Staff",
		Description: "Salaried, hourly and commissioned employees with different payment methods",
	},
	{
		ID:          "union-members",
		Name:        "Union Members",
		Description: "Two union members with dues and posted service charges",
	},
	{
		ID:          "busy-week",
		Name:        "Busy Week",
		Description: "A week of time cards for an hourly employee and daily sales for a commissioned one",
	},
}

// Week of Monday 3 March 2025.
var scenarioMonday = payroll.NewDate(2025, time.March, 3)

func scenarioSteps(id string) ([]payroll.Builder, bool) {
	switch id {
	case "mixed-staff":
		return mixedStaffScenario(), true
	case "union-members":
		return unionMembersScenario(), true
	case "busy-week":
		return busyWeekScenario(), true
	}
	return nil, false
}

func mixedStaffScenario() []payroll.Builder {
	return []payroll.Builder{
		addSalaried(1, "Bob", "Home", "1000.00"),
		addHourly(2, "Bill", "Home", "15.25"),
		addCommissioned(3, "Lance", "Home", "2500", "3.2"),
		func(dir payroll.Directory) (payroll.Transaction, error) {
			return payroll.NewChangeDirect(dir, 1)
		},
		func(dir payroll.Directory) (payroll.Transaction, error) {
			return payroll.NewChangeMail(dir, 3)
		},
	}
}

func unionMembersScenario() []payroll.Builder {
	return []payroll.Builder{
		addHourly(2, "Bill", "Home", "15.25"),
		addSalaried(4, "Jackson", "address3", "500"),
		joinUnion(2, 7734, "9.42"),
		joinUnion(4, 7735, "12.50"),
		serviceCharge(7734, scenarioMonday, "12.95"),
		serviceCharge(7735, scenarioMonday.AddDays(2), "3.00"),
	}
}

func busyWeekScenario() []payroll.Builder {
	steps := []payroll.Builder{
		addHourly(2, "Bill", "Home", "15.25"),
		addCommissioned(5, "Blake", "456 the new Address", "9.5", "0.15"),
	}
	for day := 0; day < 5; day++ {
		date := scenarioMonday.AddDays(day)
		hours := decimal.NewFromInt(8)
		if day == 4 {
			hours = decimal.NewFromInt(3)
		}
		amount := decimal.NewFromInt(int64(250 * (day + 1)))
		steps = append(steps,
			func(dir payroll.Directory) (payroll.Transaction, error) {
				return payroll.NewTimeCardTransaction(dir, 2, date, hours)
			},
			func(dir payroll.Directory) (payroll.Transaction, error) {
				return payroll.NewSaleReceiptTransaction(dir, 5, date, amount)
			},
		)
	}
	return steps
}

// =============================================================================
// STEP BUILDERS
// =============================================================================

func addSalaried(id payroll.EmployeeID, name, address, salary string) payroll.Builder {
	return func(dir payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewAddSalariedEmployee(dir, id, name, address, decimal.RequireFromString(salary))
	}
}

func addHourly(id payroll.EmployeeID, name, address, rate string) payroll.Builder {
	return func(dir payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewAddHourlyEmployee(dir, id, name, address, decimal.RequireFromString(rate))
	}
}

func addCommissioned(id payroll.EmployeeID, name, address, rate, commission string) payroll.Builder {
	return func(dir payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewAddCommissionedEmployee(dir, id, name, address,
			decimal.RequireFromString(rate), decimal.RequireFromString(commission))
	}
}

func joinUnion(id payroll.EmployeeID, memberID payroll.MemberID, dues string) payroll.Builder {
	return func(dir payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewChangeUnionMember(dir, id, memberID, decimal.RequireFromString(dues))
	}
}

func serviceCharge(memberID payroll.MemberID, date payroll.Date, amount string) payroll.Builder {
	return func(dir payroll.Directory) (payroll.Transaction, error) {
		return payroll.NewServiceChargeTransaction(dir, memberID, date, decimal.RequireFromString(amount))
	}
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns the available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario clears the directory and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decode(w, r, &req) {
		return
	}
	steps, ok := scenarioSteps(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusNotFound, "Scenario not found", fmt.Errorf("unknown scenario %q", req.ScenarioID))
		return
	}

	ctx := r.Context()
	if err := h.clearDirectory(ctx); err != nil {
		h.writeTransactionError(w, err)
		return
	}
	for i, build := range steps {
		if _, err := h.Runner.Run(ctx, build); err != nil {
			h.Logger.Error("scenario step failed",
				zap.String("scenario", req.ScenarioID), zap.Int("step", i), zap.Error(err))
			h.writeTransactionError(w, err)
			return
		}
	}
	h.Logger.Info("scenario loaded", zap.String("scenario", req.ScenarioID), zap.Int("transactions", len(steps)))

	employees, err := h.employees()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}
	writeJSON(w, http.StatusOK, LoadScenarioResponse{
		Scenario:     req.ScenarioID,
		Transactions: len(steps),
		Employees:    employees,
	})
}

// clearDirectory deletes every employee through the Runner so the resets
// are journaled too.
func (h *Handler) clearDirectory(ctx context.Context) error {
	var ids []payroll.EmployeeID
	err := h.Runner.View(func(dir payroll.Directory) error {
		ids = dir.EmployeeIDs()
		return nil
	})
	if err != nil {
		return err
	}
	for _, id := range ids {
		id := id
		_, err := h.Runner.Run(ctx, func(dir payroll.Directory) (payroll.Transaction, error) {
			return payroll.NewDeleteEmployee(dir, id), nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

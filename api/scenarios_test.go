package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll/api"
)

func TestListScenarios(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]api.ScenarioDTO](t, rec)

	var ids []string
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []string{"mixed-staff", "union-members", "busy-week"}, ids)
}

func TestLoadScenario_AllLoad(t *testing.T) {
	for _, id := range []string{"mixed-staff", "union-members", "busy-week"} {
		t.Run(id, func(t *testing.T) {
			h := newTestServer(t)

			rec := do(t, h, http.MethodPost, "/api/scenarios/load", map[string]any{"scenario_id": id})

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			resp := decodeBody[api.LoadScenarioResponse](t, rec)
			assert.Equal(t, id, resp.Scenario)
			assert.NotEmpty(t, resp.Employees)
			assert.Positive(t, resp.Transactions)
		})
	}
}

func TestLoadScenario_ReplacesExistingEmployees(t *testing.T) {
	// GIVEN: An employee that is not part of any scenario
	h := newTestServer(t)
	createHourly(t, h, 99)

	// WHEN: The union scenario is loaded
	rec := do(t, h, http.MethodPost, "/api/scenarios/load", map[string]any{"scenario_id": "union-members"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// THEN: Only scenario employees remain and members resolve
	rec = do(t, h, http.MethodGet, "/api/employees/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/members/7734", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	emp := decodeBody[api.EmployeeDTO](t, rec)
	assert.Equal(t, 2, emp.ID)
	require.NotNil(t, emp.Union)
	assert.Len(t, emp.Union.ServiceCharges, 1)

	// Loading twice still succeeds; the reset removes the member ids.
	rec = do(t, h, http.MethodPost, "/api/scenarios/load", map[string]any{"scenario_id": "union-members"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLoadScenario_BusyWeek(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/api/scenarios/load", map[string]any{"scenario_id": "busy-week"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/employees/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cards := decodeBody[api.EmployeeDTO](t, rec).Classification.TimeCards
	require.Len(t, cards, 5)
	assert.Equal(t, "2025-03-03", cards[0].Date.String())
	assert.Equal(t, "3", cards[4].Hours.String())

	rec = do(t, h, http.MethodGet, "/api/employees/5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[api.EmployeeDTO](t, rec).Classification.SaleReceipts, 5)
}

func TestLoadScenario_Unknown(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/api/scenarios/load", map[string]any{"scenario_id": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

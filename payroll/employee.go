package payroll

// Employee is owned by the Directory once added; transactions mutate it in place.
type Employee struct {
	ID             EmployeeID
	Name           string
	Address        string
	Classification Classification
	Schedule       Schedule
	Method         PaymentMethod
	Affiliation    Affiliation
}

// NewEmployee builds an employee paid by hold with no affiliation.
func NewEmployee(id EmployeeID, name, address string, c Classification, s Schedule) *Employee {
	return &Employee{
		ID:             id,
		Name:           name,
		Address:        address,
		Classification: c,
		Schedule:       s,
		Method:         MethodHold,
		Affiliation:    NoAffiliation{},
	}
}

// Union returns the union affiliation if the employee has one.
func (e *Employee) Union() (*UnionAffiliation, bool) {
	u, ok := e.Affiliation.(*UnionAffiliation)
	return u, ok
}

// Clone deep-copies the employee including its ledgers.
func (e *Employee) Clone() *Employee {
	cp := *e
	if e.Classification != nil {
		cp.Classification = e.Classification.clone()
	}
	if e.Affiliation != nil {
		cp.Affiliation = e.Affiliation.clone()
	}
	return &cp
}

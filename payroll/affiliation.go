package payroll

import "github.com/shopspring/decimal"

// =============================================================================
// AFFILIATION - Union membership
// =============================================================================

// Affiliation is either NoAffiliation or *UnionAffiliation.
type Affiliation interface {
	IsUnion() bool
	clone() Affiliation
}

var (
	_ Affiliation = NoAffiliation{}
	_ Affiliation = (*UnionAffiliation)(nil)
)

// NoAffiliation is the default for new employees.
type NoAffiliation struct{}

func (NoAffiliation) IsUnion() bool      { return false }
func (NoAffiliation) clone() Affiliation { return NoAffiliation{} }

// UnionAffiliation holds the member's dues and service-charge ledger.
type UnionAffiliation struct {
	dues     decimal.Decimal
	memberID MemberID
	charges  ledger[ServiceCharge]
}

func NewUnionAffiliation(memberID MemberID, dues decimal.Decimal) *UnionAffiliation {
	return &UnionAffiliation{dues: dues, memberID: memberID, charges: ledger[ServiceCharge]{}}
}

func (a *UnionAffiliation) IsUnion() bool         { return true }
func (a *UnionAffiliation) Dues() decimal.Decimal { return a.dues }
func (a *UnionAffiliation) MemberID() MemberID    { return a.memberID }

// AddServiceCharge replaces any charge already posted for the same date.
func (a *UnionAffiliation) AddServiceCharge(sc ServiceCharge) {
	a.charges[sc.Date] = sc
}

func (a *UnionAffiliation) ServiceCharge(d Date) (ServiceCharge, bool) {
	return a.charges.get(d)
}

func (a *UnionAffiliation) ServiceCharges() []ServiceCharge {
	return a.charges.sorted()
}

func (a *UnionAffiliation) clone() Affiliation {
	return &UnionAffiliation{dues: a.dues, memberID: a.memberID, charges: a.charges.clone()}
}

package payroll

import "github.com/shopspring/decimal"

// =============================================================================
// CLASSIFICATION - How pay is computed
// =============================================================================

type ClassificationKind string

const (
	KindSalaried     ClassificationKind = "salaried"
	KindHourly       ClassificationKind = "hourly"
	KindCommissioned ClassificationKind = "commissioned"
)

// Classification is implemented only by the three classification types in
// this package.
type Classification interface {
	Kind() ClassificationKind
	clone() Classification
}

var (
	_ Classification = (*SalariedClassification)(nil)
	_ Classification = (*HourlyClassification)(nil)
	_ Classification = (*CommissionedClassification)(nil)
)

// SalariedClassification pays a fixed monthly salary.
type SalariedClassification struct {
	salary decimal.Decimal
}

func NewSalariedClassification(salary decimal.Decimal) *SalariedClassification {
	return &SalariedClassification{salary: salary}
}

func (c *SalariedClassification) Kind() ClassificationKind { return KindSalaried }
func (c *SalariedClassification) Salary() decimal.Decimal  { return c.salary }

func (c *SalariedClassification) clone() Classification {
	cp := *c
	return &cp
}

// HourlyClassification pays an hourly rate against posted time cards.
type HourlyClassification struct {
	hourlyRate decimal.Decimal
	timeCards  ledger[TimeCard]
}

func NewHourlyClassification(hourlyRate decimal.Decimal) *HourlyClassification {
	return &HourlyClassification{hourlyRate: hourlyRate, timeCards: ledger[TimeCard]{}}
}

func (c *HourlyClassification) Kind() ClassificationKind   { return KindHourly }
func (c *HourlyClassification) HourlyRate() decimal.Decimal { return c.hourlyRate }

// AddTimeCard replaces any card already posted for the same date.
func (c *HourlyClassification) AddTimeCard(tc TimeCard) {
	c.timeCards[tc.Date] = tc
}

func (c *HourlyClassification) TimeCard(d Date) (TimeCard, bool) {
	return c.timeCards.get(d)
}

func (c *HourlyClassification) TimeCards() []TimeCard {
	return c.timeCards.sorted()
}

func (c *HourlyClassification) clone() Classification {
	return &HourlyClassification{hourlyRate: c.hourlyRate, timeCards: c.timeCards.clone()}
}

// CommissionedClassification pays a base rate plus commission on sales.
type CommissionedClassification struct {
	hourlyRate     decimal.Decimal
	commissionRate decimal.Decimal
	receipts       ledger[SaleReceipt]
}

func NewCommissionedClassification(hourlyRate, commissionRate decimal.Decimal) *CommissionedClassification {
	return &CommissionedClassification{
		hourlyRate:     hourlyRate,
		commissionRate: commissionRate,
		receipts:       ledger[SaleReceipt]{},
	}
}

func (c *CommissionedClassification) Kind() ClassificationKind       { return KindCommissioned }
func (c *CommissionedClassification) HourlyRate() decimal.Decimal     { return c.hourlyRate }
func (c *CommissionedClassification) CommissionRate() decimal.Decimal { return c.commissionRate }

// AddSaleReceipt replaces any receipt already posted for the same date.
func (c *CommissionedClassification) AddSaleReceipt(r SaleReceipt) {
	c.receipts[r.Date] = r
}

func (c *CommissionedClassification) SaleReceipt(d Date) (SaleReceipt, bool) {
	return c.receipts.get(d)
}

func (c *CommissionedClassification) SaleReceipts() []SaleReceipt {
	return c.receipts.sorted()
}

func (c *CommissionedClassification) clone() Classification {
	return &CommissionedClassification{
		hourlyRate:     c.hourlyRate,
		commissionRate: c.commissionRate,
		receipts:       c.receipts.clone(),
	}
}

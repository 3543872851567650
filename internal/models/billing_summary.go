package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingSummary is derived from a customer and its skipped ledger records.
// It is recomputed on every request and never persisted on its own.
type BillingSummary struct {
	CustomerID        string          `json:"customer_id"`
	VendorID          string          `json:"vendor_id"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone"`
	StartDate         time.Time       `json:"-"`
	RangeStart        time.Time       `json:"-"`
	RangeEnd          time.Time       `json:"-"`
	RatePerLiter      decimal.Decimal `json:"rate_per_liter"`
	DailyLiters       decimal.Decimal `json:"daily_liters"`
	TotalDays         int             `json:"total_days"`
	DeliveredDays     int             `json:"delivered_days"`
	SkippedDays       int             `json:"skipped_days"`
	DeliveredLiters   decimal.Decimal `json:"delivered_liters"`
	CalculatedBill    decimal.Decimal `json:"calculated_bill"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
}

// BillingSummaryResponse adds the formatted dates to the summary
type BillingSummaryResponse struct {
	BillingSummary
	StartDate  string `json:"start_date"`
	RangeStart string `json:"range_start"`
	RangeEnd   string `json:"range_end"`
}

// ToResponse converts BillingSummary to BillingSummaryResponse
func (s BillingSummary) ToResponse() BillingSummaryResponse {
	return BillingSummaryResponse{
		BillingSummary: s,
		StartDate:      formatDate(s.StartDate),
		RangeStart:     formatDate(s.RangeStart),
		RangeEnd:       formatDate(s.RangeEnd),
	}
}

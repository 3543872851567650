package calendar

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dairydash-api/internal/models"
)

// Class is the category a day falls into for one customer
type Class string

const (
	// ClassFuture is a day after today; never billable, always unmarked.
	ClassFuture Class = "future"
	// ClassBeforeStart is a day before the customer's start date; never billable.
	ClassBeforeStart Class = "before_start"
	// ClassRecorded is a day with an explicit ledger record.
	ClassRecorded Class = "recorded"
	// ClassDefaultDelivered is a day in [start, today] with no record.
	ClassDefaultDelivered Class = "default_delivered"
)

// Classification is the outcome of Classify
type Classification struct {
	Class  Class
	Status models.DeliveryStatus // empty when the day is excluded
}

// Billable reports whether the day lies inside the billing window
func (c Classification) Billable() bool {
	return c.Class == ClassRecorded || c.Class == ClassDefaultDelivered
}

// Classify places day relative to the active window [start date, today].
// A missing record inside the window means the milk was delivered.
func Classify(d time.Time, active Window, rec *models.DeliveryRecord) Classification {
	d = Day(d)
	switch {
	case d.After(active.End):
		return Classification{Class: ClassFuture}
	case d.Before(active.Start):
		return Classification{Class: ClassBeforeStart}
	case rec != nil:
		return Classification{Class: ClassRecorded, Status: rec.Status}
	default:
		return Classification{Class: ClassDefaultDelivered, Status: models.DeliveryStatusDelivered}
	}
}

// Cell is one day of a customer's month grid
type Cell struct {
	Date     string                `json:"date"`
	Class    Class                 `json:"class"`
	Status   models.DeliveryStatus `json:"status,omitempty"`
	Liters   decimal.Decimal       `json:"liters"`
	RecordID string                `json:"record_id,omitempty"`
	Notes    *string               `json:"notes,omitempty"`
}

// MonthGrid classifies every day of the month containing month. Records are
// matched by date; dailyLiters fills the implicit deliveries.
func MonthGrid(month time.Time, active Window, dailyLiters decimal.Decimal, records []models.DeliveryRecord) []Cell {
	byDate := make(map[string]*models.DeliveryRecord, len(records))
	for i := range records {
		byDate[records[i].DateKey()] = &records[i]
	}

	first, last := MonthBounds(month)
	cells := make([]Cell, 0, DaysInclusive(first, last))
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(models.DateLayout)
		rec := byDate[key]
		cl := Classify(d, active, rec)

		cell := Cell{Date: key, Class: cl.Class, Status: cl.Status, Liters: decimal.Zero}
		switch cl.Class {
		case ClassRecorded:
			cell.Liters = rec.LitersDelivered
			cell.RecordID = rec.ID
			cell.Notes = rec.Notes
		case ClassDefaultDelivered:
			cell.Liters = dailyLiters
		}
		cells = append(cells, cell)
	}
	return cells
}

// Tally counts the statuses of the billable cells of a grid
type Tally struct {
	Delivered int `json:"delivered"`
	Skipped   int `json:"skipped"`
	Pending   int `json:"pending"`
	Excluded  int `json:"excluded"`
}

// Count builds a Tally from a grid
func Count(cells []Cell) Tally {
	var t Tally
	for _, c := range cells {
		if c.Class == ClassFuture || c.Class == ClassBeforeStart {
			t.Excluded++
			continue
		}
		switch c.Status {
		case models.DeliveryStatusDelivered:
			t.Delivered++
		case models.DeliveryStatusSkipped:
			t.Skipped++
		case models.DeliveryStatusPending:
			t.Pending++
		}
	}
	return t
}

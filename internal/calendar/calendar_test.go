package calendar

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := Parse(s)
	require.NoError(t, err)
	return d
}

func TestDaysInclusive(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		{name: "Same day", start: "2024-12-01", end: "2024-12-01", expected: 1},
		{name: "Ten days", start: "2024-12-01", end: "2024-12-10", expected: 10},
		{name: "Across month", start: "2024-11-25", end: "2024-12-05", expected: 11},
		{name: "Leap year February", start: "2024-02-01", end: "2024-02-29", expected: 29},
		{name: "End before start", start: "2024-12-10", end: "2024-12-01", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysInclusive(mustDate(t, tt.start), mustDate(t, tt.end))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDayIgnoresTimeOfDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	late := time.Date(2024, 12, 10, 23, 59, 0, 0, ist)

	assert.Equal(t, mustDate(t, "2024-12-10"), Day(late))
	// 23:59 IST is still the 10th in IST but already 18:29 UTC of the same day
	assert.Equal(t, mustDate(t, "2024-12-10"), Today(late, ist))
	// 01:00 IST on the 11th is the 10th in UTC
	early := time.Date(2024, 12, 11, 1, 0, 0, 0, ist)
	assert.Equal(t, mustDate(t, "2024-12-11"), Today(early, ist))
	assert.Equal(t, mustDate(t, "2024-12-10"), Today(early, time.UTC))
}

func TestParseMonth(t *testing.T) {
	first, last, err := ParseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2024-02-01"), first)
	assert.Equal(t, mustDate(t, "2024-02-29"), last)

	_, _, err = ParseMonth("2024-13")
	assert.Error(t, err)
}

func TestWindow(t *testing.T) {
	w := NewWindow(mustDate(t, "2024-12-01"), mustDate(t, "2024-12-10"))

	assert.Equal(t, 10, w.Days())
	assert.False(t, w.Empty())
	assert.True(t, w.Contains(mustDate(t, "2024-12-01")))
	assert.True(t, w.Contains(mustDate(t, "2024-12-10")))
	assert.False(t, w.Contains(mustDate(t, "2024-11-30")))
	assert.False(t, w.Contains(mustDate(t, "2024-12-11")))

	clamped := w.Clamp(NewWindow(mustDate(t, "2024-12-05"), mustDate(t, "2024-12-31")))
	assert.Equal(t, mustDate(t, "2024-12-05"), clamped.Start)
	assert.Equal(t, mustDate(t, "2024-12-10"), clamped.End)

	inverted := NewWindow(mustDate(t, "2024-12-10"), mustDate(t, "2024-12-01"))
	assert.True(t, inverted.Empty())
	assert.Equal(t, 0, inverted.Days())
}

func TestClassify(t *testing.T) {
	active := NewWindow(mustDate(t, "2024-12-03"), mustDate(t, "2024-12-10"))
	skipped := &models.DeliveryRecord{Status: models.DeliveryStatusSkipped}

	tests := []struct {
		name   string
		day    string
		rec    *models.DeliveryRecord
		class  Class
		status models.DeliveryStatus
	}{
		{name: "Future without record", day: "2024-12-11", class: ClassFuture},
		{name: "Future with record stays excluded", day: "2024-12-12", rec: skipped, class: ClassFuture},
		{name: "Before start without record", day: "2024-12-02", class: ClassBeforeStart},
		{name: "Before start with record stays excluded", day: "2024-12-01", rec: skipped, class: ClassBeforeStart},
		{name: "Explicit skip", day: "2024-12-05", rec: skipped, class: ClassRecorded, status: models.DeliveryStatusSkipped},
		{name: "No record in window is delivered", day: "2024-12-06", class: ClassDefaultDelivered, status: models.DeliveryStatusDelivered},
		{name: "Start date itself is billable", day: "2024-12-03", class: ClassDefaultDelivered, status: models.DeliveryStatusDelivered},
		{name: "Today is billable", day: "2024-12-10", class: ClassDefaultDelivered, status: models.DeliveryStatusDelivered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(mustDate(t, tt.day), active, tt.rec)
			assert.Equal(t, tt.class, got.Class)
			assert.Equal(t, tt.status, got.Status)
		})
	}
}

func TestMonthGrid(t *testing.T) {
	active := NewWindow(mustDate(t, "2024-12-01"), mustDate(t, "2024-12-10"))
	note := "away"
	records := []models.DeliveryRecord{
		{ID: "r1", DeliveryDate: mustDate(t, "2024-12-05"), Status: models.DeliveryStatusSkipped, LitersDelivered: decimal.Zero, Notes: &note},
		{ID: "r2", DeliveryDate: mustDate(t, "2024-12-06"), Status: models.DeliveryStatusDelivered, LitersDelivered: decimal.NewFromFloat(1.5)},
	}

	cells := MonthGrid(mustDate(t, "2024-12-15"), active, decimal.NewFromInt(3), records)
	require.Len(t, cells, 31)

	assert.Equal(t, "2024-12-01", cells[0].Date)
	assert.Equal(t, ClassDefaultDelivered, cells[0].Class)
	assert.True(t, cells[0].Liters.Equal(decimal.NewFromInt(3)))

	assert.Equal(t, ClassRecorded, cells[4].Class)
	assert.Equal(t, models.DeliveryStatusSkipped, cells[4].Status)
	assert.Equal(t, "r1", cells[4].RecordID)
	assert.Equal(t, &note, cells[4].Notes)

	assert.True(t, cells[5].Liters.Equal(decimal.NewFromFloat(1.5)))

	assert.Equal(t, ClassFuture, cells[10].Class)
	assert.Empty(t, cells[10].Status)

	tally := Count(cells)
	assert.Equal(t, Tally{Delivered: 9, Skipped: 1, Excluded: 21}, tally)
}

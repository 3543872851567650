package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dairydash-api/internal/calendar"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertStatus_Idempotent(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-01", "2", "60")
	ctx := context.Background()
	entry := DeliveryEntry{Date: "2024-12-05", Status: models.DeliveryStatusSkipped}

	first, err := fx.svc.Delivery.UpsertStatus(ctx, fx.actor, c.ID, entry)
	require.NoError(t, err)
	second, err := fx.svc.Delivery.UpsertStatus(ctx, fx.actor, c.ID, entry)
	require.NoError(t, err)

	records := fx.ledger.all(c.ID)
	require.Len(t, records, 1)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.DeliveryStatusSkipped, records[0].Status)
	assert.True(t, records[0].LitersDelivered.IsZero())
}

func TestUpsertStatus_LastWriteWins(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-01", "2", "60")
	ctx := context.Background()

	for _, status := range []models.DeliveryStatus{models.DeliveryStatusSkipped, models.DeliveryStatusSkipped, models.DeliveryStatusDelivered} {
		_, err := fx.svc.Delivery.UpsertStatus(ctx, fx.actor, c.ID, DeliveryEntry{Date: "2024-12-05", Status: status})
		require.NoError(t, err)
	}

	records := fx.ledger.all(c.ID)
	require.Len(t, records, 1)
	assert.Equal(t, models.DeliveryStatusDelivered, records[0].Status)
	assert.True(t, records[0].LitersDelivered.Equal(dec("2")), "delivered defaults to the daily quantity")
}

func TestUpsertStatus_Validation(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-01", "2", "60")
	ctx := context.Background()
	negative := decimal.NewFromInt(-1)

	tests := []struct {
		name  string
		entry DeliveryEntry
	}{
		{"unknown status", DeliveryEntry{Date: "2024-12-05", Status: "lost"}},
		{"bad date", DeliveryEntry{Date: "2024-02-30", Status: models.DeliveryStatusDelivered}},
		{"before start", DeliveryEntry{Date: "2024-11-30", Status: models.DeliveryStatusSkipped}},
		{"negative liters", DeliveryEntry{Date: "2024-12-05", Status: models.DeliveryStatusDelivered, Liters: &negative}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.svc.Delivery.UpsertStatus(ctx, fx.actor, c.ID, tt.entry)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Empty(t, fx.ledger.all(c.ID))

	_, err := fx.svc.Delivery.UpsertStatus(ctx, fx.actor, "missing", DeliveryEntry{Date: "2024-12-05", Status: models.DeliveryStatusSkipped})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertStatus_AbsenceMeansDelivered(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-01", "2", "60")
	ctx := context.Background()

	before, err := fx.svc.Billing.CalculateBill(ctx, testVendor, c.ID, nil, nil)
	require.NoError(t, err)

	_, err = fx.svc.Delivery.UpsertStatus(ctx, fx.actor, c.ID, DeliveryEntry{Date: "2024-12-03", Status: models.DeliveryStatusDelivered})
	require.NoError(t, err)

	after, err := fx.svc.Billing.CalculateBill(ctx, testVendor, c.ID, nil, nil)
	require.NoError(t, err)
	assert.True(t, before.CalculatedBill.Equal(after.CalculatedBill), "an explicit delivered record bills like no record")
}

func TestBulkUpsert_DuplicateDatesCollapse(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-01", "2", "60")

	n, err := fx.svc.Delivery.BulkUpsert(context.Background(), fx.actor, c.ID, []DeliveryEntry{
		{Date: "2024-12-02", Status: models.DeliveryStatusSkipped},
		{Date: "2024-12-03", Status: models.DeliveryStatusSkipped},
		{Date: "2024-12-02", Status: models.DeliveryStatusDelivered},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records := fx.ledger.all(c.ID)
	require.Len(t, records, 2)
	assert.Equal(t, models.DeliveryStatusDelivered, records[0].Status)
	assert.Equal(t, models.DeliveryStatusSkipped, records[1].Status)
}

func TestBulkUpsert_RejectsWholeBatchOnInvalidEntry(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-01", "2", "60")

	_, err := fx.svc.Delivery.BulkUpsert(context.Background(), fx.actor, c.ID, []DeliveryEntry{
		{Date: "2024-12-02", Status: models.DeliveryStatusSkipped},
		{Date: "2024-11-02", Status: models.DeliveryStatusSkipped},
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, fx.ledger.all(c.ID))

	_, err = fx.svc.Delivery.BulkUpsert(context.Background(), fx.actor, c.ID, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExplicitWrites_RecordStateTransitions(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-01", "2", "60")
	ctx := context.Background()

	_, err := fx.svc.Delivery.UpsertStatus(ctx, fx.actor, c.ID, DeliveryEntry{Date: "2024-12-05", Status: models.DeliveryStatusPending})
	require.NoError(t, err)
	assert.Equal(t, "2024-12-05 unmarked -> pending", fx.audits.last().Details)

	_, err = fx.svc.Delivery.UpsertStatus(ctx, fx.actor, c.ID, DeliveryEntry{Date: "2024-12-05", Status: models.DeliveryStatusDelivered})
	require.NoError(t, err)
	assert.Equal(t, "2024-12-05 pending -> delivered", fx.audits.last().Details)

	entries := []DeliveryEntry{
		{Date: "2024-12-05", Status: models.DeliveryStatusSkipped},
		{Date: "2024-12-06", Status: models.DeliveryStatusDelivered},
	}
	n, err := fx.svc.Delivery.BulkUpsert(ctx, fx.actor, c.ID, entries)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "bulk update of 2 days, 2 changed", fx.audits.last().Details)

	_, err = fx.svc.Delivery.BulkUpsert(ctx, fx.actor, c.ID, entries)
	require.NoError(t, err)
	assert.Equal(t, "bulk update of 2 days, 0 changed", fx.audits.last().Details)
}

func TestToggle_CycleNeverVisitsPending(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-01", "2", "60")
	ctx := context.Background()

	want := []models.DeliveryStatus{
		models.DeliveryStatusSkipped,
		models.DeliveryStatusDelivered,
		models.DeliveryStatusSkipped,
		models.DeliveryStatusDelivered,
	}
	for i, status := range want {
		rec, err := fx.svc.Delivery.Toggle(ctx, fx.actor, c.ID, "2024-12-05")
		require.NoError(t, err)
		assert.Equal(t, status, rec.Status, "toggle %d", i+1)
		if status == models.DeliveryStatusDelivered {
			assert.True(t, rec.LitersDelivered.Equal(dec("2")))
		} else {
			assert.True(t, rec.LitersDelivered.IsZero())
		}
	}
	assert.Len(t, fx.ledger.all(c.ID), 1)
}

func TestToggle_PendingBecomesSkipped(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-01", "2", "60")
	ctx := context.Background()
	notes := "gate locked"

	_, err := fx.svc.Delivery.UpsertStatus(ctx, fx.actor, c.ID, DeliveryEntry{Date: "2024-12-05", Status: models.DeliveryStatusPending, Notes: &notes})
	require.NoError(t, err)

	rec, err := fx.svc.Delivery.Toggle(ctx, fx.actor, c.ID, "2024-12-05")
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusSkipped, rec.Status)
	require.NotNil(t, rec.Notes)
	assert.Equal(t, notes, *rec.Notes)
}

func TestCalendar_MonthGrid(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-03", "2", "60")
	ctx := context.Background()
	_, err := fx.svc.Delivery.UpsertStatus(ctx, fx.actor, c.ID, DeliveryEntry{Date: "2024-12-05", Status: models.DeliveryStatusSkipped})
	require.NoError(t, err)

	view, err := fx.svc.Delivery.Calendar(ctx, testVendor, c.ID, "2024-12")
	require.NoError(t, err)

	require.Len(t, view.Days, 31)
	assert.Equal(t, calendar.ClassBeforeStart, view.Days[1].Class)
	assert.Equal(t, calendar.ClassDefaultDelivered, view.Days[2].Class)
	assert.Equal(t, calendar.ClassRecorded, view.Days[4].Class)
	assert.Equal(t, models.DeliveryStatusSkipped, view.Days[4].Status)
	assert.Equal(t, calendar.ClassFuture, view.Days[10].Class)
	assert.Equal(t, calendar.Tally{Delivered: 7, Skipped: 1, Excluded: 23}, view.Tally)
	assert.Equal(t, "2024-12-10", view.Today)

	_, err = fx.svc.Delivery.Calendar(ctx, testVendor, c.ID, "December")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetRange_OrderedAndInclusive(t *testing.T) {
	fx := newFixture("2024-12-31")
	c := fx.customer("Ramesh", "2024-12-01", "2", "60")
	ctx := context.Background()
	for _, d := range []string{"2024-12-20", "2024-12-01", "2024-12-10", "2024-12-31"} {
		_, err := fx.svc.Delivery.UpsertStatus(ctx, fx.actor, c.ID, DeliveryEntry{Date: d, Status: models.DeliveryStatusSkipped})
		require.NoError(t, err)
	}

	recs, err := fx.svc.Delivery.GetRange(ctx, testVendor, c.ID, day("2024-12-01"), day("2024-12-20"))
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "2024-12-01", recs[0].DateKey())
	assert.Equal(t, "2024-12-10", recs[1].DateKey())
	assert.Equal(t, "2024-12-20", recs[2].DateKey())

	_, err = fx.svc.Delivery.GetRange(ctx, testVendor, c.ID, day("2024-12-20"), day("2024-12-01"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteRecord_ScopedToVendor(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-01", "2", "60")
	ctx := context.Background()
	rec, err := fx.svc.Delivery.UpsertStatus(ctx, fx.actor, c.ID, DeliveryEntry{Date: "2024-12-05", Status: models.DeliveryStatusSkipped})
	require.NoError(t, err)

	err = fx.svc.Delivery.DeleteRecord(ctx, Actor{VendorID: "intruder"}, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, fx.ledger.all(c.ID), 1)

	require.NoError(t, fx.svc.Delivery.DeleteRecord(ctx, fx.actor, rec.ID))
	assert.Empty(t, fx.ledger.all(c.ID))

	err = fx.svc.Delivery.DeleteRecord(ctx, fx.actor, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

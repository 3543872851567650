package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMonthly_CurrentMonthStopsAtToday(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-11-20", "3", "60")
	ctx := context.Background()
	_, err := fx.svc.Delivery.UpsertStatus(ctx, fx.actor, c.ID, DeliveryEntry{Date: "2024-12-05", Status: models.DeliveryStatusSkipped})
	require.NoError(t, err)
	_, err = fx.svc.Payment.Record(ctx, fx.actor, PaymentInput{CustomerID: c.ID, Amount: dec("500"), Date: "2024-12-02"})
	require.NoError(t, err)

	bill, err := fx.svc.Bill.GenerateMonthly(ctx, fx.actor, c.ID, "2024-12")
	require.NoError(t, err)

	assert.Equal(t, day("2024-12-01"), bill.Month)
	assert.Equal(t, 10, bill.TotalDays)
	assert.Equal(t, 9, bill.DeliveredDays)
	assert.True(t, bill.TotalAmount.Equal(dec("1620")))
	assert.True(t, bill.PaidAmount.Equal(dec("500")))
	assert.Equal(t, models.BillStatusPartial, bill.Status)
	require.True(t, bill.HasDocument())

	pdf := fx.store.files[*bill.DocumentPath]
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestGenerateMonthly_StartsAtCustomerStart(t *testing.T) {
	fx := newFixture("2024-12-31")
	c := fx.customer("Sunita", "2024-11-21", "1", "50")

	bill, err := fx.svc.Bill.GenerateMonthly(context.Background(), fx.actor, c.ID, "2024-11")
	require.NoError(t, err)

	assert.Equal(t, 10, bill.TotalDays)
	assert.True(t, bill.TotalAmount.Equal(dec("500")))
	assert.Equal(t, models.BillStatusDraft, bill.Status)
}

func TestGenerateMonthly_RegenerationReplacesBill(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-01", "1", "60")
	ctx := context.Background()

	first, err := fx.svc.Bill.GenerateMonthly(ctx, fx.actor, c.ID, "2024-12")
	require.NoError(t, err)
	_, err = fx.svc.Bill.MarkSent(ctx, fx.actor, first.ID)
	require.NoError(t, err)

	_, err = fx.svc.Payment.Record(ctx, fx.actor, PaymentInput{CustomerID: c.ID, Amount: dec("600")})
	require.NoError(t, err)
	second, err := fx.svc.Bill.GenerateMonthly(ctx, fx.actor, c.ID, "2024-12")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, fx.bills.bills, 1)
	assert.Equal(t, models.BillStatusPaid, second.Status)
	assert.True(t, second.SentViaWhatsApp)
}

func TestGenerateMonthly_Validation(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-01", "1", "60")
	ctx := context.Background()

	_, err := fx.svc.Bill.GenerateMonthly(ctx, fx.actor, c.ID, "2025-01")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = fx.svc.Bill.GenerateMonthly(ctx, fx.actor, c.ID, "2024/12")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = fx.svc.Bill.GenerateMonthly(ctx, fx.actor, "missing", "2024-12")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkSent_DraftBecomesSent(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-01", "1", "60")
	ctx := context.Background()
	bill, err := fx.svc.Bill.GenerateMonthly(ctx, fx.actor, c.ID, "2024-12")
	require.NoError(t, err)

	sent, err := fx.svc.Bill.MarkSent(ctx, fx.actor, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusSent, sent.Status)
	assert.True(t, sent.SentViaWhatsApp)

	_, err = fx.svc.Bill.MarkSent(ctx, Actor{VendorID: "other"}, bill.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDownload_RerendersMissingDocument(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-01", "1", "60")
	ctx := context.Background()
	bill, err := fx.svc.Bill.GenerateMonthly(ctx, fx.actor, c.ID, "2024-12")
	require.NoError(t, err)

	require.Equal(t, 10, bill.TotalDays)
	delete(fx.store.files, *bill.DocumentPath)
	fx.svc.Billing.clock = fixedClock("2024-12-20")

	data, name, err := fx.svc.Bill.Download(ctx, testVendor, bill.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, "bill_2024-12_"+c.ID+".pdf", name)
	assert.Contains(t, string(data), "600.00")
	assert.NotContains(t, string(data), "1200.00")
}

func TestBillSummary_MatchesStoredBill(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Ramesh", "2024-12-03", "1", "60")
	ctx := context.Background()
	_, err := fx.svc.Delivery.UpsertStatus(ctx, fx.actor, c.ID, DeliveryEntry{Date: "2024-12-05", Status: models.DeliveryStatusSkipped})
	require.NoError(t, err)
	bill, err := fx.svc.Bill.GenerateMonthly(ctx, fx.actor, c.ID, "2024-12")
	require.NoError(t, err)

	// later edits to the ledger or the customer must not leak into the bill
	fx.svc.Billing.clock = fixedClock("2024-12-20")
	_, err = fx.svc.Delivery.UpsertStatus(ctx, fx.actor, c.ID, DeliveryEntry{Date: "2024-12-06", Status: models.DeliveryStatusSkipped})
	require.NoError(t, err)
	c.RatePerLiter = dec("70")

	sm := billSummary(bill, c)
	assert.Equal(t, day("2024-12-03"), sm.RangeStart)
	assert.Equal(t, day("2024-12-10"), sm.RangeEnd)
	assert.Equal(t, 8, sm.TotalDays)
	assert.Equal(t, 7, sm.DeliveredDays)
	assert.Equal(t, 1, sm.SkippedDays)
	assert.Equal(t, "420.00", sm.CalculatedBill.StringFixed(2))
	assert.Equal(t, "60.00", sm.RatePerLiter.StringFixed(2))
	assert.True(t, sm.CalculatedBill.Equal(bill.TotalAmount))
}

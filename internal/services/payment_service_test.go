package services

import (
	"context"
	"testing"

	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/sjperalta/dairydash-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRecord_ReducesOutstanding(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Sunita", "2024-12-01", "1", "50")
	ctx := context.Background()
	_, err := fx.svc.Customer.UpdateOutstanding(ctx, fx.actor, c.ID, dec("500"))
	require.NoError(t, err)

	res, err := fx.svc.Payment.Record(ctx, fx.actor, PaymentInput{CustomerID: c.ID, Amount: dec("150")})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentMethodCash, res.Payment.Method)
	assert.Equal(t, day("2024-12-10"), res.Payment.PaymentDate)
	assert.True(t, res.Customer.OutstandingAmount.Equal(dec("350")))
	assert.Equal(t, models.PaymentStatusUnpaid, res.Customer.PaymentStatus)

	res, err = fx.svc.Payment.Record(ctx, fx.actor, PaymentInput{CustomerID: c.ID, Amount: dec("350"), Method: "UPI", Date: "2024-12-09"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodUPI, res.Payment.Method)
	assert.True(t, res.Customer.OutstandingAmount.IsZero())
	assert.Equal(t, models.PaymentStatusPaid, res.Customer.PaymentStatus)
}

func TestPaymentRecord_Validation(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Sunita", "2024-12-01", "1", "50")
	ctx := context.Background()

	_, err := fx.svc.Payment.Record(ctx, fx.actor, PaymentInput{CustomerID: c.ID, Amount: dec("0")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = fx.svc.Payment.Record(ctx, fx.actor, PaymentInput{CustomerID: c.ID, Amount: dec("10"), Method: "cheque"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = fx.svc.Payment.Record(ctx, fx.actor, PaymentInput{CustomerID: c.ID, Amount: dec("10"), Date: "yesterday"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = fx.svc.Payment.Record(ctx, fx.actor, PaymentInput{CustomerID: "missing", Amount: dec("10")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentDelete_RevertsOutstanding(t *testing.T) {
	fx := newFixture("2024-12-10")
	c := fx.customer("Sunita", "2024-12-01", "1", "50")
	ctx := context.Background()
	_, err := fx.svc.Customer.UpdateOutstanding(ctx, fx.actor, c.ID, dec("200"))
	require.NoError(t, err)

	res, err := fx.svc.Payment.Record(ctx, fx.actor, PaymentInput{CustomerID: c.ID, Amount: dec("200")})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, res.Customer.PaymentStatus)

	customer, err := fx.svc.Payment.Delete(ctx, fx.actor, res.Payment.ID)
	require.NoError(t, err)
	assert.True(t, customer.OutstandingAmount.Equal(dec("200")))
	assert.Equal(t, models.PaymentStatusUnpaid, customer.PaymentStatus)

	_, err = fx.svc.Payment.Delete(ctx, fx.actor, res.Payment.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentList_ValidatesDateFilters(t *testing.T) {
	fx := newFixture("2024-12-10")
	q := repository.NewListQuery()
	q.Filters["start_date"] = "01-12-2024"

	_, _, err := fx.svc.Payment.List(context.Background(), testVendor, q)
	assert.ErrorIs(t, err, ErrValidation)
}

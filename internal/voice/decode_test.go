package voice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_FlatShape(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Intent
	}{
		{
			name: "customer",
			raw:  `{"intent": "CREATE_CUSTOMER", "customerName": "Rakesh", "milkType": "buffalo", "liters": 2, "rate": 60}`,
			want: CreateCustomer{Name: "Rakesh", MilkType: "buffalo", DailyLiters: decimal.NewFromInt(2), RatePerLiter: decimal.NewFromInt(60)},
		},
		{
			name: "customer defaults to cow",
			raw:  `{"intent": "CREATE_CUSTOMER", "customerName": "Rakesh", "liters": 1.5, "rate": 55}`,
			want: CreateCustomer{Name: "Rakesh", MilkType: "cow", DailyLiters: decimal.RequireFromString("1.5"), RatePerLiter: decimal.NewFromInt(55)},
		},
		{
			name: "delivery",
			raw:  `{"intent": "CREATE_DELIVERY", "customerName": "Ramesh", "liters": 2}`,
			want: CreateDelivery{CustomerName: "Ramesh", Liters: decimal.NewFromInt(2)},
		},
		{
			name: "payment",
			raw:  `{"intent": "CREATE_PAYMENT", "customerName": "Sunita", "amount": 150}`,
			want: CreatePayment{CustomerName: "Sunita", Amount: decimal.NewFromInt(150)},
		},
		{
			name: "unknown with reason",
			raw:  `{"intent": "UNKNOWN", "error": "no idea"}`,
			want: Unknown{Reason: "no idea"},
		},
		{
			name: "unrecognized tag",
			raw:  `{"intent": "DELETE_EVERYTHING"}`,
			want: Unknown{Reason: defaultUnknownReason},
		},
		{
			name: "no tag",
			raw:  `{}`,
			want: Unknown{Reason: defaultUnknownReason},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))
			require.NoError(t, err)
			assertIntentEqual(t, tt.want, got)
		})
	}
}

func TestDecode_NestedShape(t *testing.T) {
	got, err := Decode([]byte(`{
		"action": "create_delivery",
		"payload": {"customer_name": "Ramesh", "liters_delivered": 2, "delivery_date": "2024-12-05"}
	}`))
	require.NoError(t, err)

	delivery, ok := got.(CreateDelivery)
	require.True(t, ok)
	assert.Equal(t, "Ramesh", delivery.CustomerName)
	assert.True(t, delivery.Liters.Equal(decimal.NewFromInt(2)))
	require.NotNil(t, delivery.Date)
	assert.Equal(t, time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC), *delivery.Date)

	got, err = Decode([]byte(`{
		"action": "create_customer",
		"payload": {"name": "Ramesh Kumar", "phone": "9876543210", "milk_type": "cow", "daily_liters": 2, "rate_per_liter": 65, "outstanding_amount": 0}
	}`))
	require.NoError(t, err)
	customer, ok := got.(CreateCustomer)
	require.True(t, ok)
	assert.Equal(t, "Ramesh Kumar", customer.Name)
	assert.Equal(t, "9876543210", customer.Phone)
	assert.True(t, customer.RatePerLiter.Equal(decimal.NewFromInt(65)))

	got, err = Decode([]byte(`{"action": "create_payment", "payload": {"customer_name": "Sunita", "amount": "500", "payment_date": "YYYY-MM-DD"}}`))
	require.NoError(t, err)
	payment, ok := got.(CreatePayment)
	require.True(t, ok)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(500)))
	assert.Nil(t, payment.Date)

	got, err = Decode([]byte(`{"action": "unknown"}`))
	require.NoError(t, err)
	assert.Equal(t, KindUnknown, got.Kind())
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"action": "create_delivery", "payload": "oops"}`))
	assert.Error(t, err)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`  {"a":1} `))
}

func assertIntentEqual(t *testing.T, want, got Intent) {
	t.Helper()
	require.Equal(t, want.Kind(), got.Kind())
	switch w := want.(type) {
	case CreateCustomer:
		g := got.(CreateCustomer)
		assert.Equal(t, w.Name, g.Name)
		assert.Equal(t, w.MilkType, g.MilkType)
		assert.True(t, w.DailyLiters.Equal(g.DailyLiters), "daily liters %s != %s", w.DailyLiters, g.DailyLiters)
		assert.True(t, w.RatePerLiter.Equal(g.RatePerLiter), "rate %s != %s", w.RatePerLiter, g.RatePerLiter)
	case CreateDelivery:
		g := got.(CreateDelivery)
		assert.Equal(t, w.CustomerName, g.CustomerName)
		assert.True(t, w.Liters.Equal(g.Liters))
		assert.Equal(t, w.Date, g.Date)
	case CreatePayment:
		g := got.(CreatePayment)
		assert.Equal(t, w.CustomerName, g.CustomerName)
		assert.True(t, w.Amount.Equal(g.Amount))
	case Unknown:
		assert.Equal(t, w, got)
	}
}

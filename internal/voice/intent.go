// Package voice turns the JSON produced by the voice command parser into
// typed intents and resolves spoken customer names.
package voice

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind names an intent case
type Kind string

const (
	KindCreateCustomer Kind = "create_customer"
	KindCreateDelivery Kind = "create_delivery"
	KindCreatePayment  Kind = "create_payment"
	KindUnknown        Kind = "unknown"
)

// Intent is one of CreateCustomer, CreateDelivery, CreatePayment or Unknown
type Intent interface {
	Kind() Kind
	sealed()
}

// CreateCustomer adds a new customer
type CreateCustomer struct {
	Name         string          `json:"name"`
	Phone        string          `json:"phone,omitempty"`
	MilkType     string          `json:"milk_type"`
	DailyLiters  decimal.Decimal `json:"daily_liters"`
	RatePerLiter decimal.Decimal `json:"rate_per_liter"`
}

// CreateDelivery marks a day delivered for an existing customer. A zero
// Liters means the customer's usual quantity; a nil Date means today.
type CreateDelivery struct {
	CustomerName string          `json:"customer_name"`
	Liters       decimal.Decimal `json:"liters"`
	Date         *time.Time      `json:"date,omitempty"`
}

// CreatePayment records money received from an existing customer
type CreatePayment struct {
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	Date         *time.Time      `json:"date,omitempty"`
}

// Unknown is any command the parser could not map to an action
type Unknown struct {
	Reason string `json:"reason"`
}

func (CreateCustomer) Kind() Kind { return KindCreateCustomer }
func (CreateDelivery) Kind() Kind { return KindCreateDelivery }
func (CreatePayment) Kind() Kind  { return KindCreatePayment }
func (Unknown) Kind() Kind        { return KindUnknown }

func (CreateCustomer) sealed() {}
func (CreateDelivery) sealed() {}
func (CreatePayment) sealed()  {}
func (Unknown) sealed()        {}

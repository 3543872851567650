package voice

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dairydash-api/internal/models"
)

const defaultUnknownReason = "Could not understand. Please try again."

// wire holds every field either parser shape can carry. The flat shape
// tags with "intent" (CREATE_DELIVERY); the nested one with "action"
// (create_delivery) and puts the fields under "payload".
type wire struct {
	Intent  string          `json:"intent"`
	Action  string          `json:"action"`
	Error   string          `json:"error"`
	Payload json.RawMessage `json:"payload"`
	fields
}

type fields struct {
	Name            string          `json:"name"`
	CustomerName    string          `json:"customerName"`
	CustomerNameAlt string          `json:"customer_name"`
	Phone           string          `json:"phone"`
	MilkType        string          `json:"milkType"`
	MilkTypeAlt     string          `json:"milk_type"`
	Liters          decimal.Decimal `json:"liters"`
	DailyLiters     decimal.Decimal `json:"daily_liters"`
	LitersDelivered decimal.Decimal `json:"liters_delivered"`
	Rate            decimal.Decimal `json:"rate"`
	RatePerLiter    decimal.Decimal `json:"rate_per_liter"`
	Amount          decimal.Decimal `json:"amount"`
	Date            string          `json:"date"`
	DeliveryDate    string          `json:"delivery_date"`
	PaymentDate     string          `json:"payment_date"`
}

// Decode parses either parser output shape into an Intent. Unrecognized
// tags decode to Unknown; only malformed JSON is an error.
func Decode(raw []byte) (Intent, error) {
	var w wire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("malformed intent payload: %w", err)
	}

	f := w.fields
	if len(w.Payload) > 0 && string(w.Payload) != "null" {
		if err := json.Unmarshal(w.Payload, &f); err != nil {
			return nil, fmt.Errorf("malformed intent payload: %w", err)
		}
	}

	tag := w.Intent
	if tag == "" {
		tag = w.Action
	}

	switch Kind(strings.ToLower(strings.TrimSpace(tag))) {
	case KindCreateCustomer:
		name := first(f.Name, f.CustomerName, f.CustomerNameAlt)
		milk := strings.ToLower(first(f.MilkType, f.MilkTypeAlt))
		if milk == "" {
			milk = models.MilkTypeCow
		}
		return CreateCustomer{
			Name:         name,
			Phone:        f.Phone,
			MilkType:     milk,
			DailyLiters:  firstNonZero(f.DailyLiters, f.Liters),
			RatePerLiter: firstNonZero(f.RatePerLiter, f.Rate),
		}, nil
	case KindCreateDelivery:
		return CreateDelivery{
			CustomerName: first(f.CustomerName, f.CustomerNameAlt, f.Name),
			Liters:       firstNonZero(f.LitersDelivered, f.Liters),
			Date:         parseDate(first(f.DeliveryDate, f.Date)),
		}, nil
	case KindCreatePayment:
		return CreatePayment{
			CustomerName: first(f.CustomerName, f.CustomerNameAlt, f.Name),
			Amount:       f.Amount,
			Date:         parseDate(first(f.PaymentDate, f.Date)),
		}, nil
	default:
		reason := w.Error
		if reason == "" {
			reason = defaultUnknownReason
		}
		return Unknown{Reason: reason}, nil
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...decimal.Decimal) decimal.Decimal {
	for _, v := range values {
		if !v.IsZero() {
			return v
		}
	}
	return decimal.Zero
}

// parseDate ignores anything that is not a YYYY-MM-DD date, including the
// literal placeholder the parser sometimes echoes back.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

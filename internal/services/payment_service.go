package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dairydash-api/internal/calendar"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/sjperalta/dairydash-api/internal/repository"
)

// PaymentService records money received from customers
type PaymentService struct {
	repo         repository.PaymentRepository
	customerRepo repository.CustomerRepository
	auditSvc     *AuditService
	clock        func() time.Time
	loc          *time.Location
}

func NewPaymentService(
	repo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
	auditSvc *AuditService,
	clock func() time.Time,
	loc *time.Location,
) *PaymentService {
	if clock == nil {
		clock = time.Now
	}
	return &PaymentService{
		repo:         repo,
		customerRepo: customerRepo,
		auditSvc:     auditSvc,
		clock:        clock,
		loc:          loc,
	}
}

// PaymentInput holds the fields of a new payment. An empty Date means today
// and an empty Method means cash.
type PaymentInput struct {
	CustomerID  string          `json:"customer_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"payment_method"`
	Date        string          `json:"payment_date"`
	ReferenceID *string         `json:"reference_id"`
	Notes       *string         `json:"notes"`
}

// PaymentResult is a stored payment with the customer's new balance
type PaymentResult struct {
	Payment  *models.Payment  `json:"payment"`
	Customer *models.Customer `json:"customer"`
}

// Record stores a payment and reduces the customer's outstanding amount in
// the same transaction
func (s *PaymentService) Record(ctx context.Context, actor Actor, in PaymentInput) (*PaymentResult, error) {
	if !in.Amount.IsPositive() {
		return nil, validationError("amount must be greater than 0")
	}
	method := strings.ToLower(strings.TrimSpace(in.Method))
	if method == "" {
		method = models.PaymentMethodCash
	}
	if !models.ValidPaymentMethod(method) {
		return nil, validationError("payment_method must be cash, upi, card or bank")
	}
	date := calendar.Today(s.clock(), s.loc)
	if in.Date != "" {
		d, err := calendar.Parse(in.Date)
		if err != nil {
			return nil, validationError("%s", err.Error())
		}
		date = d
	}

	if _, err := s.customerRepo.FindByID(ctx, actor.VendorID, in.CustomerID); err != nil {
		return nil, translate(err, "customer")
	}

	payment := &models.Payment{
		VendorID:    actor.VendorID,
		CustomerID:  in.CustomerID,
		Amount:      in.Amount,
		Method:      method,
		PaymentDate: date,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
	}

	customer, err := s.repo.CreateAndApply(ctx, payment)
	if err != nil {
		return nil, translate(err, "payment")
	}

	s.auditSvc.Record(actor, AuditCreate, "Payment", payment.ID, payment.Describe())
	return &PaymentResult{Payment: payment, Customer: customer}, nil
}

// List returns the vendor's payments with optional customer and date filters
func (s *PaymentService) List(ctx context.Context, vendorID string, query *repository.ListQuery) ([]models.Payment, int64, error) {
	for _, key := range []string{"start_date", "end_date"} {
		if v := query.Filters[key]; v != "" {
			if _, err := calendar.Parse(v); err != nil {
				return nil, 0, validationError("%s", err.Error())
			}
		}
	}
	return s.repo.List(ctx, vendorID, query)
}

// Get returns one of the vendor's payments
func (s *PaymentService) Get(ctx context.Context, vendorID, id string) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, vendorID, id)
	if err != nil {
		return nil, translate(err, "payment")
	}
	return payment, nil
}

// Delete removes a payment and adds its amount back to the customer's
// outstanding amount
func (s *PaymentService) Delete(ctx context.Context, actor Actor, id string) (*models.Customer, error) {
	payment, err := s.Get(ctx, actor.VendorID, id)
	if err != nil {
		return nil, err
	}

	customer, err := s.repo.DeleteAndRevert(ctx, payment)
	if err != nil {
		return nil, translate(err, "payment")
	}

	s.auditSvc.Record(actor, AuditDelete, "Payment", id, fmt.Sprintf("reverted %s", payment.Describe()))
	return customer, nil
}

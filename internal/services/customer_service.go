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

// CustomerService manages a vendor's customers
type CustomerService struct {
	repo         repository.CustomerRepository
	deliveryRepo repository.DeliveryRepository
	auditSvc     *AuditService
	clock        func() time.Time
	loc          *time.Location
}

func NewCustomerService(
	repo repository.CustomerRepository,
	deliveryRepo repository.DeliveryRepository,
	auditSvc *AuditService,
	clock func() time.Time,
	loc *time.Location,
) *CustomerService {
	if clock == nil {
		clock = time.Now
	}
	return &CustomerService{
		repo:         repo,
		deliveryRepo: deliveryRepo,
		auditSvc:     auditSvc,
		clock:        clock,
		loc:          loc,
	}
}

// CustomerInput carries the writable fields of a customer. Nil fields are
// left untouched on update and defaulted on create.
type CustomerInput struct {
	Name              *string          `json:"name"`
	Phone             *string          `json:"phone"`
	MilkType          *string          `json:"milk_type"`
	DailyLiters       *decimal.Decimal `json:"daily_liters"`
	RatePerLiter      *decimal.Decimal `json:"rate_per_liter"`
	OutstandingAmount *decimal.Decimal `json:"outstanding_amount"`
	StartDate         *string          `json:"start_date"`
	BillingCycle      *string          `json:"billing_cycle"`
}

// Get returns one of the vendor's customers
func (s *CustomerService) Get(ctx context.Context, vendorID, id string) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, vendorID, id)
	if err != nil {
		return nil, translate(err, "customer")
	}
	return customer, nil
}

// List returns the vendor's customers, newest first
func (s *CustomerService) List(ctx context.Context, vendorID string, query *repository.ListQuery) ([]models.Customer, int64, error) {
	return s.repo.List(ctx, vendorID, query)
}

// Create validates and stores a new customer
func (s *CustomerService) Create(ctx context.Context, actor Actor, in CustomerInput) (*models.Customer, error) {
	today := calendar.Today(s.clock(), s.loc)
	customer := &models.Customer{
		VendorID:          actor.VendorID,
		MilkType:          models.MilkTypeCow,
		BillingCycle:      models.BillingCycleMonthly,
		PaymentStatus:     models.PaymentStatusUnpaid,
		OutstandingAmount: decimal.Zero,
		StartDate:         &today,
	}
	if in.Name == nil {
		return nil, validationError("name is required")
	}
	if in.DailyLiters == nil {
		return nil, validationError("daily_liters is required")
	}
	if in.RatePerLiter == nil {
		return nil, validationError("rate_per_liter is required")
	}
	if err := applyCustomerInput(customer, in); err != nil {
		return nil, err
	}
	if in.OutstandingAmount != nil {
		customer.SettleStatus()
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, translate(err, "customer")
	}

	s.auditSvc.Record(actor, AuditCreate, "Customer", customer.ID, customer.Name)
	return customer, nil
}

// Update applies a partial update
func (s *CustomerService) Update(ctx context.Context, actor Actor, id string, in CustomerInput) (*models.Customer, error) {
	customer, err := s.Get(ctx, actor.VendorID, id)
	if err != nil {
		return nil, err
	}
	if err := applyCustomerInput(customer, in); err != nil {
		return nil, err
	}
	if in.StartDate != nil && customer.StartDate != nil {
		start := calendar.Day(*customer.StartDate)
		earlier, err := s.deliveryRepo.GetRange(ctx, id, time.Time{}, start.AddDate(0, 0, -1))
		if err != nil {
			return nil, err
		}
		if len(earlier) > 0 {
			return nil, validationError("start_date %s is after the delivery record on %s",
				start.Format(models.DateLayout), earlier[0].DateKey())
		}
	}
	if in.OutstandingAmount != nil {
		customer.SettleStatus()
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, translate(err, "customer")
	}

	s.auditSvc.Record(actor, AuditUpdate, "Customer", customer.ID, customer.Name)
	return customer, nil
}

// UpdateOutstanding sets the amount owed and derives the payment status
func (s *CustomerService) UpdateOutstanding(ctx context.Context, actor Actor, id string, amount decimal.Decimal) (*models.Customer, error) {
	customer, err := s.Get(ctx, actor.VendorID, id)
	if err != nil {
		return nil, err
	}
	customer.OutstandingAmount = amount
	customer.SettleStatus()

	if err := s.repo.UpdateOutstanding(ctx, actor.VendorID, id, customer.OutstandingAmount, customer.PaymentStatus); err != nil {
		return nil, translate(err, "customer")
	}

	s.auditSvc.Record(actor, AuditUpdate, "Customer", id, "outstanding "+amount.StringFixed(2))
	return customer, nil
}

// Delete removes a customer. Ledger records are never removed implicitly:
// with records present the call fails unless purgeLedger is set, in which
// case records and customer go in one transaction.
func (s *CustomerService) Delete(ctx context.Context, actor Actor, id string, purgeLedger bool) error {
	if _, err := s.Get(ctx, actor.VendorID, id); err != nil {
		return err
	}

	count, err := s.deliveryRepo.CountByCustomer(ctx, id)
	if err != nil {
		return err
	}

	switch {
	case count == 0:
		err = s.repo.Delete(ctx, actor.VendorID, id)
	case purgeLedger:
		err = s.repo.DeleteWithLedger(ctx, actor.VendorID, id)
	default:
		return fmt.Errorf("%w: customer has %d delivery records; pass purge_ledger=true to remove them", ErrConstraint, count)
	}
	if err != nil {
		return translate(err, "customer")
	}

	s.auditSvc.Record(actor, AuditDelete, "Customer", id, fmt.Sprintf("purged %d ledger records", count))
	return nil
}

func applyCustomerInput(c *models.Customer, in CustomerInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return validationError("name is required")
		}
		c.Name = name
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.MilkType != nil {
		milk := strings.ToLower(strings.TrimSpace(*in.MilkType))
		if !models.ValidMilkType(milk) {
			return validationError("milk_type must be cow or buffalo")
		}
		c.MilkType = milk
	}
	if in.DailyLiters != nil {
		if !in.DailyLiters.IsPositive() {
			return validationError("daily_liters must be greater than 0")
		}
		c.DailyLiters = *in.DailyLiters
	}
	if in.RatePerLiter != nil {
		if !in.RatePerLiter.IsPositive() {
			return validationError("rate_per_liter must be greater than 0")
		}
		c.RatePerLiter = *in.RatePerLiter
	}
	if in.OutstandingAmount != nil {
		c.OutstandingAmount = *in.OutstandingAmount
	}
	if in.StartDate != nil && *in.StartDate != "" {
		start, err := calendar.Parse(*in.StartDate)
		if err != nil {
			return validationError("%s", err.Error())
		}
		c.StartDate = &start
	}
	if in.BillingCycle != nil {
		if !models.ValidBillingCycle(*in.BillingCycle) {
			return validationError("billing_cycle must be daily, weekly or monthly")
		}
		c.BillingCycle = *in.BillingCycle
	}
	return nil
}

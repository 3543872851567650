package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dairydash-api/internal/calendar"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/sjperalta/dairydash-api/internal/repository"
)

// BillingService derives billing summaries from customers and their skipped
// days. Nothing it computes is stored.
type BillingService struct {
	customerRepo repository.CustomerRepository
	deliveryRepo repository.DeliveryRepository
	clock        func() time.Time
	loc          *time.Location
}

func NewBillingService(
	customerRepo repository.CustomerRepository,
	deliveryRepo repository.DeliveryRepository,
	clock func() time.Time,
	loc *time.Location,
) *BillingService {
	if clock == nil {
		clock = time.Now
	}
	return &BillingService{
		customerRepo: customerRepo,
		deliveryRepo: deliveryRepo,
		clock:        clock,
		loc:          loc,
	}
}

// Today returns the current calendar date in the configured timezone
func (s *BillingService) Today() time.Time {
	return calendar.Today(s.clock(), s.loc)
}

// CalculateBill summarizes a customer over [start, end]. A nil start means
// the customer's start date; a nil end means today.
func (s *BillingService) CalculateBill(ctx context.Context, vendorID, customerID string, start, end *time.Time) (*models.BillingSummary, error) {
	customer, err := s.customerRepo.FindByID(ctx, vendorID, customerID)
	if err != nil {
		return nil, translate(err, "customer")
	}
	return s.summarize(ctx, customer, s.window(customer, start, end))
}

// AllSummaries computes CalculateBill with default bounds for every customer
// of the vendor
func (s *BillingService) AllSummaries(ctx context.Context, vendorID string) ([]models.BillingSummary, error) {
	customers, err := s.customerRepo.FindAllByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.BillingSummary, 0, len(customers))
	for i := range customers {
		summary, err := s.summarize(ctx, &customers[i], s.window(&customers[i], nil, nil))
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

func (s *BillingService) window(customer *models.Customer, start, end *time.Time) calendar.Window {
	from := customer.BillingStart()
	if start != nil {
		from = *start
	}
	to := s.Today()
	if end != nil {
		to = *end
	}
	return calendar.NewWindow(from, to)
}

func (s *BillingService) summarize(ctx context.Context, customer *models.Customer, window calendar.Window) (*models.BillingSummary, error) {
	var skipped int64
	if !window.Empty() {
		var err error
		skipped, err = s.deliveryRepo.CountByStatus(ctx, customer.ID, models.DeliveryStatusSkipped, window.Start, window.End)
		if err != nil {
			return nil, err
		}
	}
	summary := ComputeSummary(customer, window, int(skipped))
	return &summary, nil
}

// ComputeSummary applies the billing rule: every day of the window is
// delivered unless explicitly skipped, and each delivered day costs
// dailyLiters × ratePerLiter. The outstanding amount is reported, never added.
func ComputeSummary(customer *models.Customer, window calendar.Window, skippedDays int) models.BillingSummary {
	totalDays := window.Days()
	deliveredDays := totalDays - skippedDays
	if deliveredDays < 0 {
		deliveredDays = 0
	}

	delivered := decimal.NewFromInt(int64(deliveredDays))
	liters := delivered.Mul(customer.DailyLiters)

	return models.BillingSummary{
		CustomerID:        customer.ID,
		VendorID:          customer.VendorID,
		Name:              customer.Name,
		Phone:             customer.Phone,
		StartDate:         calendar.Day(customer.BillingStart()),
		RangeStart:        window.Start,
		RangeEnd:          window.End,
		RatePerLiter:      customer.RatePerLiter,
		DailyLiters:       customer.DailyLiters,
		TotalDays:         totalDays,
		DeliveredDays:     deliveredDays,
		SkippedDays:       skippedDays,
		DeliveredLiters:   liters,
		CalculatedBill:    liters.Mul(customer.RatePerLiter),
		OutstandingAmount: customer.OutstandingAmount,
	}
}

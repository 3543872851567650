package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sjperalta/dairydash-api/internal/calendar"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/sjperalta/dairydash-api/internal/repository"
	"github.com/sjperalta/dairydash-api/internal/storage"
)

// DocumentStore persists rendered bill documents
type DocumentStore interface {
	Save(relPath string, data []byte) error
	Read(relPath string) ([]byte, error)
	Exists(relPath string) bool
}

// BillService snapshots monthly billing summaries as bills
type BillService struct {
	repo         repository.BillRepository
	customerRepo repository.CustomerRepository
	vendorRepo   repository.VendorRepository
	deliveryRepo repository.DeliveryRepository
	paymentRepo  repository.PaymentRepository
	billingSvc   *BillingService
	reportSvc    *ReportService
	store        DocumentStore
	auditSvc     *AuditService
}

func NewBillService(
	repos *repository.Repositories,
	billingSvc *BillingService,
	reportSvc *ReportService,
	store DocumentStore,
	auditSvc *AuditService,
) *BillService {
	return &BillService{
		repo:         repos.Bill,
		customerRepo: repos.Customer,
		vendorRepo:   repos.Vendor,
		deliveryRepo: repos.Delivery,
		paymentRepo:  repos.Payment,
		billingSvc:   billingSvc,
		reportSvc:    reportSvc,
		store:        store,
		auditSvc:     auditSvc,
	}
}

// GenerateMonthly computes the customer's bill for month ("YYYY-MM") over
// the days between the later of month start and customer start, and the
// earlier of month end and today. The bill is replaced if it exists and a
// fresh PDF is stored.
func (s *BillService) GenerateMonthly(ctx context.Context, actor Actor, customerID, month string) (*models.Bill, error) {
	customer, err := s.customerRepo.FindByID(ctx, actor.VendorID, customerID)
	if err != nil {
		return nil, translate(err, "customer")
	}
	first, last, err := calendar.ParseMonth(month)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}
	today := s.billingSvc.Today()
	if first.After(today) {
		return nil, validationError("cannot bill %s before it starts", first.Format(models.MonthLayout))
	}

	window := calendar.NewWindow(first, last).Clamp(calendar.NewWindow(customer.BillingStart(), today))
	summary, err := s.billingSvc.summarize(ctx, customer, window)
	if err != nil {
		return nil, err
	}

	paid, err := s.paymentRepo.SumForRange(ctx, customer.ID, first, last)
	if err != nil {
		return nil, err
	}

	bill := &models.Bill{
		VendorID:      actor.VendorID,
		CustomerID:    customer.ID,
		Month:         first,
		TotalDays:     summary.TotalDays,
		DeliveredDays: summary.DeliveredDays,
		SkippedDays:   summary.SkippedDays,
		TotalLiters:   summary.DeliveredLiters,
		TotalAmount:   summary.CalculatedBill,
		PaidAmount:    paid,
	}
	bill.SettleStatus()

	if err := s.repo.Upsert(ctx, bill); err != nil {
		return nil, translate(err, "bill")
	}

	if err := s.storeDocument(ctx, bill, customer, *summary); err != nil {
		return nil, err
	}

	s.auditSvc.Record(actor, AuditCreate, "Bill", bill.ID,
		fmt.Sprintf("%s %s", bill.Month.Format(models.MonthLayout), bill.TotalAmount.StringFixed(2)))
	return bill, nil
}

// Get returns one of the vendor's bills
func (s *BillService) Get(ctx context.Context, vendorID, id string) (*models.Bill, error) {
	bill, err := s.repo.FindByID(ctx, vendorID, id)
	if err != nil {
		return nil, translate(err, "bill")
	}
	return bill, nil
}

// List returns the vendor's bills, latest month first
func (s *BillService) List(ctx context.Context, vendorID string, query *repository.ListQuery) ([]models.Bill, int64, error) {
	if month := query.Filters["month"]; month != "" {
		first, _, err := calendar.ParseMonth(month)
		if err != nil {
			return nil, 0, validationError("%s", err.Error())
		}
		query.Filters["month"] = first.Format(models.DateLayout)
	}
	return s.repo.List(ctx, vendorID, query)
}

// Download returns the bill's PDF, rendering it again when the stored copy
// is missing
func (s *BillService) Download(ctx context.Context, vendorID, id string) ([]byte, string, error) {
	bill, err := s.Get(ctx, vendorID, id)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("bill_%s_%s.pdf", bill.Month.Format(models.MonthLayout), bill.CustomerID)

	if !bill.HasDocument() || !s.store.Exists(*bill.DocumentPath) {
		customer := &bill.Customer
		if customer.ID == "" {
			if customer, err = s.customerRepo.FindByID(ctx, vendorID, bill.CustomerID); err != nil {
				return nil, "", translate(err, "customer")
			}
		}
		summary := billSummary(bill, customer)
		if err := s.storeDocument(ctx, bill, customer, summary); err != nil {
			return nil, "", err
		}
	}

	data, err := s.store.Read(*bill.DocumentPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read bill document: %w", err)
	}
	return data, filename, nil
}

// MarkSent flags the bill as shared over WhatsApp. A draft bill becomes
// sent; paid and partial bills keep their payment status.
func (s *BillService) MarkSent(ctx context.Context, actor Actor, id string) (*models.Bill, error) {
	bill, err := s.Get(ctx, actor.VendorID, id)
	if err != nil {
		return nil, err
	}
	bill.SentViaWhatsApp = true
	if bill.Status == models.BillStatusDraft {
		bill.Status = models.BillStatusSent
	}
	if err := s.repo.Update(ctx, bill); err != nil {
		return nil, translate(err, "bill")
	}

	s.auditSvc.Record(actor, AuditUpdate, "Bill", bill.ID, "sent via whatsapp")
	return bill, nil
}

// billSummary rebuilds the summary a bill was generated from. The window
// starts where the bill's did and spans TotalDays, so a later render shows
// the stored figures whatever the current date.
func billSummary(bill *models.Bill, customer *models.Customer) models.BillingSummary {
	first, last := calendar.MonthBounds(bill.Month)
	window := calendar.NewWindow(first, last).Clamp(calendar.NewWindow(customer.BillingStart(), last))
	window.End = window.Start.AddDate(0, 0, bill.TotalDays-1)

	summary := ComputeSummary(customer, window, bill.SkippedDays)
	summary.TotalDays = bill.TotalDays
	summary.DeliveredDays = bill.DeliveredDays
	summary.SkippedDays = bill.SkippedDays
	summary.DeliveredLiters = bill.TotalLiters
	summary.CalculatedBill = bill.TotalAmount
	if bill.TotalLiters.IsPositive() {
		summary.RatePerLiter = bill.TotalAmount.Div(bill.TotalLiters).Round(2)
	}
	return summary
}

func (s *BillService) storeDocument(ctx context.Context, bill *models.Bill, customer *models.Customer, summary models.BillingSummary) error {
	doc := BillDocument{
		VendorName: "DairyDash",
		Customer:   customer,
		Month:      bill.Month,
		Summary:    summary,
		PaidAmount: bill.PaidAmount,
	}
	if vendor, err := s.vendorRepo.FindByID(ctx, bill.VendorID); err == nil {
		doc.VendorName = vendor.Name
		doc.VendorPhone = vendor.Phone
	}

	if !summary.RangeEnd.Before(summary.RangeStart) {
		records, err := s.deliveryRepo.GetRange(ctx, customer.ID, summary.RangeStart, summary.RangeEnd)
		if err != nil {
			return err
		}
		for _, r := range records {
			if r.Status == models.DeliveryStatusSkipped {
				doc.SkippedDates = append(doc.SkippedDates, r.DateKey())
			}
		}
	}

	data, err := s.reportSvc.BillPDF(doc)
	if err != nil {
		return err
	}

	path := storage.BillPath(bill.VendorID, bill.Month.Format(models.MonthLayout), bill.ID)
	if err := s.store.Save(path, data); err != nil {
		return fmt.Errorf("failed to store bill document: %w", err)
	}

	bill.DocumentPath = &path
	bill.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, bill); err != nil {
		return translate(err, "bill")
	}
	return nil
}

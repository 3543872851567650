package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dairydash-api/internal/calendar"
	"github.com/sjperalta/dairydash-api/internal/metrics"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/sjperalta/dairydash-api/internal/repository"
	"github.com/sjperalta/dairydash-api/internal/statemachine"
)

// DeliveryService maintains the per-day delivery ledger. A day without a
// record counts as delivered; only exceptions are stored.
type DeliveryService struct {
	repo         repository.DeliveryRepository
	customerRepo repository.CustomerRepository
	auditSvc     *AuditService
	clock        func() time.Time
	loc          *time.Location
}

func NewDeliveryService(
	repo repository.DeliveryRepository,
	customerRepo repository.CustomerRepository,
	auditSvc *AuditService,
	clock func() time.Time,
	loc *time.Location,
) *DeliveryService {
	if clock == nil {
		clock = time.Now
	}
	return &DeliveryService{
		repo:         repo,
		customerRepo: customerRepo,
		auditSvc:     auditSvc,
		clock:        clock,
		loc:          loc,
	}
}

// DeliveryEntry is one day to write. A nil Liters means the customer's daily
// quantity when delivered and 0 otherwise.
type DeliveryEntry struct {
	Date   string                `json:"date" binding:"required"`
	Status models.DeliveryStatus `json:"status" binding:"required"`
	Liters *decimal.Decimal      `json:"liters_delivered"`
	Notes  *string               `json:"notes"`
}

// CalendarView is a customer's month grid
type CalendarView struct {
	CustomerID string          `json:"customer_id"`
	Month      string          `json:"month"`
	StartDate  string          `json:"start_date"`
	Today      string          `json:"today"`
	Days       []calendar.Cell `json:"days"`
	Tally      calendar.Tally  `json:"tally"`
}

// GetRange returns the customer's records within [start, end], oldest first
func (s *DeliveryService) GetRange(ctx context.Context, vendorID, customerID string, start, end time.Time) ([]models.DeliveryRecord, error) {
	if _, err := s.customer(ctx, vendorID, customerID); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, validationError("end date is before start date")
	}
	return s.repo.GetRange(ctx, customerID, calendar.Day(start), calendar.Day(end))
}

// UpsertStatus writes the status of one day. Repeating the same call leaves
// the ledger unchanged.
func (s *DeliveryService) UpsertStatus(ctx context.Context, actor Actor, customerID string, entry DeliveryEntry) (*models.DeliveryRecord, error) {
	customer, err := s.customer(ctx, actor.VendorID, customerID)
	if err != nil {
		return nil, err
	}
	record, err := buildRecord(customer, entry)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByDate(ctx, customerID, record.DeliveryDate)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	from, err := markStatus(ctx, existing, record.Status)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, translate(err, "delivery record")
	}
	metrics.LedgerWritesTotal.WithLabelValues(string(record.Status)).Inc()

	s.auditSvc.Record(actor, AuditUpdate, "DeliveryRecord", record.ID,
		fmt.Sprintf("%s %s -> %s", record.DateKey(), from, record.Status))
	return record, nil
}

// BulkUpsert writes many days for one customer in a single statement. When
// a date repeats, the last entry wins.
func (s *DeliveryService) BulkUpsert(ctx context.Context, actor Actor, customerID string, entries []DeliveryEntry) (int, error) {
	if len(entries) == 0 {
		return 0, validationError("no entries given")
	}
	customer, err := s.customer(ctx, actor.VendorID, customerID)
	if err != nil {
		return 0, err
	}

	index := make(map[string]int, len(entries))
	records := make([]models.DeliveryRecord, 0, len(entries))
	for i, entry := range entries {
		record, err := buildRecord(customer, entry)
		if err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
		if at, seen := index[record.DateKey()]; seen {
			records[at] = *record
			continue
		}
		index[record.DateKey()] = len(records)
		records = append(records, *record)
	}

	lo, hi := records[0].DeliveryDate, records[0].DeliveryDate
	for _, r := range records[1:] {
		if r.DeliveryDate.Before(lo) {
			lo = r.DeliveryDate
		}
		if r.DeliveryDate.After(hi) {
			hi = r.DeliveryDate
		}
	}
	stored, err := s.repo.GetRange(ctx, customerID, lo, hi)
	if err != nil {
		return 0, err
	}
	current := make(map[string]*models.DeliveryRecord, len(stored))
	for i := range stored {
		current[stored[i].DateKey()] = &stored[i]
	}

	changed := 0
	for _, r := range records {
		from, err := markStatus(ctx, current[r.DateKey()], r.Status)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", r.DateKey(), err)
		}
		if from != string(r.Status) {
			changed++
		}
	}

	if err := s.repo.BulkUpsert(ctx, records); err != nil {
		return 0, translate(err, "delivery record")
	}
	for _, r := range records {
		metrics.LedgerWritesTotal.WithLabelValues(string(r.Status)).Inc()
	}

	s.auditSvc.Record(actor, AuditUpdate, "DeliveryRecord", customerID,
		fmt.Sprintf("bulk update of %d days, %d changed", len(records), changed))
	return len(records), nil
}

// Toggle flips a day between delivered and skipped. An unmarked day is
// implicitly delivered, so its first toggle skips it.
func (s *DeliveryService) Toggle(ctx context.Context, actor Actor, customerID, date string) (*models.DeliveryRecord, error) {
	customer, err := s.customer(ctx, actor.VendorID, customerID)
	if err != nil {
		return nil, err
	}
	day, err := calendar.Parse(date)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}

	existing, err := s.repo.FindByDate(ctx, customerID, day)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}

	next, err := statemachine.NewDeliveryFSM(existing).Toggle(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, err.Error())
	}

	liters := decimal.Zero
	if next == models.DeliveryStatusDelivered {
		liters = customer.DailyLiters
	}
	entry := DeliveryEntry{Date: date, Status: next, Liters: &liters}
	if existing != nil {
		entry.Notes = existing.Notes
	}

	record, err := buildRecord(customer, entry)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, translate(err, "delivery record")
	}
	metrics.LedgerWritesTotal.WithLabelValues(string(record.Status)).Inc()

	s.auditSvc.Record(actor, AuditToggle, "DeliveryRecord", record.ID,
		fmt.Sprintf("%s %s", record.DateKey(), record.Status))
	return record, nil
}

// Calendar classifies every day of month ("YYYY-MM") for the customer
func (s *DeliveryService) Calendar(ctx context.Context, vendorID, customerID, month string) (*CalendarView, error) {
	customer, err := s.customer(ctx, vendorID, customerID)
	if err != nil {
		return nil, err
	}
	first, last, err := calendar.ParseMonth(month)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}

	records, err := s.repo.GetRange(ctx, customerID, first, last)
	if err != nil {
		return nil, err
	}

	today := calendar.Today(s.clock(), s.loc)
	active := calendar.NewWindow(customer.BillingStart(), today)
	cells := calendar.MonthGrid(first, active, customer.DailyLiters, records)

	return &CalendarView{
		CustomerID: customer.ID,
		Month:      first.Format(models.MonthLayout),
		StartDate:  active.Start.Format(models.DateLayout),
		Today:      today.Format(models.DateLayout),
		Days:       cells,
		Tally:      calendar.Count(cells),
	}, nil
}

// DeleteRecord removes a ledger record owned by the vendor, returning the
// day to its implicit delivered state.
func (s *DeliveryService) DeleteRecord(ctx context.Context, actor Actor, recordID string) error {
	record, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		return translate(err, "delivery record")
	}
	if record.VendorID != actor.VendorID {
		return fmt.Errorf("%w: delivery record", ErrNotFound)
	}

	if err := s.repo.DeleteByID(ctx, recordID); err != nil {
		return translate(err, "delivery record")
	}

	s.auditSvc.Record(actor, AuditDelete, "DeliveryRecord", recordID, record.DateKey())
	return nil
}

func (s *DeliveryService) customer(ctx context.Context, vendorID, customerID string) (*models.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, vendorID, customerID)
	if err != nil {
		return nil, translate(err, "customer")
	}
	return customer, nil
}

// markStatus runs an explicit write through the day's state machine and
// returns the state the day was in before it
func markStatus(ctx context.Context, existing *models.DeliveryRecord, status models.DeliveryStatus) (string, error) {
	machine := statemachine.NewDeliveryFSM(existing)
	from := machine.Current()
	if err := machine.Mark(ctx, status); err != nil {
		return "", validationError("%s", err.Error())
	}
	return from, nil
}

// buildRecord validates an entry against the customer and fills defaults
func buildRecord(customer *models.Customer, entry DeliveryEntry) (*models.DeliveryRecord, error) {
	if !entry.Status.Valid() {
		return nil, validationError("status must be delivered, skipped or pending")
	}
	day, err := calendar.Parse(entry.Date)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}
	start := calendar.Day(customer.BillingStart())
	if day.Before(start) {
		return nil, validationError("date %s is before the customer's start date %s",
			day.Format(models.DateLayout), start.Format(models.DateLayout))
	}

	liters := decimal.Zero
	switch {
	case entry.Liters != nil:
		if entry.Liters.IsNegative() {
			return nil, validationError("liters_delivered must not be negative")
		}
		liters = *entry.Liters
	case entry.Status == models.DeliveryStatusDelivered:
		liters = customer.DailyLiters
	}

	return &models.DeliveryRecord{
		VendorID:        customer.VendorID,
		CustomerID:      customer.ID,
		DeliveryDate:    day,
		Status:          entry.Status,
		LitersDelivered: liters,
		Notes:           entry.Notes,
	}, nil
}

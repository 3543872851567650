package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/dairydash-api/internal/config"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/sjperalta/dairydash-api/internal/repository"
	"gorm.io/gorm"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixedClock(s string) func() time.Time {
	t := day(s).Add(10 * time.Hour)
	return func() time.Time { return t }
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// --- customers ---

type fakeCustomerRepo struct {
	repository.CustomerRepository
	mu        sync.Mutex
	customers []*models.Customer
	records   *fakeDeliveryRepo
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{}
}

func (f *fakeCustomerRepo) add(c models.Customer) *models.Customer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := c
	f.customers = append(f.customers, &cp)
	return &cp
}

func (f *fakeCustomerRepo) find(vendorID, id string) *models.Customer {
	for _, c := range f.customers {
		if c.ID == id && c.VendorID == vendorID {
			return c
		}
	}
	return nil
}

func (f *fakeCustomerRepo) FindByID(ctx context.Context, vendorID, id string) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.find(vendorID, id)
	if c == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCustomerRepo) FindAllByVendor(ctx context.Context, vendorID string) ([]models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Customer
	for _, c := range f.customers {
		if c.VendorID == vendorID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCustomerRepo) List(ctx context.Context, vendorID string, query *repository.ListQuery) ([]models.Customer, int64, error) {
	all, _ := f.FindAllByVendor(ctx, vendorID)
	var out []models.Customer
	for _, c := range all {
		if query.Search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(query.Search)) {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeCustomerRepo) Create(ctx context.Context, c *models.Customer) error {
	if err := c.BeforeCreate(nil); err != nil {
		return err
	}
	c.CreatedAt = time.Now()
	f.add(*c)
	return nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, c *models.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing := f.find(c.VendorID, c.ID)
	if existing == nil {
		return gorm.ErrRecordNotFound
	}
	*existing = *c
	return nil
}

func (f *fakeCustomerRepo) UpdateOutstanding(ctx context.Context, vendorID, id string, amount decimal.Decimal, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.find(vendorID, id)
	if c == nil {
		return gorm.ErrRecordNotFound
	}
	c.OutstandingAmount = amount
	c.PaymentStatus = status
	return nil
}

func (f *fakeCustomerRepo) Delete(ctx context.Context, vendorID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.customers {
		if c.ID == id && c.VendorID == vendorID {
			f.customers = append(f.customers[:i], f.customers[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCustomerRepo) SyncPaymentStatuses(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.customers {
		before := c.PaymentStatus
		c.SettleStatus()
		if c.PaymentStatus != before {
			n++
		}
	}
	return n, nil
}

func (f *fakeCustomerRepo) DeleteWithLedger(ctx context.Context, vendorID, id string) error {
	if f.records != nil {
		f.records.purge(id)
	}
	return f.Delete(ctx, vendorID, id)
}

// --- delivery ledger ---

type fakeDeliveryRepo struct {
	repository.DeliveryRepository
	mu      sync.Mutex
	records map[string]*models.DeliveryRecord
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{records: make(map[string]*models.DeliveryRecord)}
}

func ledgerKey(customerID string, date time.Time) string {
	return customerID + "|" + date.Format(models.DateLayout)
}

func (f *fakeDeliveryRepo) all(customerID string) []models.DeliveryRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DeliveryRecord
	for _, r := range f.records {
		if r.CustomerID == customerID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeliveryDate.Before(out[j].DeliveryDate) })
	return out
}

func (f *fakeDeliveryRepo) purge(customerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, r := range f.records {
		if r.CustomerID == customerID {
			delete(f.records, k)
		}
	}
}

func (f *fakeDeliveryRepo) GetRange(ctx context.Context, customerID string, start, end time.Time) ([]models.DeliveryRecord, error) {
	var out []models.DeliveryRecord
	for _, r := range f.all(customerID) {
		if !r.DeliveryDate.Before(start) && !r.DeliveryDate.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeDeliveryRepo) FindByDate(ctx context.Context, customerID string, date time.Time) (*models.DeliveryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[ledgerKey(customerID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeDeliveryRepo) FindByID(ctx context.Context, id string) (*models.DeliveryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeliveryRepo) Upsert(ctx context.Context, rec *models.DeliveryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := ledgerKey(rec.CustomerID, rec.DeliveryDate)
	if existing, ok := f.records[key]; ok {
		existing.Status = rec.Status
		existing.LitersDelivered = rec.LitersDelivered
		existing.Notes = rec.Notes
		existing.UpdatedAt = time.Now()
		*rec = *existing
		return nil
	}
	_ = rec.BeforeCreate(nil)
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	cp := *rec
	f.records[key] = &cp
	return nil
}

func (f *fakeDeliveryRepo) BulkUpsert(ctx context.Context, records []models.DeliveryRecord) error {
	seen := map[string]bool{}
	for i := range records {
		key := ledgerKey(records[i].CustomerID, records[i].DeliveryDate)
		if seen[key] {
			panic("ON CONFLICT DO UPDATE command cannot affect row a second time")
		}
		seen[key] = true
		if err := f.Upsert(ctx, &records[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeDeliveryRepo) CountByStatus(ctx context.Context, customerID string, status models.DeliveryStatus, start, end time.Time) (int64, error) {
	recs, _ := f.GetRange(ctx, customerID, start, end)
	var n int64
	for _, r := range recs {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeDeliveryRepo) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	return int64(len(f.all(customerID))), nil
}

func (f *fakeDeliveryRepo) DeleteByID(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, r := range f.records {
		if r.ID == id {
			delete(f.records, k)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// --- payments ---

type fakePaymentRepo struct {
	repository.PaymentRepository
	customers *fakeCustomerRepo
	payments  []models.Payment
}

func (f *fakePaymentRepo) FindByID(ctx context.Context, vendorID, id string) (*models.Payment, error) {
	for _, p := range f.payments {
		if p.ID == id && p.VendorID == vendorID {
			cp := p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentRepo) List(ctx context.Context, vendorID string, query *repository.ListQuery) ([]models.Payment, int64, error) {
	var out []models.Payment
	for _, p := range f.payments {
		if p.VendorID == vendorID && (query.Filters["customer_id"] == "" || query.Filters["customer_id"] == p.CustomerID) {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakePaymentRepo) SumForRange(ctx context.Context, customerID string, start, end time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range f.payments {
		if p.CustomerID == customerID && !p.PaymentDate.Before(start) && !p.PaymentDate.After(end) {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (f *fakePaymentRepo) apply(p *models.Payment, delta decimal.Decimal) (*models.Customer, error) {
	f.customers.mu.Lock()
	defer f.customers.mu.Unlock()
	c := f.customers.find(p.VendorID, p.CustomerID)
	if c == nil {
		return nil, gorm.ErrRecordNotFound
	}
	c.OutstandingAmount = c.OutstandingAmount.Add(delta)
	c.SettleStatus()
	cp := *c
	return &cp, nil
}

func (f *fakePaymentRepo) CreateAndApply(ctx context.Context, p *models.Payment) (*models.Customer, error) {
	_ = p.BeforeCreate(nil)
	c, err := f.apply(p, p.Amount.Neg())
	if err != nil {
		return nil, err
	}
	f.payments = append(f.payments, *p)
	return c, nil
}

func (f *fakePaymentRepo) DeleteAndRevert(ctx context.Context, p *models.Payment) (*models.Customer, error) {
	for i := range f.payments {
		if f.payments[i].ID == p.ID {
			f.payments = append(f.payments[:i], f.payments[i+1:]...)
			return f.apply(p, p.Amount)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// --- bills ---

type fakeBillRepo struct {
	repository.BillRepository
	bills map[string]*models.Bill
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{bills: make(map[string]*models.Bill)}
}

func (f *fakeBillRepo) Upsert(ctx context.Context, b *models.Bill) error {
	key := ledgerKey(b.CustomerID, b.Month)
	if existing, ok := f.bills[key]; ok {
		b.ID = existing.ID
		b.SentViaWhatsApp = existing.SentViaWhatsApp
	} else {
		_ = b.BeforeCreate(nil)
	}
	cp := *b
	f.bills[key] = &cp
	return nil
}

func (f *fakeBillRepo) Update(ctx context.Context, b *models.Bill) error {
	cp := *b
	f.bills[ledgerKey(b.CustomerID, b.Month)] = &cp
	return nil
}

func (f *fakeBillRepo) FindByID(ctx context.Context, vendorID, id string) (*models.Bill, error) {
	for _, b := range f.bills {
		if b.ID == id && b.VendorID == vendorID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// --- vendors and tokens ---

type fakeVendorRepo struct {
	repository.VendorRepository
	vendors map[string]*models.Vendor
}

func newFakeVendorRepo() *fakeVendorRepo {
	return &fakeVendorRepo{vendors: make(map[string]*models.Vendor)}
}

func (f *fakeVendorRepo) FindByID(ctx context.Context, id string) (*models.Vendor, error) {
	if v, ok := f.vendors[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVendorRepo) FindByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	for _, v := range f.vendors {
		if strings.EqualFold(v.Email, email) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVendorRepo) Create(ctx context.Context, v *models.Vendor) error {
	if _, err := f.FindByEmail(ctx, v.Email); err == nil {
		return repository.ErrEmailTaken
	}
	_ = v.BeforeCreate(nil)
	cp := *v
	f.vendors[v.ID] = &cp
	return nil
}

type fakeRefreshTokenRepo struct {
	repository.RefreshTokenRepository
	tokens map[string]*models.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (f *fakeRefreshTokenRepo) Create(ctx context.Context, t *models.RefreshToken) error {
	cp := *t
	f.tokens[t.Token] = &cp
	return nil
}

func (f *fakeRefreshTokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := f.tokens[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRefreshTokenRepo) Delete(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

// --- documents ---

type fakeStore struct {
	files map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: make(map[string][]byte)}
}

func (f *fakeStore) Save(path string, data []byte) error {
	f.files[path] = data
	return nil
}

func (f *fakeStore) Read(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return data, nil
}

func (f *fakeStore) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

// --- fixture ---

const testVendor = "vendor-1"

// --- audits ---

type fakeAuditRepo struct {
	entries []models.AuditLog
}

func (f *fakeAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, vendorID string, limit, offset int) ([]models.AuditLog, int64, error) {
	var out []models.AuditLog
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].VendorID == vendorID {
			out = append(out, f.entries[i])
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeAuditRepo) last() models.AuditLog {
	return f.entries[len(f.entries)-1]
}

type fixture struct {
	customers *fakeCustomerRepo
	ledger    *fakeDeliveryRepo
	payments  *fakePaymentRepo
	bills     *fakeBillRepo
	vendors   *fakeVendorRepo
	tokens    *fakeRefreshTokenRepo
	audits    *fakeAuditRepo
	store     *fakeStore
	actor     Actor
	svc       *Services
}

// newFixture wires every service over in-memory repositories with today
// fixed at the given date
func newFixture(today string) *fixture {
	customers := newFakeCustomerRepo()
	ledger := newFakeDeliveryRepo()
	customers.records = ledger
	payments := &fakePaymentRepo{customers: customers}
	bills := newFakeBillRepo()
	vendors := newFakeVendorRepo()
	vendors.vendors[testVendor] = &models.Vendor{ID: testVendor, Name: "Gupta Dairy", Email: "gupta@example.com"}
	tokens := newFakeRefreshTokenRepo()
	audits := &fakeAuditRepo{}
	store := newFakeStore()

	repos := &repository.Repositories{
		Vendor:       vendors,
		RefreshToken: tokens,
		Customer:     customers,
		Delivery:     ledger,
		Payment:      payments,
		Bill:         bills,
		Audit:        audits,
	}
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1, Location: time.UTC}

	return &fixture{
		customers: customers,
		ledger:    ledger,
		payments:  payments,
		bills:     bills,
		vendors:   vendors,
		tokens:    tokens,
		audits:    audits,
		store:     store,
		actor:     Actor{VendorID: testVendor, IP: "127.0.0.1", UserAgent: "test"},
		svc:       NewServices(repos, nil, store, nil, cfg, fixedClock(today)),
	}
}

func (fx *fixture) customer(name, start, daily, rate string) *models.Customer {
	s := day(start)
	return fx.customers.add(models.Customer{
		VendorID:      testVendor,
		Name:          name,
		MilkType:      models.MilkTypeCow,
		DailyLiters:   dec(daily),
		RatePerLiter:  dec(rate),
		PaymentStatus: models.PaymentStatusUnpaid,
		BillingCycle:  models.BillingCycleMonthly,
		StartDate:     &s,
		CreatedAt:     s,
	})
}

package services

import (
	"time"

	"github.com/sjperalta/dairydash-api/internal/config"
	"github.com/sjperalta/dairydash-api/internal/jobs"
	"github.com/sjperalta/dairydash-api/internal/repository"
	"github.com/sjperalta/dairydash-api/internal/voice"
)

// Services holds all service instances
type Services struct {
	Auth     *AuthService
	Customer *CustomerService
	Delivery *DeliveryService
	Billing  *BillingService
	Payment  *PaymentService
	Bill     *BillService
	Voice    *VoiceService
	Report   *ReportService
	Audit    *AuditService
	Job      *JobService
}

// NewServices creates all service instances. clock is the source of "today"
// for every date-dependent rule.
func NewServices(
	repos *repository.Repositories,
	worker *jobs.Worker,
	store DocumentStore,
	parser voice.Parser,
	cfg *config.Config,
	clock func() time.Time,
) *Services {
	loc := cfg.Location
	auditSvc := NewAuditService(repos.Audit, worker)
	customerSvc := NewCustomerService(repos.Customer, repos.Delivery, auditSvc, clock, loc)
	deliverySvc := NewDeliveryService(repos.Delivery, repos.Customer, auditSvc, clock, loc)
	billingSvc := NewBillingService(repos.Customer, repos.Delivery, clock, loc)
	paymentSvc := NewPaymentService(repos.Payment, repos.Customer, auditSvc, clock, loc)
	reportSvc := NewReportService(billingSvc)

	return &Services{
		Auth:     NewAuthService(repos.Vendor, repos.RefreshToken, cfg),
		Customer: customerSvc,
		Delivery: deliverySvc,
		Billing:  billingSvc,
		Payment:  paymentSvc,
		Bill:     NewBillService(repos, billingSvc, reportSvc, store, auditSvc),
		Voice:    NewVoiceService(parser, repos.Customer, customerSvc, deliverySvc, paymentSvc, billingSvc, auditSvc),
		Report:   reportSvc,
		Audit:    auditSvc,
		Job:      NewJobService(worker, repos.Customer),
	}
}

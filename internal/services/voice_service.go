package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sjperalta/dairydash-api/internal/metrics"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/sjperalta/dairydash-api/internal/repository"
	"github.com/sjperalta/dairydash-api/internal/voice"
)

// VoiceService executes spoken commands against the ledger, payments and
// customers
type VoiceService struct {
	parser       voice.Parser
	customerRepo repository.CustomerRepository
	customerSvc  *CustomerService
	deliverySvc  *DeliveryService
	paymentSvc   *PaymentService
	billingSvc   *BillingService
	auditSvc     *AuditService
}

func NewVoiceService(
	parser voice.Parser,
	customerRepo repository.CustomerRepository,
	customerSvc *CustomerService,
	deliverySvc *DeliveryService,
	paymentSvc *PaymentService,
	billingSvc *BillingService,
	auditSvc *AuditService,
) *VoiceService {
	return &VoiceService{
		parser:       parser,
		customerRepo: customerRepo,
		customerSvc:  customerSvc,
		deliverySvc:  deliverySvc,
		paymentSvc:   paymentSvc,
		billingSvc:   billingSvc,
		auditSvc:     auditSvc,
	}
}

// VoiceResult describes what a command did. Understood is false when the
// command could not be mapped to an action; nothing was written then.
type VoiceResult struct {
	Understood bool                           `json:"understood"`
	Intent     voice.Kind                     `json:"intent"`
	Message    string                         `json:"message"`
	Customer   *models.CustomerResponse       `json:"customer,omitempty"`
	Delivery   *models.DeliveryRecordResponse `json:"delivery,omitempty"`
	Payment    *models.PaymentResponse        `json:"payment,omitempty"`
}

// Execute parses text and dispatches the resulting intent
func (s *VoiceService) Execute(ctx context.Context, actor Actor, text string) (*VoiceResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, validationError("text is required")
	}
	if s.parser == nil {
		return nil, fmt.Errorf("%w: voice parser is not configured", ErrExternalService)
	}

	intent, err := s.parser.Parse(ctx, text, s.billingSvc.Today())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExternalService, err.Error())
	}

	result, err := s.Dispatch(ctx, actor, intent)
	if err != nil {
		return nil, err
	}
	s.auditSvc.Record(actor, AuditVoice, "VoiceCommand", "", fmt.Sprintf("%s: %s", result.Intent, text))
	return result, nil
}

// Dispatch performs the action an intent describes
func (s *VoiceService) Dispatch(ctx context.Context, actor Actor, intent voice.Intent) (*VoiceResult, error) {
	metrics.VoiceIntentsTotal.WithLabelValues(string(intent.Kind())).Inc()

	switch in := intent.(type) {
	case voice.CreateCustomer:
		name, milk, phone := in.Name, in.MilkType, in.Phone
		daily, rate := in.DailyLiters, in.RatePerLiter
		customer, err := s.customerSvc.Create(ctx, actor, CustomerInput{
			Name:         &name,
			Phone:        &phone,
			MilkType:     &milk,
			DailyLiters:  &daily,
			RatePerLiter: &rate,
		})
		if err != nil {
			return nil, err
		}
		resp := customer.ToResponse()
		return &VoiceResult{
			Understood: true,
			Intent:     in.Kind(),
			Message:    fmt.Sprintf("Added %s", customer.Name),
			Customer:   &resp,
		}, nil

	case voice.CreateDelivery:
		customer, err := s.resolve(ctx, actor.VendorID, in.CustomerName)
		if err != nil {
			return nil, err
		}
		entry := DeliveryEntry{
			Date:   s.billingSvc.Today().Format(models.DateLayout),
			Status: models.DeliveryStatusDelivered,
		}
		if in.Date != nil {
			entry.Date = in.Date.Format(models.DateLayout)
		}
		if !in.Liters.IsZero() {
			liters := in.Liters
			entry.Liters = &liters
		}
		record, err := s.deliverySvc.UpsertStatus(ctx, actor, customer.ID, entry)
		if err != nil {
			return nil, err
		}
		resp := record.ToResponse()
		cust := customer.ToResponse()
		return &VoiceResult{
			Understood: true,
			Intent:     in.Kind(),
			Message:    fmt.Sprintf("Delivered %s L to %s on %s", record.LitersDelivered.String(), customer.Name, record.DateKey()),
			Customer:   &cust,
			Delivery:   &resp,
		}, nil

	case voice.CreatePayment:
		customer, err := s.resolve(ctx, actor.VendorID, in.CustomerName)
		if err != nil {
			return nil, err
		}
		input := PaymentInput{
			CustomerID: customer.ID,
			Amount:     in.Amount,
			Method:     models.PaymentMethodCash,
		}
		if in.Date != nil {
			input.Date = in.Date.Format(models.DateLayout)
		}
		res, err := s.paymentSvc.Record(ctx, actor, input)
		if err != nil {
			return nil, err
		}
		pay := res.Payment.ToResponse()
		cust := res.Customer.ToResponse()
		return &VoiceResult{
			Understood: true,
			Intent:     in.Kind(),
			Message:    fmt.Sprintf("Recorded %s from %s", res.Payment.Amount.StringFixed(2), res.Customer.Name),
			Customer:   &cust,
			Payment:    &pay,
		}, nil

	case voice.Unknown:
		return &VoiceResult{Understood: false, Intent: in.Kind(), Message: in.Reason}, nil

	default:
		return &VoiceResult{Understood: false, Intent: voice.KindUnknown, Message: "Could not understand. Please try again."}, nil
	}
}

func (s *VoiceService) resolve(ctx context.Context, vendorID, name string) (*models.Customer, error) {
	customers, err := s.customerRepo.FindAllByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	customer, ok := voice.ResolveCustomer(customers, name)
	if !ok {
		return nil, fmt.Errorf("%w: no customer matching %q", ErrNotFound, name)
	}
	return customer, nil
}

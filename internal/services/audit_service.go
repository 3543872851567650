package services

import (
	"context"
	"log/slog"

	"github.com/sjperalta/dairydash-api/internal/jobs"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/sjperalta/dairydash-api/internal/repository"
	"github.com/sjperalta/dairydash-api/pkg/logger"
)

// Audit actions
const (
	AuditCreate = "CREATE"
	AuditUpdate = "UPDATE"
	AuditDelete = "DELETE"
	AuditToggle = "TOGGLE"
	AuditVoice  = "VOICE"
)

// Actor identifies who performs a mutating request
type Actor struct {
	VendorID  string
	IP        string
	UserAgent string
}

// AuditService writes the vendor activity trail
type AuditService struct {
	repo   repository.AuditRepository
	worker *jobs.Worker
}

func NewAuditService(repo repository.AuditRepository, worker *jobs.Worker) *AuditService {
	return &AuditService{repo: repo, worker: worker}
}

// Record stores an audit entry in the background. Failures are logged and
// never reach the caller.
func (s *AuditService) Record(actor Actor, action, entity, entityID, details string) {
	if s == nil || s.repo == nil {
		return
	}
	entry := &models.AuditLog{
		VendorID:  actor.VendorID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
	}

	write := func(ctx context.Context) error {
		if err := s.repo.Create(ctx, entry); err != nil {
			logger.Warn("audit write failed", slog.String("entity", entity), slog.String("error", err.Error()))
			return err
		}
		return nil
	}

	if s.worker == nil {
		_ = write(context.Background())
		return
	}
	s.worker.EnqueueAsync("audit", write)
}

// List retrieves a vendor's audit entries, newest first
func (s *AuditService) List(ctx context.Context, vendorID string, limit, offset int) ([]models.AuditLog, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.List(ctx, vendorID, limit, offset)
}

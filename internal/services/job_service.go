package services

import (
	"context"
	"log/slog"

	"github.com/sjperalta/dairydash-api/internal/jobs"
	"github.com/sjperalta/dairydash-api/internal/repository"
	"github.com/sjperalta/dairydash-api/pkg/logger"
)

// JobService exposes background worker state and the scheduled jobs
type JobService struct {
	worker       *jobs.Worker
	customerRepo repository.CustomerRepository
}

func NewJobService(worker *jobs.Worker, customerRepo repository.CustomerRepository) *JobService {
	return &JobService{
		worker:       worker,
		customerRepo: customerRepo,
	}
}

func (s *JobService) GetStatus() map[string]interface{} {
	stats := s.worker.GetStats()
	return map[string]interface{}{
		"active_jobs":    stats.ActiveJobs,
		"completed_jobs": stats.CompletedJobs,
		"failed_jobs":    stats.FailedJobs,
		"queue_length":   stats.QueueLength,
		"max_concurrent": stats.MaxConcurrent,
	}
}

// SyncPaymentStatuses marks customers paid or unpaid from their outstanding
// amount. It runs daily.
func (s *JobService) SyncPaymentStatuses(ctx context.Context) error {
	n, err := s.customerRepo.SyncPaymentStatuses(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("payment statuses synced", slog.Int64("customers", n))
	}
	return nil
}

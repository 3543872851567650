package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sjperalta/dairydash-api/internal/metrics"
	"github.com/sjperalta/dairydash-api/pkg/logger"
)

// Job represents a background task
type Job func(ctx context.Context) error

type namedJob struct {
	name string
	run  Job
}

// Worker runs queued jobs on a fixed pool, fire-and-forget jobs under a
// semaphore, and periodic jobs on tickers. All of them stop on Shutdown.
type Worker struct {
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	queue         chan namedJob
	asyncSem      chan struct{}
	maxConcurrent int
	closeOnce     sync.Once
	stats         WorkerStats
	statsMu       sync.RWMutex
}

// WorkerStats holds statistics about the worker. CompletedJobs counts every
// finished job; FailedJobs is the failing subset.
type WorkerStats struct {
	ActiveJobs    int   `json:"active_jobs"`
	CompletedJobs int64 `json:"completed_jobs"`
	FailedJobs    int64 `json:"failed_jobs"`
	QueueLength   int   `json:"queue_length"`
	MaxConcurrent int   `json:"max_concurrent"`
}

// NewWorker creates a worker with numWorkers queue processors
func NewWorker(numWorkers int) *Worker {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	asyncLimit := numWorkers * 2
	if asyncLimit < 10 {
		asyncLimit = 10
	}

	w := &Worker{
		ctx:           ctx,
		cancel:        cancel,
		queue:         make(chan namedJob, 100),
		asyncSem:      make(chan struct{}, asyncLimit),
		maxConcurrent: asyncLimit,
	}

	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.process(i)
	}

	return w
}

// Enqueue adds a job to the pool queue. When the queue is full the job runs
// on the caller's goroutine.
func (w *Worker) Enqueue(name string, job Job) {
	nj := namedJob{name: name, run: job}
	select {
	case w.queue <- nj:
	default:
		logger.Warn("[Worker] Queue full, running job synchronously", slog.String("job", name))
		w.run("inline", nj)
	}
}

// EnqueueAsync runs a job in its own goroutine, bounded by the semaphore
func (w *Worker) EnqueueAsync(name string, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case w.asyncSem <- struct{}{}:
		case <-w.ctx.Done():
			return
		}
		defer func() { <-w.asyncSem }()
		w.run("async", namedJob{name: name, run: job})
	}()
}

func (w *Worker) process(workerID int) {
	defer w.wg.Done()
	source := fmt.Sprintf("worker-%d", workerID)
	for {
		select {
		case <-w.ctx.Done():
			return
		case job, ok := <-w.queue:
			if !ok {
				return
			}
			w.run(source, job)
		}
	}
}

// ScheduleEvery runs a job at fixed intervals. With immediate set the first
// run happens at startup instead of after the first interval.
func (w *Worker) ScheduleEvery(name string, interval time.Duration, immediate bool, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		nj := namedJob{name: name, run: job}
		if immediate {
			w.run("scheduler", nj)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run("scheduler", nj)
			}
		}
	}()
}

// run executes one job with panic recovery, stats and metrics
func (w *Worker) run(source string, job namedJob) {
	w.trackJobStart()
	start := time.Now()
	failed := false

	defer func() {
		if r := recover(); r != nil {
			logger.Error("[Worker] Job panic",
				slog.String("source", source), slog.String("job", job.name), slog.Any("panic", r))
			failed = true
		}
		w.trackJobEnd(failed)
		result := "ok"
		if failed {
			result = "error"
		}
		metrics.JobsTotal.WithLabelValues(job.name, result).Inc()
	}()

	if err := job.run(w.ctx); err != nil {
		failed = true
		logger.Error("[Worker] Job error",
			slog.String("source", source), slog.String("job", job.name), slog.String("error", err.Error()))
		return
	}
	logger.Debug("[Worker] Job completed",
		slog.String("source", source), slog.String("job", job.name), slog.Duration("elapsed", time.Since(start)))
}

// Shutdown stops accepting work and waits for running jobs
func (w *Worker) Shutdown() {
	w.closeOnce.Do(func() {
		w.cancel()
		close(w.queue)
	})
	w.wg.Wait()
}

// Context returns the worker's context for checking cancellation
func (w *Worker) Context() context.Context {
	return w.ctx
}

// GetStats returns the current worker statistics
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.QueueLength = len(w.queue)
	stats.MaxConcurrent = w.maxConcurrent
	return stats
}

func (w *Worker) trackJobStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

func (w *Worker) trackJobEnd(failed bool) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.CompletedJobs++
	if failed {
		w.stats.FailedJobs++
	}
}

package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/sjperalta/lendtrack-api/pkg/logger"
)

// Job represents a background task
type Job func(ctx context.Context) error

// Worker runs queued and scheduled background jobs. It exists for the
// maintenance tasks around the core service: the balance-audit sweep and
// the file-store backup snapshot.
type Worker struct {
	ctx    context.Context
	cancel context.CancelFunc
	queue  chan Job

	schedWg sync.WaitGroup
	procWg  sync.WaitGroup
}

// NewWorker creates a worker with n concurrent processors
func NewWorker(n int) *Worker {
	if n < 1 {
		n = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		ctx:    ctx,
		cancel: cancel,
		queue:  make(chan Job, 64),
	}

	for i := 0; i < n; i++ {
		w.procWg.Add(1)
		go w.process()
	}
	return w
}

// Enqueue adds a job to the queue; when the queue is full the job runs
// inline so it is never dropped
func (w *Worker) Enqueue(job Job) {
	select {
	case w.queue <- job:
	default:
		logger.Warn("[Worker] Queue full, running job synchronously")
		if err := job(w.ctx); err != nil {
			logger.Error("[Worker] Job error", "error", err)
		}
	}
}

// ScheduleEvery runs a job immediately and then on every tick until shutdown
func (w *Worker) ScheduleEvery(interval time.Duration, job Job) {
	w.schedWg.Add(1)
	go func() {
		defer w.schedWg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		w.Enqueue(job)
		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.Enqueue(job)
			}
		}
	}()
}

// Shutdown stops the schedulers first so nothing enqueues after the queue
// closes, then drains in-flight jobs
func (w *Worker) Shutdown() {
	w.cancel()
	w.schedWg.Wait()
	close(w.queue)
	w.procWg.Wait()
}

func (w *Worker) process() {
	defer w.procWg.Done()
	for job := range w.queue {
		if err := job(w.ctx); err != nil {
			logger.Error("[Worker] Job error", "error", err)
		}
	}
}

package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/metrics"
)

// AuditJob represents a single audit entry to be recorded.
type AuditJob struct {
	PropertyID int64
	Action     string
	Actor      uuid.UUID
	Detail     map[string]any
}

// AuditEnqueuer enqueues audit jobs.
type AuditEnqueuer interface {
	Enqueue(job *AuditJob)
}

// AuditWorker buffers audit entries and writes them via a single worker
// goroutine so transitions never block on the audit trail.
type AuditWorker struct {
	auditor domain.Auditor
	log     *logrus.Logger
	jobs    chan *AuditJob
}

// NewAuditWorker creates an AuditWorker with the given queue capacity.
func NewAuditWorker(auditor domain.Auditor, log *logrus.Logger, queueSize int) *AuditWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}

	return &AuditWorker{
		auditor: auditor,
		log:     log,
		jobs:    make(chan *AuditJob, queueSize),
	}
}

// Enqueue adds an audit job. Non-blocking; drops the job if the queue is full.
func (w *AuditWorker) Enqueue(job *AuditJob) {
	select {
	case w.jobs <- job:
		metrics.AuditQueueDepth.Set(float64(len(w.jobs)))
	default:
		w.log.WithField("action", job.Action).Warn("audit queue full, dropping entry")
	}
}

// Run processes audit jobs until the context is cancelled, then drains
// remaining jobs.
func (w *AuditWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()

			return
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

func (w *AuditWorker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.process(job)
		default:
			return
		}
	}
}

func (w *AuditWorker) process(job *AuditJob) {
	metrics.AuditQueueDepth.Set(float64(len(w.jobs)))

	if err := w.auditor.RecordAudit(
		context.Background(), job.PropertyID, job.Action, job.Actor, job.Detail,
	); err != nil {
		w.log.WithError(err).Warn("audit record failed")
	}
}

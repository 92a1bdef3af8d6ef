package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/capacita-api/pkg/jobs"
)

const jobTypeDocumentPrewarm = "document.prewarm"

type documentPrimer interface {
	Prime(ctx context.Context, recordID string) error
}

// PrewarmWorker renders freshly issued certificates into the document
// cache in the background so the first download is a cache hit.
type PrewarmWorker struct {
	queue *jobs.Queue
}

// NewPrewarmWorker builds the worker around an in-memory queue.
func NewPrewarmWorker(documents documentPrimer, workers int, logger *zap.Logger) *PrewarmWorker {
	handler := func(ctx context.Context, job jobs.Job) error {
		recordID, ok := job.Payload.(string)
		if !ok {
			return fmt.Errorf("unexpected prewarm payload %T", job.Payload)
		}
		return documents.Prime(ctx, recordID)
	}
	queue := jobs.NewQueue("document-prewarm", handler, jobs.QueueConfig{
		Workers: workers,
		Logger:  logger,
	})
	return &PrewarmWorker{queue: queue}
}

// Start launches the queue workers.
func (w *PrewarmWorker) Start(ctx context.Context) {
	w.queue.Start(ctx)
}

// Stop drains the workers.
func (w *PrewarmWorker) Stop() {
	w.queue.Stop()
}

// Warm enqueues a render for the record.
func (w *PrewarmWorker) Warm(recordID string) error {
	return w.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobTypeDocumentPrewarm,
		Payload: recordID,
	})
}

package documents

import (
	"context"
	"fmt"
	"time"

	"finance-backend/internal/queue"
	"finance-backend/internal/shared/telemetry"
)

// Job identifies one document analysis to run.
type Job struct {
	DocumentID string
	UserID     string
	RequestID  string
}

// Dispatcher schedules analysis after the document row is committed.
type Dispatcher interface {
	Dispatch(ctx context.Context, job Job) error
}

// Processor runs the analysis for a single document.
type Processor interface {
	Process(ctx context.Context, documentID string) error
}

// GoroutineDispatcher runs analysis in-process on a detached context.
type GoroutineDispatcher struct {
	Processor Processor
}

func (d GoroutineDispatcher) Dispatch(ctx context.Context, job Job) error {
	if d.Processor == nil {
		return fmt.Errorf("no analysis processor configured")
	}
	bg := WithRequestID(context.Background(), job.RequestID)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				telemetry.Error("document.analysis.panic", map[string]any{
					"request_id":  job.RequestID,
					"document_id": job.DocumentID,
					"panic":       fmt.Sprint(r),
				})
			}
		}()
		if err := d.Processor.Process(bg, job.DocumentID); err != nil {
			telemetry.Error("document.analysis.error", map[string]any{
				"request_id":  job.RequestID,
				"document_id": job.DocumentID,
				"error":       err.Error(),
			})
		}
	}()
	return nil
}

// QueueDispatcher sends jobs to the analysis queue for cmd/worker.
type QueueDispatcher struct {
	Queue queue.Client
	Now   func() time.Time
}

func (d QueueDispatcher) Dispatch(ctx context.Context, job Job) error {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	msg := queue.NewMessage(job.DocumentID, job.UserID, job.RequestID, now())
	if err := d.Queue.Send(ctx, msg); err != nil {
		return fmt.Errorf("send analysis message: %w", err)
	}
	telemetry.Info("document.analysis.enqueued", map[string]any{
		"request_id":  job.RequestID,
		"document_id": job.DocumentID,
	})
	return nil
}

// Command lambda-worker runs document analysis jobs delivered by an SQS event source mapping.
package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"finance-backend/internal/bootstrap"
	"finance-backend/internal/documents"
	"finance-backend/internal/shared/config"
	"finance-backend/internal/shared/metrics"
	"finance-backend/internal/shared/telemetry"
	"finance-backend/internal/workerproc"
)

var (
	once     sync.Once
	analyzer *documents.Analyzer
	initErr  error
)

func setup() {
	app, err := bootstrap.Build(config.Load())
	if err != nil {
		initErr = err
		return
	}
	analyzer = app.Analyzer
}

func handle(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	once.Do(setup)
	if initErr != nil {
		telemetry.Error("lambda.worker.bootstrap_failed", map[string]any{"error": initErr.Error()})
		return retryAll(event), initErr
	}
	return processBatch(ctx, analyzer, event), nil
}

// processBatch reports only retryable failures back to SQS; malformed messages are dropped.
func processBatch(ctx context.Context, processor documents.Processor, event events.SQSEvent) events.SQSEventResponse {
	var resp events.SQSEventResponse
	for _, record := range event.Records {
		metrics.IncAnalysisJobsReceived()
		err := workerproc.HandleMessage(ctx, processor, record.Body)
		switch {
		case err == nil:
			metrics.IncAnalysisJobsCompleted()
		case workerproc.Unrecoverable(err):
			telemetry.Error("lambda.worker.invalid_message", map[string]any{
				"sqs_message_id": record.MessageId,
				"error":          err.Error(),
			})
			metrics.IncAnalysisJobsDeletedUnrecoverable()
		default:
			telemetry.Error("lambda.worker.failed", map[string]any{
				"sqs_message_id": record.MessageId,
				"error":          err.Error(),
			})
			metrics.IncAnalysisJobsFailed()
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}
	return resp
}

func retryAll(event events.SQSEvent) events.SQSEventResponse {
	resp := events.SQSEventResponse{BatchItemFailures: make([]events.SQSBatchItemFailure, 0, len(event.Records))}
	for _, record := range event.Records {
		resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
	}
	return resp
}

func main() {
	lambda.Start(handle)
}

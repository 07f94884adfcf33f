package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"finance-backend/internal/documents"
	"finance-backend/internal/queue"
)

type fakeSQS struct {
	deleted []string
}

func (f *fakeSQS) ReceiveMessage(context.Context, *sqs.ReceiveMessageInput, ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *fakeSQS) DeleteMessage(_ context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type fakeProcessor struct {
	err error
}

func (f fakeProcessor) Process(context.Context, string) error {
	return f.err
}

func queuedMessage(t *testing.T, id, receipt string) sqstypes.Message {
	t.Helper()
	body, err := queue.EncodeMessage(queue.NewMessage("doc-"+id, "user-1", "req-"+id, time.Now()))
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	return sqstypes.Message{
		MessageId:     aws.String("m" + id),
		ReceiptHandle: aws.String(receipt),
		Body:          aws.String(string(body)),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	client := &fakeSQS{}
	handleMessage(context.Background(), client, "queue", fakeProcessor{}, queuedMessage(t, "1", "r1"))

	if len(client.deleted) != 1 || client.deleted[0] != "r1" {
		t.Fatalf("expected delete of r1, got %v", client.deleted)
	}
}

func TestWorkerKeepsMessageOnFailure(t *testing.T) {
	client := &fakeSQS{}
	handleMessage(context.Background(), client, "queue", fakeProcessor{err: errors.New("boom")}, queuedMessage(t, "2", "r2"))

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %v", client.deleted)
	}
}

func TestWorkerDeletesWhenDocumentGone(t *testing.T) {
	client := &fakeSQS{}
	handleMessage(context.Background(), client, "queue", fakeProcessor{err: documents.ErrNotFound}, queuedMessage(t, "3", "r3"))

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete for missing document, got %v", client.deleted)
	}
}

func TestWorkerDeletesUnrecoverableMessages(t *testing.T) {
	for _, body := range []string{"", "{bad-json", `{"userId":"user-1"}`} {
		client := &fakeSQS{}
		msg := sqstypes.Message{
			MessageId:     aws.String("m4"),
			ReceiptHandle: aws.String("r4"),
			Body:          aws.String(body),
		}
		handleMessage(context.Background(), client, "queue", fakeProcessor{}, msg)
		if len(client.deleted) != 1 {
			t.Fatalf("body %q: expected delete, got %v", body, client.deleted)
		}
	}
}

func TestReceiveCount(t *testing.T) {
	if got := receiveCount(sqstypes.Message{Attributes: map[string]string{"ApproximateReceiveCount": "3"}}); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := receiveCount(sqstypes.Message{}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

package documents

import (
	"context"
	"time"
)

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	// Get loads a document regardless of owner; used by background analysis.
	Get(ctx context.Context, documentID string) (Document, error)
	GetByID(ctx context.Context, userID, documentID string) (Document, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error)
	// CompleteAnalysis and FailAnalysis only move a pending document; otherwise ErrNotFound.
	CompleteAnalysis(ctx context.Context, documentID, summary string, insights []string, at time.Time) error
	FailAnalysis(ctx context.Context, documentID, reason string, at time.Time) error
	// Delete removes the row in a transaction. beforeCommit runs inside it; an error rolls the delete back.
	Delete(ctx context.Context, userID, documentID string, beforeCommit func(Document) error) error
	ExistsByStorageKey(ctx context.Context, storageKey string) (bool, error)
}

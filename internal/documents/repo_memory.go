package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of DocumentsRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document // documentID -> document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Document)}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.ID] = cloneDoc(doc)
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[documentID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return cloneDoc(doc), nil
}

// GetByID returns a document owned by userID. Documents of other users are reported as not found.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	doc, err := r.Get(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if doc.UserID != userID {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// ListByUser returns documents for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	offset = max(offset, 0)
	limit = max(limit, 0)

	r.mu.RLock()
	var docs []Document
	for _, doc := range r.data {
		if doc.UserID == userID {
			docs = append(docs, cloneDoc(doc))
		}
	}
	r.mu.RUnlock()

	if offset >= len(docs) {
		return []Document{}, nil
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	end := len(docs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return docs[offset:end], nil
}

func (r *MemoryRepo) CompleteAnalysis(ctx context.Context, documentID, summary string, insights []string, at time.Time) error {
	return r.finish(ctx, documentID, func(doc *Document) {
		doc.Status = StatusCompleted
		doc.Summary = summary
		doc.Insights = append([]string(nil), insights...)
		doc.AnalyzedAt = &at
	})
}

func (r *MemoryRepo) FailAnalysis(ctx context.Context, documentID, reason string, at time.Time) error {
	return r.finish(ctx, documentID, func(doc *Document) {
		doc.Status = StatusFailed
		doc.AnalysisError = reason
		doc.AnalyzedAt = &at
	})
}

func (r *MemoryRepo) finish(ctx context.Context, documentID string, apply func(*Document)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[documentID]
	if !ok || doc.Status != StatusPending {
		return ErrNotFound
	}
	apply(&doc)
	r.data[documentID] = doc
	return nil
}

// Delete holds the write lock while beforeCommit runs so the row and file disappear together.
func (r *MemoryRepo) Delete(ctx context.Context, userID, documentID string, beforeCommit func(Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[documentID]
	if !ok || doc.UserID != userID {
		return ErrNotFound
	}
	if beforeCommit != nil {
		if err := beforeCommit(cloneDoc(doc)); err != nil {
			return err
		}
	}
	delete(r.data, documentID)
	return nil
}

func (r *MemoryRepo) ExistsByStorageKey(ctx context.Context, storageKey string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, doc := range r.data {
		if doc.StorageKey == storageKey {
			return true, nil
		}
	}
	return false, nil
}

func cloneDoc(doc Document) Document {
	doc.Insights = append([]string(nil), doc.Insights...)
	if doc.AnalyzedAt != nil {
		at := *doc.AnalyzedAt
		doc.AnalyzedAt = &at
	}
	return doc
}

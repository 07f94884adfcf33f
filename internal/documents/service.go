package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"finance-backend/internal/extract"
	"finance-backend/internal/shared/storage/object"
	"finance-backend/internal/shared/telemetry"
	"finance-backend/internal/shared/util"
)

const defaultListLimit = 50

// Service coordinates uploads, lookups and deletes for documents.
type Service struct {
	Store         object.ObjectStore
	Repo          DocumentsRepo
	Dispatcher    Dispatcher
	MaxUploadSize int64
	Now           func() time.Time
}

// NewService constructs a document service.
func NewService(store object.ObjectStore, repo DocumentsRepo, dispatcher Dispatcher, maxUploadSize int64) *Service {
	return &Service{
		Store:         store,
		Repo:          repo,
		Dispatcher:    dispatcher,
		MaxUploadSize: maxUploadSize,
		Now:           time.Now,
	}
}

// FileTypeFor maps a file name to a supported document type by extension.
func FileTypeFor(fileName string) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return extract.TypePDF, nil
	case ".xlsx":
		return extract.TypeXLSX, nil
	case ".csv":
		return extract.TypeCSV, nil
	default:
		return "", ErrUnsupportedType
	}
}

// Upload stores the file, records a pending document and dispatches its analysis.
// size is the declared size; -1 when unknown.
func (s *Service) Upload(ctx context.Context, userID, fileName string, size int64, r io.Reader) (Document, error) {
	if strings.TrimSpace(userID) == "" {
		return Document{}, ErrInvalidInput
	}
	if _, err := util.SanitizeFileName(fileName); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fileType, err := FileTypeFor(fileName)
	if err != nil {
		return Document{}, err
	}
	if s.MaxUploadSize > 0 && size > s.MaxUploadSize {
		return Document{}, ErrTooLarge
	}
	if s.MaxUploadSize > 0 {
		r = io.LimitReader(r, s.MaxUploadSize+1)
	}

	storageKey, written, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Document{}, fmt.Errorf("%w: save: %v", ErrStorage, err)
	}
	if s.MaxUploadSize > 0 && written > s.MaxUploadSize {
		s.discard(ctx, storageKey)
		return Document{}, ErrTooLarge
	}
	if !mimeMatches(fileType, mimeType) {
		s.discard(ctx, storageKey)
		return Document{}, fmt.Errorf("%w: %s is %s", ErrContentMismatch, fileType, mimeType)
	}

	doc := Document{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       filepath.Base(fileName),
		StorageKey: storageKey,
		FileType:   fileType,
		MimeType:   mimeType,
		SizeBytes:  written,
		UploadedAt: s.now(),
		Status:     StatusPending,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		s.discard(ctx, storageKey)
		return Document{}, err
	}

	telemetry.Info("document.uploaded", map[string]any{
		"request_id":  RequestIDFromContext(ctx),
		"document_id": doc.ID,
		"user_id":     userID,
		"file_type":   fileType,
		"size_bytes":  written,
	})

	if s.Dispatcher != nil {
		job := Job{DocumentID: doc.ID, UserID: userID, RequestID: RequestIDFromContext(ctx)}
		if err := s.Dispatcher.Dispatch(ctx, job); err != nil {
			telemetry.Error("document.dispatch.failed", map[string]any{
				"request_id":  job.RequestID,
				"document_id": doc.ID,
				"error":       err.Error(),
			})
			reason := "analysis could not be scheduled"
			if failErr := s.Repo.FailAnalysis(ctx, doc.ID, reason, s.now()); failErr == nil {
				doc.Status = StatusFailed
				doc.AnalysisError = reason
			}
		}
	}
	return doc, nil
}

func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	return s.Repo.GetByID(ctx, userID, documentID)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.Repo.ListByUser(ctx, userID, limit, max(offset, 0))
}

// Delete removes the row and its stored file together. A missing file is tolerated; any
// other storage failure rolls the row delete back.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	return s.Repo.Delete(ctx, userID, documentID, func(doc Document) error {
		err := s.Store.Delete(ctx, doc.StorageKey)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, object.ErrNotFound):
			telemetry.Warn("document.delete.file_missing", map[string]any{
				"request_id":  RequestIDFromContext(ctx),
				"document_id": doc.ID,
				"storage_key": doc.StorageKey,
			})
			return nil
		default:
			return fmt.Errorf("%w: delete %s: %v", ErrStorage, doc.StorageKey, err)
		}
	})
}

func (s *Service) discard(ctx context.Context, storageKey string) {
	if err := s.Store.Delete(ctx, storageKey); err != nil && !errors.Is(err, object.ErrNotFound) {
		telemetry.Warn("document.discard.failed", map[string]any{
			"storage_key": storageKey,
			"error":       err.Error(),
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func mimeMatches(fileType, mimeType string) bool {
	base := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	switch fileType {
	case extract.TypePDF:
		return base == "application/pdf"
	case extract.TypeXLSX:
		return base == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" || base == "application/zip"
	case extract.TypeCSV:
		return strings.HasPrefix(base, "text/")
	default:
		return false
	}
}

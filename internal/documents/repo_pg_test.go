package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var documentColumns = []string{
	"id", "user_id", "name", "storage_key", "file_type", "mime_type", "size_bytes", "uploaded_at",
	"analysis_status", "summary", "insights", "analysis_error", "analyzed_at",
}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func pendingRow(uploaded time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(documentColumns).AddRow(
		"doc-1", "user-1", "holdings.csv", "abc/1_holdings.csv", "csv", "text/csv", 42, uploaded,
		StatusPending, nil, nil, nil, nil,
	)
}

func TestPGRepoGetByIDScansCompletedDocument(t *testing.T) {
	repo, mock := newMockRepo(t)
	uploaded := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	analyzed := uploaded.Add(time.Minute)

	mock.ExpectQuery("FROM documents").WithArgs("doc-1", "user-1").WillReturnRows(
		sqlmock.NewRows(documentColumns).AddRow(
			"doc-1", "user-1", "holdings.csv", "abc/1_holdings.csv", "csv", "text/csv", 42, uploaded,
			StatusCompleted, "Two holdings.", []byte(`["Diversify","Add debt"]`), nil, analyzed,
		))
	mock.ExpectQuery("FROM documents").WithArgs("doc-2", "user-1").WillReturnRows(sqlmock.NewRows(documentColumns))

	doc, err := repo.GetByID(context.Background(), "user-1", "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.Status != StatusCompleted || doc.Summary != "Two holdings." || len(doc.Insights) != 2 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if doc.AnalyzedAt == nil || !doc.AnalyzedAt.Equal(analyzed) {
		t.Fatalf("unexpected analyzed_at %v", doc.AnalyzedAt)
	}
	if _, err := repo.GetByID(context.Background(), "user-1", "doc-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCompleteAnalysisOnlyFromPending(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", "Summary", []byte(`["a"]`), at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", "Summary", []byte(`[]`), at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.CompleteAnalysis(context.Background(), "doc-1", "Summary", []string{"a"}, at); err != nil {
		t.Fatalf("CompleteAnalysis: %v", err)
	}
	if err := repo.CompleteAnalysis(context.Background(), "doc-1", "Summary", nil, at); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-pending document, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteCommitsAfterHook(t *testing.T) {
	repo, mock := newMockRepo(t)
	uploaded := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs("doc-1", "user-1").WillReturnRows(pendingRow(uploaded))
	mock.ExpectExec("DELETE FROM documents").WithArgs("doc-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var hookKey string
	err := repo.Delete(context.Background(), "user-1", "doc-1", func(doc Document) error {
		hookKey = doc.StorageKey
		return nil
	})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if hookKey != "abc/1_holdings.csv" {
		t.Fatalf("hook saw key %q", hookKey)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteRollsBackWhenHookFails(t *testing.T) {
	repo, mock := newMockRepo(t)
	hookErr := errors.New("storage down")

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs("doc-1", "user-1").WillReturnRows(pendingRow(time.Now().UTC()))
	mock.ExpectExec("DELETE FROM documents").WithArgs("doc-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "user-1", "doc-1", func(Document) error { return hookErr })
	if !errors.Is(err, hookErr) {
		t.Fatalf("expected hook error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs("doc-9", "user-1").WillReturnRows(sqlmock.NewRows(documentColumns))
	mock.ExpectRollback()

	called := false
	err := repo.Delete(context.Background(), "user-1", "doc-9", func(Document) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrNotFound) || called {
		t.Fatalf("expected ErrNotFound without hook, got %v called=%v", err, called)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

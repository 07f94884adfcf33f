package investments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoReplaceUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	p := Portfolio{
		UserID:     "user-1",
		Holdings:   []Investment{{ID: "inv_1", Name: "PPF", Value: 100}},
		SourceName: "holdings.csv",
		ImportedAt: time.Now().UTC(),
	}
	mock.ExpectExec("INSERT INTO investment_holdings").
		WithArgs(p.UserID, sqlmock.AnyArg(), p.SourceName, p.ImportedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Replace(context.Background(), p); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}
	importedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery("SELECT user_id, holdings, source_name, imported_at").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "holdings", "source_name", "imported_at"}).
			AddRow("user-1", []byte(`[{"id":"inv_1","name":"PPF","type":"Provident Fund","value":100}]`), "h.csv", importedAt))
	mock.ExpectQuery("SELECT user_id, holdings, source_name, imported_at").
		WithArgs("user-2").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "holdings", "source_name", "imported_at"}))

	p, err := repo.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(p.Holdings) != 1 || p.Holdings[0].Type != TypeProvidentFund || !p.ImportedAt.Equal(importedAt) {
		t.Fatalf("unexpected portfolio %+v", p)
	}
	if _, err := repo.Get(context.Background(), "user-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

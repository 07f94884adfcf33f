package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finance-backend/internal/shared/storage/db"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, name, storage_key, file_type, mime_type, size_bytes, uploaded_at,
    analysis_status, summary, insights, analysis_error, analyzed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts a new pending document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    user_id,
    name,
    storage_key,
    file_type,
    mime_type,
    size_bytes,
    uploaded_at,
    analysis_status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	status := doc.Status
	if status == "" {
		status = StatusPending
	}
	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.Name,
		doc.StorageKey,
		doc.FileType,
		doc.MimeType,
		doc.SizeBytes,
		doc.UploadedAt,
		status,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, documentID string) (Document, error) {
	query := `SELECT ` + selectColumns + `
FROM documents
WHERE id = $1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return doc, err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	query := `SELECT ` + selectColumns + `
FROM documents
WHERE id = $1 AND user_id = $2`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return doc, err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	query := `SELECT ` + selectColumns + `
FROM documents
WHERE user_id = $1
ORDER BY uploaded_at DESC
OFFSET $2`
	args := []any{userID, max(offset, 0)}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *PGRepo) CompleteAnalysis(ctx context.Context, documentID, summary string, insights []string, at time.Time) error {
	const query = `
UPDATE documents
SET analysis_status = 'completed', summary = $2, insights = $3, analysis_error = NULL, analyzed_at = $4
WHERE id = $1 AND analysis_status = 'pending'`
	if insights == nil {
		insights = []string{}
	}
	payload, err := json.Marshal(insights)
	if err != nil {
		return fmt.Errorf("encode insights: %w", err)
	}
	res, err := r.DB.ExecContext(ctx, query, documentID, summary, payload, at)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func (r *PGRepo) FailAnalysis(ctx context.Context, documentID, reason string, at time.Time) error {
	const query = `
UPDATE documents
SET analysis_status = 'failed', analysis_error = $2, analyzed_at = $3
WHERE id = $1 AND analysis_status = 'pending'`
	res, err := r.DB.ExecContext(ctx, query, documentID, reason, at)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

// Delete locks the row, deletes it and runs beforeCommit before the transaction commits.
func (r *PGRepo) Delete(ctx context.Context, userID, documentID string, beforeCommit func(Document) error) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		query := `SELECT ` + selectColumns + `
FROM documents
WHERE id = $1 AND user_id = $2
FOR UPDATE`
		doc, err := scanDocument(tx.QueryRowContext(ctx, query, documentID, userID))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, documentID); err != nil {
			return err
		}
		if beforeCommit != nil {
			return beforeCommit(doc)
		}
		return nil
	})
}

func (r *PGRepo) ExistsByStorageKey(ctx context.Context, storageKey string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE storage_key = $1)`, storageKey).Scan(&exists)
	return exists, err
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var summary sql.NullString
	var insights []byte
	var analysisError sql.NullString
	var analyzedAt sql.NullTime
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Name,
		&doc.StorageKey,
		&doc.FileType,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.UploadedAt,
		&doc.Status,
		&summary,
		&insights,
		&analysisError,
		&analyzedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if summary.Valid {
		doc.Summary = summary.String
	}
	if len(insights) > 0 {
		if err := json.Unmarshal(insights, &doc.Insights); err != nil {
			return Document{}, fmt.Errorf("decode insights: %w", err)
		}
	}
	if analysisError.Valid {
		doc.AnalysisError = analysisError.String
	}
	if analyzedAt.Valid {
		doc.AnalyzedAt = &analyzedAt.Time
	}
	return doc, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

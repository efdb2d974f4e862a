package documents

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres. Duplicate content is rejected by the
// documents_customer_fingerprint_key index, so a race between two identical
// concurrent uploads resolves to exactly one stored row.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    customer_id,
    filename,
    extension,
    fingerprint,
    size_bytes,
    content_type,
    storage_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var contentType sql.NullString
	if doc.ContentType != "" {
		contentType = sql.NullString{String: doc.ContentType, Valid: true}
	}
	var storageKey sql.NullString
	if doc.StorageKey != "" {
		storageKey = sql.NullString{String: doc.StorageKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.CustomerID,
		doc.Filename,
		doc.Extension,
		doc.Fingerprint,
		doc.SizeBytes,
		contentType,
		storageKey,
		doc.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "documents_customer_fingerprint_key") {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID fetches a document by ID for a customer. Documents owned by other
// customers are indistinguishable from absent ones.
func (r *PGRepo) GetByID(ctx context.Context, customerID, documentID string) (Document, error) {
	const query = `
SELECT id, customer_id, filename, extension, fingerprint, size_bytes, content_type, storage_key, created_at
FROM documents
WHERE customer_id = $1 AND id = $2
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, customerID, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByCustomer lists one page of documents, newest first, with the total count.
func (r *PGRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]Document, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	const countQuery = `SELECT COUNT(*) FROM documents WHERE customer_id = $1`
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, customerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const pageQuery = `
SELECT id, customer_id, filename, extension, fingerprint, size_bytes, content_type, storage_key, created_at
FROM documents
WHERE customer_id = $1
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, pageQuery, customerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, doc)
	}
	return out, total, rows.Err()
}

// Delete removes a document owned by the customer and returns the deleted row.
func (r *PGRepo) Delete(ctx context.Context, customerID, documentID string) (Document, error) {
	const query = `
DELETE FROM documents
WHERE customer_id = $1 AND id = $2
RETURNING id, customer_id, filename, extension, fingerprint, size_bytes, content_type, storage_key, created_at`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, customerID, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var contentType sql.NullString
	var storageKey sql.NullString
	err := row.Scan(
		&doc.ID,
		&doc.CustomerID,
		&doc.Filename,
		&doc.Extension,
		&doc.Fingerprint,
		&doc.SizeBytes,
		&contentType,
		&storageKey,
		&doc.CreatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if contentType.Valid {
		doc.ContentType = contentType.String
	}
	if storageKey.Valid {
		doc.StorageKey = storageKey.String
	}
	return doc, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || strings.Contains(pgErr.ConstraintName, constraint)
}

var _ Repo = (*PGRepo)(nil)
